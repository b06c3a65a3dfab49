// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"fmt"

	"github.com/gogpu/lazyglyph/internal/cache"
)

// Resolver turns font assets into Handles. Each virtual path is parsed at
// most once; the Handle is kept for the lifetime of the Resolver.
//
// Resolver is safe for concurrent use. The Handles it returns are not.
type Resolver struct {
	handles *cache.Cache[string, *Handle]
	config  resolverConfig
}

// resolverConfig holds configuration for a Resolver.
type resolverConfig struct {
	parserName string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*resolverConfig)

// WithParser selects the font parser backend by registered name.
// Unknown names fall back to DefaultParser.
func WithParser(name string) ResolverOption {
	return func(c *resolverConfig) {
		c.parserName = name
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	config := resolverConfig{parserName: DefaultParser}
	for _, opt := range opts {
		opt(&config)
	}
	return &Resolver{
		handles: cache.New[string, *Handle](),
		config:  config,
	}
}

// Open returns the Handle for asset, parsing it on first use.
// Failures are reported as *UnresolvedFontError and are not cached, so a
// corrected file can be opened later.
func (r *Resolver) Open(asset Asset) (*Handle, error) {
	format := asset.Format
	if format == "" {
		format = FormatOf(asset.Path)
	}
	if !IsAllowedFormat(format) {
		return nil, &UnresolvedFontError{Path: asset.Path, Format: format, Err: ErrUnsupportedFormat}
	}
	if asset.Data == nil {
		return nil, &UnresolvedFontError{Path: asset.Path, Format: format, Err: ErrAssetNotFound}
	}

	return r.handles.GetOrCreate(asset.Path, func() (*Handle, error) {
		data, err := asset.Data()
		if err != nil {
			return nil, &UnresolvedFontError{Path: asset.Path, Format: format, Err: err}
		}
		parsed, err := parse(getParser(r.config.parserName), data)
		if err != nil {
			return nil, &UnresolvedFontError{Path: asset.Path, Format: format, Err: err}
		}
		return NewHandle(asset.Path, parsed), nil
	})
}

// parse runs the parser and converts a backend panic into an error.
func parse(p FontParser, data []byte) (pf ParsedFont, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pf, err = nil, fmt.Errorf("face: parser panic: %v", rec)
		}
	}()
	return p.Parse(data)
}

// Resolve opens asset and sizes the Handle for identity at targetSize.
// The caller must own the Handle's size state, see Handle.
func (r *Resolver) Resolve(asset Asset, identity string, targetSize float64, overrides Overrides) (*Handle, error) {
	h, err := r.Open(asset)
	if err != nil {
		return nil, err
	}
	h.Configure(identity, targetSize, overrides)
	return h, nil
}

// Cached reports the number of parsed fonts held by the Resolver.
func (r *Resolver) Cached() int {
	return r.handles.Len()
}
