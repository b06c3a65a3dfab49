// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/flopp/go-findfont"
)

// Asset is a font file known to an AssetSource. Data is read lazily so
// listing a directory does not load every font.
type Asset struct {
	// Path is the virtual path, unique within its source.
	Path string

	// Format is the lower-case extension without the dot.
	Format string

	// Data returns the file contents.
	Data func() ([]byte, error)
}

// Stem returns the asset's base name without extension.
func (a Asset) Stem() string {
	return Stem(a.Path)
}

// AssetSource looks up font files by virtual path.
type AssetSource interface {
	// TryGet returns the asset at virtualPath, if present.
	TryGet(virtualPath string) (Asset, bool)

	// List returns every asset with an allowed format under prefix,
	// sorted by path.
	List(prefix string) []Asset
}

// FSSource serves assets from an fs.FS. Virtual paths are slash-separated
// and relative to the root of the file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource returns a source rooted at the directory dir.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// TryGet implements AssetSource.
func (s *FSSource) TryGet(virtualPath string) (Asset, bool) {
	p := path.Clean(strings.TrimPrefix(filepath.ToSlash(virtualPath), "/"))
	info, err := fs.Stat(s.fsys, p)
	if err != nil || info.IsDir() {
		return Asset{}, false
	}
	return s.asset(p), true
}

// List implements AssetSource.
func (s *FSSource) List(prefix string) []Asset {
	root := path.Clean(strings.TrimPrefix(filepath.ToSlash(prefix), "/"))
	if root == "" {
		root = "."
	}
	var assets []Asset
	_ = fs.WalkDir(s.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Missing or unreadable directories contribute nothing.
			return nil
		}
		if d.IsDir() || !IsAllowedFormat(FormatOf(p)) {
			return nil
		}
		assets = append(assets, s.asset(p))
		return nil
	})
	slices.SortFunc(assets, func(a, b Asset) int { return strings.Compare(a.Path, b.Path) })
	return assets
}

func (s *FSSource) asset(p string) Asset {
	fsys := s.fsys
	return Asset{
		Path:   p,
		Format: FormatOf(p),
		Data: func() ([]byte, error) {
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return nil, fmt.Errorf("face: read %s: %w", p, err)
			}
			return data, nil
		},
	}
}

// SystemSource serves fonts installed on the host, located through the
// platform font directories. Virtual paths are file names such as
// "DejaVuSans.ttf"; List returns absolute paths.
type SystemSource struct{}

// TryGet implements AssetSource. virtualPath may be a bare file name or a
// file name without extension.
func (SystemSource) TryGet(virtualPath string) (Asset, bool) {
	p, err := findfont.Find(virtualPath)
	if err != nil || p == "" {
		return Asset{}, false
	}
	return fileAsset(p), true
}

// List implements AssetSource. A non-empty prefix keeps only fonts whose
// base name starts with it, case-insensitively.
func (SystemSource) List(prefix string) []Asset {
	prefix = strings.ToLower(prefix)
	var assets []Asset
	for _, p := range findfont.List() {
		if !IsAllowedFormat(FormatOf(p)) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(filepath.Base(p)), prefix) {
			continue
		}
		assets = append(assets, fileAsset(p))
	}
	slices.SortFunc(assets, func(a, b Asset) int { return strings.Compare(a.Path, b.Path) })
	return assets
}

func fileAsset(p string) Asset {
	return Asset{
		Path:   p,
		Format: FormatOf(p),
		Data: func() ([]byte, error) {
			// #nosec G304 -- path comes from the system font directories
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("face: read %s: %w", p, err)
			}
			return data, nil
		},
	}
}

// BytesAsset wraps in-memory font data as an Asset.
func BytesAsset(virtualPath string, data []byte) Asset {
	return Asset{
		Path:   virtualPath,
		Format: FormatOf(virtualPath),
		Data:   func() ([]byte, error) { return data, nil },
	}
}
