// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a generic build-once cache.
//
// Cache[K, V] maps keys to values that are expensive to produce (parsed
// fonts, for example) and are kept for the lifetime of the process or
// until explicitly deleted. There is no eviction.
//
//	fonts := cache.New[string, *Font]()
//	f, err := fonts.GetOrCreate("Assets/FontFile/a.ttf", func() (*Font, error) {
//	    return parse(data)
//	})
//
// # Thread Safety
//
// Cache is safe for concurrent use. The create function passed to
// GetOrCreate runs under the cache lock, so a value is never built twice
// for the same key.
package cache
