// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture provides an in-memory gpucontext.TextureCreator.
//
// Memory stands in for a GPU device when the host does not supply one:
// headless tools, the demo command, and tests. Textures keep their RGBA
// pixels in a byte slice and track whether they have been destroyed, so
// leaks and double releases are observable through Memory.Stats.
package texture
