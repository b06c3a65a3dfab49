// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

// Override adjusts the computed scale of a face before it is applied.
type Override func(scale float64) float64

// Squared applies the scale twice. Legacy display fonts were tuned against
// this size and keep it for visual compatibility.
func Squared(scale float64) float64 {
	return scale * scale
}

// Factor returns an Override that multiplies the scale by f.
func Factor(f float64) Override {
	return func(scale float64) float64 {
		return scale * f
	}
}

// Overrides maps a font identity to its scale override.
type Overrides map[string]Override

// DefaultOverrides returns the built-in override table.
func DefaultOverrides() Overrides {
	return Overrides{
		"Renogare": Squared,
	}
}

// Apply returns scale adjusted by the override registered for identity,
// or scale unchanged if there is none.
func (o Overrides) Apply(identity string, scale float64) float64 {
	if fn, ok := o[identity]; ok && fn != nil {
		return fn(scale)
	}
	return scale
}
