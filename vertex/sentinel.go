// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vertex

import "cogentcore.org/core/math32"

// The sentinel convention overloads the first channel of a color
// attribute: a value below -1 selects the edge color, a value in
// [-1, 0) selects the base (or instance) color, and a non-negative
// value means the triple is a literal color. The cost is that no
// literal color can have a red channel below 0, which cannot occur for
// real colors anyway. Geometry preprocessors bake these triples into
// vertex and instance buffers; both shader dialects decode them with
// the identical thresholds.
var (
	// SentinelBase marks a vertex as taking the base color.
	SentinelBase = math32.Vec3(-1, -1, -1)

	// SentinelEdge marks a vertex as taking the edge color.
	SentinelEdge = math32.Vec3(-2, -2, -2)
)

// ColorSource is the decoded meaning of a sentinel-encoded color.
// Decoding happens once, immediately on input; downstream logic never
// re-inspects the raw channel value.
type ColorSource int32

const (
	// LiteralSource means the attribute carries the color verbatim.
	LiteralSource ColorSource = iota

	// BaseSource selects the base color of the bound material, or the
	// instance color when instance colors are in effect.
	BaseSource

	// EdgeSource selects the edge color likewise.
	EdgeSource
)

// DecodeSentinel classifies a sentinel-encoded color attribute.
func DecodeSentinel(c math32.Vector3) ColorSource {
	switch {
	case c.X < -1:
		return EdgeSource
	case c.X < 0:
		return BaseSource
	default:
		return LiteralSource
	}
}

// ResolveSentinel resolves a sentinel-encoded color against a
// base/edge pair. The pair may come from the per-draw material
// uniforms or from per-instance attributes; resolution is identical
// either way, which is what keeps the instanced and non-instanced
// variants visually equivalent.
func ResolveSentinel(c math32.Vector3, base, edge math32.Vector4) math32.Vector4 {
	switch DecodeSentinel(c) {
	case EdgeSource:
		return edge
	case BaseSource:
		return base
	default:
		return math32.Vec4(c.X, c.Y, c.Z, 1)
	}
}
