// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vertex defines the per-vertex and per-instance attribute
// layouts shared by both backends, and the sentinel convention that
// lets one color attribute carry three logical meanings.
package vertex

import "github.com/goldraw/renderer/binding"

// Kind enumerates the geometry kinds, each with its own attribute
// layout and stride.
type Kind int32

const (
	// MeshKind is filled triangles: position and normal.
	MeshKind Kind = iota

	// EdgeKind is hard edge lines: position and sentinel color.
	// Hard edges are always visible.
	EdgeKind

	// OptionalEdgeKind is conditionally visible edge lines: position,
	// two control points, the paired endpoint, and sentinel color.
	OptionalEdgeKind

	// PickKind is triangles rendered into the picking target:
	// position only.
	PickKind
)

// Attribute describes one vertex attribute slot: its canonical name
// (used for GLSL location lookup), its location (used for layout
// declarations), component count, and byte offset within the stride.
type Attribute struct {
	Name       string
	Location   uint32
	Components int
	Offset     int
}

const f32 = 4

var kindAttributes = map[Kind][]Attribute{
	MeshKind: {
		{binding.NamePosition, binding.PositionLoc, 3, 0},
		{binding.NameNormal, binding.NormalLoc, 3, 3 * f32},
	},
	EdgeKind: {
		{binding.NamePosition, binding.PositionLoc, 3, 0},
		{binding.NameColor, binding.EdgeColorLoc, 3, 3 * f32},
	},
	OptionalEdgeKind: {
		{binding.NamePosition, binding.PositionLoc, 3, 0},
		{binding.NameControl1, binding.Control1Loc, 3, 3 * f32},
		{binding.NameControl2, binding.Control2Loc, 3, 6 * f32},
		{binding.NameDirection, binding.DirectionLoc, 3, 9 * f32},
		{binding.NameColor, binding.OptColorLoc, 3, 12 * f32},
	},
	PickKind: {
		{binding.NamePosition, binding.PositionLoc, 3, 0},
	},
}

// Attributes returns the attribute slots for this kind, in declaration
// order.
func (k Kind) Attributes() []Attribute {
	return kindAttributes[k]
}

// Stride returns the per-vertex byte stride for this kind.
func (k Kind) Stride() int {
	at := kindAttributes[k]
	last := at[len(at)-1]
	return last.Offset + last.Components*f32
}

// HasNormals reports whether the kind carries a normal attribute and
// can therefore be lit.
func (k Kind) HasNormals() bool {
	return k == MeshKind
}

func (k Kind) String() string {
	switch k {
	case MeshKind:
		return "mesh"
	case EdgeKind:
		return "edge"
	case OptionalEdgeKind:
		return "optionaledge"
	case PickKind:
		return "pick"
	}
	return "invalid"
}
