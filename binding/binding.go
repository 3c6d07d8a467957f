// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binding is the single source of truth for uniform group numbers,
// binding indices, and vertex attribute locations shared by the shader
// assemblers and both rendering backends. Reordering a uniform field or
// moving an attribute is a change here and nowhere else.
package binding

// Uniform bind groups. Group numbers are shared verbatim between the
// GLSL and WGSL assemblers and the two backends.
const (
	// ProjectionGroup holds the per-frame / per-draw transform block.
	ProjectionGroup = 0

	// MaterialGroup holds the material block (color or PBR) and the
	// light block for lit variants.
	MaterialGroup = 1
)

// Bindings within each group.
const (
	ProjectionBinding = 0

	MaterialBinding = 0
	LightBinding    = 1
	EnvMapBinding   = 2
	EnvSamplerBinding = 3
)

// Per-vertex attribute locations. Locations are assigned per geometry
// kind; kinds never mix in one draw, so locations may overlap between
// kinds but never within one.
const (
	PositionLoc = 0

	// Filled-triangle kinds only.
	NormalLoc = 1

	// Edge kinds: sentinel-encoded color.
	EdgeColorLoc = 1

	// Optional-edge kind.
	Control1Loc  = 1
	Control2Loc  = 2
	DirectionLoc = 3
	OptColorLoc  = 4
)

// Per-instance attribute locations. Kept in a high range so they never
// collide with any per-vertex location.
const (
	InstanceModel0Loc = 10
	InstanceModel1Loc = 11
	InstanceModel2Loc = 12
	InstanceModel3Loc = 13

	InstanceColorLoc     = 14
	InstanceEdgeColorLoc = 15

	// Pick variants never carry instance colors, so the identifier
	// reuses the color slot. Every location stays below 16, the
	// baseline attribute count both backends guarantee.
	InstancePickIDLoc = InstanceColorLoc
)

// Canonical names used for GLSL uniform and attribute lookup. The GL
// backend resolves locations by these names; the GLSL assembler declares
// them; neither side hardcodes a string of its own.
const (
	NameProjectionBlock = "Projection"
	NameMaterialBlock   = "Material"
	NameLightBlock      = "Light"
	NameEnvMap          = "envMap"

	NamePosition  = "position"
	NameNormal    = "normal"
	NameColor     = "color"
	NameControl1  = "control1"
	NameControl2  = "control2"
	NameDirection = "direction"

	NameInstanceModel     = "instanceModel"
	NameInstanceColor     = "instanceColor"
	NameInstanceEdgeColor = "instanceEdgeColor"
	NameInstancePickID    = "instancePickId"
)
