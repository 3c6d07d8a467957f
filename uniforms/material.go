// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

import "cogentcore.org/core/math32"

// ColorData is the material block for the unlit and Blinn-Phong paths:
// the base color, the complementing edge color, and the flag selecting
// per-instance colors over these two. Exactly one material block is
// bound per draw.
type ColorData struct {
	// Color is the base color applied where the vertex color sentinel
	// selects the base source.
	Color math32.Vector4

	// EdgeColor is applied where the sentinel selects the edge source.
	EdgeColor math32.Vector4

	// UseInstanceColor switches color resolution to the per-instance
	// attributes; only meaningful for instanced variants.
	UseInstanceColor bool
}

// NewColorData returns a ColorData with the reference defaults:
// opaque black base, gray edges, instance colors enabled.
func NewColorData() *ColorData {
	return &ColorData{
		Color:            math32.Vec4(0, 0, 0, 1),
		EdgeColor:        math32.Vec4(0.4, 0.4, 0.4, 1),
		UseInstanceColor: true,
	}
}

// PBRMaterialData is the material block for the physically-based path.
type PBRMaterialData struct {
	// Albedo is the diffuse base color.
	Albedo math32.Vector4

	// Emissive is added independent of lighting.
	Emissive math32.Vector4

	Roughness float32
	Metalness float32
}

// NewPBRMaterialData returns a PBRMaterialData with the reference
// defaults.
func NewPBRMaterialData() *PBRMaterialData {
	return &PBRMaterialData{
		Albedo:    math32.Vec4(0, 0, 0, 1),
		Emissive:  math32.Vec4(0, 0, 0, 0),
		Roughness: 0.3,
		Metalness: 0,
	}
}

// LightData is the directional light block for the lit variants.
type LightData struct {
	// Color of the single direct light.
	Color math32.Vector4

	// Direction is the view-space surface-to-light vector the shaders
	// consume; hosts transform the configured world direction with
	// [lighting.LightInView] before packing. W is unused but uploaded
	// to keep the field on a 16-byte boundary.
	Direction math32.Vector4
}

// NewLightData returns the reference default light: white, coming from
// above and behind the camera.
func NewLightData() *LightData {
	dir := math32.Vec3(0, -0.5, 0.7).Normal()
	return &LightData{
		Color:     math32.Vec4(1, 1, 1, 1),
		Direction: math32.Vec4(dir.X, dir.Y, dir.Z, 1),
	}
}
