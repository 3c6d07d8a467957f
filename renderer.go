// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package renderer renders brick-built models through one of two
// backends: versioned GLSL over OpenGL (package glrender) and WGSL
// over WebGPU (package wgpurender). The shared subpackages define the
// pieces both backends agree on: uniform block layouts (uniforms),
// vertex and instance layouts with the color sentinel (vertex),
// shader variant keys and program caching (variant), the assemblers
// emitting each backend's dialect (shaders), lighting reference math
// (lighting), conditional edge classification (edge), and pick
// identifier encoding (picking).
package renderer

import (
	"fmt"
	"os"

	"cogentcore.org/core/math32"
	"github.com/pelletier/go-toml/v2"

	"github.com/goldraw/renderer/lighting"
	"github.com/goldraw/renderer/uniforms"
)

// Options is the host-facing render configuration. Zero values are
// filled in by Normalize; DefaultOptions returns the reference
// defaults.
type Options struct {
	// Samples is the multisample count for the color target.
	Samples int `toml:"samples"`

	// FrameDepth is the number of in-flight frames the uniform ring
	// cycles through.
	FrameDepth int `toml:"frame-depth"`

	// BaseColor is the default material base color.
	BaseColor math32.Vector4 `toml:"base-color"`

	// EdgeColor is the default material edge color.
	EdgeColor math32.Vector4 `toml:"edge-color"`

	// LightColor is the color of the single directional light.
	LightColor math32.Vector4 `toml:"light-color"`

	// LightDirection is the direction the light travels, from the
	// light toward the scene. It is normalized each frame, then
	// transformed into view space and negated into the surface-to-light
	// vector the shaders consume.
	LightDirection math32.Vector3 `toml:"light-direction"`
}

// DefaultOptions returns the reference defaults: 4x multisampling,
// double-buffered uniforms, black base with gray edges, and a white
// light from above and behind the camera.
func DefaultOptions() *Options {
	return &Options{
		Samples:        4,
		FrameDepth:     uniforms.DefaultFrameDepth,
		BaseColor:      math32.Vec4(0, 0, 0, 1),
		EdgeColor:      math32.Vec4(0.4, 0.4, 0.4, 1),
		LightColor:     math32.Vec4(1, 1, 1, 1),
		LightDirection: math32.Vec3(0, -0.5, 0.7),
	}
}

// Normalize clamps out-of-range values to usable ones.
func (op *Options) Normalize() {
	if op.Samples < 1 {
		op.Samples = 1
	}
	if op.FrameDepth < 2 {
		op.FrameDepth = uniforms.DefaultFrameDepth
	}
	if op.LightDirection.LengthSquared() == 0 {
		op.LightDirection = math32.Vec3(0, -0.5, 0.7)
	}
}

// LoadOptions reads TOML options from filename, starting from the
// defaults so absent keys keep their reference values.
func LoadOptions(filename string) (*Options, error) {
	op := DefaultOptions()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("renderer: options: %w", err)
	}
	if err := toml.Unmarshal(b, op); err != nil {
		return nil, fmt.Errorf("renderer: options %s: %w", filename, err)
	}
	op.Normalize()
	return op, nil
}

// Save writes the options as TOML.
func (op *Options) Save(filename string) error {
	b, err := toml.Marshal(op)
	if err != nil {
		return fmt.Errorf("renderer: options: %w", err)
	}
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		return fmt.Errorf("renderer: options: %w", err)
	}
	return nil
}

// Material returns a ColorData carrying the configured colors.
func (op *Options) Material() *uniforms.ColorData {
	cd := uniforms.NewColorData()
	cd.Color = op.BaseColor
	cd.EdgeColor = op.EdgeColor
	return cd
}

// Light returns the configured light with its world-space direction.
func (op *Options) Light() *uniforms.LightData {
	dir := op.LightDirection.Normal()
	return &uniforms.LightData{
		Color:     op.LightColor,
		Direction: math32.Vec4(dir.X, dir.Y, dir.Z, 1),
	}
}

// StageFrame packs the frame's projection and light blocks into the
// slot. The light direction is rotated into view space here, once per
// frame, so the shaders never invert a matrix.
func StageFrame(slot *uniforms.FrameSlot, pd *uniforms.ProjectionData, ld *uniforms.LightData) {
	pd.Pack(slot.Projection)
	world := math32.Vec3(ld.Direction.X, ld.Direction.Y, ld.Direction.Z)
	view := lighting.LightInView(world, &pd.View)
	packed := uniforms.LightData{
		Color:     ld.Color,
		Direction: math32.Vec4(view.X, view.Y, view.Z, 0),
	}
	packed.Pack(slot.Light)
}
