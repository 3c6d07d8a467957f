// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldraw/renderer/uniforms"
)

func TestDefaultOptions(t *testing.T) {
	op := DefaultOptions()
	assert.Equal(t, 4, op.Samples)
	assert.Equal(t, uniforms.DefaultFrameDepth, op.FrameDepth)
	assert.Equal(t, math32.Vec4(0.4, 0.4, 0.4, 1), op.EdgeColor)
}

func TestNormalize(t *testing.T) {
	op := &Options{Samples: 0, FrameDepth: 1}
	op.Normalize()
	assert.Equal(t, 1, op.Samples)
	assert.Equal(t, uniforms.DefaultFrameDepth, op.FrameDepth)
	assert.NotZero(t, op.LightDirection.LengthSquared())
}

func TestOptionsRoundTrip(t *testing.T) {
	op := DefaultOptions()
	op.Samples = 8
	op.LightColor = math32.Vec4(1, 0.95, 0.9, 1)

	file := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, op.Save(file))

	got, err := LoadOptions(file)
	require.NoError(t, err)
	assert.Equal(t, op.Samples, got.Samples)
	assert.Equal(t, op.LightColor, got.LightColor)
	assert.Equal(t, op.EdgeColor, got.EdgeColor)
}

func TestLoadOptionsPartial(t *testing.T) {
	// absent keys keep their defaults
	file := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(file, []byte("samples = 2\n"), 0o644))

	op, err := LoadOptions(file)
	require.NoError(t, err)
	assert.Equal(t, 2, op.Samples)
	assert.Equal(t, math32.Vec4(0.4, 0.4, 0.4, 1), op.EdgeColor)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestOptionsMaterialAndLight(t *testing.T) {
	op := DefaultOptions()
	op.BaseColor = math32.Vec4(0.8, 0.1, 0.1, 1)
	cd := op.Material()
	assert.Equal(t, op.BaseColor, cd.Color)
	assert.Equal(t, op.EdgeColor, cd.EdgeColor)

	op.LightDirection = math32.Vec3(0, 0, 2)
	ld := op.Light()
	assert.InDelta(t, 1.0, float64(ld.Direction.Z), 1e-6)
}

func TestStageFrameLightInView(t *testing.T) {
	pd := uniforms.NewProjectionData()
	ld := &uniforms.LightData{
		Color:     math32.Vec4(1, 1, 1, 1),
		Direction: math32.Vec4(0, 0, 1, 1),
	}
	ring := uniforms.NewFrameRing(2)
	slot := ring.Next()
	StageFrame(slot, pd, ld)

	// identity view: the packed direction is the negated, normalized
	// world direction
	dir := unpackVec3(slot.Light, uniforms.LightDirectionOffset)
	assert.InDelta(t, 0, float64(dir.X), 1e-6)
	assert.InDelta(t, 0, float64(dir.Y), 1e-6)
	assert.InDelta(t, -1, float64(dir.Z), 1e-6)
}

func unpackVec3(b []byte, off int) math32.Vector3 {
	f := func(o int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[o:]))
	}
	return math32.Vec3(f(off), f(off+4), f(off+8))
}
