// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

import (
	"encoding/binary"
	"math"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestProjectionPackLayout(t *testing.T) {
	pd := NewProjectionData()
	var proj math32.Matrix4
	proj.SetOrthographic(2, 2, 0.1, 100)
	pd.SetProjection(&proj, true)

	b := pd.Bytes()
	assert.Len(t, b, ProjectionBlockSize)

	// identity model at offset 0
	assert.Equal(t, float32(1), f32At(b, ProjectionModelOffset))
	assert.Equal(t, float32(1), f32At(b, ProjectionModelOffset+5*4))

	// projection matches what was set
	assert.Equal(t, proj[0], f32At(b, ProjectionProjOffset))

	// normal matrix columns are padded to 16 bytes each
	assert.Equal(t, float32(1), f32At(b, ProjectionNormalOffset))
	assert.Equal(t, float32(0), f32At(b, ProjectionNormalOffset+12))
	assert.Equal(t, float32(1), f32At(b, ProjectionNormalOffset+16+4))
	assert.Equal(t, float32(1), f32At(b, ProjectionNormalOffset+32+8))

	// orthographic flag as int32
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[ProjectionOrthoOffset:]))
}

func TestProjectionPackPropagatesNaN(t *testing.T) {
	pd := NewProjectionData()
	var bad math32.Matrix4
	bad.SetIdentity()
	bad[0] = math32.NaN()
	pd.SetView(&bad)
	b := pd.Bytes()
	assert.True(t, math.IsNaN(float64(f32At(b, ProjectionViewOffset))))
}

func TestColorPackLayout(t *testing.T) {
	cd := NewColorData()
	cd.Color = math32.Vec4(0.2, 0.4, 0.6, 1)
	cd.UseInstanceColor = false
	b := cd.Bytes()
	assert.Len(t, b, ColorBlockSize)
	assert.Equal(t, float32(0.2), f32At(b, ColorBaseOffset))
	assert.Equal(t, float32(0.4), f32At(b, ColorBaseOffset+4))
	assert.Equal(t, float32(0.4), f32At(b, ColorEdgeOffset))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[ColorUseInstanceOffset:]))
}

func TestPBRPackLayout(t *testing.T) {
	pm := NewPBRMaterialData()
	pm.Albedo = math32.Vec4(1, 0, 0, 1)
	pm.Roughness = 0.25
	pm.Metalness = 1
	b := pm.Bytes()
	assert.Len(t, b, PBRBlockSize)
	assert.Equal(t, float32(1), f32At(b, PBRAlbedoOffset))
	assert.Equal(t, float32(0.25), f32At(b, PBRRoughnessOffset))
	assert.Equal(t, float32(1), f32At(b, PBRMetalnessOffset))
}

func TestLightPackLayout(t *testing.T) {
	ld := NewLightData()
	b := ld.Bytes()
	assert.Len(t, b, LightBlockSize)
	assert.Equal(t, float32(1), f32At(b, LightColorOffset))
	// direction was normalized
	d := math32.Vec3(f32At(b, LightDirectionOffset), f32At(b, LightDirectionOffset+4), f32At(b, LightDirectionOffset+8))
	assert.InDelta(t, 1.0, float64(d.Length()), 1e-6)
}

func TestFrameRingCycles(t *testing.T) {
	fr := NewFrameRing(3)
	assert.Equal(t, 3, fr.Depth())
	a := fr.Next()
	b := fr.Next()
	c := fr.Next()
	assert.NotEqual(t, a.Index, b.Index)
	assert.NotEqual(t, b.Index, c.Index)
	assert.Equal(t, a.Index, fr.Next().Index)

	s := fr.Current()
	s.SetInstances([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, s.Instances)
	s.SetInstances([]byte{4})
	assert.Equal(t, []byte{4}, s.Instances)
}
