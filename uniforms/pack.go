// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
)

// Packed block sizes and field offsets, in bytes. Alignment follows the
// stricter of the two backends: every vector, matrix column, and the
// trailing int32 flag sits on a 16-byte boundary. These constants are
// the wire contract; both backends allocate buffers from them.
const (
	ProjectionModelOffset      = 0
	ProjectionProjOffset       = 64
	ProjectionModelViewOffset  = 128
	ProjectionNormalOffset     = 192 // three vec3 columns, each padded to 16
	ProjectionViewOffset       = 240
	ProjectionOrthoOffset      = 304
	ProjectionBlockSize        = 320

	ColorBaseOffset        = 0
	ColorEdgeOffset        = 16
	ColorUseInstanceOffset = 32
	ColorBlockSize         = 48

	PBRAlbedoOffset    = 0
	PBREmissiveOffset  = 16
	PBRRoughnessOffset = 32
	PBRMetalnessOffset = 36
	PBRBlockSize       = 48

	LightColorOffset     = 0
	LightDirectionOffset = 16
	LightBlockSize       = 32
)

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func putI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

func putMatrix4(b []byte, off int, m *math32.Matrix4) {
	for i, v := range m {
		putF32(b, off+i*4, v)
	}
}

func putVector4(b []byte, off int, v math32.Vector4) {
	putF32(b, off, v.X)
	putF32(b, off+4, v.Y)
	putF32(b, off+8, v.Z)
	putF32(b, off+12, v.W)
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Pack writes the block into dst, which must be at least
// ProjectionBlockSize bytes. Values are written as-is: NaN or Inf in a
// matrix is the caller's problem and shows up on screen, not here.
func (pd *ProjectionData) Pack(dst []byte) {
	_ = dst[:ProjectionBlockSize]
	model := pd.Model()
	putMatrix4(dst, ProjectionModelOffset, &model)
	putMatrix4(dst, ProjectionProjOffset, &pd.Projection)
	putMatrix4(dst, ProjectionModelViewOffset, &pd.ModelView)
	for c := 0; c < 3; c++ {
		off := ProjectionNormalOffset + c*16
		putF32(dst, off, pd.NormalMatrix[c*3])
		putF32(dst, off+4, pd.NormalMatrix[c*3+1])
		putF32(dst, off+8, pd.NormalMatrix[c*3+2])
		putF32(dst, off+12, 0)
	}
	putMatrix4(dst, ProjectionViewOffset, &pd.View)
	putI32(dst, ProjectionOrthoOffset, boolInt32(pd.IsOrthographic))
	putI32(dst, ProjectionOrthoOffset+4, 0)
	putI32(dst, ProjectionOrthoOffset+8, 0)
	putI32(dst, ProjectionOrthoOffset+12, 0)
}

// Bytes returns a freshly packed block.
func (pd *ProjectionData) Bytes() []byte {
	b := make([]byte, ProjectionBlockSize)
	pd.Pack(b)
	return b
}

// Pack writes the block into dst, which must be at least ColorBlockSize
// bytes.
func (cd *ColorData) Pack(dst []byte) {
	_ = dst[:ColorBlockSize]
	putVector4(dst, ColorBaseOffset, cd.Color)
	putVector4(dst, ColorEdgeOffset, cd.EdgeColor)
	putI32(dst, ColorUseInstanceOffset, boolInt32(cd.UseInstanceColor))
	putI32(dst, ColorUseInstanceOffset+4, 0)
	putI32(dst, ColorUseInstanceOffset+8, 0)
	putI32(dst, ColorUseInstanceOffset+12, 0)
}

// Bytes returns a freshly packed block.
func (cd *ColorData) Bytes() []byte {
	b := make([]byte, ColorBlockSize)
	cd.Pack(b)
	return b
}

// Pack writes the block into dst, which must be at least PBRBlockSize
// bytes.
func (pm *PBRMaterialData) Pack(dst []byte) {
	_ = dst[:PBRBlockSize]
	putVector4(dst, PBRAlbedoOffset, pm.Albedo)
	putVector4(dst, PBREmissiveOffset, pm.Emissive)
	putF32(dst, PBRRoughnessOffset, pm.Roughness)
	putF32(dst, PBRMetalnessOffset, pm.Metalness)
	putF32(dst, PBRMetalnessOffset+4, 0)
	putF32(dst, PBRMetalnessOffset+8, 0)
}

// Bytes returns a freshly packed block.
func (pm *PBRMaterialData) Bytes() []byte {
	b := make([]byte, PBRBlockSize)
	pm.Pack(b)
	return b
}

// Pack writes the block into dst, which must be at least LightBlockSize
// bytes.
func (ld *LightData) Pack(dst []byte) {
	_ = dst[:LightBlockSize]
	putVector4(dst, LightColorOffset, ld.Color)
	putVector4(dst, LightDirectionOffset, ld.Direction)
}

// Bytes returns a freshly packed block.
func (ld *LightData) Bytes() []byte {
	b := make([]byte, LightBlockSize)
	ld.Pack(b)
	return b
}
