// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vertex

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
	"github.com/goldraw/renderer/binding"
)

// InstanceRecord is one element of an instanced draw: the instance
// model matrix, the two colors the sentinel can resolve to, and an
// opaque identifier used only by the picking pass. Records are built
// fresh each frame, are immutable during the frame, and are discarded
// once its draws are submitted.
type InstanceRecord struct {
	// Model is packed as four consecutive vec4 slots in buffer memory
	// order, so the shader rebuilds the matrix from its columns and
	// multiplies directly, with no runtime transpose.
	Model math32.Matrix4

	Color     math32.Vector4
	EdgeColor math32.Vector4

	// PickID is only uploaded for the picking layout.
	PickID uint32
}

// Instance layout strides, in bytes.
const (
	// InstanceStride covers the matrix and both colors.
	InstanceStride = 16*f32 + 4*f32 + 4*f32

	// PickInstanceStride covers the matrix and the id, padded so the
	// stride stays 16-byte aligned.
	PickInstanceStride = 16*f32 + 4*f32
)

// InstanceAttributes returns the per-instance attribute slots for the
// rendering passes, in declaration order.
func InstanceAttributes() []Attribute {
	return []Attribute{
		{binding.NameInstanceModel + "0", binding.InstanceModel0Loc, 4, 0},
		{binding.NameInstanceModel + "1", binding.InstanceModel1Loc, 4, 4 * f32},
		{binding.NameInstanceModel + "2", binding.InstanceModel2Loc, 4, 8 * f32},
		{binding.NameInstanceModel + "3", binding.InstanceModel3Loc, 4, 12 * f32},
		{binding.NameInstanceColor, binding.InstanceColorLoc, 4, 16 * f32},
		{binding.NameInstanceEdgeColor, binding.InstanceEdgeColorLoc, 4, 20 * f32},
	}
}

// PickInstanceAttributes returns the per-instance attribute slots for
// the picking pass. The id slot is the four bytes of the identifier
// read as normalized unsigned bytes, so the shader can emit it as a
// color without integer attribute support; backends key the byte
// format off the location.
func PickInstanceAttributes() []Attribute {
	return []Attribute{
		{binding.NameInstanceModel + "0", binding.InstanceModel0Loc, 4, 0},
		{binding.NameInstanceModel + "1", binding.InstanceModel1Loc, 4, 4 * f32},
		{binding.NameInstanceModel + "2", binding.InstanceModel2Loc, 4, 8 * f32},
		{binding.NameInstanceModel + "3", binding.InstanceModel3Loc, 4, 12 * f32},
		{binding.NameInstancePickID, binding.InstancePickIDLoc, 4, 16 * f32},
	}
}

// Instances collects the InstanceRecords for one part within one
// frame and packs them into contiguous per-instance buffers.
type Instances struct {
	records []InstanceRecord
}

// Add appends a record.
func (in *Instances) Add(rec InstanceRecord) {
	in.records = append(in.records, rec)
}

// Count returns the number of instances.
func (in *Instances) Count() int { return len(in.records) }

// Reset drops all records, keeping capacity for the next frame.
func (in *Instances) Reset() { in.records = in.records[:0] }

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func putVec4(b []byte, off int, v math32.Vector4) {
	putF32(b, off, v.X)
	putF32(b, off+4, v.Y)
	putF32(b, off+8, v.Z)
	putF32(b, off+12, v.W)
}

func putMatrix(b []byte, off int, m *math32.Matrix4) {
	for i, v := range m {
		putF32(b, off+i*4, v)
	}
}

// Pack returns the packed per-instance buffer for the rendering
// passes, InstanceStride bytes per record.
func (in *Instances) Pack() []byte {
	b := make([]byte, len(in.records)*InstanceStride)
	for i := range in.records {
		rec := &in.records[i]
		off := i * InstanceStride
		putMatrix(b, off, &rec.Model)
		putVec4(b, off+16*f32, rec.Color)
		putVec4(b, off+20*f32, rec.EdgeColor)
	}
	return b
}

// PackPick returns the packed per-instance buffer for the picking
// pass, PickInstanceStride bytes per record.
func (in *Instances) PackPick() []byte {
	b := make([]byte, len(in.records)*PickInstanceStride)
	for i := range in.records {
		rec := &in.records[i]
		off := i * PickInstanceStride
		putMatrix(b, off, &rec.Model)
		binary.LittleEndian.PutUint32(b[off+16*f32:], rec.PickID)
	}
	return b
}
