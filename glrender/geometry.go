// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/goldraw/renderer/binding"
	"github.com/goldraw/renderer/uniforms"
	"github.com/goldraw/renderer/variant"
	"github.com/goldraw/renderer/vertex"
)

// Part is one uploadable piece of geometry: a vertex array with its
// buffer, an optional uint32 index buffer, and the part's material
// block. Per-instance attributes live in the frame ring's instance
// buffer, not here, and are pointed at draw time.
type Part struct {
	Kind vertex.Kind

	vao     uint32
	vbo     uint32
	ebo     uint32
	nVertex int32
	nIndex  int32

	// materialUBO backs the std140 block for the modern dialects;
	// material keeps the packed bytes for the legacy loose-uniform path.
	materialUBO uint32
	material    []byte
}

// NewPart uploads vertex data of the given kind, with an optional
// uint32 index buffer. The per-vertex attribute pointers are captured
// in the part's vertex array once, here.
func (rd *Renderer) NewPart(kind vertex.Kind, vertexData []byte, indexData []byte) (*Part, error) {
	pt := &Part{
		Kind:    kind,
		nVertex: int32(len(vertexData) / kind.Stride()),
	}
	gl.GenVertexArrays(1, &pt.vao)
	gl.BindVertexArray(pt.vao)

	gl.GenBuffers(1, &pt.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, pt.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertexData), gl.Ptr(vertexData), gl.STATIC_DRAW)
	stride := int32(kind.Stride())
	for _, at := range kind.Attributes() {
		gl.EnableVertexAttribArray(at.Location)
		gl.VertexAttribPointer(at.Location, int32(at.Components), gl.FLOAT, false, stride, gl.PtrOffset(at.Offset))
	}

	if len(indexData) > 0 {
		pt.nIndex = int32(len(indexData) / 4)
		gl.GenBuffers(1, &pt.ebo)
		// element binding is part of vertex array state
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, pt.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indexData), gl.Ptr(indexData), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	if rd.modern() {
		gl.GenBuffers(1, &pt.materialUBO)
		gl.BindBuffer(gl.UNIFORM_BUFFER, pt.materialUBO)
		gl.BufferData(gl.UNIFORM_BUFFER, uniforms.PBRBlockSize, nil, gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	}
	return pt, nil
}

// SetMaterial stores a packed material block, either a color block or
// a PBR block, and uploads it when the dialect uses uniform buffers.
func (rd *Renderer) SetMaterial(pt *Part, packed []byte) error {
	pt.material = append(pt.material[:0], packed...)
	if rd.modern() {
		gl.BindBuffer(gl.UNIFORM_BUFFER, pt.materialUBO)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(packed), gl.Ptr(packed))
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	}
	return nil
}

// Release deletes the part's GL objects.
func (pt *Part) Release() {
	if pt.vao != 0 {
		gl.DeleteVertexArrays(1, &pt.vao)
		pt.vao = 0
	}
	if pt.vbo != 0 {
		gl.DeleteBuffers(1, &pt.vbo)
		pt.vbo = 0
	}
	if pt.ebo != 0 {
		gl.DeleteBuffers(1, &pt.ebo)
		pt.ebo = 0
	}
	if pt.materialUBO != 0 {
		gl.DeleteBuffers(1, &pt.materialUBO)
		pt.materialUBO = 0
	}
}

// bindInstanceAttribs points the variant's per-instance attributes at
// the frame's instance buffer and sets their divisors. The pick
// identifier slot is four normalized unsigned bytes; everything else
// is float vec4 columns.
func bindInstanceAttribs(instVBO uint32, key variant.Key) {
	gl.BindBuffer(gl.ARRAY_BUFFER, instVBO)
	var attrs []vertex.Attribute
	var stride int32
	if key.Pass == variant.PickPass {
		attrs = vertex.PickInstanceAttributes()
		stride = vertex.PickInstanceStride
	} else {
		attrs = vertex.InstanceAttributes()
		if !key.Flags.InstancedColors {
			attrs = attrs[:4]
		}
		stride = vertex.InstanceStride
	}
	for _, at := range attrs {
		gl.EnableVertexAttribArray(at.Location)
		if at.Name == binding.NameInstancePickID {
			gl.VertexAttribPointer(at.Location, 4, gl.UNSIGNED_BYTE, true, stride, gl.PtrOffset(at.Offset))
		} else {
			gl.VertexAttribPointer(at.Location, int32(at.Components), gl.FLOAT, false, stride, gl.PtrOffset(at.Offset))
		}
		gl.VertexAttribDivisor(at.Location, 1)
	}
}
