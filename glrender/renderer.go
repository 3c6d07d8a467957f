// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glrender is the OpenGL backend: versioned GLSL variant
// programs, uniform upload through the frame ring (std140 buffers in
// the modern dialects, loose uniforms in ES 1.00), and ReadPixels
// readback for picking. All calls must run on the thread holding the
// GL context.
package glrender

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/goldraw/renderer/picking"
	"github.com/goldraw/renderer/shaders"
	"github.com/goldraw/renderer/uniforms"
	"github.com/goldraw/renderer/variant"
)

// Renderer owns the variant registry and the per-frame uniform and
// instance buffers backing the frame ring.
type Renderer struct {
	dialect  shaders.Dialect
	registry *variant.Registry
	ring     *uniforms.FrameRing
	frames   []*frameGL

	envTex uint32
}

// frameGL is the GPU side of one frame ring slot.
type frameGL struct {
	projection uint32
	light      uint32
	instances  uint32
	instCap    int
}

// NewRenderer creates a Renderer assembling and compiling the given
// dialect. Init must have been called on the current GL context first.
func NewRenderer(dialect shaders.Dialect, frameDepth int) *Renderer {
	rd := &Renderer{
		dialect:  dialect,
		registry: variant.NewRegistry(shaders.GLSLAssembler{Dialect: dialect}, &Compiler{Dialect: dialect}),
		ring:     uniforms.NewFrameRing(frameDepth),
	}
	rd.frames = make([]*frameGL, rd.ring.Depth())
	for i := range rd.frames {
		fb := &frameGL{}
		if rd.modern() {
			gl.GenBuffers(1, &fb.projection)
			gl.BindBuffer(gl.UNIFORM_BUFFER, fb.projection)
			gl.BufferData(gl.UNIFORM_BUFFER, uniforms.ProjectionBlockSize, nil, gl.DYNAMIC_DRAW)
			gl.GenBuffers(1, &fb.light)
			gl.BindBuffer(gl.UNIFORM_BUFFER, fb.light)
			gl.BufferData(gl.UNIFORM_BUFFER, uniforms.LightBlockSize, nil, gl.DYNAMIC_DRAW)
			gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
		}
		gl.GenBuffers(1, &fb.instances)
		rd.frames[i] = fb
	}
	return rd
}

func (rd *Renderer) modern() bool { return rd.dialect != shaders.GLSL100 }

// Registry returns the variant registry, for precompilation.
func (rd *Renderer) Registry() *variant.Registry { return rd.registry }

// SetEnvironment sets the prefiltered environment cube map texture for
// the image-based lighting path.
func (rd *Renderer) SetEnvironment(cubeTex uint32) {
	rd.envTex = cubeTex
}

// BeginFrame advances the frame ring and returns the staging slot for
// this frame.
func (rd *Renderer) BeginFrame() *uniforms.FrameSlot {
	return rd.ring.Next()
}

// UploadFrame uploads the slot's staged data. The modern dialects
// update the slot's uniform buffers; the legacy dialect reads the
// staged bytes at draw time instead. Instance data uploads either way.
func (rd *Renderer) UploadFrame(slot *uniforms.FrameSlot) error {
	fb := rd.frames[slot.Index]
	if rd.modern() {
		gl.BindBuffer(gl.UNIFORM_BUFFER, fb.projection)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(slot.Projection), gl.Ptr(slot.Projection))
		gl.BindBuffer(gl.UNIFORM_BUFFER, fb.light)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(slot.Light), gl.Ptr(slot.Light))
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	}
	if len(slot.Instances) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, fb.instances)
		if fb.instCap < len(slot.Instances) {
			gl.BufferData(gl.ARRAY_BUFFER, len(slot.Instances), gl.Ptr(slot.Instances), gl.DYNAMIC_DRAW)
			fb.instCap = len(slot.Instances)
		} else {
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(slot.Instances), gl.Ptr(slot.Instances))
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	return nil
}

// Draw issues one draw of the part under the given variant. instances
// is the instance count for instanced variants and ignored otherwise.
func (rd *Renderer) Draw(slot *uniforms.FrameSlot, key variant.Key, pt *Part, instances int) error {
	handle, err := rd.registry.GetOrCompile(key)
	if err != nil {
		return err
	}
	pr := handle.(*Program)
	fb := rd.frames[slot.Index]

	pr.Use()
	if rd.modern() {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, ProjectionPoint, fb.projection)
		gl.BindBufferBase(gl.UNIFORM_BUFFER, MaterialPoint, pt.materialUBO)
		if lit(key) {
			gl.BindBufferBase(gl.UNIFORM_BUFFER, LightPoint, fb.light)
		}
		if key.Pass == variant.MeshPBRPass && lit(key) {
			if rd.envTex == 0 {
				return fmt.Errorf("glrender: variant %v needs an environment map", key)
			}
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, rd.envTex)
		}
	} else {
		setLegacyUniforms(pr, slot, pt.material)
	}

	applyState(key)
	gl.BindVertexArray(pt.vao)

	mode := uint32(gl.TRIANGLES)
	if key.Pass == variant.EdgePass || key.Pass == variant.OptionalEdgePass {
		mode = gl.LINES
	}
	if key.Flags.Instanced {
		bindInstanceAttribs(fb.instances, key)
		if pt.nIndex > 0 {
			gl.DrawElementsInstanced(mode, pt.nIndex, gl.UNSIGNED_INT, gl.PtrOffset(0), int32(instances))
		} else {
			gl.DrawArraysInstanced(mode, 0, pt.nVertex, int32(instances))
		}
	} else if pt.nIndex > 0 {
		gl.DrawElements(mode, pt.nIndex, gl.UNSIGNED_INT, gl.PtrOffset(0))
	} else {
		gl.DrawArrays(mode, 0, pt.nVertex)
	}
	gl.BindVertexArray(0)
	return nil
}

func lit(key variant.Key) bool {
	return key.Flags.BFCCertified &&
		(key.Pass == variant.MeshPass || key.Pass == variant.MeshPBRPass)
}

// applyState sets cull and blend state for the pass. Blending the pick
// target would corrupt the encoded identifiers, so only the mesh
// passes blend.
func applyState(key variant.Key) {
	switch key.Pass {
	case variant.MeshPass, variant.MeshPBRPass:
		if key.Flags.BFCCertified {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(gl.BACK)
			gl.FrontFace(gl.CCW)
		} else {
			gl.Disable(gl.CULL_FACE)
		}
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	default:
		gl.Disable(gl.CULL_FACE)
		gl.Disable(gl.BLEND)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
}

// ReadPickPixel reads one pixel back from the currently bound pick
// framebuffer and decodes the instance identifier rendered there.
// y is in GL window coordinates, origin bottom left.
func (rd *Renderer) ReadPickPixel(x, y int) (uint32, error) {
	var px [4]uint8
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&px[0]))
	if errno := gl.GetError(); errno != gl.NO_ERROR {
		return 0, fmt.Errorf("glrender: pick readback: gl error 0x%04x", errno)
	}
	return picking.Decode(px), nil
}

// Release deletes all GL objects owned by the renderer.
func (rd *Renderer) Release() {
	rd.registry.Release()
	for _, fb := range rd.frames {
		if fb.projection != 0 {
			gl.DeleteBuffers(1, &fb.projection)
		}
		if fb.light != 0 {
			gl.DeleteBuffers(1, &fb.light)
		}
		if fb.instances != 0 {
			gl.DeleteBuffers(1, &fb.instances)
		}
	}
	rd.frames = nil
}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func mat4At(b []byte, off int) [16]float32 {
	var m [16]float32
	for i := range m {
		m[i] = f32At(b, off+i*4)
	}
	return m
}

func vec4At(b []byte, off int) [4]float32 {
	var v [4]float32
	for i := range v {
		v[i] = f32At(b, off+i*4)
	}
	return v
}

// normal3At unpacks the padded mat3 columns of the projection block
// into the tight 9-float layout UniformMatrix3fv wants.
func normal3At(b []byte) [9]float32 {
	var m [9]float32
	for c := 0; c < 3; c++ {
		off := uniforms.ProjectionNormalOffset + c*16
		m[c*3] = f32At(b, off)
		m[c*3+1] = f32At(b, off+4)
		m[c*3+2] = f32At(b, off+8)
	}
	return m
}

// setLegacyUniforms uploads the loose uniforms for the ES 1.00
// dialect from the staged packed blocks. Locations the compiler
// eliminated are skipped.
func setLegacyUniforms(pr *Program, slot *uniforms.FrameSlot, material []byte) {
	if loc := pr.uniform("projection"); loc >= 0 {
		m := mat4At(slot.Projection, uniforms.ProjectionProjOffset)
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
	if loc := pr.uniform("modelView"); loc >= 0 {
		m := mat4At(slot.Projection, uniforms.ProjectionModelViewOffset)
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
	if loc := pr.uniform("normalMatrix"); loc >= 0 {
		m := normal3At(slot.Projection)
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
	if loc := pr.uniform("isOrthographic"); loc >= 0 {
		gl.Uniform1i(loc, int32(binary.LittleEndian.Uint32(slot.Projection[uniforms.ProjectionOrthoOffset:])))
	}
	if len(material) >= uniforms.ColorBlockSize {
		if loc := pr.uniform("baseColor"); loc >= 0 {
			v := vec4At(material, uniforms.ColorBaseOffset)
			gl.Uniform4fv(loc, 1, &v[0])
		}
		if loc := pr.uniform("edgeColor"); loc >= 0 {
			v := vec4At(material, uniforms.ColorEdgeOffset)
			gl.Uniform4fv(loc, 1, &v[0])
		}
	}
	if loc := pr.uniform("lightColor"); loc >= 0 {
		v := vec4At(slot.Light, uniforms.LightColorOffset)
		gl.Uniform4fv(loc, 1, &v[0])
	}
	if loc := pr.uniform("lightDirection"); loc >= 0 {
		v := vec4At(slot.Light, uniforms.LightDirectionOffset)
		gl.Uniform4fv(loc, 1, &v[0])
	}
}
