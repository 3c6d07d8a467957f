// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wgpurender

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/goldraw/renderer/picking"
	"github.com/goldraw/renderer/shaders"
	"github.com/goldraw/renderer/uniforms"
	"github.com/goldraw/renderer/variant"
	"github.com/goldraw/renderer/vertex"
)

// Renderer owns the variant registry, the per-frame uniform buffers
// backing the frame ring, and the shared light and environment
// bindings. Frame orchestration is single threaded: one BeginFrame,
// uploads, draws, and submission at a time.
type Renderer struct {
	dev      *Device
	registry *variant.Registry
	ring     *uniforms.FrameRing
	frames   []*frameBuffers

	envView    *wgpu.TextureView
	envSampler *wgpu.Sampler
}

// frameBuffers is the GPU side of one frame ring slot.
type frameBuffers struct {
	projection *wgpu.Buffer
	light      *wgpu.Buffer
	instances  *wgpu.Buffer
	instCap    int

	projGroup *wgpu.BindGroup
}

// NewRenderer creates a Renderer targeting the given color and depth
// formats. The registry compiles WGSL variants on first use;
// Precompile forces them all up front.
func NewRenderer(dev *Device, colorFormat, depthFormat wgpu.TextureFormat, samples, frameDepth int) (*Renderer, error) {
	rd := &Renderer{
		dev:      dev,
		registry: variant.NewRegistry(shaders.WGSLAssembler{}, NewCompiler(dev, colorFormat, depthFormat, samples)),
		ring:     uniforms.NewFrameRing(frameDepth),
	}
	rd.frames = make([]*frameBuffers, rd.ring.Depth())
	for i := range rd.frames {
		fb := &frameBuffers{}
		var err error
		fb.projection, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("projection[%d]", i),
			Size:  uniforms.ProjectionBlockSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("wgpurender: projection buffer: %w", err)
		}
		fb.light, err = dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("light[%d]", i),
			Size:  uniforms.LightBlockSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("wgpurender: light buffer: %w", err)
		}
		rd.frames[i] = fb
	}
	return rd, nil
}

// Registry returns the variant registry, for precompilation.
func (rd *Renderer) Registry() *variant.Registry { return rd.registry }

// SetEnvironment sets the prefiltered environment cube and its
// sampler for the image-based lighting path. Parts refresh their
// bindings on next draw.
func (rd *Renderer) SetEnvironment(view *wgpu.TextureView, sampler *wgpu.Sampler) {
	rd.envView = view
	rd.envSampler = sampler
}

// BeginFrame advances the frame ring and returns the staging slot for
// this frame. The caller packs uniform and instance data into it, then
// calls UploadFrame.
func (rd *Renderer) BeginFrame() *uniforms.FrameSlot {
	return rd.ring.Next()
}

// UploadFrame writes the slot's staged projection, light, and
// instance data to the slot's GPU buffers. Queue writes land before
// any pass submitted afterward, so this must run before the frame's
// draws are encoded.
func (rd *Renderer) UploadFrame(slot *uniforms.FrameSlot) error {
	fb := rd.frames[slot.Index]
	if err := rd.dev.Queue.WriteBuffer(fb.projection, 0, slot.Projection); err != nil {
		return fmt.Errorf("wgpurender: projection upload: %w", err)
	}
	if err := rd.dev.Queue.WriteBuffer(fb.light, 0, slot.Light); err != nil {
		return fmt.Errorf("wgpurender: light upload: %w", err)
	}
	if len(slot.Instances) == 0 {
		return nil
	}
	if fb.instances == nil || fb.instCap < len(slot.Instances) {
		if fb.instances != nil {
			fb.instances.Release()
		}
		var err error
		fb.instances, err = rd.dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    fmt.Sprintf("instances[%d]", slot.Index),
			Contents: slot.Instances,
			Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("wgpurender: instance upload: %w", err)
		}
		fb.instCap = len(slot.Instances)
		return nil
	}
	if err := rd.dev.Queue.WriteBuffer(fb.instances, 0, slot.Instances); err != nil {
		return fmt.Errorf("wgpurender: instance upload: %w", err)
	}
	return nil
}

// projGroup returns the slot's projection bind group, created on
// first use from the program's group 0 layout. All variants declare
// the identical group 0, so the group is shared across programs.
func (rd *Renderer) projGroup(fb *frameBuffers, pr *Program) (*wgpu.BindGroup, error) {
	if fb.projGroup != nil {
		return fb.projGroup, nil
	}
	bg, err := rd.dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "projection",
		Layout: pr.GroupLayout(0),
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  fb.projection,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpurender: projection bind group: %w", err)
	}
	fb.projGroup = bg
	return bg, nil
}

// Part is one uploadable piece of geometry with its material block.
// Geometry is uploaded once; the material may be rewritten between
// frames.
type Part struct {
	Kind vertex.Kind

	vbuf     *wgpu.Buffer
	ibuf     *wgpu.Buffer
	nVertex  int
	nIndex   int
	material *wgpu.Buffer

	// material bind groups per variant shape and ring slot, rebuilt
	// when the environment changes
	groups map[groupKey]*wgpu.BindGroup
	envGen *wgpu.TextureView
}

type groupShape int

const (
	plainShape groupShape = iota
	litShape
	pbrShape
)

func shapeFor(key variant.Key) groupShape {
	if !lit(key) {
		return plainShape
	}
	if key.Pass == variant.MeshPBRPass {
		return pbrShape
	}
	return litShape
}

// groupKey addresses a part's cached group 1 bind group. Lit shapes
// embed the ring slot's light buffer and must cache per slot, the way
// projGroup lives per slot; the plain shape binds only the part's own
// material and is shared across slots.
type groupKey struct {
	shape groupShape
	slot  int
}

func groupKeyFor(key variant.Key, slotIndex int) groupKey {
	shape := shapeFor(key)
	if shape == plainShape {
		return groupKey{shape: plainShape, slot: -1}
	}
	return groupKey{shape: shape, slot: slotIndex}
}

// NewPart uploads vertex data of the given kind, with an optional
// uint32 index buffer.
func (rd *Renderer) NewPart(kind vertex.Kind, vertexData []byte, indexData []byte) (*Part, error) {
	pt := &Part{
		Kind:    kind,
		nVertex: len(vertexData) / kind.Stride(),
		groups:  make(map[groupKey]*wgpu.BindGroup),
	}
	var err error
	pt.vbuf, err = rd.dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "vertex:" + kind.String(),
		Contents: vertexData,
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpurender: vertex buffer: %w", err)
	}
	if len(indexData) > 0 {
		pt.nIndex = len(indexData) / 4
		pt.ibuf, err = rd.dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "index:" + kind.String(),
			Contents: indexData,
			Usage:    wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			pt.Release()
			return nil, fmt.Errorf("wgpurender: index buffer: %w", err)
		}
	}
	pt.material, err = rd.dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "material:" + kind.String(),
		Size:  uniforms.PBRBlockSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pt.Release()
		return nil, fmt.Errorf("wgpurender: material buffer: %w", err)
	}
	return pt, nil
}

// SetMaterial writes a packed material block, either a color block or
// a PBR block.
func (rd *Renderer) SetMaterial(pt *Part, packed []byte) error {
	return rd.dev.Queue.WriteBuffer(pt.material, 0, packed)
}

// materialGroup returns the part's group 1 bind group for the
// variant's shape and the frame's ring slot, creating it on first
// use.
func (rd *Renderer) materialGroup(pt *Part, fb *frameBuffers, pr *Program, key variant.Key, slotIndex int) (*wgpu.BindGroup, error) {
	gk := groupKeyFor(key, slotIndex)
	if gk.shape == pbrShape && pt.envGen != rd.envView {
		// environment changed since these groups were built
		for k, bg := range pt.groups {
			if k.shape == pbrShape {
				bg.Release()
				delete(pt.groups, k)
			}
		}
	}
	if bg, ok := pt.groups[gk]; ok {
		return bg, nil
	}
	entries := []wgpu.BindGroupEntry{{
		Binding: 0,
		Buffer:  pt.material,
		Size:    wgpu.WholeSize,
	}}
	if gk.shape != plainShape {
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: 1,
			Buffer:  fb.light,
			Size:    wgpu.WholeSize,
		})
	}
	if gk.shape == pbrShape {
		if rd.envView == nil || rd.envSampler == nil {
			return nil, fmt.Errorf("wgpurender: variant %v needs an environment map", key)
		}
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: 2, TextureView: rd.envView},
			wgpu.BindGroupEntry{Binding: 3, Sampler: rd.envSampler})
		pt.envGen = rd.envView
	}
	bg, err := rd.dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "material",
		Layout:  pr.GroupLayout(1),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpurender: material bind group: %w", err)
	}
	pt.groups[gk] = bg
	return bg, nil
}

// Release releases the part's GPU resources.
func (pt *Part) Release() {
	for _, bg := range pt.groups {
		bg.Release()
	}
	pt.groups = nil
	if pt.vbuf != nil {
		pt.vbuf.Release()
		pt.vbuf = nil
	}
	if pt.ibuf != nil {
		pt.ibuf.Release()
		pt.ibuf = nil
	}
	if pt.material != nil {
		pt.material.Release()
		pt.material = nil
	}
}

// Draw encodes one draw of the part under the given variant into the
// pass. instances is the instance count for instanced variants and is
// ignored otherwise; the instance buffer is the one staged in the
// slot via UploadFrame.
func (rd *Renderer) Draw(rp *wgpu.RenderPassEncoder, slot *uniforms.FrameSlot, key variant.Key, pt *Part, instances int) error {
	handle, err := rd.registry.GetOrCompile(key)
	if err != nil {
		return err
	}
	pr := handle.(*Program)
	fb := rd.frames[slot.Index]

	pg, err := rd.projGroup(fb, pr)
	if err != nil {
		return err
	}
	mg, err := rd.materialGroup(pt, fb, pr, key, slot.Index)
	if err != nil {
		return err
	}

	rp.SetPipeline(pr.Pipeline())
	rp.SetBindGroup(0, pg, nil)
	rp.SetBindGroup(1, mg, nil)
	rp.SetVertexBuffer(0, pt.vbuf, 0, wgpu.WholeSize)
	n := uint32(1)
	if key.Flags.Instanced {
		if fb.instances == nil {
			return fmt.Errorf("wgpurender: variant %v: no instance data staged", key)
		}
		rp.SetVertexBuffer(1, fb.instances, 0, wgpu.WholeSize)
		n = uint32(instances)
	}
	if pt.ibuf != nil {
		rp.SetIndexBuffer(pt.ibuf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		rp.DrawIndexed(uint32(pt.nIndex), n, 0, 0, 0)
	} else {
		rp.Draw(uint32(pt.nVertex), n, 0, 0)
	}
	return nil
}

// ReadPickPixel copies one pixel of the pick target into a mapped
// buffer and decodes the instance identifier rendered there. This is
// the frame's one synchronous wait.
func (rd *Renderer) ReadPickPixel(tex *wgpu.Texture, x, y int) (uint32, error) {
	buf, err := rd.dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "pick-read",
		Size:  uint64(wgpu.CopyBytesPerRowAlignment),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("wgpurender: pick read buffer: %w", err)
	}
	defer buf.Release()

	cmd, err := rd.dev.Device.CreateCommandEncoder(nil)
	if err != nil {
		return 0, fmt.Errorf("wgpurender: pick read encoder: %w", err)
	}
	err = cmd.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: uint32(x), Y: uint32(y)},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(wgpu.CopyBytesPerRowAlignment),
				RowsPerImage: 1,
			},
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return 0, fmt.Errorf("wgpurender: pick copy: %w", err)
	}
	cmdBuf, err := cmd.Finish(nil)
	if err != nil {
		return 0, fmt.Errorf("wgpurender: pick read finish: %w", err)
	}
	rd.dev.Queue.Submit(cmdBuf)

	var id uint32
	var mapErr error
	buf.MapAsync(wgpu.MapModeRead, 0, 4, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("wgpurender: pick map status %s", status.String())
			return
		}
		px := buf.GetMappedRange(0, 4)
		id = picking.Decode([4]uint8{px[0], px[1], px[2], px[3]})
		buf.Unmap()
	})
	rd.dev.WaitDone()
	return id, mapErr
}

// Release releases all GPU resources owned by the renderer.
func (rd *Renderer) Release() {
	rd.registry.Release()
	for _, fb := range rd.frames {
		if fb.projGroup != nil {
			fb.projGroup.Release()
		}
		if fb.projection != nil {
			fb.projection.Release()
		}
		if fb.light != nil {
			fb.light.Release()
		}
		if fb.instances != nil {
			fb.instances.Release()
		}
	}
	rd.frames = nil
}
