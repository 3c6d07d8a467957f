// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wgpurender

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/goldraw/renderer/binding"
	"github.com/goldraw/renderer/variant"
	"github.com/goldraw/renderer/vertex"
)

// Program is one compiled variant: its shader module, the bind group
// layouts derived from the binding table, and the render pipeline.
type Program struct {
	Key      variant.Key
	module   *wgpu.ShaderModule
	groups   []*wgpu.BindGroupLayout
	pipeline *wgpu.RenderPipeline
}

// Pipeline returns the render pipeline.
func (pr *Program) Pipeline() *wgpu.RenderPipeline { return pr.pipeline }

// GroupLayout returns the bind group layout for the given group
// number, or nil if the variant does not use it.
func (pr *Program) GroupLayout(group int) *wgpu.BindGroupLayout {
	if group >= len(pr.groups) {
		return nil
	}
	return pr.groups[group]
}

func (pr *Program) Release() {
	if pr.pipeline != nil {
		pr.pipeline.Release()
		pr.pipeline = nil
	}
	for _, gl := range pr.groups {
		gl.Release()
	}
	pr.groups = nil
	if pr.module != nil {
		pr.module.Release()
		pr.module = nil
	}
}

// Compiler builds render pipelines from assembled WGSL modules. One
// compiler serves one target configuration (color format, depth
// format, sample count).
type Compiler struct {
	dev         *Device
	colorFormat wgpu.TextureFormat
	depthFormat wgpu.TextureFormat
	samples     uint32
}

// NewCompiler returns a Compiler targeting the given formats. samples
// below 1 is treated as 1.
func NewCompiler(dev *Device, colorFormat, depthFormat wgpu.TextureFormat, samples int) *Compiler {
	if samples < 1 {
		samples = 1
	}
	return &Compiler{dev: dev, colorFormat: colorFormat, depthFormat: depthFormat, samples: uint32(samples)}
}

// Compile implements [variant.Compiler].
func (cp *Compiler) Compile(src variant.Source) (variant.Program, error) {
	module, err := cp.dev.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          src.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src.Module},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module: %w", err)
	}
	pr := &Program{Key: src.Key, module: module}
	pr.groups = cp.groupLayouts(src.Key)

	layout, err := cp.dev.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            src.Label,
		BindGroupLayouts: pr.groups,
	})
	if err != nil {
		pr.Release()
		return nil, fmt.Errorf("pipeline layout: %w", err)
	}
	defer layout.Release()

	pd := &wgpu.RenderPipelineDescriptor{
		Label:  src.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: src.VertexEntry,
			Buffers:    vertexLayouts(src.Key),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: src.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    cp.colorFormat,
				Blend:     blendState(src.Key.Pass),
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: primitiveState(src.Key),
		Multisample: wgpu.MultisampleState{
			Count:                  cp.samples,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}
	if cp.depthFormat != wgpu.TextureFormatUndefined {
		pd.DepthStencil = &wgpu.DepthStencilState{
			Format:            cp.depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilReadMask:   0xFFFFFFFF,
			StencilWriteMask:  0xFFFFFFFF,
		}
	}
	pipeline, err := cp.dev.Device.CreateRenderPipeline(pd)
	if err != nil {
		pr.Release()
		return nil, fmt.Errorf("render pipeline: %w", err)
	}
	pr.pipeline = pipeline
	slog.Debug("wgpurender: pipeline created", "variant", src.Key.String())
	return pr, nil
}

// groupLayouts builds the bind group layouts the variant needs:
// group 0 is the projection block, group 1 the material block plus,
// for lit variants, the light block and, for the image-based path,
// the environment map and sampler.
func (cp *Compiler) groupLayouts(key variant.Key) []*wgpu.BindGroupLayout {
	both := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	uniform := func(bind int) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    uint32(bind),
			Visibility: both,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}
	}

	proj, _ := cp.dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   binding.NameProjectionBlock,
		Entries: []wgpu.BindGroupLayoutEntry{uniform(binding.ProjectionBinding)},
	})

	entries := []wgpu.BindGroupLayoutEntry{uniform(binding.MaterialBinding)}
	if lit(key) {
		entries = append(entries, uniform(binding.LightBinding))
	}
	if lit(key) && key.Pass == variant.MeshPBRPass {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    binding.EnvMapBinding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimensionCube,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    binding.EnvSamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			})
	}
	material, _ := cp.dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   binding.NameMaterialBlock,
		Entries: entries,
	})
	return []*wgpu.BindGroupLayout{proj, material}
}

func lit(key variant.Key) bool {
	return key.Flags.BFCCertified &&
		(key.Pass == variant.MeshPass || key.Pass == variant.MeshPBRPass)
}

// kindFor maps a pass to its geometry kind.
func kindFor(pass variant.Pass) vertex.Kind {
	switch pass {
	case variant.EdgePass:
		return vertex.EdgeKind
	case variant.OptionalEdgePass:
		return vertex.OptionalEdgeKind
	case variant.PickPass:
		return vertex.PickKind
	default:
		return vertex.MeshKind
	}
}

func attrFormat(at vertex.Attribute) wgpu.VertexFormat {
	if at.Name == binding.NameInstancePickID {
		return wgpu.VertexFormatUnorm8x4
	}
	if at.Components == 4 {
		return wgpu.VertexFormatFloat32x4
	}
	return wgpu.VertexFormatFloat32x3
}

func attrLayout(stride int, step wgpu.VertexStepMode, attrs []vertex.Attribute) wgpu.VertexBufferLayout {
	wa := make([]wgpu.VertexAttribute, len(attrs))
	for i, at := range attrs {
		wa[i] = wgpu.VertexAttribute{
			Format:         attrFormat(at),
			Offset:         uint64(at.Offset),
			ShaderLocation: at.Location,
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(stride),
		StepMode:    step,
		Attributes:  wa,
	}
}

// vertexLayouts returns the vertex buffer layouts for the variant:
// slot 0 is the per-vertex layout of the pass's geometry kind, slot 1
// the per-instance layout when instancing is on.
func vertexLayouts(key variant.Key) []wgpu.VertexBufferLayout {
	kind := kindFor(key.Pass)
	layouts := []wgpu.VertexBufferLayout{
		attrLayout(kind.Stride(), wgpu.VertexStepModeVertex, kind.Attributes()),
	}
	if !key.Flags.Instanced {
		return layouts
	}
	if key.Pass == variant.PickPass {
		layouts = append(layouts,
			attrLayout(vertex.PickInstanceStride, wgpu.VertexStepModeInstance, vertex.PickInstanceAttributes()))
		return layouts
	}
	attrs := vertex.InstanceAttributes()
	if !key.Flags.InstancedColors {
		// the color slots stay in the stride but are not declared
		attrs = attrs[:4]
	}
	layouts = append(layouts,
		attrLayout(vertex.InstanceStride, wgpu.VertexStepModeInstance, attrs))
	return layouts
}

func primitiveState(key variant.Key) wgpu.PrimitiveState {
	ps := wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}
	switch key.Pass {
	case variant.EdgePass, variant.OptionalEdgePass:
		ps.Topology = wgpu.PrimitiveTopologyLineList
	case variant.MeshPass, variant.MeshPBRPass:
		if key.Flags.BFCCertified {
			ps.CullMode = wgpu.CullModeBack
		}
	}
	return ps
}

// blendState returns alpha blending for the mesh passes and replace
// for edges and picking; blending the pick target would corrupt the
// encoded identifiers.
func blendState(pass variant.Pass) *wgpu.BlendState {
	switch pass {
	case variant.MeshPass, variant.MeshPBRPass:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	default:
		return &wgpu.BlendStateReplace
	}
}
