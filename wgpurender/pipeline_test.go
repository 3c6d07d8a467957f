// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wgpurender

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldraw/renderer/binding"
	"github.com/goldraw/renderer/variant"
	"github.com/goldraw/renderer/vertex"
)

func mustKey(t *testing.T, pass variant.Pass, flags variant.Flags) variant.Key {
	t.Helper()
	key, err := variant.NewKey(pass, flags)
	require.NoError(t, err)
	return key
}

func TestVertexLayoutsMesh(t *testing.T) {
	key := mustKey(t, variant.MeshPass, variant.Flags{BFCCertified: true})
	layouts := vertexLayouts(key)
	require.Len(t, layouts, 1)

	vl := layouts[0]
	assert.Equal(t, uint64(vertex.MeshKind.Stride()), vl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vl.StepMode)
	require.Len(t, vl.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vl.Attributes[0].Format)
	assert.Equal(t, uint32(binding.PositionLoc), vl.Attributes[0].ShaderLocation)
	assert.Equal(t, uint32(binding.NormalLoc), vl.Attributes[1].ShaderLocation)
}

func TestVertexLayoutsInstanced(t *testing.T) {
	key := mustKey(t, variant.MeshPass, variant.Flags{Instanced: true, BFCCertified: true})
	layouts := vertexLayouts(key)
	require.Len(t, layouts, 2)

	inst := layouts[1]
	assert.Equal(t, uint64(vertex.InstanceStride), inst.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, inst.StepMode)
	// without instanced colors only the matrix columns are declared,
	// but the stride still reserves the color slots
	require.Len(t, inst.Attributes, 4)
	assert.Equal(t, uint32(binding.InstanceModel0Loc), inst.Attributes[0].ShaderLocation)
}

func TestVertexLayoutsInstancedColors(t *testing.T) {
	key := mustKey(t, variant.MeshPass,
		variant.Flags{Instanced: true, InstancedColors: true, BFCCertified: true})
	layouts := vertexLayouts(key)
	require.Len(t, layouts, 2)
	require.Len(t, layouts[1].Attributes, 6)
	assert.Equal(t, uint32(binding.InstanceColorLoc), layouts[1].Attributes[4].ShaderLocation)
	assert.Equal(t, uint32(binding.InstanceEdgeColorLoc), layouts[1].Attributes[5].ShaderLocation)
}

func TestVertexLayoutsPick(t *testing.T) {
	key := mustKey(t, variant.PickPass, variant.Flags{Instanced: true})
	layouts := vertexLayouts(key)
	require.Len(t, layouts, 2)

	inst := layouts[1]
	assert.Equal(t, uint64(vertex.PickInstanceStride), inst.ArrayStride)
	require.Len(t, inst.Attributes, 5)
	id := inst.Attributes[4]
	assert.Equal(t, uint32(binding.InstancePickIDLoc), id.ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatUnorm8x4, id.Format)
}

func TestPrimitiveState(t *testing.T) {
	mesh := mustKey(t, variant.MeshPass, variant.Flags{BFCCertified: true})
	ps := primitiveState(mesh)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, ps.Topology)
	assert.Equal(t, wgpu.CullModeBack, ps.CullMode)

	uncert := mustKey(t, variant.MeshPass, variant.Flags{})
	assert.Equal(t, wgpu.CullModeNone, primitiveState(uncert).CullMode)

	edge := mustKey(t, variant.EdgePass, variant.Flags{})
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, primitiveState(edge).Topology)
	assert.Equal(t, wgpu.CullModeNone, primitiveState(edge).CullMode)

	pick := mustKey(t, variant.PickPass, variant.Flags{})
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, primitiveState(pick).Topology)
	assert.Equal(t, wgpu.CullModeNone, primitiveState(pick).CullMode)
}

func TestBlendState(t *testing.T) {
	mesh := blendState(variant.MeshPass)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, mesh.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, mesh.Color.DstFactor)

	// picking must not blend or the encoded identifiers break
	assert.Equal(t, &wgpu.BlendStateReplace, blendState(variant.PickPass))
	assert.Equal(t, &wgpu.BlendStateReplace, blendState(variant.EdgePass))
}

func TestLitAndShape(t *testing.T) {
	lit1 := mustKey(t, variant.MeshPBRPass, variant.Flags{BFCCertified: true})
	assert.True(t, lit(lit1))
	assert.Equal(t, pbrShape, shapeFor(lit1))

	lit2 := mustKey(t, variant.MeshPass, variant.Flags{BFCCertified: true})
	assert.True(t, lit(lit2))
	assert.Equal(t, litShape, shapeFor(lit2))

	flat := mustKey(t, variant.MeshPass, variant.Flags{})
	assert.False(t, lit(flat))
	assert.Equal(t, plainShape, shapeFor(flat))

	edge := mustKey(t, variant.EdgePass, variant.Flags{})
	assert.False(t, lit(edge))
	assert.Equal(t, plainShape, shapeFor(edge))
}

func TestVertexLayoutLocationsWithinLimit(t *testing.T) {
	// baseline devices guarantee 16 vertex attributes (locations 0-15)
	for _, key := range variant.AllKeys() {
		for _, vl := range vertexLayouts(key) {
			for _, at := range vl.Attributes {
				assert.Less(t, at.ShaderLocation, uint32(16), "variant %v", key)
			}
		}
	}
}

func TestInstanceColorStaysFloat(t *testing.T) {
	// the pick id shares the color slot's location, so format
	// selection goes by attribute, not location
	key := mustKey(t, variant.MeshPass,
		variant.Flags{Instanced: true, InstancedColors: true, BFCCertified: true})
	layouts := vertexLayouts(key)
	require.Len(t, layouts, 2)
	for _, at := range layouts[1].Attributes {
		assert.Equal(t, wgpu.VertexFormatFloat32x4, at.Format)
	}
}

func TestGroupKeyPerSlot(t *testing.T) {
	lit := mustKey(t, variant.MeshPass, variant.Flags{BFCCertified: true})
	pbr := mustKey(t, variant.MeshPBRPass, variant.Flags{BFCCertified: true})
	flat := mustKey(t, variant.MeshPass, variant.Flags{})

	// lit and pbr groups bind the slot's light buffer, so each ring
	// slot must get its own group
	assert.NotEqual(t, groupKeyFor(lit, 0), groupKeyFor(lit, 1))
	assert.NotEqual(t, groupKeyFor(pbr, 0), groupKeyFor(pbr, 1))

	// the plain group binds only the part's material and is shared
	assert.Equal(t, groupKeyFor(flat, 0), groupKeyFor(flat, 1))

	assert.NotEqual(t, groupKeyFor(lit, 0), groupKeyFor(pbr, 0))
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, vertex.MeshKind, kindFor(variant.MeshPass))
	assert.Equal(t, vertex.MeshKind, kindFor(variant.MeshPBRPass))
	assert.Equal(t, vertex.EdgeKind, kindFor(variant.EdgePass))
	assert.Equal(t, vertex.OptionalEdgeKind, kindFor(variant.OptionalEdgePass))
	assert.Equal(t, vertex.PickKind, kindFor(variant.PickPass))
}
