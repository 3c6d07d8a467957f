// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glrender

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldraw/renderer/binding"
	"github.com/goldraw/renderer/uniforms"
	"github.com/goldraw/renderer/variant"
	"github.com/goldraw/renderer/vertex"
)

func mustKey(t *testing.T, pass variant.Pass, flags variant.Flags) variant.Key {
	t.Helper()
	key, err := variant.NewKey(pass, flags)
	require.NoError(t, err)
	return key
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, vertex.MeshKind, kindFor(variant.MeshPass))
	assert.Equal(t, vertex.MeshKind, kindFor(variant.MeshPBRPass))
	assert.Equal(t, vertex.EdgeKind, kindFor(variant.EdgePass))
	assert.Equal(t, vertex.OptionalEdgeKind, kindFor(variant.OptionalEdgePass))
	assert.Equal(t, vertex.PickKind, kindFor(variant.PickPass))
}

func TestAttributesForPlain(t *testing.T) {
	key := mustKey(t, variant.MeshPass, variant.Flags{BFCCertified: true})
	attrs := attributesFor(key)
	require.Len(t, attrs, 2)
	assert.Equal(t, binding.NamePosition, attrs[0].Name)
	assert.Equal(t, binding.NameNormal, attrs[1].Name)
}

func TestAttributesForInstanced(t *testing.T) {
	key := mustKey(t, variant.MeshPass, variant.Flags{Instanced: true})
	attrs := attributesFor(key)
	// position, normal, four matrix columns
	require.Len(t, attrs, 6)
	assert.Equal(t, uint32(binding.InstanceModel0Loc), attrs[2].Location)

	key = mustKey(t, variant.MeshPass, variant.Flags{Instanced: true, InstancedColors: true})
	attrs = attributesFor(key)
	require.Len(t, attrs, 8)
	assert.Equal(t, binding.NameInstanceColor, attrs[6].Name)
	assert.Equal(t, binding.NameInstanceEdgeColor, attrs[7].Name)
}

func TestAttributesForPick(t *testing.T) {
	key := mustKey(t, variant.PickPass, variant.Flags{Instanced: true})
	attrs := attributesFor(key)
	require.Len(t, attrs, 6)
	last := attrs[5]
	assert.Equal(t, binding.NameInstancePickID, last.Name)
	assert.Equal(t, uint32(binding.InstancePickIDLoc), last.Location)
}

func TestAttributeLocationsWithinLimit(t *testing.T) {
	// drivers guarantee only 16 vertex attributes (locations 0-15)
	for _, key := range variant.AllKeys() {
		for _, at := range attributesFor(key) {
			assert.Less(t, at.Location, uint32(16), "variant %v attr %s", key, at.Name)
		}
	}
}

func TestAttributesForDoesNotMutateKind(t *testing.T) {
	key := mustKey(t, variant.EdgePass, variant.Flags{Instanced: true})
	_ = attributesFor(key)
	// the kind's own attribute table must stay untouched
	assert.Len(t, vertex.EdgeKind.Attributes(), 2)
}

func TestLit(t *testing.T) {
	assert.True(t, lit(mustKey(t, variant.MeshPass, variant.Flags{BFCCertified: true})))
	assert.True(t, lit(mustKey(t, variant.MeshPBRPass, variant.Flags{BFCCertified: true})))
	assert.False(t, lit(mustKey(t, variant.MeshPass, variant.Flags{})))
	assert.False(t, lit(mustKey(t, variant.EdgePass, variant.Flags{})))
}

func TestLegacyUnpackRoundTrip(t *testing.T) {
	pd := uniforms.NewProjectionData()
	pd.Projection.SetPerspective(60, 1.5, 0.1, 100)
	pd.ModelView[12] = 3
	pd.ModelView[13] = -2
	pd.NormalMatrix = [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	pd.IsOrthographic = true
	b := pd.Bytes()

	proj := mat4At(b, uniforms.ProjectionProjOffset)
	assert.Equal(t, [16]float32(pd.Projection), proj)

	mv := mat4At(b, uniforms.ProjectionModelViewOffset)
	assert.Equal(t, float32(3), mv[12])
	assert.Equal(t, float32(-2), mv[13])

	nm := normal3At(b)
	assert.Equal(t, [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, nm)

	ld := uniforms.LightData{
		Color:     math32.Vec4(1, 0.9, 0.8, 1),
		Direction: math32.Vec4(0, 0.6, 0.8, 0),
	}
	lb := ld.Bytes()
	assert.Equal(t, [4]float32{1, 0.9, 0.8, 1}, vec4At(lb, uniforms.LightColorOffset))
	assert.Equal(t, [4]float32{0, 0.6, 0.8, 0}, vec4At(lb, uniforms.LightDirectionOffset))
}

func TestLegacyUniformNamesMatchAssembler(t *testing.T) {
	// every name the legacy upload path writes must be one the
	// assembler declares somewhere
	declared := map[string]bool{
		"projection": true, "modelView": true, "normalMatrix": true,
		"isOrthographic": true, "baseColor": true, "edgeColor": true,
		"lightColor": true, "lightDirection": true,
	}
	for _, name := range legacyUniforms {
		assert.True(t, declared[name], "unexpected legacy uniform %q", name)
	}
}
