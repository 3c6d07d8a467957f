// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lighting

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVec3Near(t *testing.T, want, got math32.Vector3, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msg)
	assert.InDelta(t, want.Y, got.Y, tol, msg)
	assert.InDelta(t, want.Z, got.Z, tol, msg)
}

func TestTransformNormalIdentity(t *testing.T) {
	m := math32.Identity4()
	n := math32.Vec3(0, 0, 1)
	assertVec3Near(t, n, TransformNormal(m, n), "identity")
}

func TestTransformNormalUniformScaleInvariant(t *testing.T) {
	base := math32.Identity4()
	base.SetTransform(
		math32.Vec3(1, 2, 3),
		math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), 0.7),
		math32.Vec3(1, 1, 1),
	)
	n := math32.Vec3(0.3, -0.5, 0.8).Normal()
	want := TransformNormal(base, n)

	for _, k := range []float32{0.25, 2, 17} {
		scaled := *base
		for i := 0; i < 12; i++ {
			scaled[i] *= k
		}
		assertVec3Near(t, want, TransformNormal(&scaled, n), "uniform scale")
	}
}

func TestTransformNormalNonUniformScale(t *testing.T) {
	// squash along y: the normal of a slope must tilt toward y, which
	// plain 3x3 transformation gets wrong and renormalization fixes
	m := math32.Identity4()
	m[5] = 0.1
	n := math32.Vec3(1, 1, 0).Normal()
	got := TransformNormal(m, n)
	assert.Greater(t, got.Y, got.X)
	assert.InDelta(t, 1.0, got.Length(), tol)
}

func TestTransformNormalDegenerateMatrix(t *testing.T) {
	var m math32.Matrix4 // all zeros
	n := math32.Vec3(0, 1, 0)
	assertVec3Near(t, n, TransformNormal(&m, n), "degenerate falls back to input")
}

func TestBlinnPhongFacingLight(t *testing.T) {
	normal := math32.Vec3(0, 0, 1)
	view := math32.Vec3(0, 0, 1)
	light := math32.Vec3(0, 0, 1)
	white := math32.Vec3(1, 1, 1)

	out := BlinnPhong(math32.Vec4(1, 0, 0, 0.5), normal, view, white, light)

	// ambient 0.4 + diffuse 1.0 saturates red, specular adds to all channels
	lin := float32(AmbientStrength) + 1
	spec := float32(SpecularStrength)
	assert.InDelta(t, math32.Pow(lin+spec, 1/Gamma), out.X, tol)
	assert.InDelta(t, math32.Pow(spec, 1/Gamma), out.Y, tol)
	assert.InDelta(t, 0.5, out.W, tol)
}

func TestBlinnPhongBackFacingLight(t *testing.T) {
	normal := math32.Vec3(0, 0, 1)
	out := BlinnPhong(math32.Vec4(0.2, 0.4, 0.6, 1), normal, normal, math32.Vec3(1, 1, 1), math32.Vec3(0, 0, -1))
	// only the ambient term survives
	assert.InDelta(t, math32.Pow(0.2*AmbientStrength, 1/Gamma), out.X, tol)
	assert.InDelta(t, math32.Pow(0.6*AmbientStrength, 1/Gamma), out.Z, tol)
}

func TestLightInViewIdentity(t *testing.T) {
	view := math32.Identity4()
	dir := math32.Vec3(0, -0.5, 0.7)
	got := LightInView(dir, view)
	want := dir.Normal().Negate()
	assertVec3Near(t, want, got, "identity view")
	assert.InDelta(t, 1.0, got.Length(), tol)
}

func TestContributionAdd(t *testing.T) {
	a := Contribution{Diffuse: math32.Vec3(1, 0, 0), Specular: math32.Vec3(0, 0.5, 0)}
	b := Contribution{Diffuse: math32.Vec3(0, 2, 0), Specular: math32.Vec3(0, 0.5, 1)}
	c := a.Add(b)
	assertVec3Near(t, math32.Vec3(1, 2, 0), c.Diffuse, "diffuse")
	assertVec3Near(t, math32.Vec3(0, 1, 1), c.Specular, "specular")
	// operands unchanged
	assertVec3Near(t, math32.Vec3(1, 0, 0), a.Diffuse, "a untouched")
}

func TestRoughnessToMipTable(t *testing.T) {
	cases := []struct{ rough, mip float32 }{
		{1.0, -2},
		{0.8, -1},
		{0.4, 2},
		{0.305, 3},
		{0.21, 4},
	}
	for _, c := range cases {
		assert.InDelta(t, c.mip, RoughnessToMip(c.rough), tol, "rough %v", c.rough)
	}
	// below the lowest threshold the mapping is logarithmic
	assert.InDelta(t, -2*math32.Log2(1.16*0.1), RoughnessToMip(0.1), tol)
	// and monotonically decreasing in roughness throughout
	prev := RoughnessToMip(1.0)
	for r := float32(0.99); r > 0.01; r -= 0.01 {
		cur := RoughnessToMip(r)
		assert.GreaterOrEqual(t, cur, prev, "rough %v", r)
		prev = cur
	}
}

func TestFresnelSchlickLimits(t *testing.T) {
	f0 := math32.Vec3(0.04, 0.04, 0.04)
	assertVec3Near(t, f0, FresnelSchlick(f0, 1), "normal incidence")
	assertVec3Near(t, math32.Vec3(1, 1, 1), FresnelSchlick(f0, 0), "grazing")
}

func TestSurfaceF0(t *testing.T) {
	s := Surface{Albedo: math32.Vec4(0.8, 0.2, 0.1, 1)}
	assertVec3Near(t, math32.Vector3Scalar(DielectricF0), s.F0(), "dielectric")
	s.Metalness = 1
	assertVec3Near(t, math32.Vec3(0.8, 0.2, 0.1), s.F0(), "metal")
}

func TestDirectPBRBackFacing(t *testing.T) {
	s := Surface{
		Albedo:    math32.Vec4(1, 1, 1, 1),
		Roughness: 0.3,
		Normal:    math32.Vec3(0, 0, 1),
		ViewDir:   math32.Vec3(0, 0, 1),
	}
	con := DirectPBR(s, math32.Vec3(0, 0, -1), math32.Vec3(1, 1, 1))
	assert.Equal(t, Contribution{}, con)
}

func TestIndirectPBRConstantEnvironment(t *testing.T) {
	env := ConstantEnvironment{Ambient: math32.Vec3(0.5, 0.5, 0.5)}
	s := Surface{
		Albedo:    math32.Vec4(1, 1, 1, 1),
		Roughness: 0.3,
		Metalness: 0,
		Normal:    math32.Vec3(0, 0, 1),
		ViewDir:   math32.Vec3(0, 0, 1),
	}
	con := IndirectPBR(s, env)
	assertVec3Near(t, math32.Vec3(0.5, 0.5, 0.5), con.Diffuse, "dielectric diffuse is irradiance times albedo")
	assert.Greater(t, con.Specular.X, float32(0))

	// a full metal has no diffuse response
	s.Metalness = 1
	con = IndirectPBR(s, env)
	assertVec3Near(t, math32.Vec3(0, 0, 0), con.Diffuse, "metal diffuse")
}

func TestEnergyCompensationSmoothIsIdentity(t *testing.T) {
	f0 := math32.Vec3(0.9, 0.9, 0.9)
	ec := EnergyCompensation(f0, 1, 0)
	assert.InDelta(t, 1.0, ec.X, 0.05)
	// rough metal compensates upward
	ec = EnergyCompensation(f0, 0.5, 0.9)
	assert.Greater(t, ec.X, float32(1))
}

func TestEvalPBRAlphaPassthrough(t *testing.T) {
	s := Surface{
		Albedo:    math32.Vec4(0.5, 0.5, 0.5, 0.25),
		Roughness: 0.3,
		Normal:    math32.Vec3(0, 0, 1),
		ViewDir:   math32.Vec3(0, 0, 1),
	}
	out := EvalPBR(s, math32.Vec3(0, 0, 1), math32.Vec3(1, 1, 1), ConstantEnvironment{})
	assert.InDelta(t, 0.25, out.W, tol)
}
