// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lighting

import "cogentcore.org/core/math32"

// DielectricF0 is the normal-incidence reflectance of non-metals.
const DielectricF0 = 0.04

// DistributionGGX is the GGX normal distribution with alpha =
// roughness squared.
func DistributionGGX(nh, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	d := nh*nh*(a2-1) + 1
	return a2 / (math32.Pi * d * d)
}

// VisibilitySmith is the height-correlated Smith visibility term,
// already divided by 4 nl nv.
func VisibilitySmith(nl, nv, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	gv := nl * math32.Sqrt(nv*nv*(1-a2)+a2)
	gl := nv * math32.Sqrt(nl*nl*(1-a2)+a2)
	d := gv + gl
	if d <= 0 {
		return 0
	}
	return 0.5 / d
}

// FresnelSchlick is Schlick's approximation of the Fresnel reflectance
// at the given cosine of incidence.
func FresnelSchlick(f0 math32.Vector3, vh float32) math32.Vector3 {
	f := math32.Pow(1-vh, 5)
	one := math32.Vector3Scalar(1)
	return f0.Add(one.Sub(f0).MulScalar(f))
}

// EnvDFG is the analytic approximation of the preintegrated BRDF term
// for image-based specular, after Karis. Returns the scale and bias
// applied to f0.
func EnvDFG(nv, roughness float32) (scale, bias float32) {
	c0 := math32.Vec4(-1, -0.0275, -0.572, 0.022)
	c1 := math32.Vec4(1, 0.0425, 1.04, -0.04)
	r := math32.Vec4(
		roughness*c0.X+c1.X,
		roughness*c0.Y+c1.Y,
		roughness*c0.Z+c1.Z,
		roughness*c0.W+c1.W,
	)
	a004 := math32.Min(r.X*r.X, math32.Pow(2, -9.28*nv))*r.X + r.Y
	return a004*-1.04 + r.Z, a004*1.04 + r.W
}

// EnergyCompensation boosts multi-bounce specular so rough metals do
// not darken. Identity for smooth or dielectric surfaces.
func EnergyCompensation(f0 math32.Vector3, nv, roughness float32) math32.Vector3 {
	scale, bias := EnvDFG(nv, roughness)
	ess := scale + bias
	if ess <= 0 {
		return math32.Vector3Scalar(1)
	}
	one := math32.Vector3Scalar(1)
	return one.Add(f0.MulScalar((1 - ess) / ess))
}

// Surface is the shading point handed to the PBR evaluator. Normal and
// ViewDir are unit vectors in view space.
type Surface struct {
	Albedo    math32.Vector4
	Emissive  math32.Vector3
	Roughness float32
	Metalness float32
	Normal    math32.Vector3
	ViewDir   math32.Vector3
}

// F0 returns the normal-incidence reflectance: the dielectric constant
// blended toward the albedo by metalness.
func (s Surface) F0() math32.Vector3 {
	alb := math32.Vec3(s.Albedo.X, s.Albedo.Y, s.Albedo.Z)
	d := math32.Vector3Scalar(DielectricF0)
	return d.Lerp(alb, s.Metalness)
}

// DirectPBR evaluates one directional light against the surface using
// the GGX specular lobe and a metalness-scaled Lambertian diffuse.
func DirectPBR(s Surface, lightVec, lightColor math32.Vector3) Contribution {
	nl := Saturate(s.Normal.Dot(lightVec))
	if nl <= 0 {
		return Contribution{}
	}
	nv := Saturate(s.Normal.Dot(s.ViewDir))
	half := lightVec.Add(s.ViewDir).Normal()
	nh := Saturate(s.Normal.Dot(half))
	vh := Saturate(s.ViewDir.Dot(half))

	d := DistributionGGX(nh, s.Roughness)
	v := VisibilitySmith(nl, nv, s.Roughness)
	f := FresnelSchlick(s.F0(), vh)

	spec := f.MulScalar(d * v * nl)
	alb := math32.Vec3(s.Albedo.X, s.Albedo.Y, s.Albedo.Z)
	diff := alb.MulScalar(nl * (1 - s.Metalness) / math32.Pi)
	return Contribution{
		Diffuse:  lightColor.Mul(diff),
		Specular: lightColor.Mul(spec),
	}
}

// IndirectPBR evaluates image-based lighting against the surface:
// irradiance-driven diffuse plus prefiltered specular at the mip level
// selected by the roughness, with multi-bounce energy compensation.
func IndirectPBR(s Surface, env Environment) Contribution {
	nv := Saturate(s.Normal.Dot(s.ViewDir))
	f0 := s.F0()

	alb := math32.Vec3(s.Albedo.X, s.Albedo.Y, s.Albedo.Z)
	irr := env.Irradiance(s.Normal)
	diff := irr.Mul(alb).MulScalar(1 - s.Metalness)

	refl := Reflect(s.ViewDir.Negate(), s.Normal)
	radiance := env.Sample(refl, RoughnessToMip(s.Roughness))
	scale, bias := EnvDFG(nv, s.Roughness)
	brdf := f0.MulScalar(scale).Add(math32.Vector3Scalar(bias))
	spec := radiance.Mul(brdf).Mul(EnergyCompensation(f0, nv, s.Roughness))

	return Contribution{Diffuse: diff, Specular: spec}
}

// EvalPBR shades the surface with one directional light plus the
// environment and returns the gamma-encoded color. Alpha passes
// through from the albedo.
func EvalPBR(s Surface, lightVec, lightColor math32.Vector3, env Environment) math32.Vector4 {
	con := DirectPBR(s, lightVec, lightColor).Add(IndirectPBR(s, env))
	lit := con.Diffuse.Add(con.Specular).Add(s.Emissive)
	out := GammaEncode(lit)
	return math32.Vec4(out.X, out.Y, out.Z, s.Albedo.W)
}
