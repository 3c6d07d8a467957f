// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lighting

import "cogentcore.org/core/math32"

// Contribution is the reflected light accumulated for one fragment.
// Contributions are values: each term is computed, returned, and
// merged by the caller, so nothing passes mutable accumulators down
// through the evaluation.
type Contribution struct {
	Diffuse  math32.Vector3
	Specular math32.Vector3
}

// Add merges two contributions additively.
func (c Contribution) Add(o Contribution) Contribution {
	return Contribution{
		Diffuse:  c.Diffuse.Add(o.Diffuse),
		Specular: c.Specular.Add(o.Specular),
	}
}

// LightInView transforms the configured light direction by the inverse
// of the view matrix and normalizes it, yielding the light vector the
// direct-light path shades with. The vector points from the surface
// toward the light.
func LightInView(dir math32.Vector3, view *math32.Matrix4) math32.Vector3 {
	inv, _ := view.Inverse()
	t := math32.Vec3(
		inv[0]*dir.X+inv[4]*dir.Y+inv[8]*dir.Z,
		inv[1]*dir.X+inv[5]*dir.Y+inv[9]*dir.Z,
		inv[2]*dir.X+inv[6]*dir.Y+inv[10]*dir.Z,
	)
	if t.LengthSquared() == 0 {
		return dir
	}
	return t.Normal().Negate()
}

// DirectContribution evaluates the Lambertian diffuse and half-vector
// specular terms for one directional light. All vectors are unit
// length, in the same space as the normal.
func DirectContribution(normal, lightVec, viewDir, lightColor math32.Vector3) Contribution {
	nl := Saturate(normal.Dot(lightVec))
	half := lightVec.Add(viewDir).Normal()
	nh := Saturate(normal.Dot(half))
	spec := SpecularStrength * math32.Pow(nh, Shininess)
	return Contribution{
		Diffuse:  lightColor.MulScalar(nl),
		Specular: lightColor.MulScalar(spec),
	}
}

// BlinnPhong evaluates the full direct-light path: ambient plus the
// merged light contributions applied to the base color, gamma encoded.
// Alpha passes through from the base color.
func BlinnPhong(base math32.Vector4, normal, viewDir math32.Vector3, lightColor math32.Vector3, lightVec math32.Vector3) math32.Vector4 {
	rgb := math32.Vec3(base.X, base.Y, base.Z)
	con := DirectContribution(normal, lightVec, viewDir, lightColor)
	ambient := math32.Vector3Scalar(AmbientStrength)
	lit := rgb.Mul(ambient.Add(con.Diffuse)).Add(con.Specular)
	out := GammaEncode(lit)
	return math32.Vec4(out.X, out.Y, out.Z, base.W)
}
