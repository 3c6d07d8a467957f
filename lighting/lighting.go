// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lighting implements the lighting models evaluated by the
// fragment shaders: the cheap direct-light Blinn-Phong path and the
// physically-based path with image-based lighting. The Go functions
// here are the reference: the shader assemblers inject the constants
// below into both dialects, so the CPU mirror and the two backends
// evaluate the same math and cannot drift apart.
package lighting

import "cogentcore.org/core/math32"

// Constants of the direct-light path. These are injected verbatim into
// the assembled shaders.
const (
	// AmbientStrength scales the base color's ambient term.
	AmbientStrength = 0.4

	// SpecularStrength scales the half-vector specular term.
	SpecularStrength = 0.5

	// Shininess is the specular exponent.
	Shininess = 32.0

	// Gamma used to encode lit output.
	Gamma = 2.2
)

// GammaEncode applies the output gamma to a linear color.
func GammaEncode(c math32.Vector3) math32.Vector3 {
	inv := float32(1.0 / Gamma)
	return math32.Vec3(math32.Pow(c.X, inv), math32.Pow(c.Y, inv), math32.Pow(c.Z, inv))
}

// Reflect returns the reflection of v about the unit normal n.
func Reflect(v, n math32.Vector3) math32.Vector3 {
	return v.Sub(n.MulScalar(2 * v.Dot(n)))
}

// Saturate clamps x to [0, 1].
func Saturate(x float32) float32 {
	return math32.Clamp(x, 0, 1)
}
