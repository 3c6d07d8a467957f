// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lighting

import "cogentcore.org/core/math32"

// Roughness-to-mip table for the prefiltered environment map. The
// thresholds and levels are fixed by the prefiltering layout; both
// shader dialects inline the same piecewise mapping. Below the lowest
// threshold the mip is interpolated logarithmically.
const (
	MipRough0, MipLevel0 = 1.0, -2.0
	MipRough1, MipLevel1 = 0.8, -1.0
	MipRough2, MipLevel2 = 0.4, 2.0
	MipRough3, MipLevel3 = 0.305, 3.0
	MipRough4, MipLevel4 = 0.21, 4.0

	// LowMipBias multiplies the roughness inside the log2 of the
	// final branch.
	LowMipBias = 1.16

	// IrradianceMip is the mip level sampled for diffuse irradiance,
	// the lowest-resolution level of the prefiltered map.
	IrradianceMip = 8
)

// RoughnessToMip maps a material roughness to the environment map mip
// level to sample for specular IBL.
func RoughnessToMip(roughness float32) float32 {
	switch {
	case roughness >= MipRough1:
		return (MipRough0-roughness)*(MipLevel1-MipLevel0)/(MipRough0-MipRough1) + MipLevel0
	case roughness >= MipRough2:
		return (MipRough1-roughness)*(MipLevel2-MipLevel1)/(MipRough1-MipRough2) + MipLevel1
	case roughness >= MipRough3:
		return (MipRough2-roughness)*(MipLevel3-MipLevel2)/(MipRough2-MipRough3) + MipLevel2
	case roughness >= MipRough4:
		return (MipRough3-roughness)*(MipLevel4-MipLevel3)/(MipRough3-MipRough4) + MipLevel3
	default:
		return -2 * math32.Log2(LowMipBias*roughness)
	}
}

// Environment supplies prefiltered radiance for the PBR path. Sample
// returns the radiance along dir at the given (possibly fractional)
// mip level; Irradiance returns the diffuse irradiance along dir,
// conventionally the map's lowest-resolution mip.
type Environment interface {
	Sample(dir math32.Vector3, mip float32) math32.Vector3
	Irradiance(dir math32.Vector3) math32.Vector3
}

// ConstantEnvironment is the no-texture fallback: a uniform ambient
// radiance in every direction at every mip.
type ConstantEnvironment struct {
	Ambient math32.Vector3
}

func (ce ConstantEnvironment) Sample(dir math32.Vector3, mip float32) math32.Vector3 {
	return ce.Ambient
}

func (ce ConstantEnvironment) Irradiance(dir math32.Vector3) math32.Vector3 {
	return ce.Ambient
}
