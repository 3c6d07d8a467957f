// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lighting

import "cogentcore.org/core/math32"

// TransformNormal transforms a normal by the upper-left 3x3 of m and
// renormalizes per axis: each transformed component is divided by the
// squared length of the corresponding basis row before the final
// normalization. This compensates for non-uniform scale in instance
// matrices without computing an inverse-transpose per instance, and is
// mandatory whenever an instance matrix is present. Uniform scale
// leaves the resulting direction unchanged.
func TransformNormal(m *math32.Matrix4, n math32.Vector3) math32.Vector3 {
	t := math32.Vec3(
		m[0]*n.X+m[4]*n.Y+m[8]*n.Z,
		m[1]*n.X+m[5]*n.Y+m[9]*n.Z,
		m[2]*n.X+m[6]*n.Y+m[10]*n.Z,
	)
	sx := m[0]*m[0] + m[4]*m[4] + m[8]*m[8]
	sy := m[1]*m[1] + m[5]*m[5] + m[9]*m[9]
	sz := m[2]*m[2] + m[6]*m[6] + m[10]*m[10]
	if sx > 0 {
		t.X /= sx
	}
	if sy > 0 {
		t.Y /= sy
	}
	if sz > 0 {
		t.Z /= sz
	}
	if t.LengthSquared() == 0 {
		return n
	}
	return t.Normal()
}
