// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func TestViewMatrixMovesCameraToOrigin(t *testing.T) {
	pos := math32.Vec3(3, 2.5, 4)
	target := math32.Vec3(0, 0, 0)
	view := ViewMatrix(pos, target, math32.Vec3(0, 1, 0))

	// the camera position maps to the view-space origin, so the
	// matrix carries the camera translation, not just its rotation
	at := math32.Vector4{X: pos.X, Y: pos.Y, Z: pos.Z, W: 1}.MulMatrix4(view)
	assert.InDelta(t, 0, at.X, 1e-5)
	assert.InDelta(t, 0, at.Y, 1e-5)
	assert.InDelta(t, 0, at.Z, 1e-5)

	// the target lands straight ahead on the negative z axis at the
	// camera's distance
	tg := math32.Vector4{W: 1}.MulMatrix4(view)
	assert.InDelta(t, 0, tg.X, 1e-5)
	assert.InDelta(t, 0, tg.Y, 1e-5)
	assert.InDelta(t, -pos.Length(), tg.Z, 1e-5)
}

func TestCameraApply(t *testing.T) {
	var cam Camera
	cam.SetPerspective(45, 1.5, 0.1, 100)
	cam.LookAt(math32.Vec3(0, 0, 5), math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0))

	pd := NewProjectionData()
	cam.Apply(pd)
	assert.False(t, pd.IsOrthographic)
	// camera at +5z looking at the origin pushes the world back 5
	assert.InDelta(t, -5, pd.View[14], 1e-5)
	assert.InDelta(t, -5, pd.ModelView[14], 1e-5)
}
