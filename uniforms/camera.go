// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

import "cogentcore.org/core/math32"

// Camera bundles a view and projection matrix pair for uploading into a
// ProjectionData.
type Camera struct {
	// View transforms world into camera-centered coordinates.
	View math32.Matrix4

	// Projection transforms camera coordinates into clip coordinates.
	Projection math32.Matrix4

	// Orthographic records which kind of projection is loaded.
	Orthographic bool
}

// SetPerspective sets a perspective projection with the given vertical
// field of view in degrees.
func (cm *Camera) SetPerspective(fov, aspect, near, far float32) {
	cm.Projection.SetPerspective(fov, aspect, near, far)
	cm.Orthographic = false
}

// SetOrthographic sets an orthographic projection covering the given
// view-space width and height.
func (cm *Camera) SetOrthographic(width, height, near, far float32) {
	cm.Projection.SetOrthographic(width, height, near, far)
	cm.Orthographic = true
}

// LookAt sets the view matrix for a camera at pos facing target, with
// the given up vector.
func (cm *Camera) LookAt(pos, target, up math32.Vector3) {
	cm.View = *ViewMatrix(pos, target, up)
}

// Apply loads the camera into the given projection block.
func (cm *Camera) Apply(pd *ProjectionData) {
	pd.SetView(&cm.View)
	pd.SetProjection(&cm.Projection, cm.Orthographic)
}

// ViewMatrix returns the view matrix for a camera at pos facing target
// position, with the given up vector.
func ViewMatrix(pos, target, up math32.Vector3) *math32.Matrix4 {
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(pos, target, up))
	scale := math32.Vec3(1, 1, 1)
	var cview math32.Matrix4
	cview.SetTransform(pos, lookq, scale)
	view, _ := cview.Inverse()
	return view
}
