// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

import "cogentcore.org/core/math32"

// ProjectionData is the per-frame / per-draw transform block. The packed
// layout (see Pack) is identical on both backends: all matrix and vector
// fields sit on 16-byte boundaries, and the normal matrix is uploaded as
// three padded columns.
//
// The model matrix is a stack: the host pushes and pops as it walks the
// part hierarchy, and every mutation recomputes ModelView and
// NormalMatrix immediately, so a packed block can never carry a stale
// derived matrix.
type ProjectionData struct {
	// Projection transforms view coordinates into clip coordinates.
	Projection math32.Matrix4

	// View transforms world coordinates into view coordinates.
	View math32.Matrix4

	// ModelView is View times the current model matrix, recomputed on
	// every model or view change.
	ModelView math32.Matrix4

	// NormalMatrix is the inverse-transpose of the upper-left 3x3 of
	// ModelView, column-major.
	NormalMatrix [9]float32

	// IsOrthographic is uploaded as an int32 so the flag has one
	// representation on both backends.
	IsOrthographic bool

	stack []math32.Matrix4
}

// NewProjectionData returns a ProjectionData with identity matrices and
// a model stack holding a single identity entry.
func NewProjectionData() *ProjectionData {
	pd := &ProjectionData{
		Projection: *math32.Identity4(),
		View:       *math32.Identity4(),
	}
	pd.stack = append(pd.stack, *math32.Identity4())
	pd.update()
	return pd
}

// Model returns the current (top of stack) model matrix.
func (pd *ProjectionData) Model() math32.Matrix4 {
	return pd.stack[len(pd.stack)-1]
}

// PushModel multiplies the given matrix onto the current model matrix
// and pushes the product.
func (pd *ProjectionData) PushModel(m *math32.Matrix4) {
	top := pd.Model()
	var mul math32.Matrix4
	mul.MulMatrices(&top, m)
	pd.stack = append(pd.stack, mul)
	pd.update()
}

// PopModel removes the top model matrix. The root entry is never
// popped; it reports whether a pop happened.
func (pd *ProjectionData) PopModel() bool {
	if len(pd.stack) <= 1 {
		return false
	}
	pd.stack = pd.stack[:len(pd.stack)-1]
	pd.update()
	return true
}

// SetView sets the view matrix.
func (pd *ProjectionData) SetView(view *math32.Matrix4) {
	pd.View = *view
	pd.update()
}

// SetProjection sets the projection matrix and the orthographic flag.
func (pd *ProjectionData) SetProjection(proj *math32.Matrix4, orthographic bool) {
	pd.Projection = *proj
	pd.IsOrthographic = orthographic
}

func (pd *ProjectionData) update() {
	model := pd.Model()
	pd.ModelView.MulMatrices(&pd.View, &model)
	pd.NormalMatrix = NormalMatrix(&pd.ModelView)
}

// NormalMatrix returns the inverse-transpose of the upper-left 3x3 of
// the given matrix, column-major. A singular input yields identity,
// matching the reference behavior.
func NormalMatrix(m *math32.Matrix4) [9]float32 {
	// upper-left 3x3, column-major
	a := [9]float32{m[0], m[1], m[2], m[4], m[5], m[6], m[8], m[9], m[10]}
	inv, ok := invert3(a)
	if !ok {
		return identity3()
	}
	return transpose3(inv)
}

func identity3() [9]float32 {
	return [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// invert3 inverts a column-major 3x3 matrix via the adjugate.
func invert3(m [9]float32) ([9]float32, bool) {
	c00 := m[4]*m[8] - m[5]*m[7]
	c01 := m[5]*m[6] - m[3]*m[8]
	c02 := m[3]*m[7] - m[4]*m[6]
	det := m[0]*c00 + m[1]*c01 + m[2]*c02
	if det == 0 {
		return m, false
	}
	id := 1 / det
	return [9]float32{
		c00 * id,
		(m[2]*m[7] - m[1]*m[8]) * id,
		(m[1]*m[5] - m[2]*m[4]) * id,
		c01 * id,
		(m[0]*m[8] - m[2]*m[6]) * id,
		(m[2]*m[3] - m[0]*m[5]) * id,
		c02 * id,
		(m[1]*m[6] - m[0]*m[7]) * id,
		(m[0]*m[4] - m[1]*m[3]) * id,
	}, true
}

func transpose3(m [9]float32) [9]float32 {
	return [9]float32{m[0], m[3], m[6], m[1], m[4], m[7], m[2], m[5], m[8]}
}
