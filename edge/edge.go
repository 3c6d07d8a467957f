// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edge decides whether conditionally visible edge lines render
// from a given viewpoint. An optional edge lies between two faces and
// should draw only when it falls on the model's silhouette; the test
// projects the edge and its two control points to screen space and
// compares which side of the edge each control falls on. The same test
// runs in the vertex shaders; the functions here are the reference the
// assemblers mirror and are used directly for CPU-side culling.
package edge

import "cogentcore.org/core/math32"

// Segment is one optional edge. Control1 and Control2 are the
// representative points of the two faces sharing the edge, already in
// the same model space as Position. Direction points from Position to
// the paired endpoint.
type Segment struct {
	Position  math32.Vector3
	Control1  math32.Vector3
	Control2  math32.Vector3
	Direction math32.Vector3
	Color     math32.Vector3
}

// screen projects a model-space point through mvp and
// perspective-divides to a 2-D position.
func screen(mvp *math32.Matrix4, p math32.Vector3) math32.Vector2 {
	v := math32.Vec4(p.X, p.Y, p.Z, 1).MulMatrix4(mvp).PerspDiv()
	return math32.Vec2(v.X, v.Y)
}

// Classify reports whether the segment is visible under the given
// model-view-projection matrix. The edge renders when both control
// points project to the same side of it; controls on opposite sides
// mean the edge sits in a crease already shown by its faces and is
// discarded. A degenerate control direction cannot produce a reliable
// sign, so the edge is kept visible.
func Classify(mvp *math32.Matrix4, seg Segment) bool {
	p1 := screen(mvp, seg.Position)
	p2 := screen(mvp, seg.Position.Add(seg.Direction))
	c1 := screen(mvp, seg.Control1)
	c2 := screen(mvp, seg.Control2)

	dir := p2.Sub(p1)
	if dir.LengthSquared() == 0 {
		return true
	}
	normal := math32.Vec2(-dir.Y, dir.X).Normal()

	d1 := c1.Sub(p2)
	d2 := c2.Sub(p2)
	if d1.LengthSquared() == 0 || d2.LengthSquared() == 0 {
		return true
	}
	s1 := normal.Dot(d1.Normal())
	s2 := normal.Dot(d2.Normal())
	return s1*s2 >= 0
}

// Filter appends to dst the segments of src visible under mvp and
// returns it. dst may be nil.
func Filter(dst []Segment, mvp *math32.Matrix4, src []Segment) []Segment {
	for _, seg := range src {
		if Classify(mvp, seg) {
			dst = append(dst, seg)
		}
	}
	return dst
}
