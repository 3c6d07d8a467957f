// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edge

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

// segAt builds a unit edge along +X with its two controls placed at
// the given angles from the edge direction, around the paired
// endpoint.
func segAt(a1, a2 float32) Segment {
	end := math32.Vec3(1, 0, 0)
	return Segment{
		Position:  math32.Vec3(0, 0, 0),
		Direction: math32.Vec3(1, 0, 0),
		Control1:  end.Add(math32.Vec3(math32.Cos(a1), math32.Sin(a1), 0)),
		Control2:  end.Add(math32.Vec3(math32.Cos(a2), math32.Sin(a2), 0)),
	}
}

func TestClassifySameSideVisible(t *testing.T) {
	mvp := math32.Identity4()
	assert.True(t, Classify(mvp, segAt(math32.DegToRad(30), math32.DegToRad(45))))
	assert.True(t, Classify(mvp, segAt(math32.DegToRad(-30), math32.DegToRad(-45))))
}

func TestClassifyOppositeSidesDiscarded(t *testing.T) {
	mvp := math32.Identity4()
	assert.False(t, Classify(mvp, segAt(math32.DegToRad(30), math32.DegToRad(-30))))
	assert.False(t, Classify(mvp, segAt(math32.DegToRad(45), math32.DegToRad(-10))))
}

func TestClassifyDegenerateControlVisible(t *testing.T) {
	mvp := math32.Identity4()
	seg := segAt(math32.DegToRad(30), math32.DegToRad(-30))
	// collapse one control onto the paired endpoint
	seg.Control1 = seg.Position.Add(seg.Direction)
	assert.True(t, Classify(mvp, seg))
}

func TestClassifyDegenerateEdgeVisible(t *testing.T) {
	mvp := math32.Identity4()
	seg := segAt(math32.DegToRad(30), math32.DegToRad(-30))
	seg.Direction = math32.Vec3(0, 0, 0)
	assert.True(t, Classify(mvp, seg))
}

func TestClassifyViewDependent(t *testing.T) {
	// controls straddle the edge in z; looking down -Z they coincide
	// in screen space sign, looking down -Y they straddle
	seg := Segment{
		Position:  math32.Vec3(0, 0, 0),
		Direction: math32.Vec3(1, 0, 0),
		Control1:  math32.Vec3(1.5, 0.2, 0.5),
		Control2:  math32.Vec3(1.5, 0.2, -0.5),
	}
	front := math32.Identity4()
	assert.True(t, Classify(front, seg))

	top := math32.NewLookAt(math32.Vec3(0.5, 3, 0), math32.Vec3(0.5, 0, 0), math32.Vec3(0, 0, -1))
	assert.False(t, Classify(top, seg))
}

func TestClassifyPerspectiveStable(t *testing.T) {
	var proj math32.Matrix4
	proj.SetPerspective(60, 1, 0.1, 100)

	assert.True(t, Classify(&proj, translate(segAt(math32.DegToRad(30), math32.DegToRad(45)), 0, 0, -5)))
	assert.False(t, Classify(&proj, translate(segAt(math32.DegToRad(30), math32.DegToRad(-30)), 0, 0, -5)))
}

func translate(seg Segment, x, y, z float32) Segment {
	d := math32.Vec3(x, y, z)
	seg.Position = seg.Position.Add(d)
	seg.Control1 = seg.Control1.Add(d)
	seg.Control2 = seg.Control2.Add(d)
	return seg
}

func TestFilter(t *testing.T) {
	mvp := math32.Identity4()
	src := []Segment{
		segAt(math32.DegToRad(30), math32.DegToRad(45)),
		segAt(math32.DegToRad(30), math32.DegToRad(-30)),
		segAt(math32.DegToRad(-20), math32.DegToRad(-70)),
	}
	got := Filter(nil, mvp, src)
	assert.Len(t, got, 2)
}
