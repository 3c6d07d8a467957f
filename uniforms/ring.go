// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniforms

// FrameSlot is the host-side staging area for one in-flight frame:
// the packed uniform blocks and the packed instance buffer. The host
// owns a slot from Next until submission; the GPU owns it from
// submission until the ring wraps back around. Nothing here locks:
// ownership at any instant is exclusive by construction.
type FrameSlot struct {
	// Index identifies the slot, so backends can associate GPU-side
	// buffers with it.
	Index int

	Projection []byte
	Material   []byte
	Light      []byte
	Instances  []byte
}

// FrameRing cycles through a fixed number of FrameSlots so that two
// frames' uniform data never alias the same GPU-visible memory. The
// depth bounds how many frames may be in flight.
type FrameRing struct {
	slots []FrameSlot
	cur   int
}

// DefaultFrameDepth is the default number of in-flight frames.
const DefaultFrameDepth = 2

// NewFrameRing returns a ring with the given depth (minimum 2).
func NewFrameRing(depth int) *FrameRing {
	if depth < 2 {
		depth = 2
	}
	fr := &FrameRing{slots: make([]FrameSlot, depth)}
	for i := range fr.slots {
		s := &fr.slots[i]
		s.Index = i
		s.Projection = make([]byte, ProjectionBlockSize)
		s.Material = make([]byte, PBRBlockSize) // largest material block
		s.Light = make([]byte, LightBlockSize)
	}
	return fr
}

// Depth returns the number of slots.
func (fr *FrameRing) Depth() int { return len(fr.slots) }

// Next advances to the next slot and returns it. Call once per frame,
// before packing any of that frame's data.
func (fr *FrameRing) Next() *FrameSlot {
	fr.cur = (fr.cur + 1) % len(fr.slots)
	return &fr.slots[fr.cur]
}

// Current returns the slot most recently handed out by Next.
func (fr *FrameRing) Current() *FrameSlot {
	return &fr.slots[fr.cur]
}

// SetInstances stages the packed per-instance buffer for this frame,
// reusing the slot's backing array when it is large enough.
func (fs *FrameSlot) SetInstances(data []byte) {
	if cap(fs.Instances) >= len(data) {
		fs.Instances = fs.Instances[:len(data)]
		copy(fs.Instances, data)
	} else {
		fs.Instances = append([]byte(nil), data...)
	}
}
