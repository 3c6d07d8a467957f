// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package picking packs 32-bit instance identifiers into pixel colors
// for the selection pass. The pass renders identifiers instead of
// shaded color into an integer-format target with blending and
// anti-aliasing off, and the host reads a pixel back to recover the
// identifier of whatever drew there.
package picking

// Encode splits id into four bytes, highest byte first, matching the
// channel order of the pick target.
func Encode(id uint32) [4]uint8 {
	return [4]uint8{
		uint8(id >> 24),
		uint8(id >> 16),
		uint8(id >> 8),
		uint8(id),
	}
}

// Decode reassembles an identifier from the four channels of a read
// back pixel.
func Decode(px [4]uint8) uint32 {
	return uint32(px[0])<<24 | uint32(px[1])<<16 | uint32(px[2])<<8 | uint32(px[3])
}

// EncodeColor returns the identifier as normalized color channels, for
// backends whose pick target is a unorm format rather than an integer
// one.
func EncodeColor(id uint32) [4]float32 {
	b := Encode(id)
	return [4]float32{
		float32(b[0]) / 255,
		float32(b[1]) / 255,
		float32(b[2]) / 255,
		float32(b[3]) / 255,
	}
}

// DecodeColor recovers an identifier from normalized channels. Values
// are rounded to the nearest byte so filtering-free readback survives
// float conversion exactly.
func DecodeColor(c [4]float32) uint32 {
	return Decode([4]uint8{
		uint8(c[0]*255 + 0.5),
		uint8(c[1]*255 + 0.5),
		uint8(c[2]*255 + 0.5),
		uint8(c[3]*255 + 0.5),
	})
}
