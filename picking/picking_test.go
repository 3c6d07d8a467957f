// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeByteOrder(t *testing.T) {
	assert.Equal(t, [4]uint8{0xde, 0xad, 0xbe, 0xef}, Encode(0xdeadbeef))
	assert.Equal(t, [4]uint8{0, 0, 0, 1}, Encode(1))
	assert.Equal(t, [4]uint8{0xff, 0xff, 0xff, 0xff}, Encode(0xffffffff))
}

func TestRoundTrip(t *testing.T) {
	ids := []uint32{0, 1, 255, 256, 0xdeadbeef, 0x01020304, 0xffffffff}
	for _, id := range ids {
		assert.Equal(t, id, Decode(Encode(id)))
		assert.Equal(t, id, DecodeColor(EncodeColor(id)))
	}
	// byte boundaries in every channel
	for b := uint32(0); b < 256; b++ {
		id := b<<24 | (255-b)<<16 | b<<8 | (255 - b)
		assert.Equal(t, id, Decode(Encode(id)))
		assert.Equal(t, id, DecodeColor(EncodeColor(id)))
	}
}
