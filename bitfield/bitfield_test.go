// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package bitfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	assert := assert.New(t)

	buf := []byte{0xb4, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}

	// Single bits of the first byte (0xb4 = 1011 0100)
	assert.Equal(uint64(1), Get(buf, 0, 7, 1))
	assert.Equal(uint64(0), Get(buf, 0, 6, 1))
	assert.Equal(uint64(1), Get(buf, 0, 5, 1))
	assert.Equal(uint64(0), Get(buf, 0, 0, 1))

	// Whole bytes and byte-aligned multi-byte reads
	assert.Equal(uint64(0xb4), Get(buf, 0, 7, 8))
	assert.Equal(uint64(0x1234), Get(buf, 1, 7, 16))
	assert.Equal(uint64(0x12345678), Get(buf, 1, 7, 32))

	// Unaligned, byte-spanning read: low nibble of byte 0 plus high nibble
	// of byte 1.
	assert.Equal(uint64(0x41), Get(buf, 0, 3, 8))

	// 64-bit field starting at bit 7 spans exactly 8 bytes.
	assert.Equal(uint64(0x123456789abcdef0), Get(buf, 1, 7, 64))
}

func TestSet(t *testing.T) {
	assert := assert.New(t)

	buf := make([]byte, 4)
	Set(buf, 1, 7, 16, 0xbeef)
	assert.Equal([]byte{0x00, 0xbe, 0xef, 0x00}, buf)

	// Surrounding bits must be preserved.
	buf = []byte{0xff, 0xff, 0xff}
	Set(buf, 1, 5, 4, 0)
	assert.Equal([]byte{0xff, 0xc3, 0xff}, buf)

	// Silent truncation to the field width.
	buf = make([]byte, 1)
	Set(buf, 0, 3, 4, 0x17)
	assert.Equal([]byte{0x07}, buf)
}

// Round-trip property: for every shape that fits the buffer, a set followed by
// a get returns the stored value, and no bit outside the field changes.
func TestRoundTrip(t *testing.T) {
	const bufLen = 10

	for startByte := 0; startByte < bufLen; startByte++ {
		for startBit := 0; startBit < 8; startBit++ {
			for numBits := 1; numBits <= 64; numBits++ {
				if startByte+Span(startBit, numBits) > bufLen {
					continue
				}

				for _, v := range []uint64{0, 1, 0xa5a5a5a5a5a5a5a5, ^uint64(0)} {
					want := v & Mask(numBits)

					buf := make([]byte, bufLen)
					for i := range buf {
						buf[i] = 0x5a
					}

					ref := make([]byte, bufLen)
					copy(ref, buf)

					Set(buf, startByte, startBit, numBits, v)
					if got := Get(buf, startByte, startBit, numBits); got != want {
						t.Fatalf("byte %d bit %d width %d: set %#x, got %#x",
							startByte, startBit, numBits, want, got)
					}

					// Clear the field in both copies, everything else must match.
					Set(buf, startByte, startBit, numBits, 0)
					Set(ref, startByte, startBit, numBits, 0)
					for i := range buf {
						if buf[i] != ref[i] {
							t.Fatalf("byte %d bit %d width %d: byte %d clobbered (%#x != %#x)",
								startByte, startBit, numBits, i, buf[i], ref[i])
						}
					}
				}
			}
		}
	}
}

func TestAllOnes(t *testing.T) {
	assert := assert.New(t)

	for _, w := range []int{1, 8, 16, 32, 64} {
		buf := make([]byte, 8)
		for i := range buf {
			buf[i] = 0xff
		}

		assert.True(AllOnes(Get(buf, 0, 7, w), w), "width %d", w)

		// Any cleared bit breaks the sentinel.
		Set(buf, 0, 7, 1, 0)
		assert.False(AllOnes(Get(buf, 0, 7, w), w), "width %d", w)
	}

	assert.True(AllOnes(^uint64(0), 64))
	assert.False(AllOnes(^uint64(0)>>1, 64))
	assert.True(AllOnes(1, 1))
	assert.False(AllOnes(0, 1))
}

func TestSpan(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, Span(7, 8))
	assert.Equal(1, Span(0, 1))
	assert.Equal(2, Span(0, 2))
	assert.Equal(2, Span(3, 8))
	assert.Equal(8, Span(7, 64))
	assert.Equal(9, Span(6, 64))
}
