// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package bitfield reads and writes arbitrary-width bitfields in SCSI response
// buffers. Bit numbering follows the SCSI convention: bit 7 is the most
// significant bit of a byte, and fields wider than one byte continue into
// subsequent bytes in big-endian order.
package bitfield

import "fmt"

// Span returns the number of bytes touched by a field that starts at bit
// position startBit and is numBits wide.
func Span(startBit, numBits int) int {
	return (numBits + (7 - startBit) + 7) / 8
}

// checkShape panics on descriptors that no valid field table can produce.
// Callers are expected to validate buffer length against Span before calling
// Get or Set; shape violations here indicate an authoring bug, not bad input.
func checkShape(buf []byte, startByte, startBit, numBits int) {
	if startBit < 0 || startBit > 7 {
		panic(fmt.Sprintf("bitfield: start bit %d out of range", startBit))
	}
	if numBits < 1 || numBits > 64 {
		panic(fmt.Sprintf("bitfield: width %d out of range", numBits))
	}
	if startByte < 0 || startByte+Span(startBit, numBits) > len(buf) {
		panic(fmt.Sprintf("bitfield: field at byte %d, bit %d, width %d exceeds %d byte buffer",
			startByte, startBit, numBits, len(buf)))
	}
}

// Get extracts numBits bits starting at bit startBit of buf[startByte],
// continuing into following bytes as needed, and returns them right-aligned.
func Get(buf []byte, startByte, startBit, numBits int) uint64 {
	checkShape(buf, startByte, startBit, numBits)

	var v uint64

	b := startByte
	bit := startBit
	rem := numBits

	for rem > 0 {
		take := bit + 1
		if take > rem {
			take = rem
		}

		shift := uint(bit + 1 - take)
		mask := byte((1 << uint(take)) - 1)
		v = v<<uint(take) | uint64((buf[b]>>shift)&mask)

		rem -= take
		bit = 7
		b++
	}

	return v
}

// Set stores the low numBits bits of v into the field at (startByte, startBit),
// leaving all surrounding bits untouched. Values wider than the field are
// silently truncated; callers must warn the user beforehand if that matters.
func Set(buf []byte, startByte, startBit, numBits int, v uint64) {
	checkShape(buf, startByte, startBit, numBits)

	b := startByte
	bit := startBit
	rem := numBits

	for rem > 0 {
		take := bit + 1
		if take > rem {
			take = rem
		}

		shift := uint(bit + 1 - take)
		mask := byte((1<<uint(take))-1) << shift
		chunk := byte(v>>uint(rem-take)) & byte((1<<uint(take))-1)

		buf[b] = buf[b]&^mask | chunk<<shift

		rem -= take
		bit = 7
		b++
	}
}

// AllOnes reports whether v is the all-ones pattern for a field numBits wide.
// SCSI reserves all-ones to mean "no limit" / "unbounded" in many length and
// count fields.
func AllOnes(v uint64, numBits int) bool {
	if numBits >= 64 {
		return v == ^uint64(0)
	}

	return v == (uint64(1)<<uint(numBits))-1
}

// Mask returns the low-bits mask for a field numBits wide.
func Mask(numBits int) uint64 {
	if numBits >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(numBits)) - 1
}
