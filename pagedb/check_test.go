// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package pagedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The shipped tables must stay free of collisions and shape bugs. Any table
// edit that breaks this fails here.
func TestShippedTablesClean(t *testing.T) {
	violations := CheckAllTables()

	for _, v := range violations {
		t.Errorf("table violation: %s", v)
	}
}

func TestCheckTableCollision(t *testing.T) {
	// Two pdt-agnostic fields overlapping on (page 1, subpage 0) byte 2,
	// bits 3..0 vs bits 1..0.
	fields := []FieldDescriptor{
		{Acronym: "ONE", Page: 1, Pdt: PdtAny, StartByte: 2, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "first"},
		{Acronym: "TWO", Page: 1, Pdt: PdtAny, StartByte: 2, StartBit: 1, NumBits: 2, DescriptorID: -1, Description: "second"},
	}

	violations := CheckTable(fields)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, "TWO", v.Acronym)
	assert.Equal(t, "ONE", v.Other)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 2, v.Byte)
	assert.Contains(t, []ViolationKind{CollisionSamePdt, CollisionCrossPdt}, v.Kind)
}

func TestCheckTableCrossPdt(t *testing.T) {
	// A pdt-common field must not overlap a concrete-pdt field in the same
	// run, in either claim order.
	fields := []FieldDescriptor{
		{Acronym: "COMMON", Page: 3, Pdt: PdtAny, StartByte: 4, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "all pdts"},
		{Acronym: "SPEC", Page: 3, Pdt: PdtDisk, StartByte: 4, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "disk only"},
	}

	violations := CheckTable(fields)
	require.Len(t, violations, 1)
	assert.Equal(t, CollisionCrossPdt, violations[0].Kind)
	assert.Equal(t, "SPEC", violations[0].Acronym)
	assert.Equal(t, "COMMON", violations[0].Other)
}

func TestCheckTableDistinctPdtsNoCollision(t *testing.T) {
	// The same bit range on different concrete pdts is legitimate.
	fields := []FieldDescriptor{
		{Acronym: "D", Page: 5, Pdt: PdtDisk, StartByte: 2, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "disk"},
		{Acronym: "T", Page: 5, Pdt: PdtTape, StartByte: 2, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "tape"},
	}

	assert.Empty(t, CheckTable(fields))
}

func TestCheckTableClashOK(t *testing.T) {
	// Clash-flagged fields with distinct descriptor ids may share bits.
	fields := []FieldDescriptor{
		{Acronym: "A", Page: 7, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 8, Flags: FlagClashOK, DescriptorID: 0, Description: "a"},
		{Acronym: "B", Page: 7, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 8, Flags: FlagClashOK, DescriptorID: 1, Description: "b"},
	}
	assert.Empty(t, CheckTable(fields))

	// Same descriptor id: still a collision.
	fields[1].DescriptorID = 0
	violations := CheckTable(fields)
	require.Len(t, violations, 1)
	assert.Equal(t, "B", violations[0].Acronym)

	// A clash field does not excuse overlap with a plain field.
	fields = []FieldDescriptor{
		{Acronym: "PLAIN", Page: 7, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "plain"},
		{Acronym: "CLASH", Page: 7, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 8, Flags: FlagClashOK, DescriptorID: 0, Description: "clash"},
	}
	violations = CheckTable(fields)
	require.Len(t, violations, 1)
	assert.Equal(t, "CLASH", violations[0].Acronym)
}

func TestCheckTableBadShape(t *testing.T) {
	fields := []FieldDescriptor{
		{Acronym: "BADBIT", Page: 1, Pdt: PdtAny, StartByte: 0, StartBit: 9, NumBits: 1, DescriptorID: -1},
		{Acronym: "BADWIDTH", Page: 1, Pdt: PdtAny, StartByte: 0, StartBit: 7, NumBits: 65, DescriptorID: -1},
		{Acronym: "BADOFF", Page: 1, Pdt: PdtAny, StartByte: MaxModePageLen - 1, StartBit: 7, NumBits: 16, DescriptorID: -1},
		// Valid field on the same bits as BADBIT: a shape-invalid field must
		// not have claimed anything.
		{Acronym: "OK", Page: 1, Pdt: PdtAny, StartByte: 0, StartBit: 7, NumBits: 8, DescriptorID: -1},
	}

	violations := CheckTable(fields)
	require.Len(t, violations, 3)
	for _, v := range violations {
		assert.Equal(t, BadShape, v.Kind)
	}
}

func TestCheckTableLints(t *testing.T) {
	fields := []FieldDescriptor{
		{Acronym: "X", Page: 2, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "one thing"},
		{Acronym: "Y", Page: 1, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "out of order"},
		{Acronym: "X", Page: 3, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "another thing"},
	}

	violations := CheckTable(fields)

	var kinds []ViolationKind
	for _, v := range violations {
		kinds = append(kinds, v.Kind)
	}

	assert.Contains(t, kinds, OrderViolation)
	assert.Contains(t, kinds, DuplicateAcronym)
}

func TestByteMasks(t *testing.T) {
	f := &FieldDescriptor{StartByte: 1, StartBit: 3, NumBits: 12}

	masks := byteMasks(f)
	require.Len(t, masks, 2)
	assert.Equal(t, byteMask{1, 0x0f}, masks[0])
	assert.Equal(t, byteMask{2, 0xff}, masks[1])
}
