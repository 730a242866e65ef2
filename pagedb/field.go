// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package pagedb holds the static descriptor tables for SCSI mode pages, VPD
// pages and their named fields, plus lookup and table integrity checking.
// Tables are defined once at startup and never mutated.
package pagedb

// Peripheral device types (SPC-5). PdtAny marks table entries that apply
// regardless of device type.
const (
	PdtAny = -1

	PdtDisk      = 0x00
	PdtTape      = 0x01
	PdtPrinter   = 0x02
	PdtProcessor = 0x03
	PdtWO        = 0x04
	PdtMMC       = 0x05
	PdtScanner   = 0x06
	PdtOptical   = 0x07
	PdtChanger   = 0x08
	PdtComms     = 0x09
	PdtSAC       = 0x0c
	PdtSES       = 0x0d
	PdtRBC       = 0x0e
	PdtOCRW      = 0x0f
	PdtBCC       = 0x10
	PdtOSD       = 0x11
	PdtADC       = 0x12
	PdtZBC       = 0x14
	PdtWLUN      = 0x1e
	PdtUnknown   = 0x1f

	// Highest concrete pdt tracked by the table checker.
	PdtMax = 0x12
)

// Transport protocol identifiers (SPC-5 table 468). Used to select a
// transport-specific field table.
const (
	TransportNone = -1

	TransportFCP   = 0
	TransportSPI   = 1
	TransportSSA   = 2
	TransportSBP   = 3
	TransportSRP   = 4
	TransportISCSI = 5
	TransportSAS   = 6
	TransportADT   = 7
	TransportATA   = 8
	TransportUAS   = 9
	TransportSOP   = 10
)

// Vendor table identifiers.
const (
	VendorNone = -1

	VendorSeagate = 0
	VendorHitachi = 1
	VendorLTO     = 2
)

// Field flags.
type Flags uint8

const (
	// FlagCommon marks fields shown in summary output.
	FlagCommon Flags = 1 << iota
	// FlagHex displays the value in hex.
	FlagHex
	// FlagTwos displays the value as a two's complement signed number.
	FlagTwos
	// FlagClashOK permits this field's bit range to overlap another field
	// carrying the same flag; the two are told apart by a 4-bit descriptor id
	// read from a fixed location in the page.
	FlagClashOK
)

// FieldDescriptor names one addressable field within a mode page body.
// Offsets are relative to the start of the mode page (including the two or
// four byte page header), per the layout diagrams in the SCSI standards.
type FieldDescriptor struct {
	Acronym string
	Page    int
	Subpage int
	Pdt     int
	// StartBit counts from the MSB: bit 7 is the first bit of a byte.
	StartByte int
	StartBit  int
	NumBits   int
	Flags     Flags
	// DescriptorID disambiguates FlagClashOK fields; -1 when unused.
	DescriptorID int
	Description  string
}

// DescriptorLayout describes mode pages containing a repeating list of
// sub-descriptors (SAS phy descriptors, tape partition descriptors, ...).
// Exactly one of FixedLength or the LengthOffset/LengthWidth pair is set.
type DescriptorLayout struct {
	// CountOffset/CountWidth locate the descriptor count field within the
	// page. CountIncrement of -1 means the count is not read directly but
	// derived from the parameter length divided by the descriptor length.
	CountOffset    int
	CountWidth     int
	CountIncrement int

	FirstOffset int

	// FixedLength > 0 for fixed-size descriptors.
	FixedLength int
	// LengthOffset/LengthWidth locate a self-describing length field within
	// each descriptor (length excludes bytes up to and including the field).
	LengthOffset int
	LengthWidth  int

	HasDescriptorID bool
}

// ModePageDescriptor names one known mode page or subpage.
type ModePageDescriptor struct {
	Page    int
	Subpage int
	Pdt     int
	Acronym string
	Name    string
	Layout  *DescriptorLayout
}

// VpdPageDescriptor names one known VPD page. Pages 0xb0-0xba are overloaded:
// the same page number means different things per pdt, so multiple entries
// with distinct Pdt values may share a Num.
type VpdPageDescriptor struct {
	Num int
	// Subvalue filters device identification designators by association when
	// a page is an alias for a filtered view of page 0x83.
	Subvalue int
	Pdt      int
	Acronym  string
	Name     string
}

// ValueKind tells a presentation layer how to render a decoded value.
type ValueKind int

const (
	KindDec ValueKind = iota
	KindHex
	KindSignedDec
	KindString
)

// DecodedValue is the decode engines' output unit. Produced fresh per decode
// call, never persisted.
type DecodedValue struct {
	Acronym string
	Value   uint64
	Kind    ValueKind
	// DescriptorIndex is 0 for single-instance fields, k for the field's
	// occurrence in the k-th repeated descriptor.
	DescriptorIndex int
	// Str carries string-typed values (serial numbers, name strings).
	Str string
}
