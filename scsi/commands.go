// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SCSI command definitions.

package scsi

const (
	// SCSI commands used by this package
	SCSI_TEST_UNIT_READY   = 0x00
	SCSI_REQUEST_SENSE     = 0x03
	SCSI_INQUIRY           = 0x12
	SCSI_MODE_SELECT_6     = 0x15
	SCSI_MODE_SENSE_6      = 0x1a
	SCSI_START_STOP_UNIT   = 0x1b
	SCSI_PREVENT_ALLOW     = 0x1e
	SCSI_READ_CAPACITY_10  = 0x25
	SCSI_SYNCHRONIZE_CACHE = 0x35
	SCSI_MODE_SELECT_10    = 0x55
	SCSI_MODE_SENSE_10     = 0x5a

	// Minimum length of standard INQUIRY response
	INQ_REPLY_LEN = 36

	// Mode page control field
	MPAGE_CONTROL_CURRENT    = 0
	MPAGE_CONTROL_CHANGEABLE = 1
	MPAGE_CONTROL_DEFAULT    = 2
	MPAGE_CONTROL_SAVED      = 3

	// MODE SENSE allocation lengths: the initial request size, and the
	// single escalation used when a response is truncated.
	MODE_ALLOC_LEN       = 252
	MODE_ALLOC_LEN_LARGE = 4096
)

// SCSI CDB types
type CDB6 [6]byte
type CDB10 [10]byte
type CDB16 [16]byte

// BuildInquiry returns an INQUIRY CDB. With evpd set, page selects the VPD
// page to fetch; otherwise page must be zero.
func BuildInquiry(evpd bool, page uint8, allocLen uint16) CDB6 {
	cdb := CDB6{SCSI_INQUIRY}

	if evpd {
		cdb[1] = 0x01
		cdb[2] = page
	}

	cdb[3] = uint8(allocLen >> 8)
	cdb[4] = uint8(allocLen)

	return cdb
}

// BuildModeSense6 returns a 6-byte MODE SENSE CDB. pc is the page control
// selector (current / changeable / default / saved).
func BuildModeSense6(dbd bool, pc, page, subpage uint8, allocLen uint8) CDB6 {
	cdb := CDB6{SCSI_MODE_SENSE_6}

	if dbd {
		cdb[1] = 0x08
	}

	cdb[2] = pc<<6 | page&0x3f
	cdb[3] = subpage
	cdb[4] = allocLen

	return cdb
}

// BuildModeSense10 returns a 10-byte MODE SENSE CDB.
func BuildModeSense10(dbd bool, pc, page, subpage uint8, allocLen uint16) CDB10 {
	cdb := CDB10{SCSI_MODE_SENSE_10}

	if dbd {
		cdb[1] = 0x08
	}

	cdb[2] = pc<<6 | page&0x3f
	cdb[3] = subpage
	cdb[7] = uint8(allocLen >> 8)
	cdb[8] = uint8(allocLen)

	return cdb
}

// BuildModeSelect6 returns a 6-byte MODE SELECT CDB. The PF (page format)
// bit is always set: parameter data follows the page layout of SPC.
func BuildModeSelect6(save bool, paramLen uint8) CDB6 {
	cdb := CDB6{SCSI_MODE_SELECT_6, 0x10}

	if save {
		cdb[1] |= 0x01
	}

	cdb[4] = paramLen

	return cdb
}

// BuildModeSelect10 returns a 10-byte MODE SELECT CDB.
func BuildModeSelect10(save bool, paramLen uint16) CDB10 {
	cdb := CDB10{SCSI_MODE_SELECT_10, 0x10}

	if save {
		cdb[1] |= 0x01
	}

	cdb[7] = uint8(paramLen >> 8)
	cdb[8] = uint8(paramLen)

	return cdb
}
