// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SCSI generic IO functions.

package scsi

import (
	"fmt"
)

const (
	SG_DXFER_NONE        = -1
	SG_DXFER_TO_DEV      = -2
	SG_DXFER_FROM_DEV    = -3
	SG_DXFER_TO_FROM_DEV = -4

	SG_INFO_OK_MASK = 0x1
	SG_INFO_OK      = 0x0

	SG_IO = 0x2285

	// Timeout in milliseconds
	DEFAULT_TIMEOUT = 20000

	// Sense keys (SPC-5 table 49)
	SENSE_KEY_NOT_READY       = 0x2
	SENSE_KEY_ILLEGAL_REQUEST = 0x5
	SENSE_KEY_ABORTED_COMMAND = 0xb

	// Additional sense code for "invalid command operation code"
	ASC_INVALID_OPCODE = 0x20
)

// SgioError reports a SCSI command that completed with a non-good status.
// The raw sense buffer is retained so callers can distinguish the handful of
// conditions the tool reacts to (invalid opcode, illegal request, not ready).
type SgioError struct {
	ScsiStatus   uint8
	HostStatus   uint16
	DriverStatus uint16
	SenseBuf     [32]byte
}

func (e SgioError) Error() string {
	msg := fmt.Sprintf("SCSI status: %#02x, host status: %#02x, driver status: %#02x",
		e.ScsiStatus, e.HostStatus, e.DriverStatus)

	if key := e.SenseKey(); key != 0 {
		msg += fmt.Sprintf(", sense key: %#x asc: %#02x ascq: %#02x", key, e.Asc(), e.Ascq())
	}

	switch {
	case e.InvalidOpcode():
		msg += " (command not supported; the other MODE SENSE/SELECT size may work)"
	case e.IllegalRequest():
		msg += " (illegal request; the flexible option may help)"
	}

	return msg
}

// SenseKey extracts the sense key from fixed or descriptor format sense data.
func (e SgioError) SenseKey() uint8 {
	switch e.SenseBuf[0] & 0x7f {
	case 0x70, 0x71: // fixed format
		return e.SenseBuf[2] & 0x0f
	case 0x72, 0x73: // descriptor format
		return e.SenseBuf[1] & 0x0f
	}

	return 0
}

// Asc returns the additional sense code.
func (e SgioError) Asc() uint8 {
	switch e.SenseBuf[0] & 0x7f {
	case 0x70, 0x71:
		return e.SenseBuf[12]
	case 0x72, 0x73:
		return e.SenseBuf[2]
	}

	return 0
}

// Ascq returns the additional sense code qualifier.
func (e SgioError) Ascq() uint8 {
	switch e.SenseBuf[0] & 0x7f {
	case 0x70, 0x71:
		return e.SenseBuf[13]
	case 0x72, 0x73:
		return e.SenseBuf[3]
	}

	return 0
}

// InvalidOpcode reports whether the device rejected the command opcode
// itself, which usually means the 6-byte vs 10-byte command variant should
// be switched.
func (e SgioError) InvalidOpcode() bool {
	return e.SenseKey() == SENSE_KEY_ILLEGAL_REQUEST && e.Asc() == ASC_INVALID_OPCODE
}

// IllegalRequest reports an illegal request sense key for a recognized
// opcode (bad field in CDB or parameter list).
func (e SgioError) IllegalRequest() bool {
	return e.SenseKey() == SENSE_KEY_ILLEGAL_REQUEST && e.Asc() != ASC_INVALID_OPCODE
}

// NotReady reports a not-ready or aborted condition; surfaced to the user
// as-is.
func (e SgioError) NotReady() bool {
	key := e.SenseKey()
	return key == SENSE_KEY_NOT_READY || key == SENSE_KEY_ABORTED_COMMAND
}
