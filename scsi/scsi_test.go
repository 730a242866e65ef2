// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package scsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInquiry(t *testing.T) {
	cdb := BuildInquiry(false, 0, 36)
	assert.Equal(t, CDB6{SCSI_INQUIRY, 0, 0, 0, 36, 0}, cdb)

	cdb = BuildInquiry(true, 0x83, 0xfffc)
	assert.Equal(t, CDB6{SCSI_INQUIRY, 0x01, 0x83, 0xff, 0xfc, 0}, cdb)
}

func TestBuildModeSense(t *testing.T) {
	// Page control bits occupy the top two bits of byte 2.
	cdb := BuildModeSense6(false, MPAGE_CONTROL_CHANGEABLE, 0x08, 0, 252)
	assert.Equal(t, CDB6{SCSI_MODE_SENSE_6, 0, 0x48, 0, 252, 0}, cdb)

	cdb = BuildModeSense6(true, MPAGE_CONTROL_CURRENT, 0x19, 0x01, 252)
	assert.Equal(t, CDB6{SCSI_MODE_SENSE_6, 0x08, 0x19, 0x01, 252, 0}, cdb)

	cdb10 := BuildModeSense10(false, MPAGE_CONTROL_SAVED, 0x1c, 0, 4096)
	assert.Equal(t, CDB10{SCSI_MODE_SENSE_10, 0, 0xdc, 0, 0, 0, 0, 0x10, 0x00, 0}, cdb10)
}

func TestBuildModeSelect(t *testing.T) {
	// PF is always set; SP only on request.
	cdb := BuildModeSelect6(false, 24)
	assert.Equal(t, CDB6{SCSI_MODE_SELECT_6, 0x10, 0, 0, 24, 0}, cdb)

	cdb = BuildModeSelect6(true, 24)
	assert.Equal(t, CDB6{SCSI_MODE_SELECT_6, 0x11, 0, 0, 24, 0}, cdb)

	cdb10 := BuildModeSelect10(true, 0x0123)
	assert.Equal(t, CDB10{SCSI_MODE_SELECT_10, 0x11, 0, 0, 0, 0, 0, 0x01, 0x23, 0}, cdb10)
}

func fixedSense(key, asc, ascq byte) [32]byte {
	var buf [32]byte
	buf[0] = 0x70
	buf[2] = key
	buf[12] = asc
	buf[13] = ascq

	return buf
}

func descriptorSense(key, asc, ascq byte) [32]byte {
	var buf [32]byte
	buf[0] = 0x72
	buf[1] = key
	buf[2] = asc
	buf[3] = ascq

	return buf
}

func TestSenseParsing(t *testing.T) {
	e := SgioError{ScsiStatus: 2, SenseBuf: fixedSense(SENSE_KEY_ILLEGAL_REQUEST, ASC_INVALID_OPCODE, 0)}
	assert.Equal(t, uint8(SENSE_KEY_ILLEGAL_REQUEST), e.SenseKey())
	assert.Equal(t, uint8(ASC_INVALID_OPCODE), e.Asc())
	assert.True(t, e.InvalidOpcode())
	assert.False(t, e.IllegalRequest())
	assert.Contains(t, e.Error(), "command not supported")

	// Same condition in descriptor format sense data.
	e = SgioError{ScsiStatus: 2, SenseBuf: descriptorSense(SENSE_KEY_ILLEGAL_REQUEST, 0x24, 0)}
	assert.Equal(t, uint8(0x24), e.Asc())
	assert.False(t, e.InvalidOpcode())
	assert.True(t, e.IllegalRequest())

	e = SgioError{ScsiStatus: 2, SenseBuf: fixedSense(SENSE_KEY_NOT_READY, 0x04, 0x02)}
	assert.True(t, e.NotReady())
	assert.Equal(t, uint8(0x02), e.Ascq())

	// Deferred error (0x71) parses like the current fixed format.
	buf := fixedSense(SENSE_KEY_ABORTED_COMMAND, 0, 0)
	buf[0] = 0x71
	e = SgioError{ScsiStatus: 2, SenseBuf: buf}
	assert.True(t, e.NotReady())

	// Unrecognized response code yields no sense information.
	buf[0] = 0x00
	e = SgioError{ScsiStatus: 2, SenseBuf: buf}
	assert.Equal(t, uint8(0), e.SenseKey())
}
