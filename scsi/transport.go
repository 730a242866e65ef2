// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package scsi

// Direction of data transfer for a raw command.
type Direction int

const (
	DirNone Direction = iota
	DirFromDevice
	DirToDevice
)

// Transport issues SCSI commands to one device. The decode engines consume
// this interface only; tests substitute an in-memory fake. Each Transport
// owns its own command sequence: commands are synchronous and never overlap.
type Transport interface {
	// Inquiry issues INQUIRY, with evpd selecting a VPD page, and returns
	// the raw response (possibly shorter than allocLen).
	Inquiry(evpd bool, page uint8, allocLen uint16) ([]byte, error)

	// ModeSense issues MODE SENSE(6) or MODE SENSE(10) and returns the raw
	// response including the mode parameter header.
	ModeSense(use6, dbd bool, pc, page, subpage uint8, allocLen uint16) ([]byte, error)

	// ModeSelect issues MODE SELECT(6) or MODE SELECT(10) with the given
	// parameter data.
	ModeSelect(use6, save bool, params []byte) error

	// Exec issues an arbitrary CDB, transferring data per dir. Used by the
	// canned command dispatcher.
	Exec(cdb []byte, dir Direction, data []byte) error
}
