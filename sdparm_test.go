// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"errors"

	"github.com/dswarbrick/sdparm/scsi"
)

// fakeDevice answers INQUIRY from canned pages and records executed CDBs.
type fakeDevice struct {
	std      []byte
	vpd      map[byte][]byte
	vpdErrs  map[byte]error
	modeResp map[uint8][]byte

	execCDBs [][]byte
	execData []byte
}

func (f *fakeDevice) Inquiry(evpd bool, page uint8, allocLen uint16) ([]byte, error) {
	if !evpd {
		return f.std, nil
	}

	if err := f.vpdErrs[page]; err != nil {
		return nil, err
	}

	buf, ok := f.vpd[page]
	if !ok {
		return nil, errors.New("unsupported VPD page")
	}

	if int(allocLen) < len(buf) {
		return buf[:allocLen], nil
	}

	return buf, nil
}

func (f *fakeDevice) ModeSense(use6, dbd bool, pc, page, subpage uint8, allocLen uint16) ([]byte, error) {
	resp, ok := f.modeResp[pc]
	if !ok {
		return nil, errors.New("no canned response")
	}

	if int(allocLen) < len(resp) {
		return resp[:allocLen], nil
	}

	return resp, nil
}

func (f *fakeDevice) ModeSelect(use6, save bool, params []byte) error {
	return nil
}

func (f *fakeDevice) Exec(cdb []byte, dir scsi.Direction, data []byte) error {
	f.execCDBs = append(f.execCDBs, append([]byte(nil), cdb...))

	if dir == scsi.DirFromDevice {
		copy(data, f.execData)
	}

	return nil
}

// vpdPage assembles a VPD page buffer with the length header filled in.
func vpdPage(code byte, payload ...byte) []byte {
	buf := []byte{0x00, code, byte(len(payload) >> 8), byte(len(payload))}
	return append(buf, payload...)
}
