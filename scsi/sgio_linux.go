// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Linux SG_IO passthrough device.

package scsi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SCSI generic IO, defined in <scsi/sg.h>
type sgIoHdr struct {
	interface_id    int32
	dxfer_direction int32
	cmd_len         uint8
	mx_sb_len       uint8
	iovec_count     uint16
	dxfer_len       uint32
	dxferp          uintptr
	cmdp            uintptr // Command pointer
	sbp             uintptr // Sense buf pointer
	timeout         uint32
	flags           uint32
	pack_id         int32
	usr_ptr         uintptr
	status          uint8
	masked_status   uint8
	msg_status      uint8
	sb_len_wr       uint8
	host_status     uint16
	driver_status   uint16
	resid           int32
	duration        uint32
	info            uint32
}

// Device is a SCSI device accessed via the Linux sg driver. It implements
// Transport.
type Device struct {
	Name string
	fd   int
}

// OpenDevice opens a SCSI device node, e.g. /dev/sda or /dev/sg1.
func OpenDevice(name string) (*Device, error) {
	fd, err := unix.Open(name, unix.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open device %s: %v", name, err)
	}

	return &Device{Name: name, fd: fd}, nil
}

func (d *Device) Close() error {
	return unix.Close(d.fd)
}

// execGenericIO runs one SG_IO round trip. On a non-good SCSI status the
// sense buffer is captured into the returned SgioError.
func (d *Device) execGenericIO(hdr *sgIoHdr, senseBuf *[32]byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), SG_IO, uintptr(unsafe.Pointer(hdr)))
	if errno != 0 {
		return errno
	}

	// See http://www.t10.org/lists/2status.htm for SCSI status codes
	if hdr.info&SG_INFO_OK_MASK != SG_INFO_OK {
		return SgioError{
			ScsiStatus:   hdr.status,
			HostStatus:   hdr.host_status,
			DriverStatus: hdr.driver_status,
			SenseBuf:     *senseBuf,
		}
	}

	return nil
}

// Exec issues an arbitrary CDB, transferring len(data) bytes per dir.
func (d *Device) Exec(cdb []byte, dir Direction, data []byte) error {
	senseBuf := [32]byte{}

	hdr := sgIoHdr{
		interface_id: 'S',
		timeout:      DEFAULT_TIMEOUT,
		cmd_len:      uint8(len(cdb)),
		mx_sb_len:    uint8(len(senseBuf)),
		cmdp:         uintptr(unsafe.Pointer(&cdb[0])),
		sbp:          uintptr(unsafe.Pointer(&senseBuf[0])),
	}

	switch dir {
	case DirNone:
		hdr.dxfer_direction = SG_DXFER_NONE
	case DirFromDevice:
		hdr.dxfer_direction = SG_DXFER_FROM_DEV
	case DirToDevice:
		hdr.dxfer_direction = SG_DXFER_TO_DEV
	}

	if len(data) > 0 {
		hdr.dxfer_len = uint32(len(data))
		hdr.dxferp = uintptr(unsafe.Pointer(&data[0]))
	}

	return d.execGenericIO(&hdr, &senseBuf)
}

// Inquiry issues INQUIRY and returns the response truncated to the number of
// bytes the device actually transferred.
func (d *Device) Inquiry(evpd bool, page uint8, allocLen uint16) ([]byte, error) {
	cdb := BuildInquiry(evpd, page, allocLen)
	buf := make([]byte, allocLen)

	if err := d.Exec(cdb[:], DirFromDevice, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ModeSense issues MODE SENSE(6) or MODE SENSE(10).
func (d *Device) ModeSense(use6, dbd bool, pc, page, subpage uint8, allocLen uint16) ([]byte, error) {
	var cdb []byte

	if use6 {
		if allocLen > 0xff {
			allocLen = 0xff
		}
		c := BuildModeSense6(dbd, pc, page, subpage, uint8(allocLen))
		cdb = c[:]
	} else {
		c := BuildModeSense10(dbd, pc, page, subpage, allocLen)
		cdb = c[:]
	}

	buf := make([]byte, allocLen)
	if err := d.Exec(cdb, DirFromDevice, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ModeSelect issues MODE SELECT(6) or MODE SELECT(10) with params as the
// parameter list.
func (d *Device) ModeSelect(use6, save bool, params []byte) error {
	var cdb []byte

	if use6 {
		c := BuildModeSelect6(save, uint8(len(params)))
		cdb = c[:]
	} else {
		c := BuildModeSelect10(save, uint16(len(params)))
		cdb = c[:]
	}

	return d.Exec(cdb, DirToDevice, params)
}
