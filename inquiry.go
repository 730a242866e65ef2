// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"fmt"
	"strings"

	"github.com/dswarbrick/sdparm/bitfield"
	"github.com/dswarbrick/sdparm/scsi"
)

// Inquiry holds the decoded standard INQUIRY response.
type Inquiry struct {
	Qualifier int
	Pdt       int
	Removable bool
	Version   int
	Protect   bool
	Vendor    string
	Product   string
	Revision  string
}

func (inq *Inquiry) String() string {
	return fmt.Sprintf("%s  %s  %s  [pdt %#x]", inq.Vendor, inq.Product, inq.Revision, inq.Pdt)
}

// asciiField trims a fixed-width space-padded identification field.
func asciiField(buf []byte) string {
	return strings.TrimRight(string(buf), " \x00")
}

// DecodeInquiry decodes a standard INQUIRY response. At least the 36 byte
// mandatory portion must be present.
func DecodeInquiry(buf []byte) (*Inquiry, error) {
	if len(buf) < scsi.INQ_REPLY_LEN {
		return nil, fmt.Errorf("sdparm: INQUIRY response of %d bytes, need %d",
			len(buf), scsi.INQ_REPLY_LEN)
	}

	return &Inquiry{
		Qualifier: int(bitfield.Get(buf, 0, 7, 3)),
		Pdt:       int(bitfield.Get(buf, 0, 4, 5)),
		Removable: bitfield.Get(buf, 1, 7, 1) != 0,
		Version:   int(bitfield.Get(buf, 2, 7, 8)),
		Protect:   bitfield.Get(buf, 5, 0, 1) != 0,
		Vendor:    asciiField(buf[8:16]),
		Product:   asciiField(buf[16:32]),
		Revision:  asciiField(buf[32:36]),
	}, nil
}

// GetInquiry issues a standard INQUIRY and decodes it. The peripheral
// device type it yields steers all subsequent table lookups.
func GetInquiry(tr scsi.Transport) (*Inquiry, error) {
	buf, err := tr.Inquiry(false, 0, scsi.INQ_REPLY_LEN)
	if err != nil {
		return nil, err
	}

	return DecodeInquiry(buf)
}
