// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dswarbrick/sdparm/pagedb"
)

// stdInquiry builds a standard INQUIRY response for the given pdt.
func stdInquiry(pdt byte, vendor, product, revision string) []byte {
	buf := make([]byte, 36)
	buf[0] = pdt & 0x1f
	buf[2] = 0x06 // SPC-4

	pad := func(off int, s string, width int) {
		copy(buf[off:off+width], []byte(s))
		for i := len(s); i < width; i++ {
			buf[off+i] = ' '
		}
	}

	pad(8, vendor, 8)
	pad(16, product, 16)
	pad(32, revision, 4)

	return buf
}

func TestDecodeInquiry(t *testing.T) {
	buf := stdInquiry(byte(pagedb.PdtTape), "HP", "Ultrium 8-SCSI", "Y6RZ")
	buf[1] = 0x80 // RMB

	inq, err := DecodeInquiry(buf)
	require.NoError(t, err)

	assert.Equal(t, pagedb.PdtTape, inq.Pdt)
	assert.Equal(t, 0, inq.Qualifier)
	assert.True(t, inq.Removable)
	assert.Equal(t, 0x06, inq.Version)
	assert.Equal(t, "HP", inq.Vendor)
	assert.Equal(t, "Ultrium 8-SCSI", inq.Product)
	assert.Equal(t, "Y6RZ", inq.Revision)
}

func TestDecodeInquiryShort(t *testing.T) {
	_, err := DecodeInquiry(make([]byte, 20))
	assert.Error(t, err)
}

func TestGetInquiry(t *testing.T) {
	dev := &fakeDevice{std: stdInquiry(byte(pagedb.PdtDisk), "ATA", "Samsung SSD 860", "2B6Q")}

	inq, err := GetInquiry(dev)
	require.NoError(t, err)
	assert.Equal(t, pagedb.PdtDisk, inq.Pdt)
	assert.Equal(t, "ATA", inq.Vendor)
}
