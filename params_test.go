// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dswarbrick/sdparm/mode"
	"github.com/dswarbrick/sdparm/pagedb"
	"github.com/dswarbrick/sdparm/scsi"
)

// cachingResponse builds a 6-byte format MODE SENSE response for the
// caching page with the given WCE state.
func cachingResponse(wce bool) []byte {
	body := make([]byte, 20)
	body[0] = 0x08
	body[1] = 18

	if wce {
		body[2] = 0x04
	}

	resp := []byte{byte(3 + len(body)), 0x00, 0x00, 0x00}

	return append(resp, body...)
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment("WCE=1")
	require.NoError(t, err)
	assert.Equal(t, Assignment{Acronym: "WCE", Value: 1, DescriptorID: -1}, a)

	a, err = ParseAssignment("MAXP=0x1f")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1f), a.Value)

	for _, bad := range []string{"WCE", "=1", "WCE=zz", ""} {
		_, err := ParseAssignment(bad)
		assert.Error(t, err, bad)
	}
}

func TestSetFields(t *testing.T) {
	dev := &fakeDevice{modeResp: map[uint8][]byte{
		scsi.MPAGE_CONTROL_CURRENT: cachingResponse(false),
	}}

	res, err := SetFields(dev, mode.FetchOpts{Use6: true}, pagedb.GenericSelector,
		[]Assignment{{Acronym: "WCE", Value: 1, DescriptorID: -1}}, pagedb.PdtDisk, false)
	require.NoError(t, err)
	assert.Empty(t, res.Truncations)
}

func TestSetFieldsUnknownAcronym(t *testing.T) {
	dev := &fakeDevice{}

	_, err := SetFields(dev, mode.FetchOpts{Use6: true}, pagedb.GenericSelector,
		[]Assignment{{Acronym: "NO_SUCH", Value: 1, DescriptorID: -1}}, pagedb.PdtDisk, false)
	assert.Error(t, err)
}

func TestSetFieldsRejectsMixedPages(t *testing.T) {
	dev := &fakeDevice{modeResp: map[uint8][]byte{
		scsi.MPAGE_CONTROL_CURRENT: cachingResponse(false),
	}}

	// WCE lives on the caching page, SWP on the control page.
	_, err := SetFields(dev, mode.FetchOpts{Use6: true}, pagedb.GenericSelector,
		[]Assignment{
			{Acronym: "WCE", Value: 1, DescriptorID: -1},
			{Acronym: "SWP", Value: 1, DescriptorID: -1},
		}, pagedb.PdtDisk, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one page per invocation")
}

func TestGetField(t *testing.T) {
	resp := cachingResponse(true)

	dev := &fakeDevice{modeResp: map[uint8][]byte{
		scsi.MPAGE_CONTROL_CURRENT:    resp,
		scsi.MPAGE_CONTROL_CHANGEABLE: cachingResponse(false),
		scsi.MPAGE_CONTROL_DEFAULT:    resp,
		scsi.MPAGE_CONTROL_SAVED:      resp,
	}}

	f, byControl, err := GetField(dev, mode.FetchOpts{Use6: true}, pagedb.GenericSelector,
		"WCE", pagedb.PdtDisk, -1)
	require.NoError(t, err)
	assert.Equal(t, 0x08, f.Page)

	assert.Equal(t, uint64(1), byControl[scsi.MPAGE_CONTROL_CURRENT])
	assert.Equal(t, uint64(0), byControl[scsi.MPAGE_CONTROL_CHANGEABLE])
	assert.Equal(t, uint64(1), byControl[scsi.MPAGE_CONTROL_SAVED])
}

func TestGetModePage(t *testing.T) {
	resp := cachingResponse(true)

	dev := &fakeDevice{modeResp: map[uint8][]byte{
		scsi.MPAGE_CONTROL_CURRENT: resp,
		scsi.MPAGE_CONTROL_DEFAULT: resp,
	}}

	mpd := pagedb.FindModePage(pagedb.GenericSelector, 0x08, 0, pagedb.PdtDisk)
	require.NotNil(t, mpd)

	rep, err := GetModePage(dev, mode.FetchOpts{Use6: true}, pagedb.GenericSelector,
		mpd, pagedb.PdtDisk, false)
	require.NoError(t, err)

	// Changeable and saved were unavailable: reported in the mask and as
	// warnings, not errors.
	assert.Equal(t, uint8(1<<scsi.MPAGE_CONTROL_CURRENT|1<<scsi.MPAGE_CONTROL_DEFAULT), rep.Mask)
	assert.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Values, uint8(scsi.MPAGE_CONTROL_CURRENT))
	assert.NotContains(t, rep.Values, uint8(scsi.MPAGE_CONTROL_CHANGEABLE))
	assert.NotContains(t, rep.Values, uint8(scsi.MPAGE_CONTROL_SAVED))
}
