// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package vpd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dswarbrick/sdparm/pagedb"
)

// page builds a VPD response buffer: header with the given page code and
// payload length, followed by the payload.
func page(code byte, payload ...byte) []byte {
	buf := []byte{0x00, code, byte(len(payload) >> 8), byte(len(payload))}
	return append(buf, payload...)
}

func TestSupportedPages(t *testing.T) {
	// [pdt=0x00, pagecode=0x00, len=3, pages 0x00 0x80 0x83]
	buf := []byte{0x00, 0x00, 0x00, 0x03, 0x00, 0x80, 0x83}

	res, err := Decode(buf, pagedb.PdtDisk)
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Equal(t, []byte{0x00, 0x80, 0x83}, res.PageList)

	var names []string
	for _, v := range res.Values {
		names = append(names, v.Str)
	}

	assert.Equal(t, []string{
		"Supported VPD pages",
		"Unit serial number",
		"Device identification",
	}, names)
}

func TestSerialNumber(t *testing.T) {
	res, err := Decode(page(0x80, 'W', 'D', '1', '2', '3', 0x00), pagedb.PdtDisk)
	require.NoError(t, err)

	v := res.Find("unit_serial_number")
	require.NotNil(t, v)
	assert.Equal(t, "WD123", v.Str)
}

func TestBlockLimitsTruncatedAtMinimum(t *testing.T) {
	// Page declares 60 payload bytes but the response holds only the
	// 16-byte SBC minimum. The leading fields decode; fields past byte 16
	// are absent, not errors.
	buf := make([]byte, 16)
	buf[0] = 0x00
	buf[1] = 0xb0
	buf[3] = 0x3c
	buf[4] = 0x01                                  // WSNZ
	buf[5] = 0x12                                  // max compare and write length
	buf[6], buf[7] = 0x00, 0x08                    // optimal transfer length granularity
	buf[8], buf[9], buf[10], buf[11] = 0, 0, 8, 0  // max transfer length
	buf[12], buf[13], buf[14], buf[15] = 0, 0, 4, 0 // optimal transfer length

	res, err := Decode(buf, pagedb.PdtDisk)
	require.NoError(t, err)
	assert.True(t, res.Truncated)

	for acr, want := range map[string]uint64{
		"WSNZ":              1,
		"MAX_CAW_LEN":       0x12,
		"OPT_XFER_LEN_GRAN": 8,
		"MAX_XFER_LEN":      0x0800,
	} {
		v := res.Find(acr)
		require.NotNil(t, v, acr)
		assert.Equal(t, want, v.Value, acr)
	}

	// Optional fields beyond the truncation point are reported absent.
	assert.Nil(t, res.Find("MAX_PREFETCH_LEN"))
	assert.Nil(t, res.Find("MAX_UNMAP_LBA_COUNT"))
}

func TestBlockLimitsPdtOverload(t *testing.T) {
	// The same page number decodes differently for a tape device.
	payload := make([]byte, 4)
	payload[0] = 0x01 // WORM

	res, err := Decode(page(0xb0, payload...), pagedb.PdtTape)
	require.NoError(t, err)
	assert.Equal(t, "Sequential access device capabilities", res.Name)

	v := res.Find("WORM")
	require.NotNil(t, v)
	assert.Equal(t, uint64(1), v.Value)
	assert.Nil(t, res.Find("MAX_XFER_LEN"))
}

func TestDeviceIDNaaLengthMismatch(t *testing.T) {
	// One NAA-5 designator declaring 7 bytes (mandated: 8), followed by a
	// valid relative target port designator. The bad designator is reported
	// and skipped; iteration of the rest is unaffected.
	payload := []byte{
		0x01, 0x03, 0x00, 0x07, // binary, lu assoc, NAA
		0x50, 0x00, 0xc5, 0x00, 0x12, 0x34, 0x56,
		0x01, 0x14, 0x00, 0x04, // binary, target port assoc, rel port
		0x00, 0x00, 0x00, 0x02,
	}

	res, err := Decode(page(0x83, payload...), pagedb.PdtDisk)
	require.NoError(t, err)

	require.Len(t, res.Notes, 1)
	assert.Contains(t, res.Notes[0], "NAA-5")
	assert.Contains(t, res.Notes[0], "expected 8")

	assert.Nil(t, res.Find("naa-5"))

	v := res.Find("rel_target_port")
	require.NotNil(t, v)
	assert.Equal(t, uint64(2), v.Value)
}

func TestDeviceIDDesignators(t *testing.T) {
	payload := []byte{
		// NAA-5, correct length
		0x01, 0x03, 0x00, 0x08,
		0x50, 0x00, 0xc5, 0x00, 0x12, 0x34, 0x56, 0x78,
		// SCSI name string (UTF-8)
		0x03, 0x08, 0x00, 0x08,
		'n', 'a', 'a', '.', '5', '0', 0x00, 0x00,
		// UUID, RFC 4122 rendering
		0x01, 0x0a, 0x00, 0x12,
		0x10, 0x00,
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}

	res, err := Decode(page(0x83, payload...), pagedb.PdtDisk)
	require.NoError(t, err)
	assert.Empty(t, res.Notes)

	naa := res.Find("naa-5")
	require.NotNil(t, naa)
	assert.Equal(t, "5000c50012345678", naa.Str)

	name := res.Find("scsi_name_string")
	require.NotNil(t, name)
	assert.Equal(t, "naa.50", name.Str)

	uuid := res.Find("uuid")
	require.NotNil(t, uuid)
	assert.Equal(t, "00010203-0405-0607-0809-0a0b0c0d0e0f", uuid.Str)
}

func TestDesignatorIteratorTermination(t *testing.T) {
	// Iteration must terminate with Exhausted or Malformed on any input,
	// within length/4 steps.
	cases := [][]byte{
		{},
		{0x01},                   // partial header
		{0x01, 0x03, 0x00, 0x08}, // declared body overruns buffer
		{0x01, 0x03, 0x00, 0x00, 0x01, 0x03, 0x00, 0xff},
	}

	for i, buf := range cases {
		it := NewDesignatorIterator(buf, NoFilter)

		steps := 0
		maxSteps := len(buf)/4 + 1

		for {
			_, err := it.Next()
			if err != nil {
				if i == 0 {
					assert.Equal(t, ErrExhausted, err)
				}
				break
			}

			steps++
			require.LessOrEqual(t, steps, maxSteps, "case %d did not terminate", i)
		}
	}
}

func TestDesignatorIteratorMalformedVsExhausted(t *testing.T) {
	// Clean end of list.
	it := NewDesignatorIterator([]byte{0x01, 0x04, 0x00, 0x04, 0, 0, 0, 1}, NoFilter)
	_, err := it.Next()
	require.NoError(t, err)
	_, err = it.Next()
	assert.Equal(t, ErrExhausted, err)

	// Declared length past the buffer: malformed, not exhausted.
	it = NewDesignatorIterator([]byte{0x01, 0x04, 0x00, 0x09, 0, 0, 0, 1}, NoFilter)
	_, err = it.Next()
	var me *MalformedError
	require.ErrorAs(t, err, &me)
}

func TestDesignatorIteratorFilter(t *testing.T) {
	buf := []byte{
		0x01, 0x03, 0x00, 0x08, 0x50, 0, 0, 0, 0, 0, 0, 0, // lu assoc, NAA
		0x01, 0x14, 0x00, 0x04, 0, 0, 0, 1, // port assoc, rel port
	}

	it := NewDesignatorIterator(buf, IterFilter{Association: AssocTargetPort, Type: -1, CodeSet: -1})

	d, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, byte(DesigRelTargetPort), d.Type)

	_, err = it.Next()
	assert.Equal(t, ErrExhausted, err)
}

func TestDeviceConstituentsRecursionGuard(t *testing.T) {
	// Constituent specific descriptor of type 1 nominating page 0x00 must be
	// skipped, not recursed into.
	nested := []byte{0x00, 0x00, 0x00, 0x01, 0x80} // supported pages, one entry

	csd := append([]byte{0x01, 0x00, 0x00, byte(len(nested))}, nested...)

	desc := make([]byte, 36)
	desc[0] = 0x01 // constituent type
	desc[34] = byte(len(csd) >> 8)
	desc[35] = byte(len(csd))
	desc = append(desc, csd...)

	res, err := Decode(page(0x8b, desc...), pagedb.PdtDisk)
	require.NoError(t, err)
	assert.Empty(t, res.Nested)
	require.Len(t, res.Notes, 1)
	assert.Contains(t, res.Notes[0], "0x00")
}

func TestDeviceConstituentsNestedDecode(t *testing.T) {
	// A nested Unit Serial Number page decodes through the general dispatch.
	nested := page(0x80, 'S', 'N', '1')

	csd := append([]byte{0x01, 0x00, 0x00, byte(len(nested))}, nested...)

	desc := make([]byte, 36)
	desc[34] = byte(len(csd) >> 8)
	desc[35] = byte(len(csd))
	desc = append(desc, csd...)

	res, err := Decode(page(0x8b, desc...), pagedb.PdtDisk)
	require.NoError(t, err)
	require.Len(t, res.Nested, 1)

	v := res.Nested[0].Find("unit_serial_number")
	require.NotNil(t, v)
	assert.Equal(t, "SN1", v.Str)
}

func TestScsiPorts(t *testing.T) {
	// One port descriptor with no initiator transport id and one relative
	// target port designator.
	desig := []byte{0x01, 0x14, 0x00, 0x04, 0, 0, 0, 3}

	payload := []byte{
		0x00, 0x00, 0x00, 0x07, // reserved, relative port id 7
		0x00, 0x00, 0x00, 0x00, // reserved, initiator port tpid length 0
		0x00, 0x00, 0x00, byte(len(desig)),
	}
	payload = append(payload, desig...)

	res, err := Decode(page(0x88, payload...), pagedb.PdtDisk)
	require.NoError(t, err)

	rel := res.Find("rel_port")
	require.NotNil(t, rel)
	assert.Equal(t, uint64(7), rel.Value)

	tp := res.Find("rel_target_port")
	require.NotNil(t, tp)
	assert.Equal(t, uint64(3), tp.Value)
}

func TestScsiPortsMalformed(t *testing.T) {
	// Target port descriptors length points past the declared page extent.
	payload := []byte{
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0xf0, // declares 240 designator bytes
	}

	_, err := Decode(page(0x88, payload...), pagedb.PdtDisk)
	var me *MalformedError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, byte(0x88), me.Page)
}

func TestUnknownPageRendersRaw(t *testing.T) {
	res, err := Decode(page(0xc7, 0xde, 0xad, 0xbe, 0xef), pagedb.PdtDisk)
	require.NoError(t, err)
	assert.False(t, res.Known)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, res.Raw)
	assert.Empty(t, res.Values)
}

func TestPageTooShortForHeader(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x83}, pagedb.PdtDisk)
	var me *MalformedError
	require.ErrorAs(t, err, &me)
}

func TestLengthGuardNoOverread(t *testing.T) {
	// For every truncation point of a block limits page, decode must not
	// touch bytes past the truncation and must flag the result truncated.
	full := make([]byte, 64)
	full[1] = 0xb0
	full[3] = 60

	for k := 4; k < len(full); k++ {
		// The bitfield accessor panics on any out-of-bounds read, so a
		// normal return here proves no byte past the prefix was touched.
		res, err := Decode(full[:k], pagedb.PdtDisk)
		require.NoError(t, err, "k=%d", k)
		assert.True(t, res.Truncated, "k=%d", k)
	}
}
