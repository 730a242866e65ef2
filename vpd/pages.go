// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Page-specific VPD decoders. Each decoder validates its page minimum before
// touching the payload and re-checks bounds before every descriptor access.

package vpd

import (
	"fmt"

	"github.com/dswarbrick/sdparm/pagedb"
)

func init() {
	any := pagedb.PdtAny

	register(0x00, any, decodeSupportedPages)
	register(0x80, any, decodeSerialNumber)
	register(0x83, any, decodeDeviceID)
	register(0x86, any, decodeExtendedInquiry)
	register(0x88, any, decodeScsiPorts)
	register(0x8a, any, decodePowerCondition)
	register(0x8b, any, decodeDeviceConstituents)

	register(0xb0, pagedb.PdtDisk, decodeBlockLimits)
	register(0xb0, pagedb.PdtTape, decodeSequentialCaps)
	register(0xb1, pagedb.PdtDisk, decodeBlockDevChars)
	register(0xb1, pagedb.PdtTape, decodeManufacturedSerial)
	register(0xb2, pagedb.PdtDisk, decodeLogicalBlockProvisioning)
	register(0xb2, pagedb.PdtTape, decodeTapeAlertFlags)
	register(0xb3, pagedb.PdtDisk, decodeReferrals)
}

// Supported VPD Pages [0x00]: the payload is a list of supported page
// numbers, one byte each.
func decodeSupportedPages(c *ctx) error {
	c.res.PageList = append([]byte(nil), c.body()...)

	for _, num := range c.res.PageList {
		v := pagedb.DecodedValue{Acronym: "page", Value: uint64(num), Kind: pagedb.KindHex}
		if pd := pagedb.FindVpdPage(int(num), c.pdt); pd != nil {
			v.Str = pd.Name
		}

		c.res.add(v)
	}

	return nil
}

// Unit Serial Number [0x80].
func decodeSerialNumber(c *ctx) error {
	c.res.add(pagedb.DecodedValue{
		Acronym: "unit_serial_number",
		Kind:    pagedb.KindString,
		Str:     string(trimNul(c.body())),
	})

	return nil
}

// Device Identification [0x83]: a list of designator descriptors.
func decodeDeviceID(c *ctx) error {
	return c.decodeDesignatorList(c.body())
}

// decodeDesignatorList runs the shared designator iteration primitive over
// one designator list and records the decoded identifiers. A designator
// with a bad length is reported and skipped; iteration continues. Malformed
// list structure aborts the page.
func (c *ctx) decodeDesignatorList(list []byte) error {
	it := NewDesignatorIterator(list, NoFilter)

	for idx := 0; ; idx++ {
		d, err := it.Next()
		if err == ErrExhausted {
			return nil
		}

		if err != nil {
			if me, ok := err.(*MalformedError); ok {
				me.Page = c.res.Page
			}

			return err
		}

		vals, note := decodeDesignator(d)
		if note != "" {
			c.res.note("%s", note)
			continue
		}

		for _, v := range vals {
			v.DescriptorIndex = idx
			c.res.add(v)
		}
	}
}

// Extended INQUIRY Data [0x86].
func decodeExtendedInquiry(c *ctx) error {
	if err := c.require(8, "extended inquiry data"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"ACTIVATE_MICROCODE", 4, 7, 2, pagedb.KindDec},
		{"SPT", 4, 5, 3, pagedb.KindDec},
		{"GRD_CHK", 4, 2, 1, pagedb.KindDec},
		{"APP_CHK", 4, 1, 1, pagedb.KindDec},
		{"REF_CHK", 4, 0, 1, pagedb.KindDec},
		{"UASK_SUP", 5, 5, 1, pagedb.KindDec},
		{"GROUP_SUP", 5, 4, 1, pagedb.KindDec},
		{"PRIOR_SUP", 5, 3, 1, pagedb.KindDec},
		{"HEADSUP", 5, 2, 1, pagedb.KindDec},
		{"ORDSUP", 5, 1, 1, pagedb.KindDec},
		{"SIMPSUP", 5, 0, 1, pagedb.KindDec},
		{"WU_SUP", 6, 3, 1, pagedb.KindDec},
		{"CRD_SUP", 6, 2, 1, pagedb.KindDec},
		{"NV_SUP", 6, 1, 1, pagedb.KindDec},
		{"V_SUP", 6, 0, 1, pagedb.KindDec},
		{"P_I_I_SUP", 7, 4, 1, pagedb.KindDec},
		{"LUICLR", 7, 0, 1, pagedb.KindDec},
		{"R_SUP", 8, 4, 1, pagedb.KindDec},
		{"CBCS", 8, 0, 1, pagedb.KindDec},
		{"MULTI_IT_NEXUS_UCODE", 9, 3, 4, pagedb.KindDec},
		{"EXTENDED_SELF_TEST", 10, 7, 16, pagedb.KindDec},
		{"POA_SUP", 12, 7, 1, pagedb.KindDec},
		{"HRA_SUP", 12, 6, 1, pagedb.KindDec},
		{"VSA_SUP", 12, 5, 1, pagedb.KindDec},
		{"MAX_SENSE_LEN", 13, 7, 8, pagedb.KindDec},
	})

	return nil
}

// SCSI Ports [0x88]: repeating port descriptors, each embedding an initiator
// transport id and a target port designator list, both self-describing.
func decodeScsiPorts(c *ctx) error {
	if err := c.require(headerLen, "scsi ports page"); err != nil {
		return err
	}

	off := headerLen
	portIdx := 0

	for off < c.avail() {
		// Each port descriptor: 2 reserved bytes, relative port id,
		// 2 reserved, initiator port transport id length + data, then
		// 2 reserved, target port descriptors length + designators.
		if err := c.boundsCheck(off, 8, "scsi ports port descriptor header"); err != nil {
			return err
		}

		relPort := uint64(c.buf[off+2])<<8 | uint64(c.buf[off+3])
		initLen := int(c.buf[off+6])<<8 | int(c.buf[off+7])

		c.res.add(pagedb.DecodedValue{
			Acronym: "rel_port", Value: relPort, Kind: pagedb.KindDec,
			DescriptorIndex: portIdx,
		})

		off += 8
		if err := c.boundsCheck(off, initLen+4, "initiator port transport id"); err != nil {
			return err
		}
		off += initLen

		// Target port descriptors length at the following 2 reserved +
		// 2 length bytes.
		tgtLen := int(c.buf[off+2])<<8 | int(c.buf[off+3])
		off += 4

		if err := c.boundsCheck(off, tgtLen, "target port designators"); err != nil {
			return err
		}

		if err := c.decodeDesignatorList(c.buf[off : off+tgtLen]); err != nil {
			return err
		}

		off += tgtLen
		portIdx++
	}

	return nil
}

// boundsCheck verifies that n bytes at off lie within the declared and
// available page extent, before any dereference.
func (c *ctx) boundsCheck(off, n int, what string) error {
	if off+n > c.declared {
		return &MalformedError{Page: c.res.Page, Reason: fmt.Sprintf(
			"%s at offset %d needs %d bytes, page declares %d", what, off, n, c.declared)}
	}

	if off+n > len(c.buf) {
		return &MalformedError{Page: c.res.Page, Reason: fmt.Sprintf(
			"%s at offset %d needs %d bytes, %d available", what, off, n, len(c.buf))}
	}

	return nil
}

// Power Condition [0x8a].
func decodePowerCondition(c *ctx) error {
	if err := c.require(18, "power condition page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"STANDBY_Y", 4, 1, 1, pagedb.KindDec},
		{"STANDBY_Z", 4, 0, 1, pagedb.KindDec},
		{"IDLE_C", 5, 2, 1, pagedb.KindDec},
		{"IDLE_B", 5, 1, 1, pagedb.KindDec},
		{"IDLE_A", 5, 0, 1, pagedb.KindDec},
		{"STOPPED_RECOVERY_TIME", 6, 7, 16, pagedb.KindDec},
		{"STANDBY_Z_RECOVERY_TIME", 8, 7, 16, pagedb.KindDec},
		{"STANDBY_Y_RECOVERY_TIME", 10, 7, 16, pagedb.KindDec},
		{"IDLE_A_RECOVERY_TIME", 12, 7, 16, pagedb.KindDec},
		{"IDLE_B_RECOVERY_TIME", 14, 7, 16, pagedb.KindDec},
		{"IDLE_C_RECOVERY_TIME", 16, 7, 16, pagedb.KindDec},
	})

	return nil
}

// Device Constituents [0x8b]: repeating constituent descriptors; each may
// embed further VPD pages as constituent specific descriptors of type 1.
func decodeDeviceConstituents(c *ctx) error {
	const descMin = 36

	off := headerLen
	constIdx := 0

	for off < c.avail() {
		if err := c.boundsCheck(off, descMin, "constituent descriptor"); err != nil {
			return err
		}

		d := c.buf[off:]
		csdLen := int(d[34])<<8 | int(d[35])

		c.res.add(pagedb.DecodedValue{
			Acronym: "constituent_type", Value: uint64(d[0]), Kind: pagedb.KindDec,
			DescriptorIndex: constIdx,
		})
		c.res.add(pagedb.DecodedValue{
			Acronym: "constituent_device_type", Value: uint64(d[1] & 0x1f), Kind: pagedb.KindDec,
			DescriptorIndex: constIdx,
		})

		if err := c.boundsCheck(off+descMin, csdLen, "constituent specific descriptors"); err != nil {
			return err
		}

		if err := c.decodeConstituentSpecific(c.buf[off+descMin:off+descMin+csdLen], constIdx); err != nil {
			return err
		}

		off += descMin + csdLen
		constIdx++
	}

	return nil
}

// decodeConstituentSpecific walks the constituent specific descriptors of
// one constituent. Type 1 embeds a whole VPD page; the engine recurses into
// the general dispatch for it, but never into Supported VPD Pages (0x00),
// which would recurse without bound.
func (c *ctx) decodeConstituentSpecific(buf []byte, constIdx int) error {
	off := 0

	for off < len(buf) {
		if off+4 > len(buf) {
			return &MalformedError{Page: c.res.Page, Reason: fmt.Sprintf(
				"constituent specific descriptor header at offset %d overruns %d bytes",
				off, len(buf))}
		}

		csdType := buf[off]
		dataLen := int(buf[off+2])<<8 | int(buf[off+3])

		if off+4+dataLen > len(buf) {
			return &MalformedError{Page: c.res.Page, Reason: fmt.Sprintf(
				"constituent specific descriptor at offset %d declares %d bytes, %d remain",
				off, dataLen, len(buf)-off-4)}
		}

		data := buf[off+4 : off+4+dataLen]

		if csdType == 1 && len(data) >= headerLen {
			nestedPage := data[1]

			switch {
			case nestedPage == 0x00:
				// Explicit exclusion: a nested Supported VPD Pages would
				// invite unbounded recursion.
				c.res.note("constituent %d nominates page 0x00; skipped", constIdx)
			case c.depth+1 >= maxNesting:
				c.res.note("constituent %d exceeds nesting limit; skipped", constIdx)
			default:
				nested, err := decode(data, c.pdt, c.depth+1)
				if nested != nil {
					c.res.Nested = append(c.res.Nested, nested)
				}

				if err != nil {
					c.res.note("constituent %d: %v", constIdx, err)
				}
			}
		}

		off += 4 + dataLen
	}

	return nil
}

// Block Limits [0xb0, disk].
func decodeBlockLimits(c *ctx) error {
	// 16 bytes is the SBC-3 minimum; later revisions append optional fields
	// that are simply absent on shorter pages.
	if err := c.require(16, "block limits page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"WSNZ", 4, 0, 1, pagedb.KindDec},
		{"MAX_CAW_LEN", 5, 7, 8, pagedb.KindDec},
		{"OPT_XFER_LEN_GRAN", 6, 7, 16, pagedb.KindDec},
		{"MAX_XFER_LEN", 8, 7, 32, pagedb.KindDec},
		{"OPT_XFER_LEN", 12, 7, 32, pagedb.KindDec},
		{"MAX_PREFETCH_LEN", 16, 7, 32, pagedb.KindDec},
		{"MAX_UNMAP_LBA_COUNT", 20, 7, 32, pagedb.KindDec},
		{"MAX_UNMAP_BLOCK_DESC_COUNT", 24, 7, 32, pagedb.KindDec},
		{"OPT_UNMAP_GRAN", 28, 7, 32, pagedb.KindDec},
		{"UGAVALID", 32, 7, 1, pagedb.KindDec},
		{"UNMAP_GRAN_ALIGNMENT", 32, 6, 31, pagedb.KindDec},
		{"MAX_WRITE_SAME_LEN", 36, 7, 64, pagedb.KindDec},
	})

	return nil
}

// Sequential-access device capabilities [0xb0, tape].
func decodeSequentialCaps(c *ctx) error {
	if err := c.require(6, "sequential access capabilities page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"TSMC", 4, 1, 1, pagedb.KindDec},
		{"WORM", 4, 0, 1, pagedb.KindDec},
	})

	return nil
}

// Block Device Characteristics [0xb1, disk].
func decodeBlockDevChars(c *ctx) error {
	if err := c.require(8, "block device characteristics page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"MEDIUM_ROTATION_RATE", 4, 7, 16, pagedb.KindDec},
		{"PRODUCT_TYPE", 6, 7, 8, pagedb.KindDec},
		{"WABEREQ", 7, 7, 2, pagedb.KindDec},
		{"WACEREQ", 7, 5, 2, pagedb.KindDec},
		{"NOMINAL_FORM_FACTOR", 7, 3, 4, pagedb.KindDec},
		{"ZONED", 8, 5, 2, pagedb.KindDec},
		{"BOCS", 8, 2, 1, pagedb.KindDec},
		{"FUAB", 8, 1, 1, pagedb.KindDec},
		{"VBULS", 8, 0, 1, pagedb.KindDec},
		{"DEPOPULATION_TIME", 12, 7, 32, pagedb.KindDec},
	})

	return nil
}

// Manufacturer-assigned serial number [0xb1, tape].
func decodeManufacturedSerial(c *ctx) error {
	c.res.add(pagedb.DecodedValue{
		Acronym: "manufacturer_serial_number",
		Kind:    pagedb.KindString,
		Str:     string(trimNul(c.body())),
	})

	return nil
}

// Logical Block Provisioning [0xb2, disk]. When the DP bit is set, a
// provisioning group descriptor (one designator) follows at byte 8.
func decodeLogicalBlockProvisioning(c *ctx) error {
	if err := c.require(8, "logical block provisioning page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"THRESHOLD_EXPONENT", 4, 7, 8, pagedb.KindDec},
		{"LBPU", 5, 7, 1, pagedb.KindDec},
		{"LBPWS", 5, 6, 1, pagedb.KindDec},
		{"LBPWS10", 5, 5, 1, pagedb.KindDec},
		{"LBPRZ", 5, 4, 3, pagedb.KindDec},
		{"ANC_SUP", 5, 1, 1, pagedb.KindDec},
		{"DP", 5, 0, 1, pagedb.KindDec},
		{"MIN_PERCENTAGE", 6, 7, 5, pagedb.KindDec},
		{"PROVISIONING_TYPE", 6, 2, 3, pagedb.KindDec},
	})

	if dp := c.res.Find("DP"); dp != nil && dp.Value == 1 {
		if c.avail() > 8 {
			return c.decodeDesignatorList(c.buf[8:c.avail()])
		}

		c.res.note("DP set but no provisioning group descriptor present")
	}

	return nil
}

// TapeAlert supported flags [0xb2, tape]: a 64-bit flag mask.
func decodeTapeAlertFlags(c *ctx) error {
	if err := c.require(12, "tapealert supported flags page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"TAPEALERT_FLAGS", 4, 7, 64, pagedb.KindHex},
	})

	return nil
}

// Referrals [0xb3, disk].
func decodeReferrals(c *ctx) error {
	if err := c.require(16, "referrals page"); err != nil {
		return err
	}

	c.walkFields([]pageField{
		{"USER_DATA_SEGMENT_SIZE", 8, 7, 32, pagedb.KindDec},
		{"USER_DATA_SEGMENT_MULTIPLIER", 12, 7, 32, pagedb.KindDec},
	})

	return nil
}
