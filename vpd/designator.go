// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Designator descriptor iteration and decoding, shared by the Device
// Identification, SCSI Ports and Logical Block Provisioning pages.

package vpd

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dswarbrick/sdparm/pagedb"
)

// Designator descriptor header size (SPC-5 table 595).
const designatorHeaderLen = 4

// Designator types.
const (
	DesigVendorSpecific = 0x0
	DesigT10VendorID    = 0x1
	DesigEUI64          = 0x2
	DesigNAA            = 0x3
	DesigRelTargetPort  = 0x4
	DesigTargetPortGrp  = 0x5
	DesigLogicalUnitGrp = 0x6
	DesigMD5            = 0x7
	DesigSCSIName       = 0x8
	DesigProtocolPort   = 0x9
	DesigUUID           = 0xa
)

// Associations.
const (
	AssocLogicalUnit  = 0
	AssocTargetPort   = 1
	AssocTargetDevice = 2
)

// ErrExhausted signals clean end of designator iteration, as opposed to a
// malformed descriptor. Callers must not collapse the two.
var ErrExhausted = errors.New("vpd: no more designators")

// Designator is one decoded designator descriptor header plus its body.
type Designator struct {
	Protocol    byte
	CodeSet     byte
	PIV         bool
	Association byte
	Type        byte
	Body        []byte
}

// IterFilter restricts iteration to designators matching the given
// association, type and code set; -1 matches anything.
type IterFilter struct {
	Association int
	Type        int
	CodeSet     int
}

// NoFilter matches every designator.
var NoFilter = IterFilter{Association: -1, Type: -1, CodeSet: -1}

// DesignatorIterator walks the designator list of a device identification
// style buffer. The iterator is finite: every step either yields, returns
// ErrExhausted, or returns a MalformedError, and each step consumes at least
// the four byte header.
type DesignatorIterator struct {
	buf    []byte
	off    int
	filter IterFilter
}

// NewDesignatorIterator iterates the designators in buf, which must be the
// designator list only (no page header).
func NewDesignatorIterator(buf []byte, filter IterFilter) *DesignatorIterator {
	return &DesignatorIterator{buf: buf, filter: filter}
}

// Next returns the next designator passing the filter. It returns
// ErrExhausted at the clean end of the list, or a MalformedError if a
// descriptor's declared length would read past the buffer.
func (it *DesignatorIterator) Next() (*Designator, error) {
	for {
		if it.off == len(it.buf) {
			return nil, ErrExhausted
		}

		if it.off+designatorHeaderLen > len(it.buf) {
			return nil, &MalformedError{
				Reason: fmt.Sprintf("designator header at offset %d overruns buffer of %d bytes",
					it.off, len(it.buf)),
			}
		}

		hdr := it.buf[it.off:]
		bump := designatorHeaderLen + int(hdr[3])

		if it.off+bump > len(it.buf) {
			return nil, &MalformedError{
				Reason: fmt.Sprintf("designator at offset %d declares %d bytes, %d remain",
					it.off, bump, len(it.buf)-it.off),
			}
		}

		d := &Designator{
			Protocol:    hdr[0] >> 4,
			CodeSet:     hdr[0] & 0x0f,
			PIV:         hdr[1]&0x80 != 0,
			Association: hdr[1] >> 4 & 0x3,
			Type:        hdr[1] & 0x0f,
			Body:        it.buf[it.off+designatorHeaderLen : it.off+bump],
		}

		it.off += bump

		if it.filter.Association >= 0 && int(d.Association) != it.filter.Association {
			continue
		}
		if it.filter.Type >= 0 && int(d.Type) != it.filter.Type {
			continue
		}
		if it.filter.CodeSet >= 0 && int(d.CodeSet) != it.filter.CodeSet {
			continue
		}

		return d, nil
	}
}

// naaRequiredLen gives the mandated designator length per NAA format nibble.
var naaRequiredLen = map[byte]int{
	0x2: 8,  // IEEE extended
	0x3: 8,  // locally assigned
	0x5: 8,  // IEEE registered
	0x6: 16, // IEEE registered extended
}

var designatorAcronyms = map[byte]string{
	DesigVendorSpecific: "vendor_specific",
	DesigT10VendorID:    "t10_vendor_id",
	DesigEUI64:          "eui64",
	DesigNAA:            "naa",
	DesigRelTargetPort:  "rel_target_port",
	DesigTargetPortGrp:  "target_port_group",
	DesigLogicalUnitGrp: "lu_group",
	DesigMD5:            "md5_lu_id",
	DesigSCSIName:       "scsi_name_string",
	DesigProtocolPort:   "proto_port_id",
	DesigUUID:           "uuid",
}

// decodeDesignator renders one designator to decoded values, applying the
// standard-mandated semantics per designator type. A non-empty note reports
// a recoverable condition (e.g. a length mismatch); iteration of subsequent
// designators is unaffected.
func decodeDesignator(d *Designator) (vals []pagedb.DecodedValue, note string) {
	acr := designatorAcronyms[d.Type]
	if acr == "" {
		// Reserved designator types are skipped without complaint.
		return nil, ""
	}

	switch d.Type {
	case DesigNAA:
		if len(d.Body) < 1 {
			return nil, "NAA designator with empty body"
		}

		naa := d.Body[0] >> 4
		want, known := naaRequiredLen[naa]
		if !known {
			return nil, fmt.Sprintf("unknown NAA format %#x", naa)
		}

		acr = fmt.Sprintf("naa-%d", naa)
		if len(d.Body) != want {
			return nil, fmt.Sprintf("NAA-%d designator length %d, expected %d",
				naa, len(d.Body), want)
		}

		vals = append(vals, pagedb.DecodedValue{
			Acronym: acr, Kind: pagedb.KindString, Str: hexString(d.Body),
		})

	case DesigEUI64:
		switch len(d.Body) {
		case 8, 12, 16:
		default:
			return nil, fmt.Sprintf("EUI-64 designator length %d, expected 8, 12 or 16", len(d.Body))
		}

		vals = append(vals, pagedb.DecodedValue{
			Acronym: acr, Kind: pagedb.KindString, Str: hexString(d.Body),
		})

	case DesigRelTargetPort, DesigTargetPortGrp, DesigLogicalUnitGrp:
		if len(d.Body) != 4 {
			return nil, fmt.Sprintf("%s designator length %d, expected 4", acr, len(d.Body))
		}

		v := uint64(d.Body[2])<<8 | uint64(d.Body[3])
		vals = append(vals, pagedb.DecodedValue{Acronym: acr, Value: v, Kind: pagedb.KindDec})

	case DesigT10VendorID:
		vals = append(vals, pagedb.DecodedValue{
			Acronym: acr, Kind: pagedb.KindString, Str: string(d.Body),
		})

	case DesigSCSIName:
		// UTF-8 per SPC; ASCII is accepted as a UTF-8 subset.
		if !utf8.Valid(d.Body) {
			return nil, "SCSI name string is not valid UTF-8"
		}

		vals = append(vals, pagedb.DecodedValue{
			Acronym: acr, Kind: pagedb.KindString, Str: string(trimNul(d.Body)),
		})

	case DesigUUID:
		if len(d.Body) != 18 {
			return nil, fmt.Sprintf("UUID designator length %d, expected 18", len(d.Body))
		}

		// Body byte 0 bits 7:4 hold the UUID locator; 16 UUID bytes follow
		// at offset 2, rendered with RFC 4122 dash placement.
		if d.Body[0]>>4 != 1 {
			return nil, fmt.Sprintf("UUID designator with unsupported locator %#x", d.Body[0]>>4)
		}

		u := d.Body[2:18]
		vals = append(vals, pagedb.DecodedValue{
			Acronym: acr, Kind: pagedb.KindString,
			Str: fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16]),
		})

	default:
		// Vendor specific, MD5, protocol specific port: raw hex.
		vals = append(vals, pagedb.DecodedValue{
			Acronym: acr, Kind: pagedb.KindString, Str: hexString(d.Body),
		})
	}

	return vals, ""
}

func hexString(b []byte) string {
	return fmt.Sprintf("%x", b)
}

func trimNul(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}

	return b
}
