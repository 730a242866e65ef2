// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package mode fetches, decodes and mutates SCSI mode pages over a Transport.
package mode

import (
	"fmt"

	"github.com/dswarbrick/sdparm/scsi"
)

// Mode parameter header sizes.
const (
	headerLen6  = 4
	headerLen10 = 8
)

// Header is a parsed mode parameter header.
type Header struct {
	Use6         bool
	ModeDataLen  int
	MediumType   byte
	DevSpecific  byte
	BlockDescLen int
}

// Len returns the header size in bytes.
func (h Header) Len() int {
	if h.Use6 {
		return headerLen6
	}

	return headerLen10
}

// PageStart returns the offset of the mode page body: the header plus the
// block descriptors, skipped using the declared block descriptor length.
func (h Header) PageStart() int {
	return h.Len() + h.BlockDescLen
}

// ParseHeader parses a MODE SENSE response header in the given format.
func ParseHeader(buf []byte, use6 bool) (Header, error) {
	h := Header{Use6: use6}

	if use6 {
		if len(buf) < headerLen6 {
			return h, fmt.Errorf("mode: response of %d bytes shorter than 6-byte format header", len(buf))
		}

		h.ModeDataLen = int(buf[0])
		h.MediumType = buf[1]
		h.DevSpecific = buf[2]
		h.BlockDescLen = int(buf[3])
	} else {
		if len(buf) < headerLen10 {
			return h, fmt.Errorf("mode: response of %d bytes shorter than 10-byte format header", len(buf))
		}

		h.ModeDataLen = int(buf[0])<<8 | int(buf[1])
		h.MediumType = buf[2]
		h.DevSpecific = buf[3]
		h.BlockDescLen = int(buf[6])<<8 | int(buf[7])
	}

	return h, nil
}

// plausible reports whether a parsed header is self-consistent with the
// number of bytes actually read.
func (h Header) plausible(respLen int) bool {
	if h.ModeDataLen == 0 {
		return false
	}

	// The mode data length excludes its own field.
	lenFieldSize := 1
	if !h.Use6 {
		lenFieldSize = 2
	}

	if h.ModeDataLen+lenFieldSize < h.PageStart() {
		return false
	}

	return h.PageStart() < respLen
}

// FetchOpts configures mode page fetching.
type FetchOpts struct {
	// Use6 selects the 6-byte MODE SENSE/SELECT command variants.
	Use6 bool
	// DBD requests that block descriptors be omitted.
	DBD bool
	// Flexible opts in to the 6-byte vs 10-byte header confusion heuristic:
	// when the response header only makes sense in the other format, the
	// decoder reinterprets it. Best effort, never applied without opt-in.
	Flexible bool
	// AllocLen overrides the initial allocation length; 0 means the default.
	AllocLen uint16
}

// PageControls holds the four page control variants of one mode page, each
// as the page body (from the page code byte onward). Mask records which
// variants were retrieved, one bit per page control value.
type PageControls struct {
	Current    []byte
	Changeable []byte
	Defaults   []byte
	Saved      []byte
	Mask       uint8
	Header     Header
	Warnings   []string
}

func (pc *PageControls) warn(format string, args ...interface{}) {
	pc.Warnings = append(pc.Warnings, fmt.Sprintf(format, args...))
}

// ByControl returns the body fetched for one page control value.
func (pc *PageControls) ByControl(control uint8) []byte {
	switch control {
	case scsi.MPAGE_CONTROL_CURRENT:
		return pc.Current
	case scsi.MPAGE_CONTROL_CHANGEABLE:
		return pc.Changeable
	case scsi.MPAGE_CONTROL_DEFAULT:
		return pc.Defaults
	case scsi.MPAGE_CONTROL_SAVED:
		return pc.Saved
	}

	return nil
}

// fetchRaw issues MODE SENSE for one page control, escalating the buffer
// size exactly once if the declared mode data length exceeds what was
// transferred. There is no retry loop beyond that single escalation.
func fetchRaw(tr scsi.Transport, opts FetchOpts, pc, page, subpage uint8) ([]byte, Header, error) {
	allocLen := opts.AllocLen
	if allocLen == 0 {
		allocLen = scsi.MODE_ALLOC_LEN
	}

	buf, err := tr.ModeSense(opts.Use6, opts.DBD, pc, page, subpage, allocLen)
	if err != nil {
		return nil, Header{}, err
	}

	h, err := ParseHeader(buf, opts.Use6)
	if err != nil {
		return nil, h, err
	}

	lenFieldSize := 1
	if !opts.Use6 {
		lenFieldSize = 2
	}

	if h.ModeDataLen+lenFieldSize > len(buf) && int(allocLen) < scsi.MODE_ALLOC_LEN_LARGE {
		buf, err = tr.ModeSense(opts.Use6, opts.DBD, pc, page, subpage, scsi.MODE_ALLOC_LEN_LARGE)
		if err != nil {
			return nil, h, err
		}

		h, err = ParseHeader(buf, opts.Use6)
		if err != nil {
			return nil, h, err
		}
	}

	return buf, h, nil
}

// extractBody locates the mode page body within one response and validates
// the echoed page and subpage codes. The returned header may differ in
// format from the requested one when the flexible heuristic fired.
func extractBody(buf []byte, opts FetchOpts, page, subpage uint8, warn func(string, ...interface{})) ([]byte, Header, error) {
	h, err := ParseHeader(buf, opts.Use6)
	if err != nil {
		return nil, h, err
	}

	if !h.plausible(len(buf)) {
		alt, altErr := ParseHeader(buf, !opts.Use6)

		if opts.Flexible && altErr == nil && alt.plausible(len(buf)) {
			// Known 6-byte vs 10-byte confusion pattern; reinterpret under
			// the user-requested flexible override.
			warn("mode header looks like the %s format; reinterpreting", fmtName(!opts.Use6))
			h = alt
		} else {
			warn("mode data length %d inconsistent with %d byte response",
				h.ModeDataLen, len(buf))
		}
	}

	start := h.PageStart()
	if start >= len(buf) {
		return nil, h, fmt.Errorf("mode: block descriptor length %d pushes page past %d byte response",
			h.BlockDescLen, len(buf))
	}

	body := buf[start:]

	if got := body[0] & 0x3f; got != page {
		return nil, h, fmt.Errorf("mode: device echoed page %#02x, requested %#02x", got, page)
	}

	spf := body[0]&0x40 != 0

	bodyLen := 0
	switch {
	case spf && subpage != 0:
		if len(body) < 4 {
			return nil, h, fmt.Errorf("mode: subpage header truncated")
		}
		if body[1] != subpage {
			return nil, h, fmt.Errorf("mode: device echoed subpage %#02x, requested %#02x", body[1], subpage)
		}
		bodyLen = (int(body[2])<<8 | int(body[3])) + 4
	case !spf && subpage == 0:
		if len(body) < 2 {
			return nil, h, fmt.Errorf("mode: page header truncated")
		}
		bodyLen = int(body[1]) + 2
	default:
		return nil, h, fmt.Errorf("mode: subpage format bit mismatch for page %#02x[,%#02x]", page, subpage)
	}

	if bodyLen > len(body) {
		warn("page %#02x declares %d bytes, %d available; decoding available prefix",
			page, bodyLen, len(body))
		bodyLen = len(body)
	}

	return body[:bodyLen], h, nil
}

func fmtName(use6 bool) string {
	if use6 {
		return "6-byte"
	}

	return "10-byte"
}

// FetchControls retrieves the current, changeable, default and saved
// variants of one mode page. A missing current variant is a hard failure;
// the other three are reported via the mask only.
func FetchControls(tr scsi.Transport, opts FetchOpts, page, subpage uint8) (*PageControls, error) {
	pcs := &PageControls{}

	controls := []struct {
		pc   uint8
		dest *[]byte
	}{
		{scsi.MPAGE_CONTROL_CURRENT, &pcs.Current},
		{scsi.MPAGE_CONTROL_CHANGEABLE, &pcs.Changeable},
		{scsi.MPAGE_CONTROL_DEFAULT, &pcs.Defaults},
		{scsi.MPAGE_CONTROL_SAVED, &pcs.Saved},
	}

	for _, ctl := range controls {
		buf, _, err := fetchRaw(tr, opts, ctl.pc, page, subpage)
		if err != nil {
			if ctl.pc == scsi.MPAGE_CONTROL_CURRENT {
				return nil, fmt.Errorf("mode: fetching current values of page %#02x[,%#02x]: %w",
					page, subpage, err)
			}

			pcs.warn("page control %d not available: %v", ctl.pc, err)
			continue
		}

		body, h, err := extractBody(buf, opts, page, subpage, pcs.warn)
		if err != nil {
			if ctl.pc == scsi.MPAGE_CONTROL_CURRENT {
				return nil, err
			}

			pcs.warn("page control %d: %v", ctl.pc, err)
			continue
		}

		if ctl.pc == scsi.MPAGE_CONTROL_CURRENT {
			pcs.Header = h
		}

		*ctl.dest = body
		pcs.Mask |= 1 << ctl.pc
	}

	return pcs, nil
}
