// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Mode page mutation: apply field changes to a freshly fetched current page
// and issue MODE SELECT.

package mode

import (
	"fmt"

	"github.com/dswarbrick/sdparm/bitfield"
	"github.com/dswarbrick/sdparm/pagedb"
	"github.com/dswarbrick/sdparm/scsi"
)

// Change is one requested field mutation.
type Change struct {
	Field *pagedb.FieldDescriptor
	Value uint64
}

// TruncationWarning reports that a requested value exceeded its field's bit
// width and was masked. Raised before the masked value is written.
type TruncationWarning struct {
	Acronym string
	Given   uint64
	Stored  uint64
}

func (w TruncationWarning) String() string {
	return fmt.Sprintf("value %#x for %s exceeds the field width; stored %#x",
		w.Given, w.Acronym, w.Stored)
}

// MaskValue masks v to the field's width, reporting whether masking changed
// the value.
func MaskValue(f *pagedb.FieldDescriptor, v uint64) (uint64, bool) {
	stored := v & bitfield.Mask(f.NumBits)
	return stored, stored != v
}

// Apply re-fetches the current contents of the page, applies every change to
// that fresh copy, and issues MODE SELECT. The page is always re-read
// immediately before mutating so that concurrent out-of-band changes are not
// clobbered with stale bytes.
//
// If any field's bit range falls outside the fetched page, nothing is sent:
// a partially-applied multi-field mutation must never be issued. The
// flexible option downgrades that precondition failure to a warning, skips
// the unwritable field and proceeds with the rest.
func Apply(tr scsi.Transport, opts FetchOpts, page, subpage uint8, changes []Change, save bool) ([]TruncationWarning, []string, error) {
	var (
		truncations []TruncationWarning
		warnings    []string
	)

	raw, _, err := fetchRaw(tr, opts, scsi.MPAGE_CONTROL_CURRENT, page, subpage)
	if err != nil {
		return nil, nil, fmt.Errorf("mode: re-fetching current page %#02x[,%#02x]: %w", page, subpage, err)
	}

	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	body, h, err := extractBody(raw, opts, page, subpage, warn)
	if err != nil {
		return nil, warnings, err
	}

	// Precondition pass before any byte is modified.
	apply := changes[:0:0]

	for _, ch := range changes {
		f := ch.Field

		if f.Page != int(page) || f.Subpage != int(subpage) {
			return truncations, warnings, fmt.Errorf("mode: field %s belongs to page %#02x[,%#02x], not %#02x[,%#02x]",
				f.Acronym, f.Page, f.Subpage, page, subpage)
		}

		if f.StartByte+bitfield.Span(f.StartBit, f.NumBits) > len(body) {
			if !opts.Flexible {
				return truncations, warnings, fmt.Errorf(
					"mode: field %s at byte %d lies outside the %d byte page; nothing written",
					f.Acronym, f.StartByte, len(body))
			}

			warn("field %s at byte %d lies outside the %d byte page; skipped",
				f.Acronym, f.StartByte, len(body))
			continue
		}

		apply = append(apply, ch)
	}

	for _, ch := range apply {
		stored, truncated := MaskValue(ch.Field, ch.Value)
		if truncated {
			truncations = append(truncations, TruncationWarning{
				Acronym: ch.Field.Acronym, Given: ch.Value, Stored: stored,
			})
		}

		bitfield.Set(body, ch.Field.StartByte, ch.Field.StartBit, ch.Field.NumBits, stored)
	}

	params := prepareSelectParams(raw, h)

	if err := tr.ModeSelect(opts.Use6, save, params); err != nil {
		return truncations, warnings, fmt.Errorf("mode: MODE SELECT page %#02x[,%#02x]: %w", page, subpage, err)
	}

	return truncations, warnings, nil
}

// prepareSelectParams turns a MODE SENSE response into a MODE SELECT
// parameter list: the mode data length field is reserved on output and
// zeroed, and the PS bit of the page's first byte must be zero.
func prepareSelectParams(raw []byte, h Header) []byte {
	params := append([]byte(nil), raw...)

	if h.Use6 {
		params[0] = 0
	} else {
		params[0], params[1] = 0, 0
	}

	start := h.PageStart()
	if start < len(params) {
		params[start] &^= 0x80
	}

	return params
}
