// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dswarbrick/sdparm/mode"
	"github.com/dswarbrick/sdparm/pagedb"
	"github.com/dswarbrick/sdparm/scsi"
)

// PageReport holds one mode page decoded under every available page
// control.
type PageReport struct {
	Mpd *pagedb.ModePageDescriptor
	// Mask records which page controls were fetched, one bit per control.
	Mask uint8
	// Values indexes decoded fields by page control.
	Values map[uint8][]pagedb.DecodedValue
	// Bodies holds the raw page bodies per page control, for hex dumps.
	Bodies   map[uint8][]byte
	Warnings []string
}

// GetModePage fetches one mode page under all four page controls and
// decodes each available variant against the selected field table.
func GetModePage(tr scsi.Transport, opts mode.FetchOpts, sel pagedb.TableSelector,
	mpd *pagedb.ModePageDescriptor, pdt int, walkDescriptors bool) (*PageReport, error) {

	pcs, err := mode.FetchControls(tr, opts, uint8(mpd.Page), uint8(mpd.Subpage))
	if err != nil {
		return nil, err
	}

	rep := &PageReport{
		Mpd:      mpd,
		Mask:     pcs.Mask,
		Values:   make(map[uint8][]pagedb.DecodedValue),
		Bodies:   make(map[uint8][]byte),
		Warnings: pcs.Warnings,
	}

	for pc := uint8(0); pc <= scsi.MPAGE_CONTROL_SAVED; pc++ {
		body := pcs.ByControl(pc)
		if body == nil {
			continue
		}

		vals, warnings, err := mode.DecodePage(sel, mpd, body, pdt, walkDescriptors)
		if err != nil {
			return rep, err
		}

		rep.Values[pc] = vals
		rep.Bodies[pc] = body
		rep.Warnings = append(rep.Warnings, warnings...)
	}

	return rep, nil
}

// Assignment is one acronym=value request from the command line.
type Assignment struct {
	Acronym string
	Value   uint64
	// DescriptorID filters clash-tagged fields; -1 matches any.
	DescriptorID int
}

// ParseAssignment parses "ACRONYM=value", with the value in any base
// strconv accepts (0x.. hex, 0.. octal, decimal).
func ParseAssignment(s string) (Assignment, error) {
	acr, val, found := strings.Cut(s, "=")
	if !found || acr == "" {
		return Assignment{}, fmt.Errorf("sdparm: expected ACRONYM=value, got %q", s)
	}

	v, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		return Assignment{}, fmt.Errorf("sdparm: bad value in %q: %w", s, err)
	}

	return Assignment{Acronym: acr, Value: v, DescriptorID: -1}, nil
}

// SetResult reports what one SetFields call did.
type SetResult struct {
	Truncations []mode.TruncationWarning
	Warnings    []string
}

// SetFields resolves each assignment's acronym against the selected tables
// and applies all changes. Every assignment must resolve to the same mode
// page; nothing is written otherwise.
func SetFields(tr scsi.Transport, opts mode.FetchOpts, sel pagedb.TableSelector,
	assignments []Assignment, pdt int, save bool) (*SetResult, error) {

	if len(assignments) == 0 {
		return nil, fmt.Errorf("sdparm: nothing to set")
	}

	changes := make([]mode.Change, 0, len(assignments))

	for _, a := range assignments {
		f := pagedb.ResolveAcronym(sel, a.Acronym, pdt, a.DescriptorID)
		if f == nil {
			return nil, fmt.Errorf("sdparm: acronym %q not found for pdt %#x", a.Acronym, pdt)
		}

		changes = append(changes, mode.Change{Field: f, Value: a.Value})
	}

	page, subpage := changes[0].Field.Page, changes[0].Field.Subpage

	for _, ch := range changes[1:] {
		if ch.Field.Page != page || ch.Field.Subpage != subpage {
			return nil, fmt.Errorf("sdparm: %s is on page %#02x[,%#02x], %s on %#02x[,%#02x]; one page per invocation",
				changes[0].Field.Acronym, page, subpage,
				ch.Field.Acronym, ch.Field.Page, ch.Field.Subpage)
		}
	}

	truncs, warnings, err := mode.Apply(tr, opts, uint8(page), uint8(subpage), changes, save)
	if err != nil {
		return nil, err
	}

	return &SetResult{Truncations: truncs, Warnings: warnings}, nil
}

// GetField fetches the page containing one acronym and returns the field's
// decoded value under each available page control.
func GetField(tr scsi.Transport, opts mode.FetchOpts, sel pagedb.TableSelector,
	acronym string, pdt, descID int) (*pagedb.FieldDescriptor, map[uint8]uint64, error) {

	f := pagedb.ResolveAcronym(sel, acronym, pdt, descID)
	if f == nil {
		return nil, nil, fmt.Errorf("sdparm: acronym %q not found for pdt %#x", acronym, pdt)
	}

	mpd := pagedb.FindModePage(sel, f.Page, f.Subpage, pdt)
	if mpd == nil {
		// Field tables can outrun the page catalog; synthesize an entry.
		mpd = &pagedb.ModePageDescriptor{Page: f.Page, Subpage: f.Subpage, Pdt: pagedb.PdtAny}
	}

	rep, err := GetModePage(tr, opts, sel, mpd, pdt, false)
	if err != nil {
		return f, nil, err
	}

	byControl := make(map[uint8]uint64)

	for pc, vals := range rep.Values {
		for _, v := range vals {
			if v.Acronym == f.Acronym {
				byControl[pc] = v.Value
				break
			}
		}
	}

	return f, byControl, nil
}
