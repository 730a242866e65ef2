// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Mode page body decoding, including replication across repeated descriptor
// instances.

package mode

import (
	"fmt"

	"github.com/dswarbrick/sdparm/bitfield"
	"github.com/dswarbrick/sdparm/pagedb"
)

// maxDescriptorInstances caps repeated-descriptor walks. A count beyond this
// is treated as implausible rather than iterated.
const maxDescriptorInstances = 512

// fieldValue extracts one field, sign-extending two's complement fields to
// the full 64 bits so callers can print them as int64.
func fieldValue(f *pagedb.FieldDescriptor, body []byte, startByte int) uint64 {
	v := bitfield.Get(body, startByte, f.StartBit, f.NumBits)

	if f.Flags&pagedb.FlagTwos != 0 && f.NumBits < 64 && v&(1<<uint(f.NumBits-1)) != 0 {
		v |= ^bitfield.Mask(f.NumBits)
	}

	return v
}

func kindOf(f *pagedb.FieldDescriptor) pagedb.ValueKind {
	switch {
	case f.Flags&pagedb.FlagHex != 0:
		return pagedb.KindHex
	case f.Flags&pagedb.FlagTwos != 0:
		return pagedb.KindSignedDec
	}

	return pagedb.KindDec
}

// descriptorID reads the 4-bit discriminator nibble of the descriptor
// instance based at off. By convention the nibble occupies the low four bits
// of the instance's first byte.
func descriptorID(body []byte, off int) int {
	if off >= len(body) {
		return -1
	}

	return int(bitfield.Get(body, off, 3, 4))
}

// DecodePage decodes one mode page body against the selected field table.
// Fields whose bit range lies beyond the fetched body are absent from the
// result. When the page's catalog entry declares a descriptor layout and
// walkDescriptors is set, fields of the first descriptor instance are
// replicated across the remaining instances with ".k" acronym suffixes.
func DecodePage(sel pagedb.TableSelector, mpd *pagedb.ModePageDescriptor, body []byte, pdt int, walkDescriptors bool) ([]pagedb.DecodedValue, []string, error) {
	fields := pagedb.PageFields(sel.Fields(), mpd.Page, mpd.Subpage, pdt)

	return DecodePageFields(fields, mpd.Layout, body, walkDescriptors)
}

// DecodePageFields decodes body against an explicit field list, already
// filtered to one page. Callers with fields from outside the built-in
// tables (user-supplied YAML) use this directly.
func DecodePageFields(fields []pagedb.FieldDescriptor, layout *pagedb.DescriptorLayout, body []byte, walkDescriptors bool) ([]pagedb.DecodedValue, []string, error) {
	var (
		vals     []pagedb.DecodedValue
		warnings []string
	)

	firstID := -1
	if layout != nil && layout.HasDescriptorID {
		firstID = descriptorID(body, layout.FirstOffset)
	}

	for i := range fields {
		f := &fields[i]

		if f.StartByte+bitfield.Span(f.StartBit, f.NumBits) > len(body) {
			continue
		}

		if f.Flags&pagedb.FlagClashOK != 0 && firstID >= 0 && f.DescriptorID != firstID {
			continue
		}

		vals = append(vals, pagedb.DecodedValue{
			Acronym: f.Acronym,
			Value:   fieldValue(f, body, f.StartByte),
			Kind:    kindOf(f),
		})
	}

	if layout == nil || !walkDescriptors {
		return vals, warnings, nil
	}

	more, dwarn, err := decodeDescriptorInstances(fields, layout, body)
	warnings = append(warnings, dwarn...)

	return append(vals, more...), warnings, err
}

// instanceCount derives the number of descriptor instances per the layout
// rules: read directly from the count field, or, for the -1 sentinel, from
// the body length divided by the descriptor stride.
func instanceCount(layout *pagedb.DescriptorLayout, body []byte) (int, error) {
	if layout.CountIncrement < 0 {
		if layout.FixedLength <= 0 {
			// Variable-length descriptors are walked until the body ends.
			return -1, nil
		}

		return (len(body) - layout.FirstOffset) / layout.FixedLength, nil
	}

	if layout.CountOffset+layout.CountWidth > len(body) {
		return 0, fmt.Errorf("mode: descriptor count field at byte %d outside %d byte page",
			layout.CountOffset, len(body))
	}

	raw := bitfield.Get(body, layout.CountOffset, 7, layout.CountWidth*8)

	return int(raw) * layout.CountIncrement, nil
}

// decodeDescriptorInstances replicates the first instance's fields across
// instances 1..n-1. Fixed-stride layouts recompute each field's offset as
// original + k*stride; variable-stride layouts re-walk the self-describing
// lengths sequentially.
func decodeDescriptorInstances(fields []pagedb.FieldDescriptor, layout *pagedb.DescriptorLayout, body []byte) ([]pagedb.DecodedValue, []string, error) {
	var (
		vals     []pagedb.DecodedValue
		warnings []string
	)

	count, err := instanceCount(layout, body)
	if err != nil {
		return nil, nil, err
	}

	if count > maxDescriptorInstances {
		return nil, nil, fmt.Errorf("mode: descriptor count %d exceeds sanity ceiling %d",
			count, maxDescriptorInstances)
	}

	// Offsets of instances 1..n-1.
	var offsets []int

	if layout.FixedLength > 0 {
		for k := 1; ; k++ {
			if count >= 0 && k >= count {
				break
			}

			off := layout.FirstOffset + k*layout.FixedLength
			if off+layout.FixedLength > len(body) {
				break
			}

			offsets = append(offsets, off)
		}
	} else {
		// Self-describing variable-length instances: each declares the
		// length of its remainder at a fixed offset within itself.
		off := layout.FirstOffset

		for k := 0; ; k++ {
			if k > maxDescriptorInstances {
				return nil, warnings, fmt.Errorf("mode: descriptor walk exceeds sanity ceiling %d",
					maxDescriptorInstances)
			}

			lenEnd := off + layout.LengthOffset + layout.LengthWidth
			if lenEnd > len(body) {
				break
			}

			dlen := int(bitfield.Get(body, off+layout.LengthOffset, 7, layout.LengthWidth*8))
			next := off + layout.LengthOffset + layout.LengthWidth + dlen

			if next <= off || next > len(body) {
				warnings = append(warnings, fmt.Sprintf(
					"descriptor %d declares %d bytes, overrunning the %d byte page", k, dlen, len(body)))
				break
			}

			if k > 0 {
				offsets = append(offsets, off)
			}

			off = next
		}
	}

	for k, off := range offsets {
		shift := off - layout.FirstOffset

		instID := -1
		if layout.HasDescriptorID {
			instID = descriptorID(body, off)
		}

		for i := range fields {
			f := &fields[i]

			// Only fields inside the first instance replicate.
			if f.StartByte < layout.FirstOffset {
				continue
			}

			if layout.FixedLength > 0 && f.StartByte >= layout.FirstOffset+layout.FixedLength {
				continue
			}

			pos := f.StartByte + shift
			if pos+bitfield.Span(f.StartBit, f.NumBits) > len(body) {
				continue
			}

			if f.Flags&pagedb.FlagClashOK != 0 && instID >= 0 && f.DescriptorID != instID {
				continue
			}

			vals = append(vals, pagedb.DecodedValue{
				Acronym:         fmt.Sprintf("%s.%d", f.Acronym, k+1),
				Value:           fieldValue(f, body, pos),
				Kind:            kindOf(f),
				DescriptorIndex: k + 1,
			})
		}
	}

	return vals, warnings, nil
}
