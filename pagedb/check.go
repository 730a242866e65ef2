// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Field table integrity checking. A pure function over the static tables,
// run by the tests to keep table edits honest.

package pagedb

import (
	"fmt"

	"github.com/dswarbrick/sdparm/bitfield"
)

// MaxModePageLen bounds the byte offsets a field may claim.
const MaxModePageLen = 1024

// ViolationKind classifies a table authoring bug.
type ViolationKind int

const (
	// CollisionSamePdt: two fields in the same pdt scope claim the same bits.
	CollisionSamePdt ViolationKind = iota
	// CollisionCrossPdt: a pdt-specific and a pdt-common field overlap.
	CollisionCrossPdt
	// DuplicateAcronym: one acronym string, two different descriptions.
	DuplicateAcronym
	// OrderViolation: entries not sorted by (page, subpage, pdt).
	OrderViolation
	// BadShape: start bit, width or byte offset out of range.
	BadShape
)

func (k ViolationKind) String() string {
	switch k {
	case CollisionSamePdt:
		return "same-pdt collision"
	case CollisionCrossPdt:
		return "cross-pdt collision"
	case DuplicateAcronym:
		return "duplicate acronym"
	case OrderViolation:
		return "ordering"
	case BadShape:
		return "bad shape"
	}

	return "unknown"
}

// Violation reports one table authoring bug found by CheckTable.
type Violation struct {
	Kind    ViolationKind
	Page    int
	Subpage int
	Byte    int
	Bit     int
	Acronym string
	// Other names the previously-seen field involved in a collision or
	// duplicate-acronym violation.
	Other string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: page %#02x,%#02x byte %d bit %d: %q vs %q",
		v.Kind, v.Page, v.Subpage, v.Byte, v.Bit, v.Acronym, v.Other)
}

type byteMask struct {
	Off  int
	Mask byte
}

// byteMasks returns the per-byte bit masks a field occupies, in the same
// MSB-first convention as the bitfield accessor.
func byteMasks(f *FieldDescriptor) []byteMask {
	var masks []byteMask

	b := f.StartByte
	bit := f.StartBit
	rem := f.NumBits

	for rem > 0 {
		take := bit + 1
		if take > rem {
			take = rem
		}

		shift := uint(bit + 1 - take)
		masks = append(masks, byteMask{b, byte((1<<uint(take))-1) << shift})

		rem -= take
		bit = 7
		b++
	}

	return masks
}

// claimMap tracks which bits of a page are already claimed by earlier fields
// in one pdt scope of a (page, subpage) run. Clash-flagged claims are kept
// per descriptor id: two clash-ok fields may share bits as long as their
// descriptor ids differ.
type claimMap struct {
	bits   [MaxModePageLen]byte
	clash  map[int]*[MaxModePageLen]byte
	owners [MaxModePageLen]string
}

func newClaimMap() *claimMap {
	return &claimMap{clash: make(map[int]*[MaxModePageLen]byte)}
}

// overlaps reports whether the field f (whose masks are bm) collides with
// claims already recorded in this map.
func (c *claimMap) overlaps(f *FieldDescriptor, bm []byteMask) (int, bool) {
	clashOK := f.Flags&FlagClashOK != 0

	for _, m := range bm {
		if c.bits[m.Off]&m.Mask != 0 {
			return m.Off, true
		}

		if clashOK {
			// Only a clash claim with the same descriptor id collides.
			if cb := c.clash[f.DescriptorID]; cb != nil && cb[m.Off]&m.Mask != 0 {
				return m.Off, true
			}
		} else {
			for _, cb := range c.clash {
				if cb[m.Off]&m.Mask != 0 {
					return m.Off, true
				}
			}
		}
	}

	return 0, false
}

func (c *claimMap) claim(f *FieldDescriptor, bm []byteMask) {
	var target *[MaxModePageLen]byte

	if f.Flags&FlagClashOK != 0 {
		target = c.clash[f.DescriptorID]
		if target == nil {
			target = &[MaxModePageLen]byte{}
			c.clash[f.DescriptorID] = target
		}
	} else {
		target = &c.bits
	}

	for _, m := range bm {
		target[m.Off] |= m.Mask
		if c.owners[m.Off] == "" {
			c.owners[m.Off] = f.Acronym
		}
	}
}

type runKey struct {
	page    int
	subpage int
}

// CheckTable validates one ordered field table, reporting every violation in
// a single pass. Colliding fields still claim their bits afterwards so that
// all conflicts surface at once. Fields with invalid shapes are reported and
// excluded from collision tracking.
func CheckTable(fields []FieldDescriptor) []Violation {
	var (
		violations []Violation
		run        = runKey{-1, -1}
		common     = newClaimMap()
		perPdt     = map[int]*claimMap{}
		prev       *FieldDescriptor
	)

	descByAcronym := make(map[string]string)

	for i := range fields {
		f := &fields[i]

		// Ordering lint: (page, subpage, pdt) must be non-decreasing.
		if prev != nil {
			if f.Page < prev.Page ||
				(f.Page == prev.Page && f.Subpage < prev.Subpage) ||
				(f.Page == prev.Page && f.Subpage == prev.Subpage && f.Pdt < prev.Pdt) {
				violations = append(violations, Violation{
					Kind: OrderViolation, Page: f.Page, Subpage: f.Subpage,
					Acronym: f.Acronym, Other: prev.Acronym,
				})
			}
		}
		prev = f

		// Duplicate acronym with a diverging description anywhere in the
		// table signals a copy-paste bug.
		if desc, seen := descByAcronym[f.Acronym]; seen {
			if desc != f.Description {
				violations = append(violations, Violation{
					Kind: DuplicateAcronym, Page: f.Page, Subpage: f.Subpage,
					Acronym: f.Acronym, Other: desc,
				})
			}
		} else {
			descByAcronym[f.Acronym] = f.Description
		}

		// Shape validation; invalid fields cannot safely claim bits.
		if f.StartBit < 0 || f.StartBit > 7 || f.NumBits < 1 || f.NumBits > 64 ||
			f.StartByte < 0 ||
			f.StartByte+bitfield.Span(f.StartBit, f.NumBits) > MaxModePageLen {
			violations = append(violations, Violation{
				Kind: BadShape, Page: f.Page, Subpage: f.Subpage,
				Byte: f.StartByte, Bit: f.StartBit, Acronym: f.Acronym,
			})
			continue
		}

		if (runKey{f.Page, f.Subpage}) != run {
			run = runKey{f.Page, f.Subpage}
			common = newClaimMap()
			perPdt = map[int]*claimMap{}
		}

		// A pdt-specific field is checked against its own pdt map and the
		// common map; a pdt-common field against the common map and every
		// concrete pdt map.
		var own *claimMap
		checked := []*claimMap{common}

		if f.Pdt == PdtAny {
			own = common
			for _, m := range perPdt {
				checked = append(checked, m)
			}
		} else {
			own = perPdt[f.Pdt]
			if own == nil {
				own = newClaimMap()
				perPdt[f.Pdt] = own
			}
			checked = append(checked, own)
		}

		bm := byteMasks(f)

		for _, m := range checked {
			off, hit := m.overlaps(f, bm)
			if !hit {
				continue
			}

			kind := CollisionSamePdt
			if m != own && !(f.Pdt == PdtAny && m == common) {
				kind = CollisionCrossPdt
			}

			violations = append(violations, Violation{
				Kind: kind, Page: f.Page, Subpage: f.Subpage,
				Byte: off, Bit: f.StartBit,
				Acronym: f.Acronym, Other: m.owners[off],
			})

			// One violation per colliding field is enough.
			break
		}

		// Claim regardless, so later fields report against this one too.
		own.claim(f, bm)
	}

	return violations
}

// CheckAllTables runs CheckTable over the builtin generic, transport and
// vendor tables.
func CheckAllTables() []Violation {
	var violations []Violation

	violations = append(violations, CheckTable(genericFields)...)

	for _, t := range transportFields {
		violations = append(violations, CheckTable(t)...)
	}

	for _, t := range vendorFields {
		violations = append(violations, CheckTable(t)...)
	}

	return violations
}
