// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package pagedb

import "fmt"

// DefaultTransport is searched first when an acronym is ambiguous across
// transport tables and no explicit page was given.
const DefaultTransport = TransportSAS

// TableSelector picks which descriptor tables lookups search. Transport and
// Vendor are mutually exclusive; both TransportNone/VendorNone selects the
// generic tables. Passed by value into lookups rather than living in a shared
// options struct.
type TableSelector struct {
	Transport int
	Vendor    int
}

// GenericSelector selects the generic (non transport, non vendor) tables.
var GenericSelector = TableSelector{Transport: TransportNone, Vendor: VendorNone}

// Validate rejects a selector with both a transport and a vendor set, or with
// an identifier no table exists for.
func (sel TableSelector) Validate() error {
	if sel.Transport != TransportNone && sel.Vendor != VendorNone {
		return fmt.Errorf("pagedb: transport %d and vendor %d are mutually exclusive",
			sel.Transport, sel.Vendor)
	}

	if sel.Transport != TransportNone {
		if _, ok := transportFields[sel.Transport]; !ok {
			return fmt.Errorf("pagedb: no field table for transport %d", sel.Transport)
		}
	}

	if sel.Vendor != VendorNone {
		if _, ok := vendorFields[sel.Vendor]; !ok {
			return fmt.Errorf("pagedb: no field table for vendor %d", sel.Vendor)
		}
	}

	return nil
}

// Fields returns the field table the selector denotes.
func (sel TableSelector) Fields() []FieldDescriptor {
	if sel.Vendor != VendorNone {
		return vendorFields[sel.Vendor]
	}

	if sel.Transport != TransportNone {
		return transportFields[sel.Transport]
	}

	return genericFields
}

// ModePages returns the mode page catalog the selector denotes.
func (sel TableSelector) ModePages() []ModePageDescriptor {
	if sel.Vendor != VendorNone {
		return vendorModePages[sel.Vendor]
	}

	if sel.Transport != TransportNone {
		return transportModePages[sel.Transport]
	}

	return genericModePages
}

// FindByAcronym scans table for the next field named acronym, starting at
// index from. It returns the matching index and descriptor, or (-1, nil) when
// exhausted. Acronyms are only unique within one (page, subpage, pdt) scope,
// so callers resume the scan with index+1 to visit further scopes.
func FindByAcronym(table []FieldDescriptor, acronym string, from int) (int, *FieldDescriptor) {
	if from < 0 {
		from = 0
	}

	for i := from; i < len(table); i++ {
		if table[i].Acronym == acronym {
			return i, &table[i]
		}
	}

	return -1, nil
}

// FindByAcronymForPdt returns the field named acronym whose pdt matches,
// preferring an exact pdt entry over a PdtAny one. descID filters clash-ok
// fields by their descriptor id; pass -1 for no filtering.
func FindByAcronymForPdt(table []FieldDescriptor, acronym string, pdt, descID int) *FieldDescriptor {
	var fallback *FieldDescriptor

	for i, f := 0, (*FieldDescriptor)(nil); ; i++ {
		i, f = FindByAcronym(table, acronym, i)
		if f == nil {
			break
		}

		if descID >= 0 && f.Flags&FlagClashOK != 0 && f.DescriptorID != descID {
			continue
		}

		if f.Pdt == pdt {
			return f
		}

		if f.Pdt == PdtAny && fallback == nil {
			fallback = f
		}
	}

	return fallback
}

// ResolveAcronym searches for acronym the way the CLI does when no explicit
// page was given: the selected table first, then, for the generic selector,
// the default transport's table, then a pdt-agnostic retry. Returns nil only
// after exhausting all of those.
func ResolveAcronym(sel TableSelector, acronym string, pdt, descID int) *FieldDescriptor {
	if f := FindByAcronymForPdt(sel.Fields(), acronym, pdt, descID); f != nil {
		return f
	}

	if sel == GenericSelector {
		deflt := TableSelector{Transport: DefaultTransport, Vendor: VendorNone}
		if f := FindByAcronymForPdt(deflt.Fields(), acronym, pdt, descID); f != nil {
			return f
		}
	}

	// Last resort: any pdt scope at all.
	if _, f := FindByAcronym(sel.Fields(), acronym, 0); f != nil {
		return f
	}

	return nil
}

// PageFields returns the fields of table belonging to (page, subpage) that
// apply to pdt (exact match or PdtAny), in table order.
func PageFields(table []FieldDescriptor, page, subpage, pdt int) []FieldDescriptor {
	var out []FieldDescriptor

	for _, f := range table {
		if f.Page != page || f.Subpage != subpage {
			continue
		}

		if f.Pdt == PdtAny || f.Pdt == pdt || pdt == PdtAny {
			out = append(out, f)
		}
	}

	return out
}

// FindModePage locates the catalog entry for (page, subpage) in the selected
// table, preferring an entry whose declared pdt matches the queried pdt and
// falling back to a pdt-agnostic entry.
func FindModePage(sel TableSelector, page, subpage, pdt int) *ModePageDescriptor {
	pages := sel.ModePages()

	var fallback *ModePageDescriptor

	for i := range pages {
		p := &pages[i]
		if p.Page != page || p.Subpage != subpage {
			continue
		}

		if p.Pdt == pdt {
			return p
		}

		if p.Pdt == PdtAny && fallback == nil {
			fallback = p
		}
	}

	return fallback
}

// FindModePageByAcronym locates a mode page catalog entry by its acronym.
func FindModePageByAcronym(sel TableSelector, acronym string, pdt int) *ModePageDescriptor {
	pages := sel.ModePages()

	var fallback *ModePageDescriptor

	for i := range pages {
		p := &pages[i]
		if p.Acronym != acronym {
			continue
		}

		if p.Pdt == pdt {
			return p
		}

		if p.Pdt == PdtAny && fallback == nil {
			fallback = p
		}
	}

	return fallback
}
