// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package vpd decodes INQUIRY Vital Product Data pages. Decoding is pure:
// the engine turns a raw page buffer into DecodedValue records and leaves
// all presentation to the caller.
package vpd

import (
	"fmt"

	"github.com/dswarbrick/sdparm/bitfield"
	"github.com/dswarbrick/sdparm/pagedb"
)

// VPD page header size: qualifier/pdt, page code, 16-bit big-endian page
// length (excluding this header).
const headerLen = 4

// MalformedError reports a declared length or structure field inconsistent
// with the buffer or the standard minimum. Decoding of the page aborts; a
// multi-page scan continues with the next page.
type MalformedError struct {
	Page   byte
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("VPD page %#02x malformed: %s", e.Page, e.Reason)
}

// PageResult is the outcome of decoding one VPD page.
type PageResult struct {
	Page byte
	Pdt  int
	// Name is the catalog name, or empty when Known is false.
	Name  string
	Known bool
	// Truncated is set when the response held fewer bytes than the page
	// length field claims; decoding proceeded on the available prefix.
	Truncated bool
	Values    []pagedb.DecodedValue
	// Notes report recoverable conditions (truncation, designator length
	// mismatches, unexpected pdt).
	Notes []string
	// PageList holds the page numbers of a Supported VPD Pages response.
	PageList []byte
	// Nested holds pages embedded in a Device Constituents response.
	Nested []*PageResult
	// Raw is populated for unknown pages and unexpected-pdt fallbacks: the
	// payload is surfaced rather than dropped.
	Raw []byte
}

func (r *PageResult) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *PageResult) add(v pagedb.DecodedValue) {
	r.Values = append(r.Values, v)
}

// Find returns the first decoded value with the given acronym, or nil.
func (r *PageResult) Find(acronym string) *pagedb.DecodedValue {
	for i := range r.Values {
		if r.Values[i].Acronym == acronym {
			return &r.Values[i]
		}
	}

	return nil
}

// ctx carries one decode call's state. buf is the full response including
// the header, already clipped to the bytes actually transferred.
type ctx struct {
	buf      []byte
	declared int // header-inclusive length the page claims
	pdt      int
	res      *PageResult
	depth    int
}

// avail returns the byte count that is both claimed by the page and present
// in the buffer. No decode may read at or past this offset.
func (c *ctx) avail() int {
	if len(c.buf) < c.declared {
		return len(c.buf)
	}

	return c.declared
}

// body returns the in-bounds payload after the page header.
func (c *ctx) body() []byte {
	return c.buf[headerLen:c.avail()]
}

// require enforces a page-specific minimum length. The minimum is checked
// against the declared length (shorter is malformed per the standard) before
// every descriptor access, not only at page entry.
func (c *ctx) require(n int, what string) error {
	if c.declared < n {
		return &MalformedError{Page: c.res.Page, Reason: fmt.Sprintf(
			"%s needs %d bytes, page declares %d", what, n, c.declared)}
	}

	return nil
}

// pageField is one fixed-position field of a VPD page, addressed relative to
// the start of the page (header included), mirroring SPC layout diagrams.
type pageField struct {
	acr   string
	byte_ int
	bit   int
	bits  int
	kind  pagedb.ValueKind
}

// walkFields decodes every field that lies entirely within the available
// bytes. Fields beyond the buffer are absent, not errors: short-but-valid
// pages from older standard revisions simply lack the newer fields.
func (c *ctx) walkFields(fields []pageField) {
	for _, f := range fields {
		if f.byte_+bitfield.Span(f.bit, f.bits) > c.avail() {
			continue
		}

		c.res.add(pagedb.DecodedValue{
			Acronym: f.acr,
			Value:   bitfield.Get(c.buf, f.byte_, f.bit, f.bits),
			Kind:    f.kind,
		})
	}
}

type decodeFunc func(c *ctx) error

type pageKey struct {
	page byte
	pdt  int
}

// registry maps (page, pdt) to a page decoder. Entries with pdt == PdtAny
// apply to every device type; the overloaded 0xb0-0xba band registers one
// decoder per concrete pdt. Built once at init, read-only afterwards.
var registry = map[pageKey]decodeFunc{}

func register(page byte, pdt int, fn decodeFunc) {
	registry[pageKey{page, pdt}] = fn
}

func lookupDecoder(page byte, pdt int) decodeFunc {
	if fn, ok := registry[pageKey{page, pdt}]; ok {
		return fn
	}

	return registry[pageKey{page, pagedb.PdtAny}]
}

const maxNesting = 4

// Decode turns one raw VPD response buffer into a PageResult. Unknown pages
// are not an error: the payload is returned as raw bytes. A MalformedError
// is returned when declared lengths are inconsistent; truncation is reported
// via PageResult.Truncated and decoding proceeds best-effort.
func Decode(buf []byte, pdt int) (*PageResult, error) {
	return decode(buf, pdt, 0)
}

func decode(buf []byte, pdt int, depth int) (*PageResult, error) {
	if len(buf) < headerLen {
		return nil, &MalformedError{Reason: fmt.Sprintf(
			"response of %d bytes is shorter than the %d byte page header", len(buf), headerLen)}
	}

	page := buf[1]
	res := &PageResult{Page: page, Pdt: pdt}

	c := &ctx{
		buf:      buf,
		declared: (int(buf[2])<<8 | int(buf[3])) + headerLen,
		pdt:      pdt,
		res:      res,
		depth:    depth,
	}

	if len(buf) < c.declared {
		res.Truncated = true
		res.note("page declares %d bytes, response holds %d; decoding available prefix",
			c.declared, len(buf))
	}

	if pd := pagedb.FindVpdPage(int(page), pdt); pd != nil {
		res.Name = pd.Name
		res.Known = true
	}

	fn := lookupDecoder(page, pdt)
	if fn == nil {
		if page >= 0xb0 && page <= 0xba && res.Known {
			// Known page number, unexpected pdt: surface the payload rather
			// than silently dropping it.
			res.note("page %#02x not decodable for pdt %#x", page, pdt)
		}

		res.Raw = append([]byte(nil), c.body()...)
		return res, nil
	}

	if err := fn(c); err != nil {
		return res, err
	}

	return res, nil
}
