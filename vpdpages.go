// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"fmt"

	"github.com/dswarbrick/sdparm/scsi"
	"github.com/dswarbrick/sdparm/vpd"
)

const vpdAllocLen = 252

// FetchVpdPage reads and decodes one VPD page. When the declared page
// length exceeds the initial transfer the page is re-read once with the
// declared length.
func FetchVpdPage(tr scsi.Transport, page byte, pdt int) (*vpd.PageResult, error) {
	buf, err := tr.Inquiry(true, page, vpdAllocLen)
	if err != nil {
		return nil, err
	}

	if len(buf) >= 4 {
		declared := (int(buf[2])<<8 | int(buf[3])) + 4

		if declared > len(buf) && declared <= 0xffff {
			if big, err := tr.Inquiry(true, page, uint16(declared)); err == nil {
				buf = big
			}
		}
	}

	res, err := vpd.Decode(buf, pdt)
	if err != nil {
		return res, err
	}

	if res.Page != page {
		return res, fmt.Errorf("sdparm: device echoed VPD page %#02x, requested %#02x",
			res.Page, page)
	}

	return res, nil
}

// FetchAllVpd walks the Supported VPD Pages list and decodes every listed
// page. Page 0x00 itself is skipped on the walk so the listing cannot
// recurse. Pages that fail to decode are reported as warnings; the walk
// continues.
func FetchAllVpd(tr scsi.Transport, pdt int) ([]*vpd.PageResult, []string, error) {
	sup, err := FetchVpdPage(tr, 0x00, pdt)
	if err != nil {
		return nil, nil, fmt.Errorf("sdparm: reading supported VPD pages: %w", err)
	}

	results := []*vpd.PageResult{sup}

	var warnings []string

	for _, page := range sup.PageList {
		if page == 0x00 {
			continue
		}

		res, err := FetchVpdPage(tr, page, pdt)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("VPD page %#02x: %v", page, err))

			if res == nil {
				continue
			}
		}

		results = append(results, res)
	}

	return results, warnings, nil
}
