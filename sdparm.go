// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package sdparm accesses and modifies SCSI device parameters via INQUIRY
// VPD pages and MODE SENSE / MODE SELECT mode pages.
//
package sdparm

import (
	"path/filepath"
)

// ScanDevices finds SCSI block, CD/DVD and tape device nodes.
func ScanDevices() []string {
	var devices []string

	for _, pattern := range []string{"/dev/sd*[^0-9]", "/dev/sr*", "/dev/st*[0-9]"} {
		files, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}

		devices = append(devices, files...)
	}

	return devices
}
