// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package pagedb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
fields:
  - acronym: VWCE
    page: 0
    pdt: 0
    byte: 2
    bit: 2
    bits: 1
    common: true
    description: Vendor write cache enable
  - acronym: VTO
    page: 0
    pdt: 0
    byte: 4
    bit: 7
    bits: 16
    hex: true
    description: Vendor timeout
`

const brokenTable = `
fields:
  - acronym: A
    page: 1
    byte: 2
    bit: 7
    bits: 8
    description: a
  - acronym: B
    page: 1
    byte: 2
    bit: 3
    bits: 2
    description: overlaps A
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fields.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	return path
}

func TestLoadFieldTable(t *testing.T) {
	fields, err := LoadFieldTable(writeTemp(t, sampleTable))
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, "VWCE", fields[0].Acronym)
	assert.Equal(t, PdtDisk, fields[0].Pdt)
	assert.Equal(t, FlagCommon, fields[0].Flags)
	assert.Equal(t, -1, fields[0].DescriptorID)

	assert.Equal(t, 16, fields[1].NumBits)
	assert.Equal(t, FlagHex, fields[1].Flags)
}

func TestLoadFieldTableRejectsCollisions(t *testing.T) {
	_, err := LoadFieldTable(writeTemp(t, brokenTable))
	assert.Error(t, err)
}

func TestLoadFieldTableMissingFile(t *testing.T) {
	// A missing user table is not an error, matching the optional nature of
	// table overlays.
	fields, err := LoadFieldTable("/nonexistent/fields.yml")
	assert.NoError(t, err)
	assert.Nil(t, fields)
}
