// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package pagedb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// yamlField mirrors FieldDescriptor for YAML unmarshalling. Flags are spelled
// out as booleans to keep hand-edited tables readable.
type yamlField struct {
	Acronym     string `yaml:"acronym"`
	Page        int    `yaml:"page"`
	Subpage     int    `yaml:"subpage,omitempty"`
	Pdt         *int   `yaml:"pdt,omitempty"`
	Byte        int    `yaml:"byte"`
	Bit         int    `yaml:"bit"`
	Bits        int    `yaml:"bits"`
	Common      bool   `yaml:"common,omitempty"`
	Hex         bool   `yaml:"hex,omitempty"`
	Signed      bool   `yaml:"signed,omitempty"`
	ClashOK     bool   `yaml:"clash_ok,omitempty"`
	Descriptor  *int   `yaml:"descriptor_id,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type fieldTableDoc struct {
	Fields []yamlField
}

// LoadFieldTable reads a YAML-formatted field table, validates it with
// CheckTable, and returns the descriptors. Used to extend the builtin vendor
// and transport tables without a rebuild. A missing file is not an error,
// matching the optional nature of user-supplied tables.
func LoadFieldTable(dbfile string) ([]FieldDescriptor, error) {
	f, err := os.Open(dbfile)
	if err != nil {
		return nil, nil
	}

	defer f.Close()

	var doc fieldTableDoc
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("pagedb: cannot parse %s: %v", dbfile, err)
	}

	fields := make([]FieldDescriptor, 0, len(doc.Fields))

	for _, y := range doc.Fields {
		fd := FieldDescriptor{
			Acronym:      y.Acronym,
			Page:         y.Page,
			Subpage:      y.Subpage,
			Pdt:          PdtAny,
			StartByte:    y.Byte,
			StartBit:     y.Bit,
			NumBits:      y.Bits,
			DescriptorID: -1,
			Description:  y.Description,
		}

		if y.Pdt != nil {
			fd.Pdt = *y.Pdt
		}

		if y.Common {
			fd.Flags |= FlagCommon
		}
		if y.Hex {
			fd.Flags |= FlagHex
		}
		if y.Signed {
			fd.Flags |= FlagTwos
		}
		if y.ClashOK {
			fd.Flags |= FlagClashOK
		}
		if y.Descriptor != nil {
			fd.DescriptorID = *y.Descriptor
		}

		fields = append(fields, fd)
	}

	if v := CheckTable(fields); len(v) > 0 {
		return nil, fmt.Errorf("pagedb: %s fails integrity check: %v (%d total)",
			dbfile, v[0], len(v))
	}

	return fields, nil
}
