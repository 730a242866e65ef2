// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// sdparm mode page field table to YAML format converter. The output is
// loadable with the -fields option of the sdparm command.
//
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/scanner"

	"gopkg.in/yaml.v2"
)

const (
	defaultTableURL = "https://raw.githubusercontent.com/doug-gilbert/sdparm/master/src/sdparm_data.c"
)

type fieldEntry struct {
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
	Description string `yaml:"description,omitempty"`
}

type fieldTable struct {
	Fields []fieldEntry `yaml:"fields"`
}

// C macros appearing in the source tables, resolved to their numeric
// values. Entries using macros outside this map are skipped.
var macros = map[string]int64{
	"PDT_ALL":      -1,
	"PDT_DISK":     0x0,
	"PDT_TAPE":     0x1,
	"PDT_MCHANGER": 0x8,
	"PDT_ADC":      0x12,

	"RW_ERR_RECOVERY_MP": 0x01,
	"DISCONNECT_MP":      0x02,
	"FORMAT_MP":          0x03,
	"CACHING_MP":         0x08,
	"CONTROL_MP":         0x0a,
	"DATA_COMPR_MP":      0x0f,
	"DEV_CONF_MP":        0x10,
	"PROT_SPEC_LU_MP":    0x18,
	"PROT_SPEC_PORT_MP":  0x19,
	"POWER_MP":           0x1a,
	"IEC_MP":             0x1c,

	"MSP_SPC_CE":  0x01,
	"MSP_SAS_PCD": 0x01,
	"MSP_SAS_SPC": 0x02,

	"MF_COMMON":    1 << 0,
	"MF_HEX":       1 << 1,
	"MF_TWOS_COMP": 1 << 2,
	"MF_CLASH_OK":  1 << 3,
	"MF_ALL_1S":    0,
	"MF_SAVE_PGS":  0,
}

// resolveValue evaluates one C initializer element: a numeric literal, a
// macro, or a '|' combination of macros.
func resolveValue(expr string) (int64, bool) {
	var total int64

	for _, term := range strings.Split(expr, "|") {
		term = strings.TrimSpace(term)

		if v, err := strconv.ParseInt(term, 0, 64); err == nil {
			total |= v
			continue
		}

		v, ok := macros[term]
		if !ok {
			return 0, false
		}

		total |= v
	}

	return total, true
}

// parseFieldTable tokenizes the C source and extracts every brace-enclosed
// initializer that looks like a mode page field item: a quoted acronym
// followed by seven numeric elements and a quoted description.
func parseFieldTable(src io.Reader) ([]fieldEntry, int) {
	var (
		s       scanner.Scanner
		items   []string
		depth   int
		skipped int
	)

	entries := make([]fieldEntry, 0)

	s.Init(src)
	s.Mode ^= scanner.SkipComments

	// Extremely simple state machine like processing of tokens. Elements
	// accumulate between commas; a closing brace finishes one entry.
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch tok {
		case '{':
			depth++
			items = []string{""}
		case ',':
			if depth > 0 {
				items = append(items, "")
			}
		case '}':
			if depth > 0 {
				depth--

				if e, ok := buildEntry(items); ok {
					entries = append(entries, e)
				} else if len(items) >= 9 {
					skipped++
				}
			}
		case scanner.Comment:
			// Skip; descriptions sometimes carry trailing comments.
		default:
			if depth > 0 && len(items) > 0 {
				items[len(items)-1] += s.TokenText()
			}
		}
	}

	return entries, skipped
}

func buildEntry(items []string) (fieldEntry, bool) {
	if len(items) < 9 || !strings.HasPrefix(items[0], `"`) {
		return fieldEntry{}, false
	}

	var e fieldEntry

	if tmp, err := strconv.Unquote(items[0]); err == nil {
		e.Acronym = tmp
	} else {
		return fieldEntry{}, false
	}

	nums := make([]int64, 7)

	for i := 0; i < 7; i++ {
		v, ok := resolveValue(items[1+i])
		if !ok {
			return fieldEntry{}, false
		}

		nums[i] = v
	}

	e.Page = int(nums[0])
	e.Subpage = int(nums[1])

	if nums[2] >= 0 {
		pdt := int(nums[2])
		e.Pdt = &pdt
	}

	e.Byte = int(nums[3])
	e.Bit = int(nums[4])
	e.Bits = int(nums[5])

	flags := nums[6]
	e.Common = flags&macros["MF_COMMON"] != 0
	e.Hex = flags&macros["MF_HEX"] != 0
	e.Signed = flags&macros["MF_TWOS_COMP"] != 0
	e.ClashOK = flags&macros["MF_CLASH_OK"] != 0

	if tmp, err := strconv.Unquote(items[8]); err == nil {
		e.Description = tmp
	}

	return e, true
}

func main() {
	var (
		tableURL                string
		inFilename, outFilename string
		reader                  io.Reader
	)

	flag.StringVar(&tableURL, "url", defaultTableURL, "Optional field table source URL")
	flag.StringVar(&inFilename, "in", "", "Optional path to local field table source")
	flag.StringVar(&outFilename, "out", "pagedb.yaml", "Output .yaml filename")
	flag.Parse()

	if inFilename != "" {
		f, err := os.Open(inFilename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read field table: %v\n", err)
			os.Exit(1)
		}

		defer f.Close()
		fmt.Printf("Reading from local file %s\n", f.Name())
		reader = f
	} else {
		resp, err := http.Get(tableURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot fetch field table: %v\n", err)
			os.Exit(1)
		}

		defer resp.Body.Close()
		fmt.Printf("Reading from fetched source %s\n", tableURL)
		reader = resp.Body
	}

	entries, skipped := parseFieldTable(reader)
	fmt.Printf("Parsed %d field entries (%d skipped)\n", len(entries), skipped)

	destFile, err := os.Create(outFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create output: %v\n", err)
		os.Exit(1)
	}

	defer destFile.Close()

	enc := yaml.NewEncoder(destFile)

	if err := enc.Encode(fieldTable{entries}); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding yaml: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote output to %s\n", outFilename)
}
