// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// sdparm-style command line tool for reading and tuning SCSI device
// parameters.
//
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dswarbrick/sdparm"
	"github.com/dswarbrick/sdparm/mode"
	"github.com/dswarbrick/sdparm/pagedb"
	"github.com/dswarbrick/sdparm/scsi"
	"github.com/dswarbrick/sdparm/vpd"
)

const (
	_LINUX_CAPABILITY_VERSION_3 = 0x20080522

	CAP_SYS_RAWIO = 1 << 17
	CAP_SYS_ADMIN = 1 << 21
)

type capHeader struct {
	version uint32
	pid     int
}

type capData struct {
	effective   uint32
	permitted   uint32
	inheritable uint32
}

type capsV3 struct {
	hdr  capHeader
	data [2]capData
}

// checkCaps invokes the capget syscall to check for necessary capabilities. Note that this depends
// on the binary having the capabilities set (i.e., via the `setcap` utility), and on VFS support.
// Alternatively, if the binary is executed as root, it automatically has all capabilities set.
func checkCaps() {
	caps := new(capsV3)
	caps.hdr.version = _LINUX_CAPABILITY_VERSION_3

	// Use RawSyscall since we do not expect it to block
	_, _, e1 := unix.RawSyscall(unix.SYS_CAPGET, uintptr(unsafe.Pointer(&caps.hdr)), uintptr(unsafe.Pointer(&caps.data)), 0)
	if e1 != 0 {
		fmt.Println("capget() failed:", e1.Error())
		return
	}

	if (caps.data[0].effective&CAP_SYS_RAWIO == 0) && (caps.data[0].effective&CAP_SYS_ADMIN == 0) {
		fmt.Println("Neither cap_sys_rawio nor cap_sys_admin are in effect. Device access will probably fail.")
	}
}

var transportNames = map[string]int{
	"fcp":   pagedb.TransportFCP,
	"spi":   pagedb.TransportSPI,
	"srp":   pagedb.TransportSRP,
	"iscsi": pagedb.TransportISCSI,
	"sas":   pagedb.TransportSAS,
	"ata":   pagedb.TransportATA,
}

var vendorNames = map[string]int{
	"sea": pagedb.VendorSeagate,
	"hit": pagedb.VendorHitachi,
	"lto": pagedb.VendorLTO,
}

// parsePage parses a mode page reference: an acronym ("ca"), a number
// ("0x08"), or page,subpage ("0x19,1").
func parsePage(s string, sel pagedb.TableSelector, pdt int) (*pagedb.ModePageDescriptor, error) {
	if mpd := pagedb.FindModePageByAcronym(sel, s, pdt); mpd != nil {
		return mpd, nil
	}

	pageStr, subStr, hasSub := strings.Cut(s, ",")

	page, err := strconv.ParseUint(pageStr, 0, 8)
	if err != nil {
		return nil, fmt.Errorf("unknown mode page %q", s)
	}

	var subpage uint64
	if hasSub {
		if subpage, err = strconv.ParseUint(subStr, 0, 8); err != nil {
			return nil, fmt.Errorf("bad subpage in %q", s)
		}
	}

	if page > 0x3f {
		return nil, fmt.Errorf("mode page %#x out of range", page)
	}

	if mpd := pagedb.FindModePage(sel, int(page), int(subpage), pdt); mpd != nil {
		return mpd, nil
	}

	// Not in the catalog; fetch and decode it anyway.
	return &pagedb.ModePageDescriptor{Page: int(page), Subpage: int(subpage), Pdt: pagedb.PdtAny}, nil
}

func formatValue(v pagedb.DecodedValue) string {
	switch v.Kind {
	case pagedb.KindHex:
		return fmt.Sprintf("%#x", v.Value)
	case pagedb.KindSignedDec:
		return strconv.FormatInt(int64(v.Value), 10)
	case pagedb.KindString:
		return strconv.Quote(v.Str)
	}

	return strconv.FormatUint(v.Value, 10)
}

func printVpdResult(res *vpd.PageResult, indent string) {
	name := res.Name
	if !res.Known {
		name = "Unknown page"
	}

	fmt.Printf("%sVPD page 0x%02x: %s\n", indent, res.Page, name)

	for _, note := range res.Notes {
		fmt.Printf("%s  note: %s\n", indent, note)
	}

	for _, v := range res.Values {
		fmt.Printf("%s  %-24s %s\n", indent, v.Acronym, formatValue(v))
	}

	if len(res.Raw) > 0 {
		fmt.Printf("%s  raw: % x\n", indent, res.Raw)
	}

	for _, nested := range res.Nested {
		printVpdResult(nested, indent+"    ")
	}
}

func printPageReport(rep *sdparm.PageReport, verbose bool) {
	name := rep.Mpd.Name
	if name == "" {
		name = "Unknown mode page"
	}

	fmt.Printf("Mode page 0x%02x,0x%02x: %s\n", rep.Mpd.Page, rep.Mpd.Subpage, name)

	for _, w := range rep.Warnings {
		fmt.Println("  warning:", w)
	}

	// One line per field: current, changeable, default, saved.
	cur := rep.Values[scsi.MPAGE_CONTROL_CURRENT]

	lookup := func(pc uint8, acronym string) string {
		if rep.Mask&(1<<pc) == 0 {
			return "-"
		}

		for _, v := range rep.Values[pc] {
			if v.Acronym == acronym {
				return formatValue(v)
			}
		}

		return "-"
	}

	for _, v := range cur {
		fmt.Printf("  %-16s %8s  [cha: %s, def: %s, sav: %s]\n",
			v.Acronym, formatValue(v),
			lookup(scsi.MPAGE_CONTROL_CHANGEABLE, v.Acronym),
			lookup(scsi.MPAGE_CONTROL_DEFAULT, v.Acronym),
			lookup(scsi.MPAGE_CONTROL_SAVED, v.Acronym))
	}

	if verbose {
		if body := rep.Bodies[scsi.MPAGE_CONTROL_CURRENT]; body != nil {
			fmt.Printf("  raw: % x\n", body)
		}
	}
}

func enumerate(sel pagedb.TableSelector) {
	fmt.Println("Mode pages:")
	for _, mpd := range sel.ModePages() {
		fmt.Printf("  %-8s 0x%02x,0x%02x  %s\n", mpd.Acronym, mpd.Page, mpd.Subpage, mpd.Name)
	}

	fmt.Println("Fields:")
	for _, f := range sel.Fields() {
		fmt.Printf("  %-12s 0x%02x,0x%02x byte %d bit %d len %d  %s\n",
			f.Acronym, f.Page, f.Subpage, f.StartByte, f.StartBit, f.NumBits, f.Description)
	}
}

func runSelfCheck() int {
	violations := pagedb.CheckAllTables()
	if len(violations) == 0 {
		fmt.Println("All field tables are consistent.")
		return 0
	}

	for _, v := range violations {
		fmt.Println(v)
	}

	return 1
}

func main() {
	fmt.Println("Go sdparm")
	fmt.Printf("Built with %s on %s (%s)\n\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

	device := flag.String("device", "", "SCSI device to query, e.g., /dev/sda, /dev/sg0")
	scan := flag.Bool("scan", false, "Scan for SCSI devices")
	page := flag.String("page", "", "Mode page to decode: acronym, number, or page,subpage")
	vpdPage := flag.String("vpd", "", "VPD page to decode: number, or \"all\" to walk the supported pages list")
	get := flag.String("get", "", "Field acronym to read")
	set := flag.String("set", "", "Comma-separated ACRONYM=value assignments (one mode page per invocation)")
	command := flag.String("command", "", "Canned command to issue: "+strings.Join(sdparm.CommandNames(), ", "))
	save := flag.Bool("save", false, "Make changes persist across power cycles (MODE SELECT SP bit)")
	six := flag.Bool("six", false, "Use the 6-byte MODE SENSE / MODE SELECT variants")
	dbd := flag.Bool("dbd", false, "Disable block descriptors in MODE SENSE")
	flexible := flag.Bool("flexible", false, "Tolerate response format quirks (6/10 byte header confusion, short pages)")
	transport := flag.String("transport", "", "Transport-specific field table: fcp, spi, srp, iscsi, sas, ata")
	vendor := flag.String("vendor", "", "Vendor-specific field table: sea, hit, lto")
	userTable := flag.String("fields", "", "YAML file with additional field definitions")
	all := flag.Bool("all", false, "Decode every catalogued mode page the device answers for")
	verbose := flag.Bool("verbose", false, "Also hex dump the raw page bodies")
	enum := flag.Bool("enumerate", false, "List the selected mode page and field tables")
	check := flag.Bool("check", false, "Run the field table consistency check and exit")
	flag.Parse()

	if *check {
		os.Exit(runSelfCheck())
	}

	sel := pagedb.GenericSelector

	if *transport != "" {
		t, ok := transportNames[*transport]
		if !ok {
			fmt.Println("Unknown transport:", *transport)
			os.Exit(1)
		}
		sel.Transport = t
	}

	if *vendor != "" {
		v, ok := vendorNames[*vendor]
		if !ok {
			fmt.Println("Unknown vendor:", *vendor)
			os.Exit(1)
		}
		sel.Vendor = v
	}

	if err := sel.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var userFields []pagedb.FieldDescriptor

	if *userTable != "" {
		var err error

		userFields, err = pagedb.LoadFieldTable(*userTable)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if *enum {
		enumerate(sel)
		return
	}

	if *scan {
		for _, dev := range sdparm.ScanDevices() {
			fmt.Println(dev)
		}
		return
	}

	if *device == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	checkCaps()

	dev, err := scsi.OpenDevice(*device)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer dev.Close()

	inq, err := sdparm.GetInquiry(dev)
	if err != nil {
		fmt.Println("INQUIRY failed:", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %s\n\n", *device, inq)

	opts := mode.FetchOpts{Use6: *six, DBD: *dbd, Flexible: *flexible}

	switch {
	case *command != "":
		cmd, err := sdparm.ParseCommand(*command)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		data, err := sdparm.RunCommand(dev, cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if len(data) > 0 {
			fmt.Printf("% x\n", data)
		}

	case *vpdPage == "all":
		results, warnings, err := sdparm.FetchAllVpd(dev, inq.Pdt)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		for _, res := range results {
			printVpdResult(res, "")
		}

		for _, w := range warnings {
			fmt.Println("warning:", w)
		}

	case *vpdPage != "":
		num, err := strconv.ParseUint(*vpdPage, 0, 8)
		if err != nil {
			fmt.Println("Bad VPD page number:", *vpdPage)
			os.Exit(1)
		}

		res, err := sdparm.FetchVpdPage(dev, byte(num), inq.Pdt)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printVpdResult(res, "")

	case *set != "":
		var assignments []sdparm.Assignment

		for _, s := range strings.Split(*set, ",") {
			a, err := sdparm.ParseAssignment(s)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}

			assignments = append(assignments, a)
		}

		res, err := applySet(dev, opts, sel, userFields, assignments, inq.Pdt, *save)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		for _, tw := range res.Truncations {
			fmt.Println("warning:", tw)
		}

		for _, w := range res.Warnings {
			fmt.Println("warning:", w)
		}

	case *get != "":
		if f := pagedb.FindByAcronymForPdt(userFields, *get, inq.Pdt, -1); f != nil {
			if err := getUserField(dev, opts, f); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			return
		}

		f, byControl, err := sdparm.GetField(dev, opts, sel, *get, inq.Pdt, -1)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printField(f, byControl)

	case *page != "":
		mpd, err := parsePage(*page, sel, inq.Pdt)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		rep, err := sdparm.GetModePage(dev, opts, sel, mpd, inq.Pdt, true)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printPageReport(rep, *verbose)

	case *all:
		fallthrough
	default:
		// No page given: list every catalogued page the device answers for.
		for _, mpd := range sel.ModePages() {
			if mpd.Pdt != pagedb.PdtAny && mpd.Pdt != inq.Pdt {
				continue
			}

			m := mpd
			rep, err := sdparm.GetModePage(dev, opts, sel, &m, inq.Pdt, true)
			if err != nil {
				continue
			}

			printPageReport(rep, *verbose)
			fmt.Println()
		}
	}
}

func printField(f *pagedb.FieldDescriptor, byControl map[uint8]uint64) {
	fmt.Printf("%s: %s\n", f.Acronym, f.Description)

	names := []struct {
		pc   uint8
		name string
	}{
		{scsi.MPAGE_CONTROL_CURRENT, "current"},
		{scsi.MPAGE_CONTROL_CHANGEABLE, "changeable"},
		{scsi.MPAGE_CONTROL_DEFAULT, "default"},
		{scsi.MPAGE_CONTROL_SAVED, "saved"},
	}

	for _, n := range names {
		if v, ok := byControl[n.pc]; ok {
			fmt.Printf("  %-12s %d\n", n.name, v)
		}
	}
}

// applySet routes assignments through the user-supplied field table when one
// matches, falling back to the built-in tables otherwise.
func applySet(dev scsi.Transport, opts mode.FetchOpts, sel pagedb.TableSelector,
	userFields []pagedb.FieldDescriptor, assignments []sdparm.Assignment, pdt int, save bool) (*sdparm.SetResult, error) {

	var (
		userChanges []mode.Change
		builtin     []sdparm.Assignment
	)

	for _, a := range assignments {
		if f := pagedb.FindByAcronymForPdt(userFields, a.Acronym, pdt, a.DescriptorID); f != nil {
			userChanges = append(userChanges, mode.Change{Field: f, Value: a.Value})
			continue
		}

		builtin = append(builtin, a)
	}

	if len(userChanges) > 0 && len(builtin) > 0 {
		return nil, fmt.Errorf("cannot mix user-table and built-in fields in one invocation")
	}

	if len(userChanges) > 0 {
		page, subpage := userChanges[0].Field.Page, userChanges[0].Field.Subpage

		for _, ch := range userChanges[1:] {
			if ch.Field.Page != page || ch.Field.Subpage != subpage {
				return nil, fmt.Errorf("user-table fields span multiple mode pages")
			}
		}

		truncs, warnings, err := mode.Apply(dev, opts, uint8(page), uint8(subpage), userChanges, save)
		if err != nil {
			return nil, err
		}

		return &sdparm.SetResult{Truncations: truncs, Warnings: warnings}, nil
	}

	return sdparm.SetFields(dev, opts, sel, builtin, pdt, save)
}

// getUserField reads one field defined in a user-supplied YAML table.
func getUserField(dev scsi.Transport, opts mode.FetchOpts, f *pagedb.FieldDescriptor) error {
	pcs, err := mode.FetchControls(dev, opts, uint8(f.Page), uint8(f.Subpage))
	if err != nil {
		return err
	}

	byControl := make(map[uint8]uint64)

	for pc := uint8(0); pc <= scsi.MPAGE_CONTROL_SAVED; pc++ {
		body := pcs.ByControl(pc)
		if body == nil {
			continue
		}

		vals, _, err := mode.DecodePageFields(
			[]pagedb.FieldDescriptor{*f}, nil, body, false)
		if err != nil || len(vals) == 0 {
			continue
		}

		byControl[pc] = vals[0].Value
	}

	printField(f, byControl)

	return nil
}
