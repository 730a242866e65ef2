// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Static mode page, VPD page and field tables. Field offsets are relative to
// the start of the mode page (the page code byte), matching the layout
// diagrams in SPC/SBC/SSC. Entries are ordered by page, subpage, pdt; the
// table checker lints that ordering.

package pagedb

// Generic (transport- and vendor-independent) mode page catalog.
var genericModePages = []ModePageDescriptor{
	{Page: 0x01, Pdt: PdtAny, Acronym: "rw", Name: "Read write error recovery"},
	{Page: 0x02, Pdt: PdtAny, Acronym: "dr", Name: "Disconnect-reconnect"},
	{Page: 0x08, Pdt: PdtDisk, Acronym: "ca", Name: "Caching"},
	{Page: 0x0a, Pdt: PdtAny, Acronym: "co", Name: "Control"},
	{Page: 0x0f, Pdt: PdtTape, Acronym: "dac", Name: "Data compression"},
	{Page: 0x11, Pdt: PdtTape, Acronym: "dc", Name: "Device configuration"},
	{Page: 0x1a, Pdt: PdtAny, Acronym: "po", Name: "Power condition"},
	{Page: 0x1c, Pdt: PdtAny, Acronym: "ie", Name: "Informational exceptions control"},
}

// SAS/SPL mode pages. The phy control and discover subpage repeats one 48-byte
// descriptor per phy; the phy count sits at byte 7.
var sasModePages = []ModePageDescriptor{
	{Page: 0x18, Pdt: PdtAny, Acronym: "pl", Name: "Protocol specific logical unit (SAS)"},
	{Page: 0x19, Pdt: PdtAny, Acronym: "pp", Name: "Protocol specific port (SAS)"},
	{Page: 0x19, Subpage: 0x01, Pdt: PdtAny, Acronym: "pcd", Name: "Phy control and discover (SAS)",
		Layout: &DescriptorLayout{
			CountOffset: 7, CountWidth: 1, CountIncrement: 1,
			FirstOffset: 8, FixedLength: 48,
		}},
	{Page: 0x19, Subpage: 0x02, Pdt: PdtAny, Acronym: "sportc", Name: "Shared port control (SAS)"},
}

var spiModePages = []ModePageDescriptor{
	{Page: 0x19, Pdt: PdtAny, Acronym: "pp", Name: "Port control (SPI-4)"},
	{Page: 0x19, Subpage: 0x01, Pdt: PdtAny, Acronym: "mc", Name: "Margin control (SPI-4)"},
}

var fcpModePages = []ModePageDescriptor{
	{Page: 0x18, Pdt: PdtAny, Acronym: "pl", Name: "Protocol specific logical unit (FCP)"},
	{Page: 0x19, Pdt: PdtAny, Acronym: "pp", Name: "Protocol specific port (FCP)"},
}

var srpModePages = []ModePageDescriptor{
	{Page: 0x19, Pdt: PdtAny, Acronym: "pp", Name: "Protocol specific port (SRP)"},
}

var seagateModePages = []ModePageDescriptor{
	{Page: 0x00, Pdt: PdtDisk, Acronym: "uac", Name: "Unit attention condition (Seagate)"},
}

var hitachiModePages = []ModePageDescriptor{
	{Page: 0x00, Pdt: PdtDisk, Acronym: "vup", Name: "Vendor unique parameters (Hitachi)"},
}

var ltoModePages = []ModePageDescriptor{
	{Page: 0x24, Pdt: PdtTape, Acronym: "vsca", Name: "Vendor specific control (LTO)"},
	{Page: 0x3e, Pdt: PdtTape, Acronym: "behav", Name: "Behaviour configuration (LTO)",
		Layout: &DescriptorLayout{
			CountIncrement: -1,
			FirstOffset:    4,
			FixedLength:    8,
			// Descriptor id nibble at byte 4 of each descriptor resolves
			// clash-flagged fields.
			HasDescriptorID: true,
		}},
}

// Generic mode page fields. Ordered by (page, subpage, pdt, byte, bit).
var genericFields = []FieldDescriptor{
	// Read write error recovery [0x01]
	{Acronym: "AWRE", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Automatic write reallocation enabled"},
	{Acronym: "ARRE", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 6, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Automatic read reallocation enabled"},
	{Acronym: "TB", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Transfer block"},
	{Acronym: "RC", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 4, NumBits: 1, DescriptorID: -1, Description: "Read continuous"},
	{Acronym: "EER", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 3, NumBits: 1, DescriptorID: -1, Description: "Enable early recovery"},
	{Acronym: "PER", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 2, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Post error"},
	{Acronym: "DTE", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 1, NumBits: 1, DescriptorID: -1, Description: "Data terminate on error"},
	{Acronym: "DCR", Page: 0x01, Pdt: PdtAny, StartByte: 2, StartBit: 0, NumBits: 1, DescriptorID: -1, Description: "Disable correction"},
	{Acronym: "RRC", Page: 0x01, Pdt: PdtAny, StartByte: 3, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Read retry count"},
	{Acronym: "WRC", Page: 0x01, Pdt: PdtDisk, StartByte: 8, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Write retry count"},
	{Acronym: "RTL", Page: 0x01, Pdt: PdtDisk, StartByte: 10, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Recovery time limit (ms)\tall-ones means maximum"},

	// Disconnect-reconnect [0x02]
	{Acronym: "BFR", Page: 0x02, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Buffer full ratio"},
	{Acronym: "BER", Page: 0x02, Pdt: PdtAny, StartByte: 3, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Buffer empty ratio"},
	{Acronym: "BIL", Page: 0x02, Pdt: PdtAny, StartByte: 4, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Bus inactivity limit"},
	{Acronym: "DTL", Page: 0x02, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Disconnect time limit"},
	{Acronym: "CTL", Page: 0x02, Pdt: PdtAny, StartByte: 8, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Connect time limit"},
	{Acronym: "MBS", Page: 0x02, Pdt: PdtAny, StartByte: 10, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Maximum burst size (512 byte units)"},
	{Acronym: "EMDP", Page: 0x02, Pdt: PdtAny, StartByte: 12, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Enable modify data pointers"},
	{Acronym: "FA", Page: 0x02, Pdt: PdtAny, StartByte: 12, StartBit: 6, NumBits: 3, DescriptorID: -1, Description: "Fair arbitration"},
	{Acronym: "DIMM", Page: 0x02, Pdt: PdtAny, StartByte: 12, StartBit: 3, NumBits: 1, DescriptorID: -1, Description: "Disconnect immediate"},
	{Acronym: "DTDC", Page: 0x02, Pdt: PdtAny, StartByte: 12, StartBit: 2, NumBits: 3, DescriptorID: -1, Description: "Data transfer disconnect control"},
	{Acronym: "FBS", Page: 0x02, Pdt: PdtAny, StartByte: 14, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "First burst size (512 byte units)"},

	// Caching [0x08]
	{Acronym: "IC", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Initiator control"},
	{Acronym: "ABPF", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 6, NumBits: 1, DescriptorID: -1, Description: "Abort pre-fetch"},
	{Acronym: "CAP", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Caching analysis permitted"},
	{Acronym: "DISC", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 4, NumBits: 1, DescriptorID: -1, Description: "Discontinuity"},
	{Acronym: "SIZE", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 3, NumBits: 1, DescriptorID: -1, Description: "Size enable"},
	{Acronym: "WCE", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 2, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Write cache enable"},
	{Acronym: "MF", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 1, NumBits: 1, DescriptorID: -1, Description: "Multiplication factor"},
	{Acronym: "RCD", Page: 0x08, Pdt: PdtDisk, StartByte: 2, StartBit: 0, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Read cache disable"},
	{Acronym: "DRRP", Page: 0x08, Pdt: PdtDisk, StartByte: 3, StartBit: 7, NumBits: 4, DescriptorID: -1, Description: "Demand read retention priority"},
	{Acronym: "WRP", Page: 0x08, Pdt: PdtDisk, StartByte: 3, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Write retention priority"},
	{Acronym: "DPTL", Page: 0x08, Pdt: PdtDisk, StartByte: 4, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Disable pre-fetch transfer length"},
	{Acronym: "MIPF", Page: 0x08, Pdt: PdtDisk, StartByte: 6, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Minimum pre-fetch"},
	{Acronym: "MAPF", Page: 0x08, Pdt: PdtDisk, StartByte: 8, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Maximum pre-fetch"},
	{Acronym: "MAPFC", Page: 0x08, Pdt: PdtDisk, StartByte: 10, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Maximum pre-fetch ceiling"},
	{Acronym: "FSW", Page: 0x08, Pdt: PdtDisk, StartByte: 12, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Force sequential write"},
	{Acronym: "LBCSS", Page: 0x08, Pdt: PdtDisk, StartByte: 12, StartBit: 6, NumBits: 1, DescriptorID: -1, Description: "Logical block cache segment size"},
	{Acronym: "DRA", Page: 0x08, Pdt: PdtDisk, StartByte: 12, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Disable read ahead"},
	{Acronym: "NV_DIS", Page: 0x08, Pdt: PdtDisk, StartByte: 13, StartBit: 0, NumBits: 1, DescriptorID: -1, Description: "Non-volatile cache disable"},

	// Control [0x0a]
	{Acronym: "TST", Page: 0x0a, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 3, DescriptorID: -1, Description: "Task set type"},
	{Acronym: "TMF_ONLY", Page: 0x0a, Pdt: PdtAny, StartByte: 2, StartBit: 4, NumBits: 1, DescriptorID: -1, Description: "Task management functions only"},
	{Acronym: "DPICZ", Page: 0x0a, Pdt: PdtAny, StartByte: 2, StartBit: 3, NumBits: 1, DescriptorID: -1, Description: "Disable protection information check if zero"},
	{Acronym: "D_SENSE", Page: 0x0a, Pdt: PdtAny, StartByte: 2, StartBit: 2, NumBits: 1, DescriptorID: -1, Description: "Descriptor format sense data"},
	{Acronym: "GLTSD", Page: 0x0a, Pdt: PdtAny, StartByte: 2, StartBit: 1, NumBits: 1, DescriptorID: -1, Description: "Global logging target save disable"},
	{Acronym: "RLEC", Page: 0x0a, Pdt: PdtAny, StartByte: 2, StartBit: 0, NumBits: 1, DescriptorID: -1, Description: "Report log exception condition"},
	{Acronym: "QAM", Page: 0x0a, Pdt: PdtAny, StartByte: 3, StartBit: 7, NumBits: 4, DescriptorID: -1, Description: "Queue algorithm modifier"},
	{Acronym: "NUAR", Page: 0x0a, Pdt: PdtAny, StartByte: 3, StartBit: 3, NumBits: 1, DescriptorID: -1, Description: "No unit attention on release"},
	{Acronym: "QERR", Page: 0x0a, Pdt: PdtAny, StartByte: 3, StartBit: 2, NumBits: 2, DescriptorID: -1, Description: "Queue error management"},
	{Acronym: "SWP", Page: 0x0a, Pdt: PdtAny, StartByte: 4, StartBit: 3, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Software write protect"},
	{Acronym: "ATO", Page: 0x0a, Pdt: PdtAny, StartByte: 5, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Application tag owner"},
	{Acronym: "TAS", Page: 0x0a, Pdt: PdtAny, StartByte: 5, StartBit: 6, NumBits: 1, DescriptorID: -1, Description: "Task aborted status"},
	{Acronym: "ATMPE", Page: 0x0a, Pdt: PdtAny, StartByte: 5, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Application tag mode page enabled"},
	{Acronym: "RWWP", Page: 0x0a, Pdt: PdtAny, StartByte: 5, StartBit: 4, NumBits: 1, DescriptorID: -1, Description: "Reject write without protection"},
	{Acronym: "AUTOLOAD", Page: 0x0a, Pdt: PdtAny, StartByte: 5, StartBit: 2, NumBits: 3, DescriptorID: -1, Description: "Autoload mode"},
	{Acronym: "BTP", Page: 0x0a, Pdt: PdtAny, StartByte: 8, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Busy timeout period (100 us units)\tall-ones means unlimited"},
	{Acronym: "ESTCT", Page: 0x0a, Pdt: PdtAny, StartByte: 10, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Extended self test completion time (sec)"},

	// Data compression [0x0f] (tape)
	{Acronym: "DCE", Page: 0x0f, Pdt: PdtTape, StartByte: 2, StartBit: 7, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Data compression enable"},
	{Acronym: "DCC", Page: 0x0f, Pdt: PdtTape, StartByte: 2, StartBit: 6, NumBits: 1, DescriptorID: -1, Description: "Data compression capable"},
	{Acronym: "DDE", Page: 0x0f, Pdt: PdtTape, StartByte: 3, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Data decompression enable"},
	{Acronym: "RED", Page: 0x0f, Pdt: PdtTape, StartByte: 3, StartBit: 6, NumBits: 2, DescriptorID: -1, Description: "Report exception on decompression"},
	{Acronym: "COMPR_A", Page: 0x0f, Pdt: PdtTape, StartByte: 4, StartBit: 7, NumBits: 32, Flags: FlagHex, DescriptorID: -1, Description: "Compression algorithm"},
	{Acronym: "DCOMPR_A", Page: 0x0f, Pdt: PdtTape, StartByte: 8, StartBit: 7, NumBits: 32, Flags: FlagHex, DescriptorID: -1, Description: "Decompression algorithm"},

	// Device configuration [0x11] (tape)
	{Acronym: "CAF", Page: 0x11, Pdt: PdtTape, StartByte: 2, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Change active format"},
	{Acronym: "ACT_F", Page: 0x11, Pdt: PdtTape, StartByte: 2, StartBit: 4, NumBits: 5, DescriptorID: -1, Description: "Active format"},
	{Acronym: "WOBR", Page: 0x11, Pdt: PdtTape, StartByte: 8, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Write object buffer ratio"},
	{Acronym: "REW", Page: 0x11, Pdt: PdtTape, StartByte: 10, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Read object buffer empty ratio"},

	// Power condition [0x1a]
	{Acronym: "PM_BG", Page: 0x1a, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 2, DescriptorID: -1, Description: "Power management background functions precedence"},
	{Acronym: "STANDBY_Y", Page: 0x1a, Pdt: PdtAny, StartByte: 2, StartBit: 0, NumBits: 1, DescriptorID: -1, Description: "Standby_y timer enable"},
	{Acronym: "IDLE_C", Page: 0x1a, Pdt: PdtAny, StartByte: 3, StartBit: 3, NumBits: 1, DescriptorID: -1, Description: "Idle_c timer enable"},
	{Acronym: "IDLE_B", Page: 0x1a, Pdt: PdtAny, StartByte: 3, StartBit: 2, NumBits: 1, DescriptorID: -1, Description: "Idle_b timer enable"},
	{Acronym: "IDLE_A", Page: 0x1a, Pdt: PdtAny, StartByte: 3, StartBit: 1, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Idle_a timer enable"},
	{Acronym: "STANDBY_Z", Page: 0x1a, Pdt: PdtAny, StartByte: 3, StartBit: 0, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Standby_z timer enable"},
	{Acronym: "IACT", Page: 0x1a, Pdt: PdtAny, StartByte: 4, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Idle_a condition timer (100 ms units)"},
	{Acronym: "SZCT", Page: 0x1a, Pdt: PdtAny, StartByte: 8, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Standby_z condition timer (100 ms units)"},
	{Acronym: "IBCT", Page: 0x1a, Pdt: PdtAny, StartByte: 12, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Idle_b condition timer (100 ms units)"},
	{Acronym: "ICCT", Page: 0x1a, Pdt: PdtAny, StartByte: 16, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Idle_c condition timer (100 ms units)"},
	{Acronym: "SYCT", Page: 0x1a, Pdt: PdtAny, StartByte: 20, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Standby_y condition timer (100 ms units)"},

	// Informational exceptions control [0x1c]
	{Acronym: "PERF", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Performance (impact of ie operations)"},
	{Acronym: "EBF", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Enable background function"},
	{Acronym: "EWASC", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 4, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Enable warning"},
	{Acronym: "DEXCPT", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 3, NumBits: 1, Flags: FlagCommon, DescriptorID: -1, Description: "Disable exceptions"},
	{Acronym: "TEST", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 2, NumBits: 1, DescriptorID: -1, Description: "Test (simulate device failure)"},
	{Acronym: "EBACKERR", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 1, NumBits: 1, DescriptorID: -1, Description: "Enable background error"},
	{Acronym: "LOGERR", Page: 0x1c, Pdt: PdtAny, StartByte: 2, StartBit: 0, NumBits: 1, DescriptorID: -1, Description: "Log informational exception errors"},
	{Acronym: "MRIE", Page: 0x1c, Pdt: PdtAny, StartByte: 3, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Method of reporting informational exceptions"},
	{Acronym: "INTT", Page: 0x1c, Pdt: PdtAny, StartByte: 4, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Interval timer (100 ms units)"},
	{Acronym: "REPC", Page: 0x1c, Pdt: PdtAny, StartByte: 8, StartBit: 7, NumBits: 32, DescriptorID: -1, Description: "Report count\t0 means no limit"},
}

// SAS transport-specific fields. The pcd subpage fields address the first phy
// descriptor; the mode decoder re-bases them for subsequent phys.
var sasFields = []FieldDescriptor{
	{Acronym: "TPTID", Page: 0x18, Pdt: PdtAny, StartByte: 2, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Transport protocol identifier"},
	{Acronym: "BITL", Page: 0x19, Pdt: PdtAny, StartByte: 4, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Bus inactivity time limit (100 us units)"},
	{Acronym: "MCT", Page: 0x19, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Maximum connect time limit (100 us units)"},

	{Acronym: "NOP", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 7, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Number of phys"},
	{Acronym: "PHY_ID", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 9, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Phy identifier"},
	{Acronym: "ADT", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 12, StartBit: 6, NumBits: 3, DescriptorID: -1, Description: "Attached device type"},
	{Acronym: "NLLR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 13, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Negotiated logical link rate"},
	{Acronym: "SAS_ADDR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 16, StartBit: 7, NumBits: 64, Flags: FlagHex, DescriptorID: -1, Description: "SAS address"},
	{Acronym: "ATT_ADDR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 24, StartBit: 7, NumBits: 64, Flags: FlagHex, DescriptorID: -1, Description: "Attached SAS address"},
	{Acronym: "ATT_PHY_ID", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 32, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Attached phy identifier"},
	{Acronym: "PMILR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 40, StartBit: 7, NumBits: 4, DescriptorID: -1, Description: "Programmed minimum link rate"},
	{Acronym: "HMILR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 40, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Hardware minimum link rate"},
	{Acronym: "PMALR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 41, StartBit: 7, NumBits: 4, DescriptorID: -1, Description: "Programmed maximum link rate"},
	{Acronym: "HMALR", Page: 0x19, Subpage: 0x01, Pdt: PdtAny, StartByte: 41, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Hardware maximum link rate"},
}

var spiFields = []FieldDescriptor{
	{Acronym: "STT", Page: 0x19, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Synchronous transfer timeout (ms)"},
}

var fcpFields = []FieldDescriptor{
	{Acronym: "EPDC", Page: 0x18, Pdt: PdtAny, StartByte: 2, StartBit: 0, NumBits: 1, DescriptorID: -1, Description: "Enable precise delivery checking"},
	{Acronym: "RRTOV", Page: 0x19, Pdt: PdtAny, StartByte: 6, StartBit: 7, NumBits: 8, DescriptorID: -1, Description: "Resource recovery timeout value"},
}

var srpFields = []FieldDescriptor{
	{Acronym: "MAXB", Page: 0x19, Pdt: PdtAny, StartByte: 2, StartBit: 7, NumBits: 16, DescriptorID: -1, Description: "Maximum burst size (512 byte units)"},
}

var seagateFields = []FieldDescriptor{
	{Acronym: "UAIC", Page: 0x00, Pdt: PdtDisk, StartByte: 2, StartBit: 5, NumBits: 1, DescriptorID: -1, Description: "Unit attention inhibit condition"},
	{Acronym: "JIT", Page: 0x00, Pdt: PdtDisk, StartByte: 4, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Just in time seek speed selector"},
}

var hitachiFields = []FieldDescriptor{
	{Acronym: "QPE", Page: 0x00, Pdt: PdtDisk, StartByte: 3, StartBit: 7, NumBits: 1, DescriptorID: -1, Description: "Queue priority enable"},
}

// LTO behaviour configuration descriptors overlay a data field whose meaning
// depends on the descriptor id nibble in each descriptor's first byte.
var ltoFields = []FieldDescriptor{
	{Acronym: "SSM", Page: 0x24, Pdt: PdtTape, StartByte: 5, StartBit: 4, NumBits: 1, DescriptorID: -1, Description: "Static spare mode"},
	{Acronym: "BEH_ID", Page: 0x3e, Pdt: PdtTape, StartByte: 4, StartBit: 3, NumBits: 4, DescriptorID: -1, Description: "Behaviour descriptor id"},
	{Acronym: "FW_BEH", Page: 0x3e, Pdt: PdtTape, StartByte: 6, StartBit: 7, NumBits: 8, Flags: FlagClashOK, DescriptorID: 0, Description: "Firmware update behaviour"},
	{Acronym: "CLN_BEH", Page: 0x3e, Pdt: PdtTape, StartByte: 6, StartBit: 7, NumBits: 8, Flags: FlagClashOK, DescriptorID: 1, Description: "Cleaning behaviour"},
}

// VPD page catalog. The 0xb0-0xba band is overloaded per pdt.
var vpdPages = []VpdPageDescriptor{
	{Num: 0x00, Pdt: PdtAny, Acronym: "sv", Name: "Supported VPD pages"},
	{Num: 0x80, Pdt: PdtAny, Acronym: "sn", Name: "Unit serial number"},
	{Num: 0x83, Pdt: PdtAny, Acronym: "di", Name: "Device identification"},
	{Num: 0x83, Subvalue: 1, Pdt: PdtAny, Acronym: "di_lu", Name: "Device identification (logical unit)"},
	{Num: 0x83, Subvalue: 2, Pdt: PdtAny, Acronym: "di_port", Name: "Device identification (target port)"},
	{Num: 0x83, Subvalue: 3, Pdt: PdtAny, Acronym: "di_target", Name: "Device identification (target device)"},
	{Num: 0x86, Pdt: PdtAny, Acronym: "ei", Name: "Extended inquiry data"},
	{Num: 0x87, Pdt: PdtAny, Acronym: "mpp", Name: "Mode page policy"},
	{Num: 0x88, Pdt: PdtAny, Acronym: "sp", Name: "SCSI ports"},
	{Num: 0x8a, Pdt: PdtAny, Acronym: "pc", Name: "Power condition"},
	{Num: 0x8b, Pdt: PdtAny, Acronym: "dc", Name: "Device constituents"},
	{Num: 0xb0, Pdt: PdtDisk, Acronym: "bl", Name: "Block limits"},
	{Num: 0xb0, Pdt: PdtTape, Acronym: "sad", Name: "Sequential access device capabilities"},
	{Num: 0xb1, Pdt: PdtDisk, Acronym: "bdc", Name: "Block device characteristics"},
	{Num: 0xb1, Pdt: PdtTape, Acronym: "masn", Name: "Manufacturer assigned serial number"},
	{Num: 0xb2, Pdt: PdtDisk, Acronym: "lbpv", Name: "Logical block provisioning"},
	{Num: 0xb2, Pdt: PdtTape, Acronym: "tas", Name: "TapeAlert supported flags"},
	{Num: 0xb3, Pdt: PdtDisk, Acronym: "ref", Name: "Referrals"},
}

var transportFields = map[int][]FieldDescriptor{
	TransportFCP: fcpFields,
	TransportSPI: spiFields,
	TransportSRP: srpFields,
	TransportSAS: sasFields,
}

var transportModePages = map[int][]ModePageDescriptor{
	TransportFCP: fcpModePages,
	TransportSPI: spiModePages,
	TransportSRP: srpModePages,
	TransportSAS: sasModePages,
}

var vendorFields = map[int][]FieldDescriptor{
	VendorSeagate: seagateFields,
	VendorHitachi: hitachiFields,
	VendorLTO:     ltoFields,
}

var vendorModePages = map[int][]ModePageDescriptor{
	VendorSeagate: seagateModePages,
	VendorHitachi: hitachiModePages,
	VendorLTO:     ltoModePages,
}

// VpdPages returns the VPD page catalog.
func VpdPages() []VpdPageDescriptor {
	return vpdPages
}

// FindVpdPage locates the catalog entry for a VPD page number, preferring an
// entry whose pdt matches, falling back to a pdt-independent entry.
func FindVpdPage(num, pdt int) *VpdPageDescriptor {
	var fallback *VpdPageDescriptor

	for i := range vpdPages {
		p := &vpdPages[i]
		if p.Num != num || p.Subvalue != 0 {
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
