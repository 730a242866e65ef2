// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package sdparm

import (
	"fmt"
	"sort"

	"github.com/dswarbrick/sdparm/scsi"
)

// Command identifies one canned SCSI command.
type Command int

const (
	CmdCapacity Command = iota
	CmdEject
	CmdLoad
	CmdReady
	CmdSense
	CmdStart
	CmdStop
	CmdSync
	CmdUnlock
)

// commandSpec describes how to issue one canned command. allocLen is the
// size of the data-in buffer; zero means no data transfer.
type commandSpec struct {
	name     string
	cdb      []byte
	allocLen int
}

// commandRegistry maps each command to its CDB template. Adding a command
// means adding an entry here, nothing else.
var commandRegistry = map[Command]commandSpec{
	CmdCapacity: {
		name:     "capacity",
		cdb:      []byte{scsi.SCSI_READ_CAPACITY_10, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		allocLen: 8,
	},
	CmdEject: {
		name: "eject",
		cdb:  []byte{scsi.SCSI_START_STOP_UNIT, 0, 0, 0, 0x02, 0}, // LOEJ
	},
	CmdLoad: {
		name: "load",
		cdb:  []byte{scsi.SCSI_START_STOP_UNIT, 0, 0, 0, 0x03, 0}, // LOEJ | START
	},
	CmdReady: {
		name: "ready",
		cdb:  []byte{scsi.SCSI_TEST_UNIT_READY, 0, 0, 0, 0, 0},
	},
	CmdSense: {
		name:     "sense",
		cdb:      []byte{scsi.SCSI_REQUEST_SENSE, 0, 0, 0, 0x20, 0},
		allocLen: 0x20,
	},
	CmdStart: {
		name: "start",
		cdb:  []byte{scsi.SCSI_START_STOP_UNIT, 0, 0, 0, 0x01, 0},
	},
	CmdStop: {
		name: "stop",
		cdb:  []byte{scsi.SCSI_START_STOP_UNIT, 0, 0, 0, 0x00, 0},
	},
	CmdSync: {
		name: "sync",
		cdb:  []byte{scsi.SCSI_SYNCHRONIZE_CACHE, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
	CmdUnlock: {
		name: "unlock",
		cdb:  []byte{scsi.SCSI_PREVENT_ALLOW, 0, 0, 0, 0x00, 0},
	},
}

// ParseCommand resolves a command name as given on the command line.
func ParseCommand(name string) (Command, error) {
	for cmd, spec := range commandRegistry {
		if spec.name == name {
			return cmd, nil
		}
	}

	return 0, fmt.Errorf("sdparm: unknown command %q (one of %v)", name, CommandNames())
}

// CommandNames returns the recognized command names, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commandRegistry))

	for _, spec := range commandRegistry {
		names = append(names, spec.name)
	}

	sort.Strings(names)

	return names
}

// RunCommand issues one canned command, returning any data-in payload.
func RunCommand(tr scsi.Transport, cmd Command) ([]byte, error) {
	spec, ok := commandRegistry[cmd]
	if !ok {
		return nil, fmt.Errorf("sdparm: unknown command %d", cmd)
	}

	// The registry templates are shared; never hand them to the transport
	// directly.
	cdb := append([]byte(nil), spec.cdb...)

	if spec.allocLen == 0 {
		return nil, tr.Exec(cdb, scsi.DirNone, nil)
	}

	data := make([]byte, spec.allocLen)
	if err := tr.Exec(cdb, scsi.DirFromDevice, data); err != nil {
		return nil, err
	}

	return data, nil
}
