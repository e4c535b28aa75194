// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tracestat computes execution statistics from waveform traces.
//
package tracestat

import (
	"bytes"
	"fmt"
	"io"

	"github.com/db47h/hwbench/vcd"
)

// Default signal names.
const (
	PCSignal          = "io_instruction_address"
	WriteEnableSignal = "io_memory_bundle_write_enable"
	RegAddrSignal     = "regs_io_write_address"
	RegDataSignal     = "regs_io_write_data"
)

// Defaults for the watched register (a0) and value.
const (
	WatchRegister = 10
	WatchValue    = 42
)

// Options configures an analysis.
//
type Options struct {
	PCSignal          string // program counter signal name, defaults to PCSignal
	WriteEnableSignal string // defaults to WriteEnableSignal
	RegAddrSignal     string // register file write address, defaults to RegAddrSignal
	RegDataSignal     string // register file write data, defaults to RegDataSignal

	// PC window [WindowBegin, WindowEnd). Disabled if WindowEnd <= WindowBegin.
	WindowBegin, WindowEnd uint64
	// With an enabled window, Pass returns true if the number of in window PC
	// samples is greater than MinInWindow.
	MinInWindow int

	WatchRegister uint64 // register whose writes are counted
	WatchValue    uint64 // register write data value to look for
}

// DefaultOptions returns the default options: default signal names, a0 as
// the watched register and 42 as the watched value.
//
func DefaultOptions() Options {
	return Options{
		PCSignal:          PCSignal,
		WriteEnableSignal: WriteEnableSignal,
		RegAddrSignal:     RegAddrSignal,
		RegDataSignal:     RegDataSignal,
		WatchRegister:     WatchRegister,
		WatchValue:        WatchValue,
	}
}

// Report holds the results of an analysis.
//
type Report struct {
	Options
	Signals      int    // number of matching signals
	PCSamples    int    // non-zero program counter changes
	MaxPC        uint64 //
	InWindow     int    // PC samples in [WindowBegin, WindowEnd)
	MemoryWrites int    // write enable changes to 1
	RegWrites    int    // register write address changes
	WatchWrites  int    // register write address changes to WatchRegister
	ValueSeen    bool   // WatchValue appeared on the register write data
	Changes      int    // total value changes
	LastTime     uint64 // last timestamp with a value change
}

// Analyze scans the trace read from r.
//
// Signals are matched by name regardless of their scope.
//
func Analyze(r io.Reader, o Options) (*Report, error) {
	if o.PCSignal == "" {
		o.PCSignal = PCSignal
	}
	if o.WriteEnableSignal == "" {
		o.WriteEnableSignal = WriteEnableSignal
	}
	if o.RegAddrSignal == "" {
		o.RegAddrSignal = RegAddrSignal
	}
	if o.RegDataSignal == "" {
		o.RegDataSignal = RegDataSignal
	}
	rep := &Report{Options: o}
	window := o.WindowEnd > o.WindowBegin

	vars, err := vcd.Scan(r, func(t uint64, v *vcd.Var, value uint64) error {
		rep.Changes++
		rep.LastTime = t
		switch v.Name {
		case o.PCSignal:
			if value == 0 {
				break
			}
			rep.PCSamples++
			if value > rep.MaxPC {
				rep.MaxPC = value
			}
			if window && value >= o.WindowBegin && value < o.WindowEnd {
				rep.InWindow++
			}
		case o.WriteEnableSignal:
			if value != 0 {
				rep.MemoryWrites++
			}
		case o.RegAddrSignal:
			rep.RegWrites++
			if value == o.WatchRegister {
				rep.WatchWrites++
			}
		case o.RegDataSignal:
			if value == o.WatchValue {
				rep.ValueSeen = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		switch v.Name {
		case o.PCSignal, o.WriteEnableSignal, o.RegAddrSignal, o.RegDataSignal:
			rep.Signals++
		}
	}
	return rep, nil
}

// Pass returns true if the PC window is disabled or if the number of PC
// samples in the window is greater than MinInWindow.
//
func (r *Report) Pass() bool {
	if r.WindowEnd <= r.WindowBegin {
		return true
	}
	return r.InWindow > r.MinInWindow
}

// WriteTo writes a human readable report to w.
//
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	status := "PASS"
	if !r.Pass() {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Signals matched: %d\n", r.Signals)
	fmt.Fprintf(&b, "PC samples: %d\n", r.PCSamples)
	fmt.Fprintf(&b, "Max PC: 0x%08x\n", r.MaxPC)
	if r.WindowEnd > r.WindowBegin {
		fmt.Fprintf(&b, "PC samples in [0x%08x, 0x%08x): %d (more than %d needed)\n", r.WindowBegin, r.WindowEnd, r.InWindow, r.MinInWindow)
	}
	fmt.Fprintf(&b, "Memory writes: %d\n", r.MemoryWrites)
	fmt.Fprintf(&b, "Register writes: %d\n", r.RegWrites)
	fmt.Fprintf(&b, "Writes to x%d: %d\n", r.WatchRegister, r.WatchWrites)
	fmt.Fprintf(&b, "Register value %d seen: %v\n", r.WatchValue, r.ValueSeen)
	fmt.Fprintf(&b, "Value changes: %d\n", r.Changes)
	fmt.Fprintf(&b, "Last time: %d\n", r.LastTime)
	return b.WriteTo(w)
}
