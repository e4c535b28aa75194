// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"strconv"
)

// LoadError is returned when a memory image cannot be loaded.
//
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return "load " + e.Path + ": " + e.Err.Error() }

// Cause returns the underlying error.
func (e *LoadError) Cause() error { return e.Err }

func (e *LoadError) Unwrap() error { return e.Err }

// TraceIOError is returned when the waveform trace file cannot be opened or
// written.
//
type TraceIOError struct {
	Path string
	Err  error
}

func (e *TraceIOError) Error() string { return "trace " + e.Path + ": " + e.Err.Error() }

// Cause returns the underlying error.
func (e *TraceIOError) Cause() error { return e.Err }

func (e *TraceIOError) Unwrap() error { return e.Err }

// IOError is returned when the signature file cannot be written.
//
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return "signature " + e.Path + ": " + e.Err.Error() }

// Cause returns the underlying error.
func (e *IOError) Cause() error { return e.Err }

func (e *IOError) Unwrap() error { return e.Err }

// BusError reports a write to an address outside of memory.
//
type BusError struct {
	Address uint32
}

func (e *BusError) Error() string {
	return "invalid write address 0x" + strconv.FormatUint(uint64(e.Address), 16)
}
