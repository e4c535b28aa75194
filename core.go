// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

// Inputs holds the signals driven into a core by the harness.
//
type Inputs struct {
	Clock            bool
	Reset            bool
	Instruction      uint32
	InstructionValid bool
	MemoryReadData   uint32
}

// Outputs holds the signals a core drives onto the memory bus.
//
type Outputs struct {
	InstructionAddress uint32
	MemoryAddress      uint32
	MemoryWriteEnable  bool
	MemoryWriteData    uint32
	MemoryWriteStrobe  [4]bool // one strobe per byte lane, lane 0 is the lsb.
}

// Core is the device under test.
//
// Eval recomputes all outputs from the current inputs. Final is called once
// when the simulation shuts down. Finished reports whether the core reached
// its own termination condition.
//
type Core interface {
	SetInputs(in Inputs)
	Inputs() Inputs
	Outputs() Outputs
	Eval()
	Finished() bool
	Final()
}

// A Probe is an internal signal of a core exposed to waveform tracing.
//
type Probe struct {
	// Scope is the path of the module containing the signal, outermost
	// first. An empty scope places the signal next to the core's ports.
	Scope []string
	Name  string
	Width int
	Value func() uint64
}

// Prober is implemented by cores that expose internal signals.
//
type Prober interface {
	Probes() []Probe
}
