// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"io"
	"os"

	"github.com/db47h/hwbench/vcd"
	"github.com/pkg/errors"
)

// TraceDepth is the default signal nesting depth recorded in waveform traces.
const TraceDepth = 99

// topScope is the scope of a core's ports in waveform traces.
const topScope = "TOP"

// Recorder records a core's signals into a VCD file.
//
// The zero value is a disabled recorder on which Dump is a no-op, and so is a
// nil *Recorder.
//
type Recorder struct {
	path string
	f    io.WriteCloser
	w    *vcd.Writer
	core Core
	in   Inputs
	out  Outputs
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Enable opens the trace file at path and binds the recorder to the ports of
// c. If c implements Prober, its probes nested at most depth levels deep
// (the ports being at level 1) are recorded as well. A depth <= 0 selects
// TraceDepth.
//
// Errors are of type *TraceIOError.
//
func (r *Recorder) Enable(path string, c Core, depth int) error {
	if r.f != nil {
		return &TraceIOError{Path: path, Err: errors.New("recorder already enabled for " + r.path)}
	}
	if depth <= 0 {
		depth = TraceDepth
	}
	f, err := os.Create(path)
	if err != nil {
		return &TraceIOError{Path: path, Err: err}
	}
	return r.attach(f, path, c, depth)
}

// attach binds the recorder to c, writing the trace to f.
//
func (r *Recorder) attach(f io.WriteCloser, path string, c Core, depth int) error {
	w := vcd.NewWriter(f)
	if err := r.bind(w, c, depth); err != nil {
		f.Close()
		return &TraceIOError{Path: path, Err: err}
	}
	r.path, r.f, r.w, r.core = path, f, w, c
	return nil
}

func (r *Recorder) bind(w *vcd.Writer, c Core, depth int) error {
	top := []string{topScope}
	ports := []struct {
		name  string
		width int
		value func() uint64
	}{
		{"clock", 1, func() uint64 { return b2u(r.in.Clock) }},
		{"reset", 1, func() uint64 { return b2u(r.in.Reset) }},
		{"io_instruction", 32, func() uint64 { return uint64(r.in.Instruction) }},
		{"io_instruction_valid", 1, func() uint64 { return b2u(r.in.InstructionValid) }},
		{"io_memory_bundle_read_data", 32, func() uint64 { return uint64(r.in.MemoryReadData) }},
		{"io_instruction_address", 32, func() uint64 { return uint64(r.out.InstructionAddress) }},
		{"io_memory_bundle_address", 32, func() uint64 { return uint64(r.out.MemoryAddress) }},
		{"io_memory_bundle_write_enable", 1, func() uint64 { return b2u(r.out.MemoryWriteEnable) }},
		{"io_memory_bundle_write_data", 32, func() uint64 { return uint64(r.out.MemoryWriteData) }},
		{"io_memory_bundle_write_strobe_0", 1, func() uint64 { return b2u(r.out.MemoryWriteStrobe[0]) }},
		{"io_memory_bundle_write_strobe_1", 1, func() uint64 { return b2u(r.out.MemoryWriteStrobe[1]) }},
		{"io_memory_bundle_write_strobe_2", 1, func() uint64 { return b2u(r.out.MemoryWriteStrobe[2]) }},
		{"io_memory_bundle_write_strobe_3", 1, func() uint64 { return b2u(r.out.MemoryWriteStrobe[3]) }},
	}
	for _, p := range ports {
		if err := w.Register(top, p.name, p.width, p.value); err != nil {
			return err
		}
	}

	pr, ok := c.(Prober)
	if !ok {
		return nil
	}
	for _, p := range pr.Probes() {
		if len(p.Scope)+1 > depth {
			continue
		}
		scope := append([]string{topScope}, p.Scope...)
		if err := w.Register(scope, p.Name, p.Width, p.Value); err != nil {
			return errors.Wrap(err, "probe")
		}
	}
	return nil
}

// Enabled returns true if the recorder has an open trace file.
//
func (r *Recorder) Enabled() bool {
	return r != nil && r.w != nil
}

// Dump records the current state of the core's signals at time t.
//
func (r *Recorder) Dump(t uint64) {
	if r == nil || r.w == nil {
		return
	}
	r.in, r.out = r.core.Inputs(), r.core.Outputs()
	r.w.Dump(t)
}

// Close flushes and closes the trace file. It is safe to call Close more than
// once or on a disabled recorder.
//
func (r *Recorder) Close() error {
	if r == nil || r.f == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	path := r.path
	r.f, r.w, r.core = nil, nil, nil
	if err != nil {
		return &TraceIOError{Path: path, Err: err}
	}
	return nil
}
