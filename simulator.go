// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"io"
	"log"

	"github.com/pkg/errors"
)

const (
	// ResetCycles is the number of simulation steps during which reset is
	// held asserted.
	ResetCycles = 2
	// HaltSentinel is the value a program writes at the halt address to
	// stop the simulation.
	HaltSentinel uint32 = 0xBABECAFE

	DefaultMemoryWords        = 1024 * 1024 // 4MB
	DefaultMaxTime     uint64 = 10000
	DefaultLoadAddress uint32 = 0x1000
)

// Config holds the run parameters of a Simulator.
//
type Config struct {
	MemoryWords int    // memory size in 32 bits words
	MaxTime     uint64 // simulation time budget, in steps (half clock cycles)
	HaltAddress uint32 // byte address watched for HaltSentinel, 0 disables
	ImagePath   string // raw binary image loaded at LoadAddress, optional
	LoadAddress uint32
	TracePath   string // VCD output file, optional
	TraceDepth  int
	Signature   *SignatureRange // optional signature dumped after the run

	Log      *log.Logger // diagnostics, discarded if nil
	Progress io.Writer   // progress notices, disabled if nil
}

// DefaultConfig returns a Config with default values.
//
func DefaultConfig() Config {
	return Config{
		MemoryWords: DefaultMemoryWords,
		MaxTime:     DefaultMaxTime,
		LoadAddress: DefaultLoadAddress,
		TraceDepth:  TraceDepth,
	}
}

// State is the state of a simulation.
//
type State int

// Simulation states.
//
const (
	Init State = iota
	Reset
	Running
	Halted
	TimedOut
)

var stateNames = [...]string{"init", "reset", "running", "halted", "timed out"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Result summarizes a simulation run.
//
type Result struct {
	State        State  // Halted or TimedOut
	Time         uint64 // simulation time when the run stopped
	CoreFinished bool   // the core signaled its own termination
	BusErrors    int    // number of discarded out of range writes
	SignatureErr error  // signature generation failure, if any
}

// Simulator drives a core through a simulation run. It owns the core, its
// memory and the waveform recorder.
//
type Simulator struct {
	cfg   Config
	core  Core
	mem   *Memory
	rec   Recorder
	log   *log.Logger
	prog  *progress
	in    Inputs
	time  uint64
	state State
	final bool
}

// New creates a simulator for core: it allocates memory, loads the image and
// opens the trace file as configured.
//
// The simulator takes ownership of the core. If New fails, the core is
// finalized before returning.
//
func New(core Core, cfg Config) (s *Simulator, err error) {
	if core == nil {
		return nil, errors.New("nil core")
	}
	defer func() {
		if err != nil {
			core.Final()
		}
	}()
	if cfg.MemoryWords < 0 {
		return nil, errors.Errorf("invalid memory size %d", cfg.MemoryWords)
	}
	if sr := cfg.Signature; sr != nil && sr.Path == "" {
		return nil, errors.New("missing signature file name")
	}
	s = &Simulator{
		cfg:  cfg,
		core: core,
		mem:  NewMemory(cfg.MemoryWords),
		log:  cfg.Log,
		prog: newProgress(cfg.Progress, cfg.MaxTime),
	}
	if s.log == nil {
		s.log = log.New(io.Discard, "", 0)
	}
	if cfg.ImagePath != "" {
		if err = s.mem.LoadBinary(cfg.ImagePath, cfg.LoadAddress); err != nil {
			return nil, err
		}
	}
	if cfg.TracePath != "" {
		if err = s.rec.Enable(cfg.TracePath, core, cfg.TraceDepth); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Memory returns the simulated memory.
//
func (s *Simulator) Memory() *Memory { return s.mem }

// Time returns the current simulation time.
//
func (s *Simulator) Time() uint64 { return s.time }

// State returns the current simulation state.
//
func (s *Simulator) State() State { return s.state }

// busResponse holds the memory read results for the requests of the previous
// step. They are fed to the core at the next step.
//
type busResponse struct {
	instruction uint32
	data        uint32
}

// Run runs the simulation until the program writes the halt sentinel, the
// core signals it is done or the time budget is exhausted. None of these
// conditions is an error.
//
// The returned error reports failures to write the waveform trace. Signature
// generation errors do not fail the run, they are returned in
// Result.SignatureErr.
//
func (s *Simulator) Run() (Result, error) {
	if s.state != Init {
		return Result{}, errors.New("simulation already ran")
	}

	s.in = Inputs{Reset: true, Clock: false, InstructionValid: true}
	s.core.SetInputs(s.in)
	s.core.Eval()
	s.rec.Dump(s.time)
	s.state = Reset

	var (
		res     Result
		pending busResponse
	)
	for s.time < s.cfg.MaxTime {
		if s.core.Finished() {
			res.CoreFinished = true
			break
		}
		pending = s.step(pending, &res)
		if s.halted() {
			s.log.Printf("halt condition met at address 0x%x", s.cfg.HaltAddress)
			s.state = Halted
			break
		}
		s.prog.update(s.time)
	}
	s.prog.done()
	if s.state != Halted {
		s.state = TimedOut
	}
	res.State, res.Time = s.state, s.time

	if sr := s.cfg.Signature; sr != nil {
		if err := s.mem.GenerateSignature(sr.Path, sr.Begin, sr.End); err != nil {
			s.log.Print(err)
			res.SignatureErr = err
		}
	}
	return res, s.rec.Close()
}

// step advances the simulation by half a clock cycle. The core is evaluated
// with the responses to the requests of the previous step, and the responses
// to this step's requests are returned.
//
func (s *Simulator) step(prev busResponse, res *Result) busResponse {
	s.time++
	s.in.Clock = !s.in.Clock
	if s.time > ResetCycles {
		s.in.Reset = false
		s.state = Running
	}
	s.in.Instruction = prev.instruction
	s.in.MemoryReadData = prev.data
	s.core.SetInputs(s.in)
	s.core.Eval()

	out := s.core.Outputs()
	// reads sample memory before this step's write.
	next := busResponse{
		instruction: s.mem.Read(out.InstructionAddress),
		data:        s.mem.Read(out.MemoryAddress),
	}
	if out.MemoryWriteEnable {
		if err := s.mem.Write(out.MemoryAddress, out.MemoryWriteData, out.MemoryWriteStrobe); err != nil {
			s.log.Printf("time %d: %v", s.time, err)
			res.BusErrors++
		}
	}
	s.rec.Dump(s.time)
	return next
}

func (s *Simulator) halted() bool {
	return s.cfg.HaltAddress != 0 && s.mem.Read(s.cfg.HaltAddress) == HaltSentinel
}

// Close finalizes the core and closes the trace file if Run did not. It must
// be called once the simulator is no longer needed, whether Run was called
// or not.
//
func (s *Simulator) Close() error {
	if !s.final {
		s.final = true
		s.core.Final()
	}
	return s.rec.Close()
}
