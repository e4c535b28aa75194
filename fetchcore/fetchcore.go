// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package fetchcore implements a minimal gate-level instruction fetch unit
// that can be driven by the hwbench simulator.
//
// On every rising edge of the clock, the unit loads its program counter with
// the reset vector while reset is asserted, or with the address of the next
// word otherwise. The instruction fed by the bus is latched in the
// instruction register on the same edge. The program counter is presented on
// the instruction address bus. The unit never accesses data memory.
//
package fetchcore

import (
	"github.com/db47h/hwbench"
	"github.com/db47h/hwbench/hwlib"
	"github.com/db47h/hwbench/hwsim"
)

// settleSteps is the number of circuit steps needed for a change of the
// inputs to propagate to all registers inputs.
const settleSteps = 4

// Core is a fetch unit built from hwlib parts.
//
type Core struct {
	c     *hwsim.Circuit
	in    hwbench.Inputs
	clk   bool // clock as seen by the circuit
	pc    []int
	next  []int
	ir    []int
	final bool
}

// New returns a new fetch unit with the given reset vector. workers is passed
// on to hwsim.NewCircuit.
//
func New(resetVector uint32, workers int) (*Core, error) {
	fc := new(Core)
	c, err := hwsim.NewCircuit(workers,
		hwlib.Input(func() bool { return fc.clk })("out=clk"),
		hwlib.Input(func() bool { return fc.in.Reset })("out=reset"),
		hwlib.InputN(32, func() uint64 { return uint64(fc.in.Instruction) })("out=insn"),
		hwlib.ConstN(32, 4)("out=four"),
		hwlib.ConstN(32, uint64(resetVector))("out=rvec"),
		hwlib.AdderN(32)("a=pc, b=four, out=next"),
		hwlib.MuxN(32)("a=next, b=rvec, sel=reset, out=d"),
		hwlib.RegisterN(32)("in=d, clk=clk, out=pc"),
		hwlib.RegisterN(32)("in=insn, clk=clk, out=ir"),
	)
	if err != nil {
		return nil, err
	}
	fc.c = c
	fc.pc, fc.next, fc.ir = c.Bus("pc"), c.Bus("next"), c.Bus("ir")
	return fc, nil
}

// SetInputs implements hwbench.Core.
func (fc *Core) SetInputs(in hwbench.Inputs) { fc.in = in }

// Inputs implements hwbench.Core.
func (fc *Core) Inputs() hwbench.Inputs { return fc.in }

// Outputs implements hwbench.Core.
func (fc *Core) Outputs() hwbench.Outputs {
	return hwbench.Outputs{InstructionAddress: fc.PC()}
}

// Eval implements hwbench.Core.
//
// Data inputs settle before the clock input is applied, so that registers
// sample the values presented with a rising clock.
//
func (fc *Core) Eval() {
	fc.c.Run(settleSteps)
	fc.clk = fc.in.Clock
	fc.c.Run(settleSteps)
}

// Finished implements hwbench.Core. A fetch unit never stops on its own.
func (fc *Core) Finished() bool { return false }

// Final implements hwbench.Core. It releases the circuit resources.
func (fc *Core) Final() {
	if !fc.final {
		fc.final = true
		fc.c.Dispose()
	}
}

// PC returns the current value of the program counter.
func (fc *Core) PC() uint32 { return uint32(hwlib.Uint64(fc.c, fc.pc)) }

// IR returns the current value of the instruction register.
func (fc *Core) IR() uint32 { return uint32(hwlib.Uint64(fc.c, fc.ir)) }

// Probes implements hwbench.Prober.
//
func (fc *Core) Probes() []hwbench.Probe {
	scope := []string{"fetch"}
	bus := func(name string, pins []int) hwbench.Probe {
		return hwbench.Probe{Scope: scope, Name: name, Width: len(pins),
			Value: func() uint64 { return hwlib.Uint64(fc.c, pins) }}
	}
	return []hwbench.Probe{bus("pc", fc.pc), bus("next", fc.next), bus("ir", fc.ir)}
}
