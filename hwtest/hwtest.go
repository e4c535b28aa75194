// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utilities for testing the harness and cores.
//
package hwtest

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/db47h/hwbench"
)

// ScriptedCore is a core replaying a fixed sequence of outputs. It records
// the inputs it is evaluated with.
//
// After the n-th call to Eval (counting from 0, the initial evaluation done
// by the simulator before the first step), Outputs returns Script[n], or Idle
// once the script is exhausted. If Respond is not nil, it is used instead of
// Script.
//
type ScriptedCore struct {
	Script  []hwbench.Outputs
	Idle    hwbench.Outputs
	Respond func(n int, in hwbench.Inputs) hwbench.Outputs

	// FinishAfter, if > 0, makes Finished return true after that many
	// evaluations.
	FinishAfter int

	// Seen holds the inputs of every evaluation.
	Seen []hwbench.Inputs
	// Finals counts calls to Final.
	Finals int

	in  hwbench.Inputs
	out hwbench.Outputs
}

// SetInputs implements hwbench.Core.
func (c *ScriptedCore) SetInputs(in hwbench.Inputs) { c.in = in }

// Inputs implements hwbench.Core.
func (c *ScriptedCore) Inputs() hwbench.Inputs { return c.in }

// Outputs implements hwbench.Core.
func (c *ScriptedCore) Outputs() hwbench.Outputs { return c.out }

// Eval implements hwbench.Core.
func (c *ScriptedCore) Eval() {
	n := len(c.Seen)
	c.Seen = append(c.Seen, c.in)
	switch {
	case c.Respond != nil:
		c.out = c.Respond(n, c.in)
	case n < len(c.Script):
		c.out = c.Script[n]
	default:
		c.out = c.Idle
	}
}

// Evals returns the number of calls to Eval.
func (c *ScriptedCore) Evals() int { return len(c.Seen) }

// Finished implements hwbench.Core.
func (c *ScriptedCore) Finished() bool {
	return c.FinishAfter > 0 && len(c.Seen) >= c.FinishAfter
}

// Final implements hwbench.Core.
func (c *ScriptedCore) Final() { c.Finals++ }

// Write returns bus outputs writing v at addr with the given strobes.
//
func Write(addr, v uint32, strobe ...bool) hwbench.Outputs {
	o := hwbench.Outputs{MemoryAddress: addr, MemoryWriteEnable: true, MemoryWriteData: v}
	if len(strobe) == 0 {
		strobe = []bool{true, true, true, true}
	}
	copy(o.MemoryWriteStrobe[:], strobe)
	return o
}

// Read returns bus outputs reading the data word at addr.
//
func Read(addr uint32) hwbench.Outputs {
	return hwbench.Outputs{MemoryAddress: addr}
}

// Checksum returns a CRC32 of the whole memory content.
//
func Checksum(m *hwbench.Memory) uint32 {
	h := crc32.NewIEEE()
	var b [4]byte
	for i := 0; i < m.Words(); i++ {
		binary.LittleEndian.PutUint32(b[:], m.Read(uint32(i*4)))
		h.Write(b[:])
	}
	return h.Sum32()
}
