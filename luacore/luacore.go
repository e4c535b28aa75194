// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package luacore implements cores scripted in Lua.
//
// A script defines a global function eval(inputs) that returns the core's
// outputs for the given inputs. The inputs table has the fields clock, reset,
// instruction_valid (booleans), instruction and memory_read_data (numbers).
// The returned table may set the fields instruction_address, memory_address,
// memory_write_data (numbers), memory_write_enable (boolean) and
// memory_write_strobe (an array of 4 booleans, lane 0 first). Missing fields
// read as 0 or false.
//
// Scripts may also define finished(), returning true once the core reached
// its termination condition, and final(), called once on shutdown. The
// builtin function finish() marks the core as finished.
//
// Numbers are converted to 32 bits unsigned integers. The builtins band, bor,
// bxor, bnot, lshift and rshift operate on such values.
//
package luacore

import (
	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// Core is a scripted core.
//
// Script errors are latched: once a call into the script has failed, Eval
// no longer calls it, Finished returns true and Err returns the error.
//
type Core struct {
	name     string
	l        *lua.LState
	eval     lua.LValue
	finished lua.LValue
	final    lua.LValue
	in       hwbench.Inputs
	out      hwbench.Outputs
	done     bool
	closed   bool
	err      error
}

// New loads the script file at path.
//
func New(path string) (*Core, error) {
	return load(path, func(l *lua.LState) error { return l.DoFile(path) })
}

// NewString loads a script from source code.
//
func NewString(src string) (*Core, error) {
	return load("<string>", func(l *lua.LState) error { return l.DoString(src) })
}

func load(name string, do func(l *lua.LState) error) (*Core, error) {
	c := &Core{name: name, l: lua.NewState()}
	c.register()
	if err := do(c.l); err != nil {
		c.l.Close()
		return nil, errors.Wrap(err, name)
	}
	c.eval = c.l.GetGlobal("eval")
	if c.eval.Type() != lua.LTFunction {
		c.l.Close()
		return nil, errors.Errorf("%s: eval function not defined", name)
	}
	c.finished = c.optFunc("finished")
	c.final = c.optFunc("final")
	return c, nil
}

func (c *Core) optFunc(name string) lua.LValue {
	if f := c.l.GetGlobal(name); f.Type() == lua.LTFunction {
		return f
	}
	return nil
}

func u32(l *lua.LState, n int) uint32 {
	return uint32(int64(l.CheckNumber(n)))
}

func (c *Core) register() {
	binop := func(f func(a, b uint32) uint32) lua.LGFunction {
		return func(l *lua.LState) int {
			v := u32(l, 1)
			for i := 2; i <= l.GetTop(); i++ {
				v = f(v, u32(l, i))
			}
			l.Push(lua.LNumber(v))
			return 1
		}
	}
	fns := map[string]lua.LGFunction{
		"band": binop(func(a, b uint32) uint32 { return a & b }),
		"bor":  binop(func(a, b uint32) uint32 { return a | b }),
		"bxor": binop(func(a, b uint32) uint32 { return a ^ b }),
		"bnot": func(l *lua.LState) int {
			l.Push(lua.LNumber(^u32(l, 1)))
			return 1
		},
		"lshift": func(l *lua.LState) int {
			l.Push(lua.LNumber(u32(l, 1) << (u32(l, 2) & 31)))
			return 1
		},
		"rshift": func(l *lua.LState) int {
			l.Push(lua.LNumber(u32(l, 1) >> (u32(l, 2) & 31)))
			return 1
		},
		"finish": func(l *lua.LState) int {
			c.done = true
			return 0
		},
	}
	for name, f := range fns {
		c.l.SetGlobal(name, c.l.NewFunction(f))
	}
}

// call calls fn with args and returns its single result.
//
func (c *Core) call(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	if err := c.l.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, errors.Wrap(err, c.name)
	}
	ret := c.l.Get(-1)
	c.l.Pop(1)
	return ret, nil
}

// SetInputs implements hwbench.Core.
func (c *Core) SetInputs(in hwbench.Inputs) { c.in = in }

// Inputs implements hwbench.Core.
func (c *Core) Inputs() hwbench.Inputs { return c.in }

// Outputs implements hwbench.Core.
func (c *Core) Outputs() hwbench.Outputs { return c.out }

func (c *Core) inputs() *lua.LTable {
	t := c.l.NewTable()
	t.RawSetString("clock", lua.LBool(c.in.Clock))
	t.RawSetString("reset", lua.LBool(c.in.Reset))
	t.RawSetString("instruction", lua.LNumber(c.in.Instruction))
	t.RawSetString("instruction_valid", lua.LBool(c.in.InstructionValid))
	t.RawSetString("memory_read_data", lua.LNumber(c.in.MemoryReadData))
	return t
}

func number(t *lua.LTable, name string) uint32 {
	if n, ok := t.RawGetString(name).(lua.LNumber); ok {
		return uint32(int64(n))
	}
	return 0
}

// Eval implements hwbench.Core.
//
func (c *Core) Eval() {
	if c.err != nil || c.closed {
		return
	}
	ret, err := c.call(c.eval, c.inputs())
	if err != nil {
		c.err = err
		return
	}
	t, ok := ret.(*lua.LTable)
	if !ok {
		c.err = errors.Errorf("%s: eval returned %s, expected table", c.name, ret.Type())
		return
	}
	out := hwbench.Outputs{
		InstructionAddress: number(t, "instruction_address"),
		MemoryAddress:      number(t, "memory_address"),
		MemoryWriteEnable:  lua.LVAsBool(t.RawGetString("memory_write_enable")),
		MemoryWriteData:    number(t, "memory_write_data"),
	}
	if s, ok := t.RawGetString("memory_write_strobe").(*lua.LTable); ok {
		for i := range out.MemoryWriteStrobe {
			out.MemoryWriteStrobe[i] = lua.LVAsBool(s.RawGetInt(i + 1))
		}
	}
	c.out = out
}

// Finished implements hwbench.Core.
//
func (c *Core) Finished() bool {
	if c.done || c.err != nil || c.closed {
		return true
	}
	if c.finished == nil {
		return false
	}
	ret, err := c.call(c.finished)
	if err != nil {
		c.err = err
		return true
	}
	c.done = lua.LVAsBool(ret)
	return c.done
}

// Final implements hwbench.Core. It calls the script's final function, if
// any, and closes the Lua state.
//
func (c *Core) Final() {
	if c.closed {
		return
	}
	if c.final != nil && c.err == nil {
		if _, err := c.call(c.final); err != nil {
			c.err = err
		}
	}
	c.l.Close()
	c.closed = true
}

// Err returns the first script error encountered, if any.
//
func (c *Core) Err() error { return c.err }
