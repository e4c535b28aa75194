// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwbench is a cycle driven test bench for simulated processor cores.

A Simulator drives a Core (the device under test) through reset and
execution, one half clock cycle per simulation step. Each step it feeds the
core the memory responses computed during the previous step, evaluates it,
then services the instruction fetch and data request the core asserts.
Memory responses are therefore always one step late, which models a
synchronous memory with single cycle latency.

A run ends when the simulation time reaches its budget, when the core reports
that it is done, or when the program under test writes the halt sentinel
(0xBABECAFE) at a watched address. A range of memory can then be dumped as a
signature file for compliance testing, and every step can be recorded in a
value change dump (VCD) file.

Concrete cores live in other packages: fetchcore is a gate level fetch unit
built with hwsim, luacore runs a Lua script as the device under test and
hwtest provides a scripted core for tests.
*/
package hwbench
