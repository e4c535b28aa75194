// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim provides a naive gate-level circuit simulator used to build
devices that can be plugged into the hwbench harness.

A Circuit is made of parts. Each part is described by a PartSpec (its
blueprint) and wired to other parts with connection strings such as
"a=pc, b=four, out=next". Parts can be composed into new parts with Chip.

The simulation is double buffered: during a Step, every component reads pin
states from the current frame and writes to the next one. A signal therefore
takes one step to cross a component, and a device must be stepped a few times
after its inputs change before its outputs settle.

There is no built-in clock. Clock signals are regular inputs driven from
outside the circuit, and clocked parts detect edges on them.
*/
package hwsim
