// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
//
type Component func(c *Circuit)

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int // wire count
	tick  uint

	names   []string // wire names, for diagnostics
	drivers []int    // number of outputs driving each wire
	readers []int    // number of inputs reading each wire
	top     *Socket

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 1, components are updated
// sequentially by the goroutine calling Step.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	// new circuit with room for constant value pins.
	cc := &Circuit{
		count:   cstCount,
		names:   []string{False, True},
		drivers: make([]int, cstCount),
		readers: make([]int, cstCount),
	}
	cc.top = newSocket(cc, "")
	for _, p := range parts {
		cs, err := cc.top.Mount(p)
		if err != nil {
			return nil, err
		}
		cc.cs = append(cc.cs, cs...)
	}
	if err := cc.checkWiring(); err != nil {
		return nil, err
	}

	cc.s0 = make([]bool, cc.count)
	cc.s1 = make([]bool, cc.count)
	cc.s0[cstTrue] = true
	cc.s1[cstTrue] = true

	if workers <= 1 {
		return cc, nil
	}
	ups := cc.cs
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

func (c *Circuit) checkWiring() error {
	for n := cstCount; n < c.count; n++ {
		switch {
		case c.drivers[n] > 1:
			return errors.Errorf("wire %s driven by more than one output", c.names[n])
		case c.drivers[n] == 0 && c.readers[n] > 0:
			return errors.Errorf("wire %s not connected to any output", c.names[n])
		}
	}
	return nil
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin(name string) int {
	cnt := c.count
	c.count++
	c.names = append(c.names, name)
	c.drivers = append(c.drivers, 0)
	c.readers = append(c.readers, 0)
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.tick
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	if len(c.wc) == 0 {
		for _, f := range c.cs {
			f(c)
		}
	} else {
		c.wg.Add(len(c.wc))
		for _, wc := range c.wc {
			wc <- struct{}{}
		}
		c.wg.Wait()
	}
	c.tick++
	c.s0, c.s1 = c.s1, c.s0
}

// Run runs the simulation for n steps.
//
func (c *Circuit) Run(n int) {
	for ; n > 0; n-- {
		c.Step()
	}
}

// Wire returns the pin number of a top level wire.
//
func (c *Circuit) Wire(name string) (int, bool) {
	n, ok := c.top.m[name]
	return n, ok
}

// Bus returns the pin numbers of a top level bus, lsb first, or nil if no
// such bus exists.
//
func (c *Circuit) Bus(name string) []int {
	var out []int
	for i := 0; ; i++ {
		n, ok := c.top.m[BusPinName(name, i)]
		if !ok {
			return out
		}
		out = append(out, n)
	}
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
