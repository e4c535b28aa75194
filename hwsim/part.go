// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: IO("in"),
//		Outputs: IO("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) }
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string
	// Mount function (see MountFn).
	Mount MountFn

	composite bool
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string is malformed.
//
func (p *PartSpec) NewPart(connections string) Part {
	cs, err := p.connect(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, cs}
}

func (p *PartSpec) isInput(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	return false
}

func (p *PartSpec) isOutput(name string) bool {
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// busWidth returns the width of the named bus in the part's interface.
//
func (p *PartSpec) busWidth(name string) int {
	w := 0
	for p.isInput(BusPinName(name, w)) || p.isOutput(BusPinName(name, w)) {
		w++
	}
	return w
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

func (p Part) check() error {
	for _, cn := range p.Conns {
		if !p.isInput(cn.PP) && !p.isOutput(cn.PP) {
			return errors.New("invalid pin name " + cn.PP + " for part " + p.Name)
		}
	}
	return nil
}

func (p Part) wire(name string) (string, bool) {
	for _, cn := range p.Conns {
		if cn.PP == name {
			return cn.CP, true
		}
	}
	return "", false
}

// Constant input pin names.
//
var (
	True  = "true"
	False = "false"
	GND   = "false"
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m      map[string]int
	c      *Circuit
	prefix string
	err    error // first mount error of a composite part
}

func newSocket(c *Circuit, prefix string) *Socket {
	return &Socket{
		m:      map[string]int{False: cstFalse, True: cstTrue},
		c:      c,
		prefix: prefix,
	}
}

// Mount mounts the given part into the socket and allocates new pins as
// necessary according to the part's connections.
//
func (s *Socket) Mount(p Part) ([]Component, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	sub := newSocket(s.c, s.prefix+p.Name+".")
	leaf := !p.composite

	for _, in := range p.Inputs {
		w, ok := p.wire(in)
		if !ok {
			// unconnected inputs are grounded.
			sub.m[in] = cstFalse
			continue
		}
		n := s.PinOrNew(w)
		sub.m[in] = n
		if leaf {
			s.c.readers[n]++
		}
	}
	for _, out := range p.Outputs {
		w, ok := p.wire(out)
		if !ok {
			sub.m[out] = s.c.allocPin(s.prefix + p.Name + "." + out)
			if leaf {
				s.c.drivers[sub.m[out]]++
			}
			continue
		}
		if w == True || w == False {
			return nil, errors.Errorf("%s.%s:%s: output pin connected to constant %s input", p.Name, out, w, w)
		}
		n := s.PinOrNew(w)
		sub.m[out] = n
		if leaf {
			s.c.drivers[n]++
		}
	}
	cs := p.Mount(sub)
	if p.composite && sub.err != nil {
		return nil, sub.err
	}
	return cs, nil
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin(s.prefix + name)
		s.m[name] = n
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if the bus does not have the requested width.
//
func (s *Socket) Bus(name string, width int) []int {
	out := make([]int, width)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		Nand("a=a, b=b, out=nandAB"),
//		Nand("a=a, b=nandAB, out=w0"),
//		Nand("a=b, b=nandAB, out=w1"),
//		Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a NewPartFn that can be used to compose the new part
// with others into other chips.
//
func Chip(name string, inputs, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := ParseIOSpec(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := ParseIOSpec(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}
	for _, p := range parts {
		if err := p.check(); err != nil {
			return nil, err
		}
		for _, cn := range p.Conns {
			if p.isOutput(cn.PP) && contains(ins, cn.CP) {
				return nil, errors.Errorf("%s.%s:%s: chip input pin used as output", p.Name, cn.PP, cn.CP)
			}
		}
	}

	sp := &PartSpec{
		Name:      name,
		Inputs:    ins,
		Outputs:   outs,
		composite: true,
	}
	sp.Mount = func(s *Socket) []Component {
		var cs []Component
		for _, p := range parts {
			pcs, err := s.Mount(p)
			if err != nil {
				s.err = errors.Wrap(err, name)
				return nil
			}
			cs = append(cs, pcs...)
		}
		return cs
	}
	return sp.NewPart, nil
}

func contains(l []string, s string) bool {
	for _, n := range l {
		if n == s {
			return true
		}
	}
	return false
}

// IO expands a pin specification string like "a, b, bus[2]" into individual
// pin names. It panics on malformed input. See ParseIOSpec.
//
func IO(spec string) []string {
	pins, err := ParseIOSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// BusPinName returns the pin name for the n-th bit of the given bus name.
//
func BusPinName(bus string, bit int) string {
	var b strings.Builder
	b.Grow(len(bus) + 4)
	b.WriteString(bus)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(bit))
	b.WriteByte(']')
	return b.String()
}
