// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

var nand = &PartSpec{
	Name:    "NAND",
	Inputs:  []string{"a", "b"},
	Outputs: []string{"out"},
	Mount: func(s *Socket) []Component {
		a, b, out := s.Pin("a"), s.Pin("b"), s.Pin("out")
		return []Component{
			func(c *Circuit) { c.Set(out, !(c.Get(a) && c.Get(b))) },
		}
	}}

// Nand returns a NAND gate. This is the only gate built into the simulator,
// other parts are provided by the hwlib package.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(w string) Part { return nand.NewPart(w) }
