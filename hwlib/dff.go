// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwbench/hwsim"
)

// DFF returns a data flip flop clocked on the rising edge of clk.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) hwsim.Part {
	return RegisterN(1)(w)
}

// RegisterN returns a N-bits register clocked on the rising edge of clk.
//
// The edge is detected the first step clk is seen high after having been low.
// The value latched is the state of in during that step.
//
//	Inputs: in[bits], clk
//	Outputs: out[bits]
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func RegisterN(bits int) hwsim.NewPartFn {
	name := "REGISTER" + strconv.Itoa(bits)
	ins, outs := bus(bits, pIn), bus(bits, pOut)
	if bits == 1 {
		name, ins, outs = "DFF", []string{pIn}, []string{pOut}
	}
	return (&hwsim.PartSpec{
		Name:    name,
		Inputs:  append(ins, pClk),
		Outputs: outs,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := make([]int, bits), make([]int, bits)
			for i := range in {
				in[i], out[i] = s.Pin(ins[i]), s.Pin(outs[i])
			}
			clk := s.Pin(pClk)
			cur := make([]bool, bits)
			var prevClk bool
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					// raising edge?
					if ck := c.Get(clk); ck != prevClk {
						prevClk = ck
						if ck {
							for i, p := range in {
								cur[i] = c.Get(p)
							}
						}
					}
					for i, p := range out {
						c.Set(p, cur[i])
					}
				}}
		}}).NewPart
}
