// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/hwbench/hwlib"
	"github.com/db47h/hwbench/hwsim"
)

func connString(pins []string, prefix string) string {
	var b strings.Builder
	for _, n := range pins {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(prefix)
		b.WriteString(n)
	}
	return b.String()
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ComparePart takes two combinational parts and compares their outputs given
// the same inputs. Both parts must have the same Input/Output interface.
//
// Inputs are all 0, all 1, then random values. The circuit is run for settle
// steps before each comparison.
//
func ComparePart(t testing.TB, settle int, part1, part2 hwsim.NewPartFn) {
	t.Helper()

	ps1, ps2 := part1(""), part2("")
	if !sameNames(ps1.Inputs, ps2.Inputs) || !sameNames(ps1.Outputs, ps2.Outputs) {
		t.Fatalf("%s and %s have different interfaces", ps1.Name, ps2.Name)
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))
	in := connString(ps1.Inputs, "")
	parts := []hwsim.Part{
		part1(in + "," + connString(ps1.Outputs, "p0_")),
		part2(in + "," + connString(ps1.Outputs, "p1_")),
	}
	for i, n := range ps1.Inputs {
		k := i
		parts = append(parts, hwlib.Input(func() bool { return inputs[k] })("out="+n))
	}
	for i, n := range ps1.Outputs {
		k := i
		parts = append(parts,
			hwlib.Output(func(b bool) { outputs[k][0] = b })("in=p0_"+n),
			hwlib.Output(func(b bool) { outputs[k][1] = b })("in=p1_"+n))
	}

	c, err := hwsim.NewCircuit(0, parts...)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	check := func() {
		t.Helper()
		c.Run(settle)
		for o, out := range outputs {
			if out[0] != out[1] {
				var b strings.Builder
				for i, n := range ps1.Inputs {
					if b.Len() > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s=%v", n, inputs[i])
				}
				t.Fatalf("\nExpected %s => %s=%v\nGot %v", b.String(), ps1.Outputs[o], out[0], out[1])
			}
		}
	}

	check()
	for i := range inputs {
		inputs[i] = true
	}
	check()

	iter := len(inputs)
	if iter > 12 {
		iter = 12
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()
	for i := 0; i < 1<<uint(iter); i++ {
		for k := range inputs {
			inputs[k] = rnd.Int63()&(1<<62) != 0
		}
		check()
	}
	t.Logf("%d components. %d steps in %v", c.Size(), c.Steps(), time.Since(start))
}
