// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/db47h/hwbench/vcd"
	"github.com/stretchr/testify/require"
)

func TestWriter_header(t *testing.T) {
	var buf bytes.Buffer
	var clk bool
	var pc uint64
	w := vcd.NewWriter(&buf)
	require.NoError(t, w.Register([]string{"TOP"}, "clock", 1, func() uint64 {
		if clk {
			return 1
		}
		return 0
	}))
	require.NoError(t, w.Register([]string{"TOP", "fetch"}, "pc", 32, func() uint64 { return pc }))
	require.NoError(t, w.Register([]string{"TOP"}, "io_instruction_address", 32, func() uint64 { return pc }))

	w.Dump(0)
	require.Error(t, w.Register(nil, "late", 1, func() uint64 { return 0 }))
	clk, pc = true, 0x1000
	w.Dump(1)
	clk = false
	w.Dump(2)
	require.NoError(t, w.Flush())

	expected := strings.Join([]string{
		"$version hwbench $end",
		"$timescale 1ps $end",
		"$scope module TOP $end",
		"$var wire 1 ! clock $end",
		"$var wire 32 # io_instruction_address [31:0] $end",
		"$scope module fetch $end",
		"$var wire 32 \" pc [31:0] $end",
		"$upscope $end",
		"$upscope $end",
		"$enddefinitions $end",
		"#0",
		"0!",
		"b0 #",
		"b0 \"",
		"#1",
		"1!",
		"b1000000000000 #",
		"b1000000000000 \"",
		"#2",
		"0!",
		"",
	}, "\n")
	require.Equal(t, expected, buf.String())
}

var errFull = errors.New("device full")

// fullWriter accepts n bytes, then fails.
type fullWriter struct {
	n     int
	calls int
}

func (w *fullWriter) Write(p []byte) (int, error) {
	w.calls++
	if len(p) <= w.n {
		w.n -= len(p)
		return len(p), nil
	}
	n := w.n
	w.n = 0
	return n, errFull
}

func TestWriter_writeError(t *testing.T) {
	fw := &fullWriter{n: 100}
	var v uint64
	w := vcd.NewWriter(fw)
	require.NoError(t, w.Register([]string{"TOP"}, "count", 64, func() uint64 { return v }))
	for v = 0; v < 1000; v++ {
		w.Dump(v)
	}
	calls := fw.calls
	require.NotZero(t, calls)

	// errors are sticky
	for ; v < 2000; v++ {
		w.Dump(v)
	}
	require.Equal(t, errFull, w.Flush())
	require.Equal(t, errFull, w.Flush())
	require.Equal(t, calls, fw.calls)
}

func TestWriter_invalidWidth(t *testing.T) {
	w := vcd.NewWriter(&bytes.Buffer{})
	require.Error(t, w.Register(nil, "wide", 65, func() uint64 { return 0 }))
	require.Error(t, w.Register(nil, "empty", 0, func() uint64 { return 0 }))
}

func TestScan(t *testing.T) {
	var buf bytes.Buffer
	var a, b uint64
	w := vcd.NewWriter(&buf)
	require.NoError(t, w.Register([]string{"TOP"}, "a", 1, func() uint64 { return a }))
	require.NoError(t, w.Register([]string{"TOP", "sub"}, "b", 8, func() uint64 { return b }))
	for i := uint64(0); i < 200; i++ {
		a, b = i&1, i
		w.Dump(i * 2)
	}
	require.NoError(t, w.Flush())

	type change struct {
		t    uint64
		name string
		v    uint64
	}
	var changes []change
	vars, err := vcd.Scan(&buf, func(t uint64, v *vcd.Var, value uint64) error {
		changes = append(changes, change{t, v.FullName(), value})
		return nil
	})
	require.NoError(t, err)
	require.Len(t, vars, 2)
	require.Equal(t, "TOP.a", vars[0].FullName())
	require.Equal(t, "TOP.sub.b", vars[1].FullName())
	require.Equal(t, 8, vars[1].Width)

	// both variables change on every dump.
	require.Len(t, changes, 400)
	last := changes[len(changes)-1]
	require.Equal(t, change{398, "TOP.sub.b", 199}, last)
}

func TestScan_unknownBits(t *testing.T) {
	in := `$timescale 1ns $end
$scope module TOP $end
$var wire 4 ! bus [3:0] $end
$var wire 1 " bit $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
bx1x1 !
x"
$end
#10
b1111 !
1"
`
	var got []uint64
	_, err := vcd.Scan(strings.NewReader(in), func(t uint64, v *vcd.Var, value uint64) error {
		got = append(got, t, value)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 5, 0, 0, 10, 15, 10, 1}, got)
}

func TestScan_errors(t *testing.T) {
	for _, in := range []string{
		"$var wire 1 !",
		"$var wire x ! a $end $enddefinitions $end",
		"$enddefinitions $end #zz",
		"$enddefinitions $end b101",
		"garbage $enddefinitions $end",
	} {
		_, err := vcd.Scan(strings.NewReader(in), func(uint64, *vcd.Var, uint64) error { return nil })
		require.Error(t, err, in)
	}
}
