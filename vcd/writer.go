// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vcd reads and writes value change dump files (IEEE 1364), the
// waveform format understood by viewers like GTKWave.
//
package vcd

import (
	"bufio"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// DefaultTimescale is the timescale written in file headers.
const DefaultTimescale = "1ps"

type variable struct {
	Var
	value func() uint64
	last  uint64
}

// A Writer writes a value change dump. Variables are registered first, the
// file header is written by the first call to Dump.
//
// Write errors are sticky: once an error occurs, all subsequent calls are
// no-ops and Flush returns the error.
//
type Writer struct {
	Timescale string

	w       *bufio.Writer
	vars    []*variable
	started bool
	err     error
}

// NewWriter returns a new Writer writing to w.
//
func NewWriter(w io.Writer) *Writer {
	return &Writer{Timescale: DefaultTimescale, w: bufio.NewWriter(w)}
}

// Register adds a variable to the dump. value is called on every Dump to
// sample the variable. Only the width lower bits of the returned value are
// recorded.
//
func (w *Writer) Register(scope []string, name string, width int, value func() uint64) error {
	if w.started {
		return errors.New("vcd: cannot register " + name + " after the first dump")
	}
	if width < 1 || width > 64 {
		return errors.Errorf("vcd: invalid width %d for %s", width, name)
	}
	w.vars = append(w.vars, &variable{
		Var: Var{
			Scope: append([]string(nil), scope...),
			Name:  name,
			Width: width,
			ID:    identifier(len(w.vars)),
		},
		value: value,
	})
	return nil
}

// identifier returns the short identifier code of the n-th variable, using
// printable ASCII characters from '!' to '~'.
//
func identifier(n int) string {
	var b []byte
	for {
		b = append(b, byte('!'+n%94))
		n /= 94
		if n == 0 {
			return string(b)
		}
		n--
	}
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

func (w *Writer) header() {
	// stable sort keeps registration order within a scope
	sort.SliceStable(w.vars, func(i, j int) bool {
		return lessScope(w.vars[i].Scope, w.vars[j].Scope)
	})

	w.writeString("$version hwbench $end\n")
	w.writeString("$timescale " + w.Timescale + " $end\n")
	var cur []string
	for _, v := range w.vars {
		k := 0
		for k < len(cur) && k < len(v.Scope) && cur[k] == v.Scope[k] {
			k++
		}
		for i := len(cur); i > k; i-- {
			w.writeString("$upscope $end\n")
		}
		for _, s := range v.Scope[k:] {
			w.writeString("$scope module " + s + " $end\n")
		}
		cur = v.Scope

		w.writeString("$var wire " + strconv.Itoa(v.Width) + " " + v.ID + " " + v.Name)
		if v.Width > 1 {
			w.writeString(" [" + strconv.Itoa(v.Width-1) + ":0]")
		}
		w.writeString(" $end\n")
	}
	for range cur {
		w.writeString("$upscope $end\n")
	}
	w.writeString("$enddefinitions $end\n")
}

func lessScope(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (w *Writer) value(v *variable, x uint64) {
	if v.Width == 1 {
		if x&1 != 0 {
			w.writeString("1" + v.ID + "\n")
		} else {
			w.writeString("0" + v.ID + "\n")
		}
		return
	}
	w.writeString("b" + strconv.FormatUint(x, 2) + " " + v.ID + "\n")
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// Dump samples all variables and records the ones that changed since the
// previous call at time t. The first call writes the file header and the
// initial value of every variable.
//
func (w *Writer) Dump(t uint64) {
	if w.err != nil {
		return
	}
	if !w.started {
		w.header()
		w.writeString("#" + strconv.FormatUint(t, 10) + "\n")
		for _, v := range w.vars {
			v.last = v.value() & mask(v.Width)
			w.value(v, v.last)
		}
		w.started = true
		return
	}
	w.writeString("#" + strconv.FormatUint(t, 10) + "\n")
	for _, v := range w.vars {
		x := v.value() & mask(v.Width)
		if x != v.last {
			v.last = x
			w.value(v, x)
		}
	}
}

// Flush writes any buffered data to the underlying io.Writer and returns the
// first error encountered.
//
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
