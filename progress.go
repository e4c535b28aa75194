// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

// progress reports simulation progress at every 10% of the time budget.
// On a terminal, notices overwrite each other on a single line.
//
type progress struct {
	w       io.Writer
	max     uint64
	tty     bool
	pending bool
}

func newProgress(w io.Writer, max uint64) *progress {
	if w == nil || max <= 10 {
		return nil
	}
	p := &progress{w: w, max: max}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		p.tty = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p *progress) update(t uint64) {
	if p == nil || t == 0 || t%(p.max/10) != 0 {
		return
	}
	if p.tty {
		fmt.Fprintf(p.w, "\rSimulation progress: %d%%", t*100/p.max)
		p.pending = true
		return
	}
	fmt.Fprintf(p.w, "Simulation progress: %d%%\n", t*100/p.max)
}

func (p *progress) done() {
	if p == nil || !p.pending {
		return
	}
	fmt.Fprintln(p.w)
	p.pending = false
}
