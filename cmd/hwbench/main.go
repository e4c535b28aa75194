// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwbench runs a core in the simulation harness.
//
// Usage:
//
//	hwbench [flags]
//
// The core is the built-in fetch unit, or a Lua script given with -lua.
// Numeric flags accept decimal or 0x prefixed hexadecimal values. The
// signature flag takes three arguments: -signature begin end path.
//
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/db47h/hwbench"
	"github.com/db47h/hwbench/fetchcore"
	"github.com/db47h/hwbench/internal/numflag"
	"github.com/db47h/hwbench/luacore"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hwbench: ")
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		cfg     = hwbench.DefaultConfig()
		words   = uint64(cfg.MemoryWords)
		sig     numflag.Range
		script  string
		workers int
		quiet   bool
	)
	fs := flag.NewFlagSet("hwbench", flag.ContinueOnError)
	fs.Var(numflag.NewUint32(&cfg.HaltAddress), "halt", "halt when `address` holds 0xBABECAFE (0 disables)")
	fs.Var(numflag.NewUint64(&words), "memory", "memory size in 32 bits `words`")
	fs.Var(numflag.NewUint64(&cfg.MaxTime), "time", "maximum simulation time in `steps`")
	fs.StringVar(&cfg.TracePath, "vcd", "", "write a waveform trace to `file`")
	fs.IntVar(&cfg.TraceDepth, "depth", hwbench.TraceDepth, "waveform trace depth")
	fs.StringVar(&cfg.ImagePath, "instruction", "", "load the raw binary image `file`")
	fs.Var(numflag.NewUint32(&cfg.LoadAddress), "load", "image load `address`")
	fs.Var(&sig, "signature", "dump memory `begin end path` after the run")
	fs.StringVar(&script, "lua", "", "run the Lua core `script` instead of the fetch unit")
	fs.IntVar(&workers, "workers", 1, "fetch unit circuit worker goroutines")
	fs.BoolVar(&quiet, "q", false, "do not report progress")
	if err := fs.Parse(numflag.NormalizeArgs(args, "signature")); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		return 1
	}
	if words > 1<<30 {
		log.Printf("memory size too large: %d words", words)
		return 1
	}
	cfg.MemoryWords = int(words)
	if sig.IsSet {
		cfg.Signature = &hwbench.SignatureRange{Begin: sig.Begin, End: sig.End, Path: sig.Path}
	}
	cfg.Log = log.New(os.Stderr, "", 0)
	if !quiet {
		cfg.Progress = os.Stderr
	}

	var (
		core hwbench.Core
		lc   *luacore.Core
		err  error
	)
	if script != "" {
		lc, err = luacore.New(script)
		core = lc
	} else {
		core, err = fetchcore.New(cfg.LoadAddress, workers)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	s, err := hwbench.New(core, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	res, err := s.Run()
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if lc != nil && lc.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", lc.Err())
		return 1
	}
	log.Printf("simulation %s at time %d", res.State, res.Time)
	return 0
}
