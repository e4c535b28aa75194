// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command tracestat reports execution statistics from a waveform trace
// written by hwbench.
//
// Usage:
//
//	tracestat [flags] trace.vcd
//
// tracestat exits with status 1 if the number of program counter samples in
// the window given by -begin and -end is not greater than -min.
//
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/db47h/hwbench/internal/numflag"
	"github.com/db47h/hwbench/internal/tracestat"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("tracestat: ")

	var (
		o          = tracestat.DefaultOptions()
		begin, end uint32
	)
	flag.StringVar(&o.PCSignal, "pc", tracestat.PCSignal, "program counter signal `name`")
	flag.StringVar(&o.WriteEnableSignal, "we", tracestat.WriteEnableSignal, "memory write enable signal `name`")
	flag.StringVar(&o.RegAddrSignal, "rega", tracestat.RegAddrSignal, "register write address signal `name`")
	flag.StringVar(&o.RegDataSignal, "regd", tracestat.RegDataSignal, "register write data signal `name`")
	flag.Var(numflag.NewUint64(&o.WatchRegister), "reg", "count writes to register `number`")
	flag.Var(numflag.NewUint64(&o.WatchValue), "value", "look for `value` on the register write data")
	flag.Var(numflag.NewUint32(&begin), "begin", "PC window start `address`")
	flag.Var(numflag.NewUint32(&end), "end", "PC window end `address` (exclusive)")
	flag.IntVar(&o.MinInWindow, "min", 0, "PC samples in window must be more than `n`")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	o.WindowBegin, o.WindowEnd = uint64(begin), uint64(end)

	name := flag.Arg(0)
	f, err := os.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	fmt.Printf("Analyzing %s\n", name)
	rep, err := tracestat.Analyze(f, o)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}
	if _, err = rep.WriteTo(os.Stdout); err != nil {
		log.Fatal(err)
	}
	if !rep.Pass() {
		f.Close()
		os.Exit(1)
	}
}
