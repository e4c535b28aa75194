// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package numflag

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUint(t *testing.T) {
	for _, td := range []struct {
		in   string
		bits int
		v    uint64
		ok   bool
	}{
		{"0", 32, 0, true},
		{"4096", 32, 4096, true},
		{"0x1000", 32, 0x1000, true},
		{"0XBABECAFE", 32, 0xbabecafe, true},
		{"0xffffffff", 32, 0xffffffff, true},
		{"0x100000000", 32, 0, false},
		{"0x100000000", 64, 0x100000000, true},
		{"0x", 32, 0, false},
		{"12ab", 32, 0, false},
		{"-1", 64, 0, false},
		{"", 64, 0, false},
	} {
		v, err := ParseUint(td.in, td.bits)
		if !td.ok {
			require.Error(t, err, td.in)
			continue
		}
		require.NoError(t, err, td.in)
		require.Equal(t, td.v, v, td.in)
	}
}

func TestNormalizeArgs(t *testing.T) {
	for _, td := range []struct {
		in, out []string
	}{
		{
			[]string{"-halt", "0x10", "-signature", "0x2000", "0x2010", "sig.txt", "-time", "5"},
			[]string{"-halt", "0x10", "-signature=0x2000,0x2010,sig.txt", "-time", "5"},
		},
		{
			[]string{"--signature", "1", "2", "p"},
			[]string{"-signature=1,2,p"},
		},
		{
			[]string{"-signature=1,2,p", "-signature", "1", "2"},
			[]string{"-signature=1,2,p", "-signature", "1", "2"},
		},
		{
			[]string{"--", "-signature", "1", "2", "p"},
			[]string{"--", "-signature", "1", "2", "p"},
		},
		{
			[]string{"---signature", "1", "2", "p"},
			[]string{"---signature", "1", "2", "p"},
		},
	} {
		require.Equal(t, td.out, NormalizeArgs(td.in, "signature"))
	}
}

func TestFlagSet(t *testing.T) {
	var (
		halt uint32
		time uint64 = 10000
		sig  Range
	)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(NewUint32(&halt), "halt", "")
	fs.Var(NewUint64(&time), "time", "")
	fs.Var(&sig, "signature", "")

	args := NormalizeArgs([]string{"-halt", "0x1000", "-signature", "0x20", "0x40", "out.sig", "-time", "0x20"}, "signature")
	require.NoError(t, fs.Parse(args))
	require.Equal(t, uint32(0x1000), halt)
	require.Equal(t, uint64(0x20), time)
	require.Equal(t, Range{Begin: 0x20, End: 0x40, Path: "out.sig", IsSet: true}, sig)
	require.Equal(t, "0x20,0x40,out.sig", sig.String())

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&sig, "signature", "")
	require.NoError(t, fs.Parse([]string{"-signature=0x40,0x20,out"}))
	require.Equal(t, Range{Begin: 0x40, End: 0x20, Path: "out", IsSet: true}, sig)
	require.Error(t, fs.Parse([]string{"-signature=0x40,0x20"}))
	require.Error(t, fs.Parse([]string{"-signature=x,0x20,out"}))
}
