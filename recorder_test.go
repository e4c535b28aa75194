// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/hwbench"
	"github.com/db47h/hwbench/hwtest"
	"github.com/db47h/hwbench/vcd"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type probedCore struct {
	hwtest.ScriptedCore
	alu uint64
}

func (c *probedCore) Probes() []hwbench.Probe {
	return []hwbench.Probe{
		{Name: "busy", Width: 1, Value: func() uint64 { return 1 }},
		{Scope: []string{"cpu"}, Name: "pc", Width: 32, Value: func() uint64 { return uint64(c.Outputs().InstructionAddress) }},
		{Scope: []string{"cpu", "alu"}, Name: "result", Width: 32, Value: func() uint64 { return c.alu }},
	}
}

func TestRecorder_disabled(t *testing.T) {
	var r hwbench.Recorder
	require.False(t, r.Enabled())
	r.Dump(0)
	require.NoError(t, r.Close())

	var nr *hwbench.Recorder
	require.False(t, nr.Enabled())
	nr.Dump(1)
	require.NoError(t, nr.Close())
}

func TestRecorder_badPath(t *testing.T) {
	var r hwbench.Recorder
	err := r.Enable(filepath.Join(t.TempDir(), "missing", "trace.vcd"), &hwtest.ScriptedCore{}, 0)
	var te *hwbench.TraceIOError
	require.True(t, errors.As(err, &te))
	require.False(t, r.Enabled())
}

// devFull returns the path of a device on which all writes fail.
func devFull(t *testing.T) string {
	t.Helper()
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	return "/dev/full"
}

func TestRecorder_writeError(t *testing.T) {
	var r hwbench.Recorder
	require.NoError(t, r.Enable(devFull(t), &hwtest.ScriptedCore{}, 0))
	for i := uint64(0); i < 10; i++ {
		r.Dump(i)
	}
	err := r.Close()
	var te *hwbench.TraceIOError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "/dev/full", te.Path)
	require.False(t, r.Enabled())
	require.NoError(t, r.Close())
}

func scanNames(t *testing.T, name string) []string {
	t.Helper()
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	vars, err := vcd.Scan(f, func(uint64, *vcd.Var, uint64) error { return nil })
	require.NoError(t, err)
	var names []string
	for _, v := range vars {
		names = append(names, v.FullName())
	}
	return names
}

func TestRecorder_depth(t *testing.T) {
	dir := t.TempDir()
	for _, td := range []struct {
		depth   int
		present []string
		absent  []string
	}{
		{1, []string{"TOP.clock", "TOP.busy"}, []string{"TOP.cpu.pc", "TOP.cpu.alu.result"}},
		{2, []string{"TOP.busy", "TOP.cpu.pc"}, []string{"TOP.cpu.alu.result"}},
		{0, []string{"TOP.io_memory_bundle_write_strobe_3", "TOP.cpu.pc", "TOP.cpu.alu.result"}, nil},
	} {
		name := filepath.Join(dir, "trace.vcd")
		c := &probedCore{}
		var r hwbench.Recorder
		require.NoError(t, r.Enable(name, c, td.depth))
		require.True(t, r.Enabled())
		require.Error(t, r.Enable(name, c, td.depth))
		r.Dump(0)
		c.alu = 42
		r.Dump(1)
		require.NoError(t, r.Close())
		require.False(t, r.Enabled())
		require.NoError(t, r.Close())

		names := scanNames(t, name)
		for _, n := range td.present {
			require.Contains(t, names, n, "depth %d", td.depth)
		}
		for _, n := range td.absent {
			require.NotContains(t, names, n, "depth %d", td.depth)
		}
	}
}
