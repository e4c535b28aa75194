// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const haltScript = `
local n = 0
function eval(i)
  if i.reset or not i.clock then return {} end
  n = n + 1
  if n == 5 then
    return { memory_write_enable = true, memory_address = 0x2000, memory_write_data = 0xBABECAFE,
      memory_write_strobe = { true, true, true, true } }
  end
  return { memory_write_enable = true, memory_address = 0x2004, memory_write_data = n,
    memory_write_strobe = { true, true, true, true } }
end
`

func TestRun_fetch(t *testing.T) {
	dir := t.TempDir()
	sig := filepath.Join(dir, "sig.txt")
	trace := filepath.Join(dir, "trace.vcd")
	require.Equal(t, 0, run([]string{"-q", "-memory", "0x1000", "-time", "100", "-vcd", trace, "-signature", "0x1000", "0x1010", sig}))
	data, err := os.ReadFile(sig)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("00000000\n", 4), string(data))
	_, err = os.Stat(trace)
	require.NoError(t, err)
}

func TestRun_lua(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "halt.lua")
	require.NoError(t, os.WriteFile(script, []byte(haltScript), 0644))
	sig := filepath.Join(dir, "sig.txt")
	require.Equal(t, 0, run([]string{"-q", "-memory", "4096", "-halt", "0x2000", "-lua", script, "-signature=0x2000,0x2008," + sig}))
	data, err := os.ReadFile(sig)
	require.NoError(t, err)
	require.Equal(t, "babecafe\n00000004\n", string(data))

	require.NoError(t, os.WriteFile(script, []byte(`function eval(i) error("boom") end`), 0644))
	require.Equal(t, 1, run([]string{"-q", "-lua", script}))
}

func TestRun_errors(t *testing.T) {
	dir := t.TempDir()
	// configuration errors abort before the simulation starts
	require.Equal(t, 1, run([]string{"-halt", "nope"}))
	require.Equal(t, 1, run([]string{"-time"}))
	require.Equal(t, 1, run([]string{"-memory", "0x"}))
	require.Equal(t, 1, run([]string{"-signature", "0x10", "bad", "sig"}))
	require.Equal(t, 1, run([]string{"extra"}))
	require.Equal(t, 0, run([]string{"-h"}))
	require.Equal(t, 1, run([]string{"-q", "-instruction", filepath.Join(dir, "missing.bin")}))
	require.Equal(t, 1, run([]string{"-q", "-vcd", filepath.Join(dir, "missing", "t.vcd")}))
	require.Equal(t, 1, run([]string{"-q", "-lua", filepath.Join(dir, "missing.lua")}))
	// reversed range: empty signature
	empty := filepath.Join(dir, "empty.sig")
	require.Equal(t, 0, run([]string{"-q", "-time", "10", "-signature", "0x20", "0x10", empty}))
	data, err := os.ReadFile(empty)
	require.NoError(t, err)
	require.Empty(t, data)
	// signature failures do not fail the run
	require.Equal(t, 0, run([]string{"-q", "-time", "10", "-signature", "0", "16", filepath.Join(dir, "missing", "sig")}))
}
