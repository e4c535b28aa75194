// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMemory_WriteSignature(t *testing.T) {
	m := hwbench.NewMemory(testWords)
	require.NoError(t, m.Write(0x10, 0xdeadbeef, [4]bool{true, true, true, true}))
	require.NoError(t, m.Write(0x14, 0x1, [4]bool{true, true, true, true}))

	var buf bytes.Buffer
	require.NoError(t, m.WriteSignature(&buf, 0x10, 0x1c))
	require.Equal(t, "deadbeef\n00000001\n00000000\n", buf.String())

	// empty range
	buf.Reset()
	require.NoError(t, m.WriteSignature(&buf, 0x20, 0x20))
	require.Empty(t, buf.String())

	// reversed range
	buf.Reset()
	require.NoError(t, m.WriteSignature(&buf, 0x20, 0x10))
	require.Empty(t, buf.String())

	// beyond memory reads as zero
	buf.Reset()
	require.NoError(t, m.WriteSignature(&buf, testWords*4-4, testWords*4+4))
	require.Equal(t, "00000000\n00000000\n", buf.String())
}

func TestMemory_GenerateSignature(t *testing.T) {
	m := hwbench.NewMemory(testWords)
	for i := uint32(0); i < 16; i++ {
		require.NoError(t, m.Write(0x40+i*4, i*0x11111111, [4]bool{true, true, true, true}))
	}
	name := filepath.Join(t.TempDir(), "sig.txt")
	require.NoError(t, m.GenerateSignature(name, 0x40, 0x80))

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 16)
	for _, l := range lines {
		require.Len(t, l, 8)
		require.Equal(t, strings.ToLower(l), l)
	}
	require.Equal(t, "00000000", lines[0])
	require.Equal(t, "ffffffff", lines[15])
}

func TestMemory_GenerateSignature_badPath(t *testing.T) {
	m := hwbench.NewMemory(testWords)
	name := filepath.Join(t.TempDir(), "missing", "sig.txt")
	err := m.GenerateSignature(name, 0, 16)
	var ioe *hwbench.IOError
	require.True(t, errors.As(err, &ioe))
	require.Equal(t, name, ioe.Path)
}
