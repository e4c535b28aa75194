// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Memory is a word addressed memory. All addresses are byte addresses, sub
// word addresses are truncated to the containing word.
//
type Memory struct {
	words []uint32
}

// NewMemory returns a zeroed memory of the given size in 32 bits words.
//
func NewMemory(words int) *Memory {
	if words < 0 {
		words = 0
	}
	return &Memory{words: make([]uint32, words)}
}

// Words returns the memory size in words.
//
func (m *Memory) Words() int { return len(m.words) }

// Size returns the memory size in bytes.
//
func (m *Memory) Size() uint64 { return uint64(len(m.words)) * 4 }

// Read returns the word at the given byte address.
//
// Out of range reads return 0: the address bus may carry any value while the
// core is not actually reading.
//
func (m *Memory) Read(addr uint32) uint32 {
	i := uint64(addr / 4)
	if i >= uint64(len(m.words)) {
		return 0
	}
	return m.words[i]
}

// Write merges the byte lanes of value enabled by strobe into the word at the
// given byte address. Lanes with an unset strobe keep their previous value.
//
// Out of range writes are discarded and reported as a *BusError.
//
func (m *Memory) Write(addr uint32, value uint32, strobe [4]bool) error {
	i := uint64(addr / 4)
	if i >= uint64(len(m.words)) {
		return &BusError{Address: addr}
	}
	mask := StrobeMask(strobe)
	m.words[i] = m.words[i]&^mask | value&mask
	return nil
}

// StrobeMask returns the 32 bits mask enabling the byte lanes set in strobe.
//
func StrobeMask(strobe [4]bool) uint32 {
	var mask uint32
	for i, s := range strobe {
		if s {
			mask |= 0xff << (uint(i) * 8)
		}
	}
	return mask
}

// LoadBinary copies a raw little endian image into memory, starting at the
// given byte address. Trailing bytes that do not form a complete word are
// ignored.
//
// Memory is left untouched if the file cannot be read or if the image does
// not fit. All errors are of type *LoadError.
//
func (m *Memory) LoadBinary(path string, addr uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	size := fi.Size()
	if uint64(addr)+uint64(size) > m.Size() {
		return &LoadError{Path: path, Err: errors.Errorf("image of %d bytes at 0x%x is too large for memory (%d bytes)", size, addr, m.Size())}
	}

	buf := make([]byte, size)
	if _, err = io.ReadFull(f, buf); err != nil {
		return &LoadError{Path: path, Err: errors.Wrap(err, "read image")}
	}
	base := addr / 4
	for i := 0; i+4 <= len(buf); i += 4 {
		m.words[base+uint32(i/4)] = binary.LittleEndian.Uint32(buf[i:])
	}
	return nil
}
