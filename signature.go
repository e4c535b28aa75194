// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// SignatureRange selects the memory range [Begin, End) dumped to Path after a
// run.
//
type SignatureRange struct {
	Begin uint32
	End   uint32
	Path  string
}

// WriteSignature writes one line per word in the byte address range
// [begin, end), ascending, each line being the word value as 8 lowercase
// hexadecimal digits.
//
func (m *Memory) WriteSignature(w io.Writer, begin, end uint32) error {
	bw := bufio.NewWriter(w)
	for addr := uint64(begin); addr < uint64(end); addr += 4 {
		if _, err := fmt.Fprintf(bw, "%08x\n", m.Read(uint32(addr))); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// GenerateSignature writes the signature of the range [begin, end) to the
// file at path. Errors are of type *IOError.
//
func (m *Memory) GenerateSignature(path string, begin, end uint32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = &IOError{Path: path, Err: cerr}
		}
	}()
	if err = m.WriteSignature(f, begin, end); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}
