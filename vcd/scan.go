// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Var describes a variable declared in a dump.
//
type Var struct {
	Scope []string
	Name  string
	Width int
	ID    string
}

// FullName returns the dot separated scope and name of v.
//
func (v *Var) FullName() string {
	if len(v.Scope) == 0 {
		return v.Name
	}
	return strings.Join(v.Scope, ".") + "." + v.Name
}

// A ChangeFunc is called by Scan for every value change. Unknown (x) and high
// impedance (z) bits read as 0. Real values are skipped.
//
type ChangeFunc func(t uint64, v *Var, value uint64) error

// Scan reads a value change dump from r, calling fn for every value change in
// the file. It returns the variables declared in the header.
//
// If several variables share the same identifier code, fn is called once per
// variable.
//
func Scan(r io.Reader, fn ChangeFunc) ([]*Var, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)

	var (
		vars  []*Var
		ids   = make(map[string][]*Var)
		scope []string
		t     uint64
		defs  = true
	)

	// skip to $end, returning the skipped tokens.
	section := func() ([]string, error) {
		var toks []string
		for s.Scan() {
			if s.Text() == "$end" {
				return toks, nil
			}
			toks = append(toks, s.Text())
		}
		return nil, errors.New("vcd: unterminated section")
	}
	change := func(id string, value uint64) error {
		for _, v := range ids[id] {
			if err := fn(t, v, value); err != nil {
				return err
			}
		}
		return nil
	}

	for s.Scan() {
		tok := s.Text()
		switch {
		case defs && tok == "$scope":
			toks, err := section()
			if err != nil {
				return nil, err
			}
			if len(toks) < 2 {
				return nil, errors.New("vcd: malformed $scope")
			}
			scope = append(scope, toks[1])
		case defs && tok == "$upscope":
			if _, err := section(); err != nil {
				return nil, err
			}
			if len(scope) > 0 {
				scope = scope[:len(scope)-1]
			}
		case defs && tok == "$var":
			toks, err := section()
			if err != nil {
				return nil, err
			}
			if len(toks) < 4 {
				return nil, errors.New("vcd: malformed $var")
			}
			width, err := strconv.Atoi(toks[1])
			if err != nil {
				return nil, errors.Wrap(err, "vcd: malformed $var width")
			}
			v := &Var{Scope: append([]string(nil), scope...), Name: toks[3], Width: width, ID: toks[2]}
			vars = append(vars, v)
			ids[v.ID] = append(ids[v.ID], v)
		case tok == "$enddefinitions":
			if _, err := section(); err != nil {
				return nil, err
			}
			defs = false
		case tok == "$dumpvars" || tok == "$dumpon" || tok == "$dumpoff" || tok == "$dumpall" || tok == "$end":
			// value changes inside these sections are processed as usual.
		case tok[0] == '$':
			if _, err := section(); err != nil {
				return nil, err
			}
		case defs:
			return nil, errors.New("vcd: unexpected " + strconv.Quote(tok) + " in header")
		case tok[0] == '#':
			v, err := strconv.ParseUint(tok[1:], 10, 64)
			if err != nil {
				return nil, errors.Wrap(err, "vcd: malformed timestamp")
			}
			t = v
		case tok[0] == 'b' || tok[0] == 'B':
			if !s.Scan() {
				return nil, errors.New("vcd: missing identifier after vector value")
			}
			if err := change(s.Text(), parseBits(tok[1:])); err != nil {
				return nil, err
			}
		case tok[0] == 'r' || tok[0] == 'R':
			if !s.Scan() {
				return nil, errors.New("vcd: missing identifier after real value")
			}
		case strings.IndexByte("01xXzZ", tok[0]) >= 0:
			if len(tok) < 2 {
				return nil, errors.New("vcd: missing identifier after scalar value")
			}
			if err := change(tok[1:], parseBits(tok[:1])); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("vcd: unexpected " + strconv.Quote(tok))
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "vcd")
	}
	return vars, nil
}

func parseBits(s string) uint64 {
	var v uint64
	for i := 0; i < len(s); i++ {
		v <<= 1
		if s[i] == '1' {
			v |= 1
		}
	}
	return v
}
