// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package numflag provides flag.Value implementations for numbers written in
// decimal or 0x prefixed hexadecimal.
//
package numflag

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseUint parses a decimal or 0x/0X prefixed hexadecimal unsigned integer
// that fits in bits bits.
//
func ParseUint(s string, bits int) (uint64, error) {
	digits, base := s, 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		digits, base = s[2:], 16
	}
	v, err := strconv.ParseUint(digits, base, bits)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			err = ne.Err
		}
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	return v, nil
}

// Uint32 is a flag.Value for uint32 values.
//
type Uint32 struct{ p *uint32 }

// NewUint32 returns a Uint32 storing its value in p.
func NewUint32(p *uint32) Uint32 { return Uint32{p} }

func (u Uint32) String() string {
	if u.p == nil {
		return "0"
	}
	return "0x" + strconv.FormatUint(uint64(*u.p), 16)
}

// Set implements flag.Value.
func (u Uint32) Set(s string) error {
	v, err := ParseUint(s, 32)
	if err != nil {
		return err
	}
	*u.p = uint32(v)
	return nil
}

// Uint64 is a flag.Value for uint64 values.
//
type Uint64 struct{ p *uint64 }

// NewUint64 returns a Uint64 storing its value in p.
func NewUint64(p *uint64) Uint64 { return Uint64{p} }

func (u Uint64) String() string {
	if u.p == nil {
		return "0"
	}
	return strconv.FormatUint(*u.p, 10)
}

// Set implements flag.Value.
func (u Uint64) Set(s string) error {
	v, err := ParseUint(s, 64)
	if err != nil {
		return err
	}
	*u.p = v
	return nil
}

// Range is a flag.Value for a "begin,end,path" triple. An end address lower
// than begin is accepted and selects an empty range.
//
type Range struct {
	Begin, End uint32
	Path       string
	IsSet      bool
}

func (r *Range) String() string {
	if r == nil || !r.IsSet {
		return ""
	}
	return "0x" + strconv.FormatUint(uint64(r.Begin), 16) + ",0x" + strconv.FormatUint(uint64(r.End), 16) + "," + r.Path
}

// Set implements flag.Value.
func (r *Range) Set(s string) error {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) != 3 || parts[2] == "" {
		return errors.Errorf("expected begin,end,path, got %q", s)
	}
	b, err := ParseUint(parts[0], 32)
	if err != nil {
		return err
	}
	e, err := ParseUint(parts[1], 32)
	if err != nil {
		return err
	}
	r.Begin, r.End, r.Path, r.IsSet = uint32(b), uint32(e), parts[2], true
	return nil
}

// NormalizeArgs rewrites occurrences of "-name a b c" (or "--name a b c") in
// args into the single argument "-name=a,b,c" for every name in triples, so
// that they can be handled by a Range value.
//
// An argument already containing "=" is left untouched, as are trailing
// occurrences lacking three values.
//
func NormalizeArgs(args []string, triples ...string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		name := strings.TrimLeft(a, "-")
		if name != a && len(a)-len(name) <= 2 && i+3 < len(args) && contains(triples, name) {
			out = append(out, "-"+name+"="+strings.Join(args[i+1:i+4], ","))
			i += 3
			continue
		}
		out = append(out, a)
	}
	return out
}

func contains(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
