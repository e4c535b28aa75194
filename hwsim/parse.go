// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Connection connects a part pin (PP) to a pin in its container (CP).
//
type Connection struct {
	PP string
	CP string
}

// ParseIOSpec parses the pin specification string and returns individual pin
// names in a slice, also expanding bus declarations to individual pin names.
// For example:
//
//	ParseIOSpec("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIOSpec(spec string) ([]string, error) {
	var out []string
	for _, f := range fields(spec) {
		name, idx, ok := splitIndex(f)
		if !validName(name) {
			return nil, parseError(spec, "invalid pin name "+strconv.Quote(f))
		}
		if !ok {
			out = append(out, name)
			continue
		}
		size, err := strconv.Atoi(idx)
		if err != nil || size <= 0 {
			return nil, parseError(spec, "invalid bus size in "+strconv.Quote(f))
		}
		for i := 0; i < size; i++ {
			out = append(out, BusPinName(name, i))
		}
	}
	return out, nil
}

// ParseConnections parses a connection configuration string of the form
// "pp=cp, ..." where pp is a pin name in the part's interface and cp a pin
// name in its container. Bus ranges like "a[0..3]=b[4..7]" are expanded to
// individual pins. A single pin on the right hand side can be connected to a
// range of pins: "a[0..3]=false".
//
// Whole bus connections like "a=b" are returned as is. PartSpec.NewPart
// expands them once the width of the part's bus is known.
//
func ParseConnections(conns string) ([]Connection, error) {
	var out []Connection
	for _, f := range fields(conns) {
		i := strings.IndexByte(f, '=')
		if i < 0 {
			return nil, parseError(conns, "missing '=' in "+strconv.Quote(f))
		}
		lhs, err := expandRange(strings.TrimSpace(f[:i]))
		if err != nil {
			return nil, parseError(conns, err.Error())
		}
		rhs, err := expandRange(strings.TrimSpace(f[i+1:]))
		if err != nil {
			return nil, parseError(conns, err.Error())
		}
		switch {
		case len(lhs) == len(rhs):
			for i := range lhs {
				out = append(out, Connection{lhs[i], rhs[i]})
			}
		case len(rhs) == 1:
			for _, l := range lhs {
				out = append(out, Connection{l, rhs[0]})
			}
		default:
			return nil, parseError(conns, "pin count mismatch in "+strconv.Quote(f))
		}
	}
	return out, nil
}

// connect parses conns and expands whole bus connections according to p's
// interface.
//
func (p *PartSpec) connect(conns string) ([]Connection, error) {
	cs, err := ParseConnections(conns)
	if err != nil {
		return nil, errors.Wrap(err, p.Name)
	}
	out := make([]Connection, 0, len(cs))
	seen := make(map[string]bool, len(cs))
	add := func(c Connection) error {
		if seen[c.PP] {
			return errors.Errorf("%s: pin %s connected more than once", p.Name, c.PP)
		}
		seen[c.PP] = true
		out = append(out, c)
		return nil
	}
	for _, c := range cs {
		w := 0
		if !p.isInput(c.PP) && !p.isOutput(c.PP) {
			w = p.busWidth(c.PP)
		}
		if w == 0 {
			if err := add(c); err != nil {
				return nil, err
			}
			continue
		}
		_, _, indexed := splitIndex(c.CP)
		for i := 0; i < w; i++ {
			cp := c.CP
			if !indexed && cp != True && cp != False {
				cp = BusPinName(c.CP, i)
			}
			if err := add(Connection{BusPinName(c.PP, i), cp}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func fields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// splitIndex splits "name[idx]" into name and idx.
//
func splitIndex(s string) (name, idx string, ok bool) {
	i := strings.IndexByte(s, '[')
	if i < 0 || !strings.HasSuffix(s, "]") {
		return s, "", false
	}
	return s[:i], s[i+1 : len(s)-1], true
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func expandRange(name string) ([]string, error) {
	bus, idx, ok := splitIndex(name)
	if !validName(bus) {
		return nil, errors.New("invalid pin name " + strconv.Quote(name))
	}
	if !ok {
		return []string{name}, nil
	}
	i := strings.Index(idx, "..")
	if i < 0 {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return nil, errors.New("invalid index in " + strconv.Quote(name))
		}
		return []string{BusPinName(bus, n)}, nil
	}
	start, err := strconv.Atoi(idx[:i])
	if err != nil {
		return nil, errors.New("invalid range start in " + strconv.Quote(name))
	}
	end, err := strconv.Atoi(idx[i+2:])
	if err != nil {
		return nil, errors.New("invalid range end in " + strconv.Quote(name))
	}
	if start < 0 || end < start {
		return nil, errors.New("invalid range in " + strconv.Quote(name))
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

func parseError(in string, msg string) error {
	return errors.Errorf("in %q: %s", in, msg)
}
