// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var errSinkFull = errors.New("no space left on device")

// fullSink accepts n bytes, then fails.
type fullSink struct {
	n      int
	closed int
}

func (s *fullSink) Write(p []byte) (int, error) {
	if len(p) <= s.n {
		s.n -= len(p)
		return len(p), nil
	}
	n := s.n
	s.n = 0
	return n, errSinkFull
}

func (s *fullSink) Close() error {
	s.closed++
	return nil
}

type idleCore struct {
	in     Inputs
	finals int
}

func (c *idleCore) SetInputs(in Inputs) { c.in = in }
func (c *idleCore) Inputs() Inputs      { return c.in }
func (c *idleCore) Outputs() Outputs    { return Outputs{InstructionAddress: 0x1000} }
func (c *idleCore) Eval()               {}
func (c *idleCore) Finished() bool      { return false }
func (c *idleCore) Final()              { c.finals++ }

func TestSimulator_traceSinkError(t *testing.T) {
	for _, n := range []int{0, 100, 5000} {
		c := &idleCore{}
		cfg := DefaultConfig()
		cfg.MemoryWords = 1024
		cfg.MaxTime = 2000
		s, err := New(c, cfg)
		require.NoError(t, err)
		sink := &fullSink{n: n}
		require.NoError(t, s.rec.attach(sink, "sink.vcd", c, 0))

		res, err := s.Run()
		var te *TraceIOError
		require.True(t, errors.As(err, &te), "n=%d: got %v", n, err)
		require.Equal(t, "sink.vcd", te.Path)
		require.Equal(t, errSinkFull, errors.Cause(err))
		require.Equal(t, TimedOut, res.State)
		require.Equal(t, cfg.MaxTime, res.Time)
		require.Equal(t, 1, sink.closed)

		require.NoError(t, s.Close())
		require.Equal(t, 1, sink.closed)
		require.Equal(t, 1, c.finals)
	}
}
