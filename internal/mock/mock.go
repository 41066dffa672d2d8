// Package mock provides mocks for host pumps and sinks and allows to
// execute integration tests.
package mock

import (
	"io"

	"github.com/dudk/sigraph/signal"
)

// Pump mocks a host.Pump interface. It produces Limit samples of Value.
type Pump struct {
	counter
	Limit       int
	Value       float32
	SampleRate  float32
	ErrorOnMake error
	ErrorOnCall error
	Hooks
}

// Pump returns new pump function.
func (m *Pump) Pump(blockSize int) (func([]float32) (int, error), float32, error) {
	if m.ErrorOnMake != nil {
		return nil, 0, m.ErrorOnMake
	}
	return func(b []float32) (int, error) {
		if m.ErrorOnCall != nil {
			return 0, m.ErrorOnCall
		}
		if m.samples >= m.Limit {
			return 0, io.EOF
		}
		bs := len(b)
		// check if we need a shorter.
		if left := m.Limit - m.samples; left < bs {
			bs = left
		}
		for i := 0; i < bs; i++ {
			b[i] = m.Value
		}
		m.advance(bs)
		if bs < len(b) {
			return bs, io.ErrUnexpectedEOF
		}
		return bs, nil
	}, m.SampleRate, nil
}

// Flush implements host.Pump.
func (m *Pump) Flush() error {
	m.Flushed = true
	return m.ErrorOnFlush
}

// Sink mocks up a host.Sink interface.
type Sink struct {
	counter
	buffer      signal.Float32
	Discard     bool
	ErrorOnMake error
	ErrorOnCall error
	Hooks

	SampleRate  float32
	NumChannels int
	BlockSize   int
}

// Sink returns new sink function. Received channels are copied.
func (m *Sink) Sink(sampleRate float32, numChannels, blockSize int) (func([][]float32) error, error) {
	if m.ErrorOnMake != nil {
		return nil, m.ErrorOnMake
	}
	m.SampleRate, m.NumChannels, m.BlockSize = sampleRate, numChannels, blockSize
	return func(b [][]float32) error {
		if m.ErrorOnCall != nil {
			return m.ErrorOnCall
		}
		if !m.Discard {
			m.buffer = m.buffer.Append(b)
		}
		m.advance(signal.Float32(b).Size())
		return nil
	}, nil
}

// Flush implements host.Sink.
func (m *Sink) Flush() error {
	m.Flushed = true
	return m.ErrorOnFlush
}

// Buffer returns sink's buffer
func (m *Sink) Buffer() signal.Float32 {
	return m.buffer
}

// Hooks allows to mock components hooks.
type Hooks struct {
	Flushed      bool
	ErrorOnFlush error
}

// counter counts blocks and samples.
type counter struct {
	blocks  int
	samples int
}

// advance counter's metrics.
func (c *counter) advance(size int) {
	c.blocks++
	c.samples = c.samples + size
}

// Count returns blocks and samples metrics.
func (c *counter) Count() (int, int) {
	return c.blocks, c.samples
}
