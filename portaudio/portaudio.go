// Package portaudio plays session output on the default output device and
// captures the default input device into an Input node.
package portaudio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/dudk/sigraph/signal"
)

type (
	// Sink represents portaudio sink which allows to play audio using default device.
	Sink struct {
		buf    []float32
		stream *portaudio.Stream
	}

	// Pump captures mono signal from default input device.
	Pump struct {
		sampleRate float32
		buf        []float32
		stream     *portaudio.Stream
	}
)

// NewSink returns new sink which allows to play session output.
func NewSink() *Sink {
	return &Sink{}
}

// Sink writes the buffer of data to portaudio stream.
// It also initializes a portaudio api with default stream.
func (s *Sink) Sink(sampleRate float32, numChannels, blockSize int) (func([][]float32) error, error) {
	s.buf = make([]float32, blockSize*numChannels)
	err := portaudio.Initialize()
	if err != nil {
		return nil, err
	}
	s.stream, err = portaudio.OpenDefaultStream(0, numChannels, float64(sampleRate), blockSize, &s.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	err = s.stream.Start()
	if err != nil {
		return nil, err
	}
	return func(b [][]float32) error {
		signal.Float32(b).Interleave(s.buf)
		return s.stream.Write()
	}, nil
}

// Flush terminates portaudio structures.
func (s *Sink) Flush() error {
	if s.stream == nil {
		return nil
	}
	return closeStream(s.stream)
}

// NewPump returns new pump which captures default input device. Sample rate
// should match the engine settings.
func NewPump(sampleRate float32) *Pump {
	return &Pump{sampleRate: sampleRate}
}

// Pump opens the input stream. It never returns io.EOF.
func (p *Pump) Pump(blockSize int) (func([]float32) (int, error), float32, error) {
	p.buf = make([]float32, blockSize)
	err := portaudio.Initialize()
	if err != nil {
		return nil, 0, err
	}
	p.stream, err = portaudio.OpenDefaultStream(1, 0, float64(p.sampleRate), blockSize, &p.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, 0, err
	}
	if err = p.stream.Start(); err != nil {
		return nil, 0, err
	}
	return func(b []float32) (int, error) {
		if err := p.stream.Read(); err != nil {
			return 0, err
		}
		return copy(b, p.buf), nil
	}, p.sampleRate, nil
}

// Flush terminates portaudio structures.
func (p *Pump) Flush() error {
	if p.stream == nil {
		return nil
	}
	return closeStream(p.stream)
}

func closeStream(s *portaudio.Stream) error {
	err := s.Stop()
	if err != nil {
		return err
	}
	err = s.Close()
	if err != nil {
		return err
	}
	return portaudio.Terminate()
}
