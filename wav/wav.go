// Package wav provides a pump that feeds Input nodes from wav files and a
// sink that renders session output into wav files.
package wav

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/dudk/sigraph/internal/pcm"
	"github.com/dudk/sigraph/signal"
)

type (
	// Pump reads from wav file. Channels are mixed down to mono.
	// This component cannot be reused for consequent runs.
	Pump struct {
		path    string
		file    *os.File
		decoder *wav.Decoder
	}

	// Sink saves audio to wav file.
	Sink struct {
		path     string
		bitDepth signal.BitDepth
		format   int
		file     *os.File
		encoder  *wav.Encoder
	}
)

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 8, 16, 24 and 32 bit depth is supported")
	// ErrInvalidFile is returned when file is not a valid wav.
	ErrInvalidFile = errors.New("wav is not valid")
)

// NewPump creates a new wav pump.
func NewPump(path string) *Pump {
	return &Pump{path: path}
}

// Flush closes the file.
func (p *Pump) Flush() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// Pump opens the file. Once executed, wav attributes are accessible.
func (p *Pump) Pump(blockSize int) (func([]float32) (int, error), float32, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, 0, err
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if err := file.Close(); err != nil {
			return nil, 0, fmt.Errorf("%w, failed to close the file %v: %v", ErrInvalidFile, p.path, err)
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidFile, p.path)
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if !bitDepth.Valid() {
		file.Close()
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	p.file = file
	p.decoder = decoder
	return pcm.Pump(decoder, decoder.Format(), bitDepth, blockSize), float32(decoder.SampleRate), nil
}

// NumChannels returns number of channels in the file. It's zero until
// Pump is called.
func (p *Pump) NumChannels() int {
	if p.decoder == nil {
		return 0
	}
	return int(p.decoder.NumChans)
}

// NewSink creates new wav sink.
func NewSink(path string, bitDepth signal.BitDepth) (*Sink, error) {
	if !bitDepth.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	return &Sink{
		path:     path,
		bitDepth: bitDepth,
		format:   1,
	}, nil
}

// Flush flushes encoder.
func (s *Sink) Flush() error {
	if s.encoder == nil {
		return nil
	}
	err := s.encoder.Close()
	if err != nil {
		return err
	}
	return s.file.Close()
}

// Sink creates the file and returns new sink function.
func (s *Sink) Sink(sampleRate float32, numChannels, blockSize int) (func([][]float32) error, error) {
	f, err := os.Create(s.path)
	if err != nil {
		return nil, err
	}
	s.file = f
	s.encoder = wav.NewEncoder(f, int(sampleRate), int(s.bitDepth), numChannels, s.format)
	return pcm.Sink(s.encoder, sampleRate, numChannels, s.bitDepth), nil
}
