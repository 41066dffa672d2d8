// Package aiff provides a pump that feeds Input nodes from aiff files and a
// sink that renders session output into aiff files.
package aiff

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/aiff"

	"github.com/dudk/sigraph/internal/pcm"
	"github.com/dudk/sigraph/signal"
)

var (
	// ErrInvalidFile is returned when file is not a valid aiff.
	ErrInvalidFile = errors.New("aiff is not valid")
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 8, 16, 24 and 32 bit depth is supported")
)

// Pump reads from aiff file. Channels are mixed down to mono.
type Pump struct {
	path    string
	file    *os.File
	decoder *aiff.Decoder
}

// NewPump creates a new aiff pump.
func NewPump(path string) *Pump {
	return &Pump{path: path}
}

// Pump opens the file and returns pump function.
func (p *Pump) Pump(blockSize int) (func([]float32) (int, error), float32, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, 0, err
	}
	decoder := aiff.NewDecoder(file)
	if !decoder.IsValidFile() {
		file.Close()
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidFile, p.path)
	}
	decoder.ReadInfo()
	bitDepth := signal.BitDepth(decoder.BitDepth)
	format := decoder.Format()
	if format == nil || !bitDepth.Valid() {
		file.Close()
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	p.file, p.decoder = file, decoder
	return pcm.Pump(decoder, format, bitDepth, blockSize), float32(format.SampleRate), nil
}

// Flush closes the file.
func (p *Pump) Flush() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// Sink saves audio to aiff file.
type Sink struct {
	path     string
	bitDepth signal.BitDepth
	file     *os.File
	encoder  *aiff.Encoder
}

// NewSink creates new aiff sink.
func NewSink(path string, bitDepth signal.BitDepth) (*Sink, error) {
	if !bitDepth.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	return &Sink{path: path, bitDepth: bitDepth}, nil
}

// Sink creates the file and returns new sink function.
func (s *Sink) Sink(sampleRate float32, numChannels, blockSize int) (func([][]float32) error, error) {
	f, err := os.Create(s.path)
	if err != nil {
		return nil, err
	}
	s.file = f
	s.encoder = aiff.NewEncoder(f, int(sampleRate), int(s.bitDepth), numChannels)
	return pcm.Sink(s.encoder, sampleRate, numChannels, s.bitDepth), nil
}

// Flush writes the header and closes the file.
func (s *Sink) Flush() error {
	if s.encoder == nil {
		return nil
	}
	if err := s.encoder.Close(); err != nil {
		return err
	}
	return s.file.Close()
}
