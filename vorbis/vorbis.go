// Package vorbis provides a pump that feeds Input nodes from ogg vorbis
// files. Channels are mixed down to mono.
package vorbis

import (
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"

	"github.com/dudk/sigraph/signal"
)

// oggReader is implemented by oggvorbis.Reader.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// Pump allows to read ogg vorbis files.
type Pump struct {
	path string
	f    *os.File
}

// NewPump creates new vorbis Pump.
func NewPump(path string) *Pump {
	return &Pump{path: path}
}

// Pump opens the file and returns pump function.
func (p *Pump) Pump(blockSize int) (func([]float32) (int, error), float32, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, 0, err
	}
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	p.f = f
	return pump(r, blockSize), float32(r.SampleRate()), nil
}

// pump reads whole blocks of frames. Reader may return less values than
// requested, so it's called until the block is full or stream is over.
func pump(r oggReader, blockSize int) func([]float32) (int, error) {
	numChannels := r.Channels()
	inter := make([]float32, blockSize*numChannels)
	channels := signal.EmptyFloat32(numChannels, blockSize)
	return func(b []float32) (int, error) {
		values := len(b) * numChannels
		read := 0
		var err error
		for read < values && err == nil {
			var n int
			n, err = r.Read(inter[read:values])
			read += n
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		frames := read / numChannels
		if frames == 0 {
			return 0, io.EOF
		}
		for i := 0; i < frames; i++ {
			for j := range channels {
				channels[j][i] = inter[i*numChannels+j]
			}
		}
		for j := range channels {
			channels[j] = channels[j][:frames]
		}
		channels.MixDown(b)
		for j := range channels {
			channels[j] = channels[j][:blockSize]
		}
		if frames < len(b) {
			return frames, io.ErrUnexpectedEOF
		}
		return frames, nil
	}
}

// Flush closes the file.
func (p *Pump) Flush() error {
	if p.f == nil {
		return nil
	}
	return p.f.Close()
}
