// Package pcm adapts go-audio decoders and encoders to host pumps and sinks.
package pcm

import (
	"io"

	"github.com/go-audio/audio"

	"github.com/dudk/sigraph/signal"
)

// Decoder is implemented by go-audio wav and aiff decoders.
type Decoder interface {
	PCMBuffer(*audio.IntBuffer) (int, error)
}

// Encoder is implemented by go-audio wav and aiff encoders.
type Encoder interface {
	Write(*audio.IntBuffer) error
}

// Pump returns a function that reads one block from decoder and mixes all
// channels into it. It returns io.EOF when decoder is drained and
// io.ErrUnexpectedEOF with the last, partial block.
func Pump(d Decoder, format *audio.Format, bitDepth signal.BitDepth, blockSize int) func([]float32) (int, error) {
	numChannels := format.NumChannels
	ib := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, blockSize*numChannels),
		SourceBitDepth: int(bitDepth),
	}
	return func(b []float32) (int, error) {
		ib.Data = ib.Data[:len(b)*numChannels]
		readSamples, err := d.PCMBuffer(ib)
		if err != nil && err != io.EOF {
			return 0, err
		}
		if readSamples == 0 {
			return 0, io.EOF
		}
		// prune buffer to actual size
		floats := signal.InterInt{Data: ib.Data[:readSamples], NumChannels: numChannels, BitDepth: bitDepth}.AsFloat32()
		n := floats.MixDown(b)
		if n < len(b) {
			return n, io.ErrUnexpectedEOF
		}
		return n, nil
	}
}

// Sink returns a function that encodes channels with provided bit depth.
func Sink(e Encoder, sampleRate float32, numChannels int, bitDepth signal.BitDepth) func([][]float32) error {
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  int(sampleRate),
		},
		SourceBitDepth: int(bitDepth),
	}
	return func(b [][]float32) error {
		ib.Data = signal.Float32(b).AsInterInt(bitDepth)
		return e.Write(ib)
	}
}
