// Package mp3 provides a pump that feeds Input nodes from mp3 files and a
// sink that renders session output into mp3 files.
package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
	"github.com/viert/lame"

	"github.com/dudk/sigraph/signal"
)

// decoded mp3 is always 16 bit stereo.
const (
	numChannels    = 2
	bytesPerSample = 2
)

// ErrUnsupportedChannels is returned when sink gets more than two channels.
var ErrUnsupportedChannels = errors.New("only mono and stereo are supported")

// Pump allows to read mp3 files. Channels are mixed down to mono.
type Pump struct {
	path string
	f    *os.File
	d    *mp3.Decoder
}

// NewPump creates new mp3 Pump.
func NewPump(path string) *Pump {
	return &Pump{path: path}
}

// Pump opens the file and returns pump function.
func (p *Pump) Pump(blockSize int) (func([]float32) (int, error), float32, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, 0, err
	}
	d, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	p.f, p.d = f, d

	raw := make([]byte, blockSize*numChannels*bytesPerSample)
	ints := make([]int, blockSize*numChannels)
	return func(b []float32) (int, error) {
		n, err := io.ReadFull(p.d, raw[:len(b)*numChannels*bytesPerSample])
		switch err {
		case nil, io.ErrUnexpectedEOF:
		default:
			return 0, err
		}
		samples := n / bytesPerSample
		frames := samples / numChannels
		if frames == 0 {
			return 0, io.EOF
		}
		for i := 0; i < frames*numChannels; i++ {
			ints[i] = int(int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:])))
		}
		floats := signal.InterInt{Data: ints[:frames*numChannels], NumChannels: numChannels, BitDepth: signal.BitDepth16}.AsFloat32()
		floats.MixDown(b)
		if frames < len(b) {
			return frames, io.ErrUnexpectedEOF
		}
		return frames, nil
	}, float32(d.SampleRate()), nil
}

// Flush closes the file.
func (p *Pump) Flush() error {
	if p.f == nil {
		return nil
	}
	return p.f.Close()
}

// Sink allows to send data to mp3 files.
type Sink struct {
	path    string
	bitRate int
	quality int
	f       *os.File
	wr      *lame.LameWriter
}

// NewSink creates new Sink.
func NewSink(path string, bitRate int, quality int) *Sink {
	return &Sink{
		path:    path,
		bitRate: bitRate,
		quality: quality,
	}
}

// Sink creates the file and returns sink function.
func (s *Sink) Sink(sampleRate float32, numChannels, blockSize int) (func([][]float32) error, error) {
	if numChannels > 2 {
		return nil, ErrUnsupportedChannels
	}
	var err error
	s.f, err = os.Create(s.path)
	if err != nil {
		return nil, err
	}

	s.wr = lame.NewWriter(s.f)
	s.wr.Encoder.SetBitrate(s.bitRate)
	s.wr.Encoder.SetQuality(s.quality)
	s.wr.Encoder.SetNumChannels(numChannels)
	s.wr.Encoder.SetInSamplerate(int(sampleRate))
	if numChannels == 2 {
		s.wr.Encoder.SetMode(lame.JOINT_STEREO)
	}
	s.wr.Encoder.SetVBR(lame.VBR_RH)
	s.wr.Encoder.InitParams()

	buf := bytes.NewBuffer(make([]byte, 0, blockSize*numChannels*bytesPerSample))
	return func(b [][]float32) error {
		buf.Reset()
		ints := signal.Float32(b).AsInterInt(signal.BitDepth16)
		for i := range ints {
			if err := binary.Write(buf, binary.LittleEndian, int16(ints[i])); err != nil {
				return err
			}
		}
		if _, err := s.wr.Write(buf.Bytes()); err != nil {
			return err
		}
		return nil
	}, nil
}

// Flush cleans up buffers.
func (s *Sink) Flush() error {
	if s.wr == nil {
		return nil
	}
	err := s.wr.Close()
	if err != nil {
		return err
	}
	return s.f.Close()
}
