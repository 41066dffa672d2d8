// Package audio contains the session settings and the sample blocks
// exchanged between signal nodes.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSettings is returned when settings can't be used to build a graph.
var ErrInvalidSettings = errors.New("invalid audio settings")

// Settings holds the configuration of one audio session. Settings are
// immutable once nodes were created with them.
type Settings struct {
	// SampleRate in samples per second.
	SampleRate float32 `yaml:"sampleRate"`
	// BlockSize is a number of frames processed per evaluation.
	BlockSize int `yaml:"blockSize"`
	// NumChannels is a number of output channels.
	NumChannels int `yaml:"numChannels"`
}

// DefaultSettings is 48 kHz mono with a block of 48 samples.
var DefaultSettings = Settings{
	SampleRate:  48000,
	BlockSize:   48,
	NumChannels: 1,
}

// Validate checks that all values are positive and finite.
func (s Settings) Validate() error {
	sr := float64(s.SampleRate)
	switch {
	case math.IsNaN(sr) || math.IsInf(sr, 0) || sr <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrInvalidSettings, s.SampleRate)
	case s.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidSettings, s.BlockSize)
	case s.NumChannels <= 0:
		return fmt.Errorf("%w: number of channels %d", ErrInvalidSettings, s.NumChannels)
	}
	return nil
}

// SecondsToSamples returns the number of samples in duration, rounded to
// the nearest sample. Negative durations are treated as positive.
func (s Settings) SecondsToSamples(seconds float32) int {
	n := math.Round(float64(s.SampleRate) * float64(seconds))
	return int(math.Abs(n))
}

// BlockDuration is the time span of one block.
func (s Settings) BlockDuration() time.Duration {
	return time.Duration(float64(s.BlockSize) * float64(time.Second) / float64(s.SampleRate))
}

func (s Settings) String() string {
	return fmt.Sprintf("%vHz/%d frames/%dch", s.SampleRate, s.BlockSize, s.NumChannels)
}
