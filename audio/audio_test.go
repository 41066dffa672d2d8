package audio_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/sigraph/arena"
	"github.com/dudk/sigraph/audio"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		settings audio.Settings
		valid    bool
	}{
		{settings: audio.DefaultSettings, valid: true},
		{settings: audio.Settings{SampleRate: 44100, BlockSize: 512, NumChannels: 2}, valid: true},
		{settings: audio.Settings{SampleRate: 0, BlockSize: 512, NumChannels: 2}},
		{settings: audio.Settings{SampleRate: float32(math.NaN()), BlockSize: 512, NumChannels: 2}},
		{settings: audio.Settings{SampleRate: float32(math.Inf(1)), BlockSize: 512, NumChannels: 2}},
		{settings: audio.Settings{SampleRate: 44100, BlockSize: 0, NumChannels: 2}},
		{settings: audio.Settings{SampleRate: 44100, BlockSize: 512, NumChannels: 0}},
	}
	for _, test := range tests {
		err := test.settings.Validate()
		if test.valid {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, audio.ErrInvalidSettings, test.settings.String())
		}
	}
}

func TestSettingsDurations(t *testing.T) {
	s := audio.Settings{SampleRate: 48000, BlockSize: 48, NumChannels: 1}
	assert.Equal(t, time.Millisecond, s.BlockDuration())
	assert.Equal(t, 48000, s.SecondsToSamples(1))
	assert.Equal(t, 24000, s.SecondsToSamples(-0.5))
	assert.Equal(t, 1, s.SecondsToSamples(0.00002))
}

func TestBlock(t *testing.T) {
	a, err := arena.New(1024)
	require.NoError(t, err)
	s := audio.Settings{SampleRate: 44100, BlockSize: 16, NumChannels: 1}

	b, err := audio.NewBlock(a, s)
	require.NoError(t, err)
	assert.Equal(t, 16, b.Len())
	for i := 0; i < b.Len(); i++ {
		assert.Equal(t, float32(0), b.At(i))
	}

	v, err := audio.NewBlockWithValue(a, s, 0.25)
	require.NoError(t, err)
	for _, sample := range v.Samples() {
		assert.Equal(t, float32(0.25), sample)
	}
	// blocks don't share memory
	b.Fill(1)
	assert.Equal(t, float32(0.25), v.At(0))

	dst := make([]float32, 4)
	assert.Equal(t, 4, b.CopyTo(dst))
	assert.Equal(t, []float32{1, 1, 1, 1}, dst)

	b.Silence()
	assert.Equal(t, float32(0), b.At(15))

	resolved, err := a.Float32(v.Handle())
	require.NoError(t, err)
	assert.Equal(t, v.Samples(), resolved)
}

func TestBlockOutOfMemory(t *testing.T) {
	a, err := arena.New(32)
	require.NoError(t, err)
	_, err = audio.NewBlock(a, audio.Settings{SampleRate: 44100, BlockSize: 64, NumChannels: 1})
	assert.ErrorIs(t, err, arena.ErrOutOfMemory)
}

func TestDSP(t *testing.T) {
	assert.Equal(t, float32(0), audio.Clamp(-1, 0, 1))
	assert.Equal(t, float32(1), audio.Clamp(2, 0, 1))
	assert.Equal(t, float32(0.5), audio.Clamp(0.5, 0, 1))

	assert.InDelta(t, 440, audio.MidiToFreq(69), 1e-4)
	assert.InDelta(t, 261.6256, audio.MidiToFreq(60), 0.005)
	assert.InDelta(t, 8.176, audio.MidiToFreq(0), 0.005)
	assert.InDelta(t, 69, audio.FreqToMidi(440), 1e-4)
	assert.InDelta(t, 60, audio.FreqToMidi(261.6256), 0.005)

	assert.Equal(t, float32(1), audio.OnePole(1, 1, 0.5))
	assert.Equal(t, float32(0.5), audio.OnePole(1, 0, 0.5))
}
