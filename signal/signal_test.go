package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/sigraph/signal"
)

func TestInterIntAsFloat32(t *testing.T) {
	tests := []struct {
		ints        []int
		numChannels int
		bitDepth    signal.BitDepth
		expected    [][]float32
	}{
		{
			ints:        []int{1, 2, 1, 2, 1, 2, 1, 2},
			numChannels: 2,
			expected: [][]float32{
				{1, 1, 1, 1},
				{2, 2, 2, 2},
			},
		},
		{
			ints:        []int{1, 2, 1, 2, 1},
			numChannels: 2,
			expected: [][]float32{
				{1, 1, 1},
				{2, 2, 0},
			},
		},
		{
			ints:        []int{math.MaxInt16, -math.MaxInt16},
			numChannels: 2,
			bitDepth:    signal.BitDepth16,
			expected: [][]float32{
				{1},
				{-1},
			},
		},
		{
			ints:     nil,
			expected: nil,
		},
		{
			ints:     []int{1, 2, 3},
			expected: nil,
		},
	}

	for _, test := range tests {
		ints := signal.InterInt{
			Data:        test.ints,
			NumChannels: test.numChannels,
			BitDepth:    test.bitDepth,
		}
		result := ints.AsFloat32()
		assert.Equal(t, len(test.expected), len(result))
		for i := range test.expected {
			assert.Equal(t, test.expected[i], result[i])
		}
	}
}

func TestFloat32AsInterInt(t *testing.T) {
	tests := []struct {
		floats   signal.Float32
		bitDepth signal.BitDepth
		expected []int
	}{
		{
			floats: signal.Float32{
				{1, 1, 1},
				{2, 2, 2},
			},
			expected: []int{1, 2, 1, 2, 1, 2},
		},
		{
			floats: signal.Float32{
				{1, 0.5},
				{2, -1},
			},
			bitDepth: signal.BitDepth16,
			expected: []int{math.MaxInt16 - 1, math.MaxInt16 - 1, (math.MaxInt16 - 1) / 2, -(math.MaxInt16 - 1)},
		},
		{
			floats:   nil,
			expected: nil,
		},
		{
			floats:   signal.Float32{{}, {}},
			expected: []int{},
		},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.floats.AsInterInt(test.bitDepth))
	}
}

func TestInterleave(t *testing.T) {
	floats := signal.Float32{
		{1, 2, 3},
		{-1, -2, -3},
	}
	dst := make([]float32, 6)
	assert.Equal(t, 3, floats.Interleave(dst))
	assert.Equal(t, []float32{1, -1, 2, -2, 3, -3}, dst)

	short := make([]float32, 4)
	assert.Equal(t, 2, floats.Interleave(short))
	assert.Equal(t, []float32{1, -1, 2, -2}, short)

	assert.Equal(t, 0, signal.Float32(nil).Interleave(dst))
}

func TestMixDown(t *testing.T) {
	floats := signal.Float32{
		{1, 0.5, 0},
		{0, 0.5, -1},
	}
	dst := make([]float32, 4)
	assert.Equal(t, 3, floats.MixDown(dst))
	assert.Equal(t, []float32{0.5, 0.5, -0.5, 0}, dst)
	assert.Equal(t, 0, signal.Float32(nil).MixDown(dst))
}

func TestBuffers(t *testing.T) {
	var s signal.Float32
	assert.Equal(t, 0, s.NumChannels())
	assert.Equal(t, 0, s.Size())

	s = s.Append(signal.EmptyFloat32(2, 512))
	assert.Equal(t, 2, s.NumChannels())
	assert.Equal(t, 512, s.Size())
	s = s.Append(signal.EmptyFloat32(2, 128))
	assert.Equal(t, 640, s.Size())
}

func TestDurationOf(t *testing.T) {
	var tests = []struct {
		sampleRate float32
		samples    int64
		expected   time.Duration
	}{
		{
			sampleRate: 44100,
			samples:    44100,
			expected:   1 * time.Second,
		},
		{
			sampleRate: 44100,
			samples:    22050,
			expected:   500 * time.Millisecond,
		},
		{
			sampleRate: 48000,
			samples:    48,
			expected:   time.Millisecond,
		},
	}
	for _, c := range tests {
		assert.Equal(t, c.expected, signal.DurationOf(c.sampleRate, c.samples))
	}
	assert.True(t, signal.BitDepth24.Valid())
	assert.False(t, signal.BitDepth(12).Valid())
}
