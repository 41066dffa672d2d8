// Package signal provides an API to convert host sample buffers. It allows to:
// 	- convert interleaved int data to non-interleaved float32 and back
//	- convert bit depth for int signals
//	- interleave and mix down float32 channels
package signal

import (
	"math"
	"time"
)

// Float32 is a non-interleaved float32 signal.
type Float32 [][]float32

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// InterInt is an interleaved int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// BitDepth contains values required for int-to-float and backward conversion.
type BitDepth int

// divider is used when int to float conversion is done.
func (bitDepth BitDepth) divider() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth24:
		return 1<<23 - 2
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// Valid reports if bit depth is supported.
func (bitDepth BitDepth) Valid() bool {
	switch bitDepth {
	case BitDepth8, BitDepth16, BitDepth24, BitDepth32:
		return true
	}
	return false
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate float32, samples int64) time.Duration {
	return time.Duration(float64(samples) * float64(time.Second) / float64(sampleRate))
}

// AsFloat32 converts interleaved int signal to float32.
func (ints InterInt) AsFloat32() Float32 {
	if ints.Data == nil || ints.NumChannels == 0 {
		return nil
	}
	floats := make([][]float32, ints.NumChannels)
	bufSize := int(math.Ceil(float64(len(ints.Data)) / float64(ints.NumChannels)))

	divider := float32(ints.BitDepth.divider())
	for i := range floats {
		floats[i] = make([]float32, bufSize)
		pos := 0
		for j := i; j < len(ints.Data); j = j + ints.NumChannels {
			floats[i][pos] = float32(ints.Data[j]) / divider
			pos++
		}
	}
	return floats
}

// AsInterInt converts float32 signal to interleaved int. Samples are
// clipped to [-1, 1] when bit depth is set.
func (floats Float32) AsInterInt(bitDepth BitDepth) []int {
	var numChannels int
	if numChannels = len(floats); numChannels == 0 {
		return nil
	}

	multiplier := float64(bitDepth.multiplier())
	ints := make([]int, floats.Size()*numChannels)
	for j := range floats {
		for i := range floats[j] {
			v := float64(floats[j][i])
			if bitDepth.Valid() {
				v = math.Max(-1, math.Min(1, v))
			}
			ints[i*numChannels+j] = int(v * multiplier)
		}
	}
	return ints
}

// Interleave writes channels into interleaved slice. It returns number of
// written frames.
func (floats Float32) Interleave(dst []float32) int {
	numChannels := len(floats)
	if numChannels == 0 {
		return 0
	}
	frames := floats.Size()
	if n := len(dst) / numChannels; n < frames {
		frames = n
	}
	for j := range floats {
		for i := 0; i < frames && i < len(floats[j]); i++ {
			dst[i*numChannels+j] = floats[j][i]
		}
	}
	return frames
}

// MixDown averages channels into dst. It returns number of written samples.
func (floats Float32) MixDown(dst []float32) int {
	numChannels := len(floats)
	if numChannels == 0 {
		return 0
	}
	n := floats.Size()
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		var sum float32
		for j := range floats {
			if i < len(floats[j]) {
				sum += floats[j][i]
			}
		}
		dst[i] = sum / float32(numChannels)
	}
	return n
}

// EmptyFloat32 returns an empty buffer of specified dimensions.
func EmptyFloat32(numChannels int, bufferSize int) Float32 {
	result := make([][]float32, numChannels)
	for i := range result {
		result[i] = make([]float32, bufferSize)
	}
	return result
}

// NumChannels returns number of channels in this sample slice
func (floats Float32) NumChannels() int {
	return len(floats)
}

// Size returns number of samples in single block in this sample slice
func (floats Float32) Size() int {
	if floats.NumChannels() == 0 {
		return 0
	}
	return len(floats[0])
}

// Append buffers set to existing one one
// new buffer is returned if b is nil
func (floats Float32) Append(source Float32) Float32 {
	if floats == nil {
		floats = make([][]float32, source.NumChannels())
		for i := range floats {
			floats[i] = make([]float32, 0, source.Size())
		}
	}
	for i := range source {
		floats[i] = append(floats[i], source[i]...)
	}
	return floats
}
