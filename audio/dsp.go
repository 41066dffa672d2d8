package audio

import "math"

// TwoPi is a full cycle in radians.
const TwoPi = 2 * math.Pi

// Clamp limits v to [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		v = min
	}
	if v > max {
		return max
	}
	return v
}

// MidiToFreq converts a MIDI note number to frequency in Hz, A4 = 440 Hz = 69.
func MidiToFreq(note float32) float32 {
	return float32(math.Pow(2, (float64(note)-69)/12) * 440)
}

// FreqToMidi converts a frequency in Hz to a fractional MIDI note number.
func FreqToMidi(freq float32) float32 {
	return float32(math.Log2(float64(freq)/440)*12 + 69)
}

// OnePole is a single step of one-pole low pass filter.
func OnePole(current, previous, coeff float32) float32 {
	return current + coeff*(previous-current)
}
