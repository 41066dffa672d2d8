package audio

import (
	"github.com/dudk/sigraph/arena"
)

// Block is a fixed-length buffer of samples owned by the node that produces
// it. Consumers only read from it.
type Block struct {
	handle  arena.Handle
	samples []float32
}

// NewBlock allocates a block of BlockSize zero samples.
func NewBlock(a *arena.Arena, s Settings) (Block, error) {
	h, samples, err := a.AllocFloat32(s.BlockSize)
	if err != nil {
		return Block{}, err
	}
	return Block{handle: h, samples: samples}, nil
}

// NewBlockWithValue allocates a block where every sample is v.
func NewBlockWithValue(a *arena.Arena, s Settings, v float32) (Block, error) {
	b, err := NewBlock(a, s)
	if err != nil {
		return Block{}, err
	}
	b.Fill(v)
	return b, nil
}

// Handle returns arena handle of the block memory.
func (b Block) Handle() arena.Handle {
	return b.handle
}

// Len returns number of samples.
func (b Block) Len() int {
	return len(b.samples)
}

// At returns the sample at index i.
func (b Block) At(i int) float32 {
	return b.samples[i]
}

// Samples returns the underlying samples. The slice is only valid until the
// next evaluation and must not be written by anyone except the owner.
func (b Block) Samples() []float32 {
	return b.samples
}

// Fill sets all samples to v.
func (b Block) Fill(v float32) {
	for i := range b.samples {
		b.samples[i] = v
	}
}

// Silence sets all samples to zero.
func (b Block) Silence() {
	b.Fill(0)
}

// CopyTo copies samples into dst and returns number of copied samples.
func (b Block) CopyTo(dst []float32) int {
	return copy(dst, b.samples)
}
