// Package view exposes audio blocks to hosts as typed, bounds-checked,
// read-only views.
package view

import (
	"errors"
	"fmt"

	"github.com/dudk/sigraph/audio"
)

// ErrUnsupportedViewType is returned when the requested element type
// doesn't match the element type of the block.
var ErrUnsupportedViewType = errors.New("unsupported view type")

// ElemType is an element type a host can request a view of.
type ElemType uint8

// Element types with names of host typed arrays.
const (
	Int8 ElemType = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
)

var elemTypes = map[string]ElemType{
	"int8":    Int8,
	"uint8":   Uint8,
	"int16":   Int16,
	"uint16":  Uint16,
	"int32":   Int32,
	"uint32":  Uint32,
	"float32": Float32,
}

// BlockType is the element type of every audio block.
const BlockType = Float32

// ParseElemType returns element type by its name.
func ParseElemType(name string) (ElemType, error) {
	if t, ok := elemTypes[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedViewType, name)
}

func (t ElemType) String() string {
	for name, v := range elemTypes {
		if v == t {
			return name
		}
	}
	return fmt.Sprintf("elemtype(%d)", uint8(t))
}

// Size returns size of the element in bytes.
func (t ElemType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	}
	return 0
}

// View is a read-only view of block samples.
type View struct {
	samples []float32
	elem    ElemType
}

// New creates a view of the block. Only views of the block element type
// are supported.
func New(b audio.Block, t ElemType) (View, error) {
	if t != BlockType {
		return View{}, fmt.Errorf("%w: %v view of %v block", ErrUnsupportedViewType, t, BlockType)
	}
	return View{samples: b.Samples(), elem: t}, nil
}

// Of creates a view of the block for element type name.
func Of(b audio.Block, name string) (View, error) {
	t, err := ParseElemType(name)
	if err != nil {
		return View{}, err
	}
	return New(b, t)
}

// Len returns number of elements.
func (v View) Len() int {
	return len(v.samples)
}

// Type returns element type.
func (v View) Type() ElemType {
	return v.elem
}

// At returns element at index i. Index out of range fails.
func (v View) At(i int) (float32, error) {
	if i < 0 || i >= len(v.samples) {
		return 0, fmt.Errorf("view index %d out of range [0, %d)", i, len(v.samples))
	}
	return v.samples[i], nil
}

// CopyTo copies elements into dst and returns number of copied elements.
func (v View) CopyTo(dst []float32) int {
	return copy(dst, v.samples)
}
