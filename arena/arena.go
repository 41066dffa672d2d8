// Package arena provides a fixed-capacity bump allocator.
//
// All memory of an engine instance is carved out of a single Arena while the
// graph is constructed. Allocations are never freed individually: the whole
// region is dropped at once with Release. Callers keep Handles rather than
// raw addresses, so a handle that outlives its arena is detected instead of
// silently reading released memory.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

// align is the alignment of every allocation in bytes.
const align = 8

var (
	// ErrOutOfMemory is returned when an allocation exceeds the remaining capacity.
	ErrOutOfMemory = errors.New("arena: out of memory")
	// ErrInvalidCapacity is returned when an arena is created with non-positive capacity.
	ErrInvalidCapacity = errors.New("arena: invalid capacity")
	// ErrInvalidSize is returned when a non-positive size is requested.
	ErrInvalidSize = errors.New("arena: invalid allocation size")
	// ErrInvalidHandle is returned for zero or out of range handles.
	ErrInvalidHandle = errors.New("arena: invalid handle")
	// ErrStaleHandle is returned for handles issued before the arena was released.
	ErrStaleHandle = errors.New("arena: stale handle")
	// ErrLockUnsupported is returned by Lock on platforms without mlock.
	ErrLockUnsupported = errors.New("arena: memory locking is not supported")
)

// Handle refers to a region allocated from an Arena.
// Zero value is not a valid handle.
type Handle struct {
	off  uint32
	size uint32
	gen  uint32
}

// Size returns the size of region in bytes.
func (h Handle) Size() int {
	return int(h.size)
}

// IsZero reports if handle was never issued.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// Arena is a fixed-capacity memory region with a monotonic cursor.
// It is not safe for concurrent use; it is only touched while the graph is
// built.
type Arena struct {
	words  []uint64 // backing storage, keeps 8 byte alignment
	mem    []byte
	off    int
	gen    uint32
	locked bool
}

// New creates an arena of the given capacity in bytes. Capacity is rounded
// up to the allocation alignment.
func New(capacity int) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	words := make([]uint64, (capacity+align-1)/align)
	return &Arena{
		words: words,
		mem:   unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*align),
		gen:   1,
	}, nil
}

// Cap returns capacity of the arena in bytes.
func (a *Arena) Cap() int {
	return len(a.mem)
}

// Len returns number of bytes already allocated, including alignment padding.
func (a *Arena) Len() int {
	return a.off
}

// Available returns number of bytes that can still be allocated.
func (a *Arena) Available() int {
	return len(a.mem) - a.off
}

// Alloc reserves size bytes. A failed allocation leaves the arena unchanged.
func (a *Arena) Alloc(size int) (Handle, error) {
	if size <= 0 {
		return Handle{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if a.mem == nil {
		return Handle{}, fmt.Errorf("%w: arena is released", ErrOutOfMemory)
	}
	padded := (size + align - 1) &^ (align - 1)
	if padded > a.Available() {
		return Handle{}, fmt.Errorf("%w: requested %d bytes, available %d of %d", ErrOutOfMemory, size, a.Available(), a.Cap())
	}
	h := Handle{off: uint32(a.off), size: uint32(size), gen: a.gen}
	a.off += padded
	return h, nil
}

// AllocFloat32 reserves n float32 values and returns them as a slice.
func (a *Arena) AllocFloat32(n int) (Handle, []float32, error) {
	h, err := a.Alloc(n * int(unsafe.Sizeof(float32(0))))
	if err != nil {
		return Handle{}, nil, err
	}
	s, _ := a.Float32(h)
	return h, s, nil
}

// AllocUint32 reserves n uint32 values and returns them as a slice.
func (a *Arena) AllocUint32(n int) (Handle, []uint32, error) {
	h, err := a.Alloc(n * int(unsafe.Sizeof(uint32(0))))
	if err != nil {
		return Handle{}, nil, err
	}
	s, _ := a.Uint32(h)
	return h, s, nil
}

// Bytes resolves handle into its byte region.
func (a *Arena) Bytes(h Handle) ([]byte, error) {
	if err := a.check(h); err != nil {
		return nil, err
	}
	return a.mem[h.off : h.off+h.size : h.off+h.size], nil
}

// Float32 resolves handle into a float32 slice. Trailing bytes that do not
// form a whole value are not included.
func (a *Arena) Float32(h Handle) ([]float32, error) {
	if err := a.check(h); err != nil {
		return nil, err
	}
	n := int(h.size) / int(unsafe.Sizeof(float32(0)))
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.mem[h.off])), n), nil
}

// Uint32 resolves handle into a uint32 slice.
func (a *Arena) Uint32(h Handle) ([]uint32, error) {
	if err := a.check(h); err != nil {
		return nil, err
	}
	n := int(h.size) / int(unsafe.Sizeof(uint32(0)))
	return unsafe.Slice((*uint32)(unsafe.Pointer(&a.mem[h.off])), n), nil
}

func (a *Arena) check(h Handle) error {
	switch {
	case h.IsZero():
		return ErrInvalidHandle
	case h.gen != a.gen:
		return ErrStaleHandle
	case int(h.off)+int(h.size) > a.off:
		return fmt.Errorf("%w: [%d, %d) beyond cursor %d", ErrInvalidHandle, h.off, h.off+h.size, a.off)
	}
	return nil
}

// Release drops the region. Every handle issued so far becomes stale and
// further allocations fail. Slices obtained before Release stay readable
// until they are garbage collected, but must not be used.
func (a *Arena) Release() {
	if a.locked {
		_ = a.Unlock()
	}
	a.words = nil
	a.mem = nil
	a.off = 0
	a.gen++
}
