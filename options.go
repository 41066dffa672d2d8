package sigraph

import (
	"fmt"

	"github.com/dudk/sigraph/arena"
)

// Option provides a way to set functional parameters to engine.
type Option func(e *Engine) error

// WithLogger sets logger to engine. If this option is not provided, silent logger is used.
func WithLogger(logger Logger) Option {
	return func(e *Engine) error {
		e.log = logger
		return nil
	}
}

// WithName sets name to engine.
func WithName(n string) Option {
	return func(e *Engine) error {
		e.name = n
		return nil
	}
}

// WithArenaSize sets the arena capacity in bytes.
func WithArenaSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return fmt.Errorf("%w: %d", arena.ErrInvalidCapacity, size)
		}
		e.arenaSize = size
		return nil
	}
}

// WithMaxNodes sets the size of the node table.
func WithMaxNodes(n int) Option {
	return func(e *Engine) error {
		if n <= 0 {
			return fmt.Errorf("%w: max nodes %d", arena.ErrInvalidCapacity, n)
		}
		e.maxNodes = n
		return nil
	}
}

// WithArena makes engine allocate from provided arena. The engine takes
// ownership: Close releases the arena.
func WithArena(a *arena.Arena) Option {
	return func(e *Engine) error {
		if a == nil || a.Cap() == 0 {
			return fmt.Errorf("%w: empty arena", arena.ErrInvalidCapacity)
		}
		e.arena = a
		return nil
	}
}
