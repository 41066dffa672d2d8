package sigraph

import (
	"fmt"

	"github.com/dudk/sigraph/arena"
)

// DefaultListCapacity is the list capacity hosts use when nothing else is
// configured.
const DefaultListCapacity = 128

// List is an ordered, fixed-capacity sequence of nodes. Its order is the
// evaluation order: every node appears after the producers of its bound
// inputs. Slots hold node ids and are allocated from the engine arena.
type List struct {
	engine *Engine
	handle arena.Handle
	slots  []uint32
	count  int
	frozen bool
}

// NewList allocates a list with fixed capacity.
func (e *Engine) NewList(capacity int) (*List, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: list capacity %d", arena.ErrInvalidCapacity, capacity)
	}
	h, slots, err := e.arena.AllocUint32(capacity)
	if err != nil {
		return nil, fmt.Errorf("allocate list of %d: %w", capacity, err)
	}
	e.log.Debug(fmt.Sprintf("%v: new list of %d", e, capacity))
	return &List{
		engine: e,
		handle: h,
		slots:  slots,
	}, nil
}

// Append adds node to the end of the list. All bound inputs of the node
// must be produced by nodes already in the list. Failed append leaves the
// list unchanged.
func (l *List) Append(n *Node) error {
	switch {
	case n == nil:
		return fmt.Errorf("append nil node: %w", ErrForeignNode)
	case l.engine.closed:
		return ErrClosed
	case n.engine != l.engine:
		return fmt.Errorf("append %v: %w", n, ErrForeignNode)
	case l.frozen:
		return fmt.Errorf("append %v: %w", n, ErrListFrozen)
	case n.list != nil:
		return fmt.Errorf("append %v: %w", n, ErrAlreadyListed)
	case l.count == len(l.slots):
		return fmt.Errorf("append %v: %w: list of %d is full", n, ErrCapacityExceeded, len(l.slots))
	}
	if err := l.checkInputs(n); err != nil {
		return err
	}
	l.slots[l.count] = uint32(n.id)
	n.list, n.pos = l, l.count
	l.count++
	l.engine.log.Debug(fmt.Sprintf("%v: appended %v at %d", l.engine, n, n.pos))
	return nil
}

// checkInputs verifies that producers of all bound inputs of n are in the
// list before position of n. Unlisted n is checked against the list end.
func (l *List) checkInputs(n *Node) error {
	pos := n.pos
	if n.list == nil {
		pos = l.count
	}
	d := &descriptors[n.kind]
	for i := range d.inputs {
		in := n.inputs[i]
		if !in.bound {
			continue
		}
		src := &l.engine.nodes[in.from]
		if src.list != l || src.pos >= pos {
			return n.bindError(d.inputs[i], src, ErrDependencyOrder)
		}
	}
	return nil
}

// Len returns number of nodes in the list.
func (l *List) Len() int {
	return l.count
}

// Cap returns list capacity.
func (l *List) Cap() int {
	return len(l.slots)
}

// At returns node at position i.
func (l *List) At(i int) *Node {
	if i < 0 || i >= l.count {
		return nil
	}
	return &l.engine.nodes[l.slots[i]]
}

// Nodes returns nodes in evaluation order.
func (l *List) Nodes() []*Node {
	nodes := make([]*Node, l.count)
	for i := range nodes {
		nodes[i] = l.At(i)
	}
	return nodes
}

// Frozen reports if an evaluator was built from the list.
func (l *List) Frozen() bool {
	return l.frozen
}

// Engine returns the engine list belongs to.
func (l *List) Engine() *Engine {
	return l.engine
}

// Validate checks the producer-before-consumer order of every node. Inputs
// can be rebound after append, so it's checked again before evaluation.
func (l *List) Validate() error {
	for i := 0; i < l.count; i++ {
		if err := l.checkInputs(l.At(i)); err != nil {
			return err
		}
	}
	return nil
}
