package host

import (
	"errors"
	"fmt"

	"github.com/dudk/sigraph"
)

// DefaultMutationBuffer is the number of mutations that can be pending
// between two evaluation periods.
const DefaultMutationBuffer = 64

// ErrMutationOverflow is returned when mutations are pushed faster than
// session processes them.
var ErrMutationOverflow = errors.New("mutation buffer is full")

// Mutation changes a node parameter between evaluation periods.
type Mutation struct {
	Node  *sigraph.Node
	Param string
	Value float32
}

func (m Mutation) String() string {
	return fmt.Sprintf("%v.%v=%v", m.Node, m.Param, m.Value)
}

// mutations is a set of pending mutations mapped to their nodes.
type mutations map[sigraph.NodeID][]Mutation

// put appends mutation to the set.
func (ms mutations) put(m Mutation) mutations {
	if ms == nil {
		return mutations{m.Node.ID(): {m}}
	}
	ms[m.Node.ID()] = append(ms[m.Node.ID()], m)
	return ms
}

// applyTo consumes mutations defined for the node. They're applied in
// order they were pushed.
func (ms mutations) applyTo(n *sigraph.Node) error {
	if ms == nil {
		return nil
	}
	if pending, ok := ms[n.ID()]; ok {
		for _, m := range pending {
			if err := n.SetParam(m.Param, m.Value); err != nil {
				return err
			}
		}
		delete(ms, n.ID())
	}
	return nil
}

// Push schedules mutations to be applied before the next evaluation. It is
// safe to call from any goroutine. Mutations are validated here, so
// processing never fails because of them.
func (s *Session) Push(ms ...Mutation) error {
	for _, m := range ms {
		if m.Node == nil || m.Node.Engine() != s.engine {
			return fmt.Errorf("%v: mutation %q: %w", s, m.Param, sigraph.ErrForeignNode)
		}
		if !hasParam(m.Node.Kind(), m.Param) {
			return fmt.Errorf("%v: mutation %v: %w", s, m, sigraph.ErrUnknownParam)
		}
		select {
		case s.mutationc <- m:
		default:
			return fmt.Errorf("%v: mutation %v: %w", s, m, ErrMutationOverflow)
		}
	}
	return nil
}

// mutate drains pushed mutations and applies them.
func (s *Session) mutate() error {
	for {
		select {
		case m := <-s.mutationc:
			s.pending = s.pending.put(m)
		default:
			for id := range s.pending {
				if err := s.pending.applyTo(s.engine.Node(id)); err != nil {
					return fmt.Errorf("%v: %w", s, err)
				}
			}
			return nil
		}
	}
}

func hasParam(k sigraph.Kind, name string) bool {
	for _, p := range k.Params() {
		if p == name {
			return true
		}
	}
	return false
}
