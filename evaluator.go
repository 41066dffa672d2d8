package sigraph

import "fmt"

// Evaluator drives one list. Every call to Evaluate processes exactly one
// block period.
type Evaluator struct {
	list  *List
	nodes []*Node
}

// NewEvaluator validates the list order and freezes the list. Nodes can't
// be appended to the list afterwards.
func NewEvaluator(l *List) (*Evaluator, error) {
	if l.engine.closed {
		return nil, ErrClosed
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.frozen = true
	l.engine.log.Debug(fmt.Sprintf("%v: evaluator for %d nodes", l.engine, l.count))
	return &Evaluator{
		list:  l,
		nodes: l.Nodes(),
	}, nil
}

// Evaluate generates every node of the list once, in list order. It doesn't
// allocate and can't fail. Evaluating a closed engine is a no-op.
func (ev *Evaluator) Evaluate() {
	if ev.list.engine.closed {
		return
	}
	for _, n := range ev.nodes {
		n.generate()
	}
}

// List returns the evaluated list.
func (ev *Evaluator) List() *List {
	return ev.list
}
