package sigraph

import (
	"fmt"

	"github.com/dudk/sigraph/audio"
)

// NodeID identifies a node within its engine.
type NodeID uint32

// binding is an input slot. Unbound inputs point to the engine silence.
type binding struct {
	bound   bool
	from    NodeID
	port    uint8
	samples []float32
}

// Node is a unit of the graph. It's a tagged variant: kind selects which
// parameters, inputs and state are meaningful and how the output is
// generated.
type Node struct {
	engine *Engine
	id     NodeID
	kind   Kind

	// position in the list the node was appended to
	list *List
	pos  int

	params  [maxParams]float32
	inputs  [maxInputs]binding
	outputs [maxOutputs]audio.Block

	phase   float64 // Sine
	prev    float32 // previous OnePole sample, trigger, gate or reset
	last    float32 // Value last broadcast value
	acc     float32 // Accumulate sum, TimedGate gate value
	open    bool    // ToggleGate
	started bool    // Accumulate

	// timers count samples
	timer   int  // TimedGate remaining, GatedTimer and TimedTriggerCounter elapsed
	count   int  // TimedTriggerCounter
	running bool // GatedTimer fired, TimedTriggerCounter active
}

// Output refers to one of the node outputs.
type Output struct {
	node *Node
	port uint8
}

// ID returns node id.
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns node kind.
func (n *Node) Kind() Kind {
	return n.kind
}

// Engine returns the engine node was created with.
func (n *Node) Engine() *Engine {
	return n.engine
}

// Listed reports if node was appended to a list.
func (n *Node) Listed() bool {
	return n.list != nil
}

// List returns the list node was appended to or nil.
func (n *Node) List() *List {
	return n.list
}

func (n *Node) String() string {
	return fmt.Sprintf("%v#%d", n.kind, n.id)
}

// SetParam sets a parameter value. The value is picked up at the start of
// the next generation of this node.
func (n *Node) SetParam(name string, v float32) error {
	i := descriptors[n.kind].param(name)
	if i < 0 {
		return fmt.Errorf("%v: %w %q", n, ErrUnknownParam, name)
	}
	n.params[i] = v
	return nil
}

// Param returns current parameter value.
func (n *Node) Param(name string) (float32, error) {
	i := descriptors[n.kind].param(name)
	if i < 0 {
		return 0, fmt.Errorf("%v: %w %q", n, ErrUnknownParam, name)
	}
	return n.params[i], nil
}

// Output returns output by name.
func (n *Node) Output(name string) (Output, error) {
	i := indexOf(descriptors[n.kind].outputs, name)
	if i < 0 {
		return Output{}, fmt.Errorf("%v: %w %q", n, ErrUnknownOutput, name)
	}
	return Output{node: n, port: uint8(i)}, nil
}

// Main returns the main output.
func (n *Node) Main() Output {
	return Output{node: n}
}

// Bind connects input to the output of another node. If the node is
// already listed, the producer must be listed earlier in the same list.
func (n *Node) Bind(input string, out Output) error {
	slot := indexOf(descriptors[n.kind].inputs, input)
	if slot < 0 {
		return n.bindError(input, out.node, ErrUnknownInput)
	}
	src := out.node
	switch {
	case n.engine.closed:
		return n.bindError(input, src, ErrClosed)
	case src == nil:
		return n.bindError(input, src, ErrUnknownOutput)
	case src.engine != n.engine:
		return n.bindError(input, src, ErrForeignNode)
	case src == n:
		return n.bindError(input, src, ErrDependencyOrder)
	case n.list != nil && (src.list != n.list || src.pos >= n.pos):
		return n.bindError(input, src, ErrDependencyOrder)
	}
	n.inputs[slot] = binding{
		bound:   true,
		from:    src.id,
		port:    out.port,
		samples: src.outputs[out.port].Samples(),
	}
	n.engine.log.Debug(fmt.Sprintf("%v: bound %v.%v <- %v.%v", n.engine, n, input, src, out.Name()))
	return nil
}

// Unbind disconnects input. It reads silence afterwards.
func (n *Node) Unbind(input string) error {
	slot := indexOf(descriptors[n.kind].inputs, input)
	if slot < 0 {
		return n.bindError(input, nil, ErrUnknownInput)
	}
	n.inputs[slot] = binding{samples: n.engine.silence.Samples()}
	return nil
}

// Bound reports if input is connected to a producer.
func (n *Node) Bound(input string) (bool, error) {
	slot := indexOf(descriptors[n.kind].inputs, input)
	if slot < 0 {
		return false, n.bindError(input, nil, ErrUnknownInput)
	}
	return n.inputs[slot].bound, nil
}

// Producer returns output bound to the input. Returned output is invalid if
// input isn't bound.
func (n *Node) Producer(input string) (Output, error) {
	slot := indexOf(descriptors[n.kind].inputs, input)
	if slot < 0 {
		return Output{}, n.bindError(input, nil, ErrUnknownInput)
	}
	in := n.inputs[slot]
	if !in.bound {
		return Output{}, nil
	}
	return Output{node: &n.engine.nodes[in.from], port: in.port}, nil
}

// Write copies samples into the block of Input node. Samples beyond the
// block size are ignored and missing samples are set to zero.
func (n *Node) Write(p []float32) (int, error) {
	if n.kind != Input {
		return 0, fmt.Errorf("%v: write: %w", n, ErrWrongKind)
	}
	out := n.outputs[0].Samples()
	c := copy(out, p)
	for i := c; i < len(out); i++ {
		out[i] = 0
	}
	return c, nil
}

func (n *Node) bindError(input string, src *Node, err error) error {
	e := &BindError{Node: n.String(), Input: input, Err: err}
	if src != nil {
		e.Producer = src.String()
	}
	return e
}

// Node returns the node that owns the output.
func (o Output) Node() *Node {
	return o.node
}

// Valid reports if output refers to a node.
func (o Output) Valid() bool {
	return o.node != nil
}

// Name returns the output name.
func (o Output) Name() string {
	if o.node == nil {
		return ""
	}
	return descriptors[o.node.kind].outputs[o.port]
}

// Block returns the output block. It's overwritten on every evaluation.
func (o Output) Block() audio.Block {
	return o.node.outputs[o.port]
}

func (o Output) String() string {
	if o.node == nil {
		return "<unbound>"
	}
	return fmt.Sprintf("%v.%v", o.node, o.Name())
}
