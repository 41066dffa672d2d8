package sigraph

import (
	"fmt"
	"math"

	"github.com/rs/xid"

	"github.com/dudk/sigraph/arena"
	"github.com/dudk/sigraph/audio"
)

const (
	// DefaultArenaSize is the arena capacity used when WithArenaSize isn't provided.
	DefaultArenaSize = 256 * 1024
	// DefaultMaxNodes is the node table size used when WithMaxNodes isn't provided.
	DefaultMaxNodes = 128
)

// Logger is a global interface for engine loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

// Engine is the context of one audio session. It owns the arena, the
// settings and every node created through it. Engine is not safe for
// concurrent use: construction and evaluation happen on one goroutine.
type Engine struct {
	uid       string
	name      string
	settings  audio.Settings
	arenaSize int
	maxNodes  int

	arena *arena.Arena
	// nodes never grows beyond its initial capacity, so pointers to its
	// elements stay valid for the engine lifetime.
	nodes   []Node
	silence audio.Block
	closed  bool

	log Logger
}

// New creates a new engine for provided settings and applies options.
func New(settings audio.Settings, options ...Option) (*Engine, error) {
	e := &Engine{
		uid:       newUID(),
		settings:  settings,
		arenaSize: DefaultArenaSize,
		maxNodes:  DefaultMaxNodes,
		log:       defaultLogger,
	}
	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if e.arena == nil {
		a, err := arena.New(e.arenaSize)
		if err != nil {
			return nil, err
		}
		e.arena = a
	}
	a := e.arena
	var err error
	e.silence, err = audio.NewBlock(a, settings)
	if err != nil {
		return nil, fmt.Errorf("allocate silence: %w", err)
	}
	e.nodes = make([]Node, 0, e.maxNodes)
	e.log.Debug(fmt.Sprintf("%v: created with %v, arena %d bytes, %d nodes max", e, settings, a.Cap(), e.maxNodes))
	return e, nil
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// UID returns unique id of the engine.
func (e *Engine) UID() string {
	return e.uid
}

// Settings returns audio settings shared by all nodes of the engine.
func (e *Engine) Settings() audio.Settings {
	return e.settings
}

// Arena returns the engine arena.
func (e *Engine) Arena() *arena.Arena {
	return e.arena
}

// Len returns number of created nodes.
func (e *Engine) Len() int {
	return len(e.nodes)
}

// Node returns node by id or nil if there is no such node.
func (e *Engine) Node(id NodeID) *Node {
	if int(id) >= len(e.nodes) {
		return nil
	}
	return &e.nodes[id]
}

// NewNode creates a node of provided kind. The node output blocks are
// allocated from the arena and all inputs read silence until bound.
func (e *Engine) NewNode(kind Kind) (*Node, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	if len(e.nodes) == cap(e.nodes) {
		return nil, fmt.Errorf("%w: node table of %d is full", ErrCapacityExceeded, cap(e.nodes))
	}
	d := &descriptors[kind]
	// check the whole node fits, so a failure never leaves half of it allocated
	blockBytes := (e.settings.BlockSize*4 + 7) &^ 7
	if need := blockBytes * len(d.outputs); need > e.arena.Available() {
		return nil, fmt.Errorf("%w: %v needs %d bytes, available %d", ErrOutOfMemory, kind, need, e.arena.Available())
	}

	var outputs [maxOutputs]audio.Block
	for i := range d.outputs {
		b, err := audio.NewBlock(e.arena, e.settings)
		if err != nil {
			return nil, err
		}
		outputs[i] = b
	}

	e.nodes = append(e.nodes, Node{
		engine:  e,
		id:      NodeID(len(e.nodes)),
		kind:    kind,
		pos:     -1,
		outputs: outputs,
		last:    float32(math.NaN()),
	})
	n := &e.nodes[len(e.nodes)-1]
	for i, p := range d.params {
		n.params[i] = p.def
	}
	for i := range d.inputs {
		n.inputs[i].samples = e.silence.Samples()
	}
	e.log.Debug(fmt.Sprintf("%v: new node %v", e, n))
	return n, nil
}

// NewValue creates a Value node broadcasting v.
func (e *Engine) NewValue(v float32) (*Node, error) {
	n, err := e.NewNode(Value)
	if err != nil {
		return nil, err
	}
	n.params[0] = v
	return n, nil
}

// NewInput creates an Input node.
func (e *Engine) NewInput() (*Node, error) {
	return e.NewNode(Input)
}

// NewSine creates a Sine node.
func (e *Engine) NewSine() (*Node, error) {
	return e.NewNode(Sine)
}

// NewAdd creates an Add node.
func (e *Engine) NewAdd() (*Node, error) {
	return e.NewNode(Add)
}

// NewSub creates a Sub node.
func (e *Engine) NewSub() (*Node, error) {
	return e.NewNode(Sub)
}

// NewMul creates a Mul node.
func (e *Engine) NewMul() (*Node, error) {
	return e.NewNode(Mul)
}

// NewDiv creates a Div node.
func (e *Engine) NewDiv() (*Node, error) {
	return e.NewNode(Div)
}

// Close releases the arena. Nodes, lists and evaluators of the engine must
// not be used afterwards; evaluators turn into no-ops.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.arena.Release()
	e.log.Debug(fmt.Sprintf("%v: closed", e))
}

// Convert engine to string. Name is included if has value.
func (e *Engine) String() string {
	if e.name == "" {
		return e.uid
	}
	return fmt.Sprintf("%v %v", e.name, e.uid)
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger
