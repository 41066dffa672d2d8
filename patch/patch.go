// Package patch describes signal graphs in yaml and builds them.
//
// A patch lists nodes in evaluation order. Node inputs reference outputs of
// other nodes either as "node" for the main output or as "node.output":
//
//	settings:
//	  sampleRate: 48000
//	  blockSize: 48
//	  numChannels: 1
//	nodes:
//	  - name: freq
//	    kind: value
//	    params: {value: 440}
//	  - name: osc
//	    kind: sine
//	    inputs: {freq: freq}
//	outputs: [osc]
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dudk/sigraph"
	"github.com/dudk/sigraph/audio"
	"github.com/dudk/sigraph/host"
)

var (
	// ErrUnknownNode is returned when reference points to a node that isn't
	// declared in the patch.
	ErrUnknownNode = errors.New("unknown node")
	// ErrDuplicateNode is returned when two nodes share the same name.
	ErrDuplicateNode = errors.New("duplicate node name")
	// ErrNoNodes is returned when patch has no nodes.
	ErrNoNodes = errors.New("patch has no nodes")
	// ErrInvalidOverride is returned when override expression can't be parsed.
	ErrInvalidOverride = errors.New("invalid override")
)

// Patch is a serializable description of a signal graph.
type Patch struct {
	Name         string         `yaml:"name,omitempty"`
	Settings     audio.Settings `yaml:"settings"`
	ArenaSize    int            `yaml:"arenaSize,omitempty"`
	MaxNodes     int            `yaml:"maxNodes,omitempty"`
	ListCapacity int            `yaml:"listCapacity,omitempty"`
	Nodes        []NodeSpec     `yaml:"nodes"`
	Outputs      []string       `yaml:"outputs,omitempty"`
}

// NodeSpec describes a single node.
type NodeSpec struct {
	Name   string             `yaml:"name"`
	Kind   string             `yaml:"kind"`
	Params map[string]float32 `yaml:"params,omitempty"`
	Inputs map[string]string  `yaml:"inputs,omitempty"`
}

// Graph is a built patch.
type Graph struct {
	Engine  *sigraph.Engine
	List    *sigraph.List
	Nodes   map[string]*sigraph.Node
	Outputs []sigraph.Output
}

// Default returns a patch of 440 Hz sine scaled by 0.85.
func Default() *Patch {
	return &Patch{
		Name:     "oscillator",
		Settings: audio.DefaultSettings,
		Nodes: []NodeSpec{
			{Name: "freq", Kind: "value", Params: map[string]float32{"value": 440}},
			{Name: "amp", Kind: "value", Params: map[string]float32{"value": 1}},
			{Name: "osc", Kind: "sine", Inputs: map[string]string{"freq": "freq", "mul": "amp"}},
			{Name: "gain", Kind: "value", Params: map[string]float32{"value": 0.85}},
			{Name: "out", Kind: "mul", Inputs: map[string]string{"left": "osc", "right": "gain"}},
		},
		Outputs: []string{"out"},
	}
}

// Load decodes patch from reader. Unknown fields are rejected and missing
// settings are taken from audio.DefaultSettings.
func Load(r io.Reader) (*Patch, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Patch
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse patch: %w", err)
	}
	if p.Settings.SampleRate == 0 {
		p.Settings.SampleRate = audio.DefaultSettings.SampleRate
	}
	if p.Settings.BlockSize == 0 {
		p.Settings.BlockSize = audio.DefaultSettings.BlockSize
	}
	if p.Settings.NumChannels == 0 {
		p.Settings.NumChannels = audio.DefaultSettings.NumChannels
	}
	return &p, nil
}

// Parse decodes patch from yaml document.
func Parse(data []byte) (*Patch, error) {
	return Load(bytes.NewReader(data))
}

// Marshal encodes patch into yaml document.
func (p *Patch) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Override is a parameter assignment in form "node.param=value".
type Override struct {
	Node  string
	Param string
	Value float32
}

// ParseOverride parses "node.param=value" expression.
func ParseOverride(expr string) (Override, error) {
	target, value, ok := strings.Cut(expr, "=")
	if !ok {
		return Override{}, fmt.Errorf("%w: %q", ErrInvalidOverride, expr)
	}
	name, param, ok := strings.Cut(strings.TrimSpace(target), ".")
	if !ok || name == "" || param == "" {
		return Override{}, fmt.Errorf("%w: %q", ErrInvalidOverride, expr)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
	if err != nil {
		return Override{}, fmt.Errorf("%w: %q: %v", ErrInvalidOverride, expr, err)
	}
	return Override{Node: name, Param: param, Value: float32(v)}, nil
}

// Set applies an override in form "node.param=value".
func (p *Patch) Set(expr string) error {
	o, err := ParseOverride(expr)
	if err != nil {
		return err
	}
	for i := range p.Nodes {
		if p.Nodes[i].Name != o.Node {
			continue
		}
		if p.Nodes[i].Params == nil {
			p.Nodes[i].Params = make(map[string]float32)
		}
		p.Nodes[i].Params[o.Param] = o.Value
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownNode, o.Node)
}

// Build creates an engine, nodes and the list of the patch. Provided
// options are applied after the ones derived from the patch. Engine is
// closed if build fails.
func (p *Patch) Build(options ...sigraph.Option) (*Graph, error) {
	if len(p.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	var opts []sigraph.Option
	if p.Name != "" {
		opts = append(opts, sigraph.WithName(p.Name))
	}
	if p.ArenaSize > 0 {
		opts = append(opts, sigraph.WithArenaSize(p.ArenaSize))
	}
	if p.MaxNodes > 0 {
		opts = append(opts, sigraph.WithMaxNodes(p.MaxNodes))
	}
	e, err := sigraph.New(p.Settings, append(opts, options...)...)
	if err != nil {
		return nil, err
	}
	g, err := p.build(e)
	if err != nil {
		e.Close()
		return nil, err
	}
	return g, nil
}

func (p *Patch) build(e *sigraph.Engine) (*Graph, error) {
	g := Graph{
		Engine: e,
		Nodes:  make(map[string]*sigraph.Node, len(p.Nodes)),
	}
	nodes := make([]*sigraph.Node, len(p.Nodes))
	for i, spec := range p.Nodes {
		if _, ok := g.Nodes[spec.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, spec.Name)
		}
		kind, err := sigraph.ParseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.Name, err)
		}
		n, err := e.NewNode(kind)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.Name, err)
		}
		for _, param := range sortedKeys(spec.Params) {
			if err := n.SetParam(param, spec.Params[param]); err != nil {
				return nil, fmt.Errorf("node %q: %w", spec.Name, err)
			}
		}
		g.Nodes[spec.Name] = n
		nodes[i] = n
	}

	for i, spec := range p.Nodes {
		for _, input := range sortedKeys(spec.Inputs) {
			out, err := g.resolve(spec.Inputs[input])
			if err != nil {
				return nil, fmt.Errorf("node %q input %q: %w", spec.Name, input, err)
			}
			if err := nodes[i].Bind(input, out); err != nil {
				return nil, fmt.Errorf("node %q: %w", spec.Name, err)
			}
		}
	}

	capacity := p.ListCapacity
	if capacity == 0 {
		capacity = len(nodes)
	}
	l, err := e.NewList(capacity)
	if err != nil {
		return nil, err
	}
	for i, n := range nodes {
		if err := l.Append(n); err != nil {
			return nil, fmt.Errorf("node %q: %w", p.Nodes[i].Name, err)
		}
	}
	g.List = l

	for _, ref := range p.Outputs {
		out, err := g.resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", ref, err)
		}
		g.Outputs = append(g.Outputs, out)
	}
	return &g, nil
}

// resolve returns output referenced as "node" or "node.output".
func (g *Graph) resolve(ref string) (sigraph.Output, error) {
	name, output, ok := strings.Cut(ref, ".")
	if !ok {
		output = sigraph.MainOutput
	}
	n, ok := g.Nodes[name]
	if !ok {
		return sigraph.Output{}, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return n.Output(output)
}

// Node returns node by name or nil if it doesn't exist.
func (g *Graph) Node(name string) *sigraph.Node {
	return g.Nodes[name]
}

// Session creates host session that reads graph outputs.
func (g *Graph) Session(options ...host.Option) (*host.Session, error) {
	if len(g.Outputs) > 0 {
		options = append([]host.Option{host.WithOutputs(g.Outputs...)}, options...)
	}
	return host.New(g.List, options...)
}

// Mutation returns session mutation for "node.param=value" expression.
func (g *Graph) Mutation(expr string) (host.Mutation, error) {
	o, err := ParseOverride(expr)
	if err != nil {
		return host.Mutation{}, err
	}
	n, ok := g.Nodes[o.Node]
	if !ok {
		return host.Mutation{}, fmt.Errorf("%w: %q", ErrUnknownNode, o.Node)
	}
	return host.Mutation{Node: n, Param: o.Param, Value: o.Value}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
