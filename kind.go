package sigraph

import (
	"fmt"
	"strings"
)

// Kind is a tag of the node variant. The set of kinds is closed.
type Kind uint8

// Built-in kinds.
const (
	// Value broadcasts its value parameter to every sample.
	Value Kind = iota
	// Input holds samples written by the host.
	Input
	// Sine is a sine oscillator with phase, amplitude and offset modulation.
	Sine
	// Add is an elementwise left + right.
	Add
	// Sub is an elementwise left - right.
	Sub
	// Mul is an elementwise left * right.
	Mul
	// Div is an elementwise left / right.
	Div
	// Invert negates the source.
	Invert
	// Tanh is a hyperbolic tangent of the source.
	Tanh
	// OnePole is a one-pole low pass filter.
	OnePole
	// ToggleGate opens and closes the gate on every trigger.
	ToggleGate
	// Accumulate sums the source once per block.
	Accumulate
	// TimedGate opens the gate for duration seconds on every trigger.
	TimedGate
	// GatedTimer fires a one sample trigger after the gate has been open
	// for duration seconds.
	GatedTimer
	// TimedTriggerCounter fires when exactly count triggers arrive within
	// duration seconds of the first one.
	TimedTriggerCounter

	numKinds
)

// Names of ports that several kinds share.
const (
	// MainOutput is the name of the single output every built-in kind has.
	MainOutput = "main"
)

// Upper bounds of per-node ports; kind descriptors never exceed them.
const (
	maxParams  = 2
	maxInputs  = 4
	maxOutputs = 1
)

type param struct {
	name string
	def  float32
}

// descriptor names the ports of a kind. Index of the name is the slot
// the value is stored in.
type descriptor struct {
	name    string
	params  []param
	inputs  []string
	outputs []string
}

var (
	binaryInputs = []string{"left", "right"}
	mainOutputs  = []string{MainOutput}
	sourceInput  = []string{"source"}
)

// descriptors is indexed by Kind.
var descriptors = [numKinds]descriptor{
	Value: {
		name:    "value",
		params:  []param{{name: "value", def: 1}},
		outputs: mainOutputs,
	},
	Input: {
		name:    "input",
		outputs: mainOutputs,
	},
	Sine: {
		name:    "sine",
		inputs:  []string{"freq", "phaseOffset", "mul", "add"},
		outputs: mainOutputs,
	},
	Add:     {name: "add", inputs: binaryInputs, outputs: mainOutputs},
	Sub:     {name: "sub", inputs: binaryInputs, outputs: mainOutputs},
	Mul:     {name: "mul", inputs: binaryInputs, outputs: mainOutputs},
	Div:     {name: "div", inputs: binaryInputs, outputs: mainOutputs},
	Invert:  {name: "invert", inputs: sourceInput, outputs: mainOutputs},
	Tanh:    {name: "tanh", inputs: sourceInput, outputs: mainOutputs},
	OnePole: {name: "onepole", inputs: []string{"source", "coefficient"}, outputs: mainOutputs},
	ToggleGate: {
		name:    "togglegate",
		inputs:  []string{"trigger"},
		outputs: mainOutputs,
	},
	Accumulate: {
		name:    "accumulate",
		params:  []param{{name: "start", def: 1}},
		inputs:  []string{"source", "reset"},
		outputs: mainOutputs,
	},
	TimedGate: {
		name: "timedgate",
		params: []param{
			{name: "resetOnTrigger", def: 0},
			{name: "bipolar", def: 0},
		},
		inputs:  []string{"trigger", "duration"},
		outputs: mainOutputs,
	},
	GatedTimer: {
		name:    "gatedtimer",
		inputs:  []string{"gate", "duration", "loop"},
		outputs: mainOutputs,
	},
	TimedTriggerCounter: {
		name:    "timedtriggercounter",
		inputs:  []string{"source", "duration", "count"},
		outputs: mainOutputs,
	},
}

// Kinds returns all built-in kinds in tag order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind returns the kind with provided name. Names are case-insensitive.
func ParseKind(name string) (Kind, error) {
	for i := range descriptors {
		if strings.EqualFold(descriptors[i].name, name) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Valid reports if k is one of built-in kinds.
func (k Kind) Valid() bool {
	return k < numKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return descriptors[k].name
}

// Params returns names of kind's parameters.
func (k Kind) Params() []string {
	if !k.Valid() {
		return nil
	}
	names := make([]string, len(descriptors[k].params))
	for i, p := range descriptors[k].params {
		names[i] = p.name
	}
	return names
}

// Inputs returns names of kind's inputs.
func (k Kind) Inputs() []string {
	if !k.Valid() {
		return nil
	}
	return append([]string(nil), descriptors[k].inputs...)
}

// Outputs returns names of kind's outputs.
func (k Kind) Outputs() []string {
	if !k.Valid() {
		return nil
	}
	return append([]string(nil), descriptors[k].outputs...)
}

func indexOf(names []string, name string) int {
	for i := range names {
		if names[i] == name {
			return i
		}
	}
	return -1
}

func (d *descriptor) param(name string) int {
	for i := range d.params {
		if d.params[i].name == name {
			return i
		}
	}
	return -1
}
