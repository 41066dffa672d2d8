/*
Package sigraph allows to build and evaluate real-time audio signal graphs.

Concept

A graph is made of nodes. Every node has a kind, which defines its
parameters, inputs and outputs:

    Parameters - scalars written by the host between evaluations;
    Inputs - references to outputs of other nodes;
    Outputs - blocks of samples the node overwrites on every evaluation.

An input that isn't bound reads silence. The set of kinds is closed: Value,
Input, Sine, Add, Sub, Mul, Div, Invert, Tanh, OnePole, ToggleGate,
Accumulate, TimedGate, GatedTimer and TimedTriggerCounter.

Engine

Engine is the context of one audio session. It holds the audio settings
and the arena all blocks and lists are allocated from. Nodes are created
through the engine and live as long as it does:

    e, err := sigraph.New(audio.DefaultSettings)
    freq, err := e.NewValue(440)
    osc, err := e.NewSine()
    err = osc.Bind("freq", freq.Main())

All allocation happens during construction. When the arena or the node
table is exhausted, construction fails with ErrOutOfMemory or
ErrCapacityExceeded and already constructed nodes stay intact.

Evaluation

Nodes are appended to a List in the order they must be evaluated:
producers first. Binding or appending out of order fails with
ErrDependencyOrder. Evaluator walks the list once per block period:

    l, err := e.NewList(sigraph.DefaultListCapacity)
    err = l.Append(freq)
    err = l.Append(osc)
    ev, err := sigraph.NewEvaluator(l)
    for {
        ev.Evaluate()
        samples := osc.Main().Block().Samples()
        ...
    }

Evaluate doesn't allocate, block or fail. Output blocks are overwritten in
place, so hosts copy them before the next evaluation.

Engine, its nodes and lists are not safe for concurrent use. Package host
runs a list against pumps and sinks and accepts parameter mutations from
other goroutines; package patch builds graphs from yaml.
*/
package sigraph
