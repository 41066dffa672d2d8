package sigraph_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/sigraph"
)

func TestKinds(t *testing.T) {
	kinds := sigraph.Kinds()
	assert.Len(t, kinds, 15)
	for _, k := range kinds {
		parsed, err := sigraph.ParseKind(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.Equal(t, []string{sigraph.MainOutput}, k.Outputs())
	}
	k, err := sigraph.ParseKind("OnePole")
	assert.NoError(t, err)
	assert.Equal(t, sigraph.OnePole, k)

	_, err = sigraph.ParseKind("reverb")
	assert.ErrorIs(t, err, sigraph.ErrUnknownKind)
	assert.False(t, sigraph.Kind(100).Valid())
	assert.Nil(t, sigraph.Kind(100).Inputs())
	assert.Equal(t, "kind(100)", sigraph.Kind(100).String())

	assert.Equal(t, []string{"freq", "phaseOffset", "mul", "add"}, sigraph.Sine.Inputs())
	assert.Equal(t, []string{"value"}, sigraph.Value.Params())
	assert.Empty(t, sigraph.Sine.Params())
	assert.Equal(t, []string{"resetOnTrigger", "bipolar"}, sigraph.TimedGate.Params())
}

func TestParams(t *testing.T) {
	e := newEngine(t)
	v, err := e.NewNode(sigraph.Value)
	require.NoError(t, err)
	p, err := v.Param("value")
	assert.NoError(t, err)
	assert.Equal(t, float32(1), p)

	assert.NoError(t, v.SetParam("value", 0.3))
	p, err = v.Param("value")
	assert.NoError(t, err)
	assert.Equal(t, float32(0.3), p)

	assert.ErrorIs(t, v.SetParam("freq", 1), sigraph.ErrUnknownParam)

	acc, err := e.NewNode(sigraph.Accumulate)
	require.NoError(t, err)
	p, err = acc.Param("start")
	assert.NoError(t, err)
	assert.Equal(t, float32(1), p)
}

func TestBind(t *testing.T) {
	e := newEngine(t)
	other := newEngine(t)
	freq, err := e.NewValue(440)
	require.NoError(t, err)
	osc, err := e.NewSine()
	require.NoError(t, err)
	foreign, err := other.NewValue(1)
	require.NoError(t, err)

	tests := []struct {
		label string
		input string
		out   sigraph.Output
		err   error
	}{
		{label: "ok", input: "freq", out: freq.Main()},
		{label: "unknown input", input: "cutoff", out: freq.Main(), err: sigraph.ErrUnknownInput},
		{label: "no output", input: "mul", out: sigraph.Output{}, err: sigraph.ErrUnknownOutput},
		{label: "foreign", input: "mul", out: foreign.Main(), err: sigraph.ErrForeignNode},
		{label: "self", input: "mul", out: osc.Main(), err: sigraph.ErrDependencyOrder},
	}
	for _, test := range tests {
		err := osc.Bind(test.input, test.out)
		if test.err == nil {
			assert.NoError(t, err, test.label)
			continue
		}
		assert.ErrorIs(t, err, test.err, test.label)
		var be *sigraph.BindError
		if assert.True(t, errors.As(err, &be), test.label) {
			assert.Equal(t, "sine#1", be.Node)
			assert.Equal(t, test.input, be.Input)
		}
	}

	bound, err := osc.Bound("freq")
	assert.NoError(t, err)
	assert.True(t, bound)
	bound, err = osc.Bound("mul")
	assert.NoError(t, err)
	assert.False(t, bound)

	producer, err := osc.Producer("freq")
	assert.NoError(t, err)
	assert.Equal(t, freq, producer.Node())
	assert.Equal(t, "value#0.main", producer.String())
	producer, err = osc.Producer("add")
	assert.NoError(t, err)
	assert.False(t, producer.Valid())

	assert.NoError(t, osc.Unbind("freq"))
	bound, err = osc.Bound("freq")
	assert.NoError(t, err)
	assert.False(t, bound)
	assert.ErrorIs(t, osc.Unbind("cutoff"), sigraph.ErrUnknownInput)
}

func TestBindListed(t *testing.T) {
	e := newEngine(t)
	early, err := e.NewValue(1)
	require.NoError(t, err)
	consumer, err := e.NewMul()
	require.NoError(t, err)
	late, err := e.NewValue(2)
	require.NoError(t, err)

	l, err := e.NewList(4)
	require.NoError(t, err)
	require.NoError(t, l.Append(early))
	require.NoError(t, l.Append(consumer))

	// producer listed earlier
	assert.NoError(t, consumer.Bind("left", early.Main()))
	// producer not listed
	assert.ErrorIs(t, consumer.Bind("right", late.Main()), sigraph.ErrDependencyOrder)
	// producer listed later
	require.NoError(t, l.Append(late))
	assert.ErrorIs(t, consumer.Bind("right", late.Main()), sigraph.ErrDependencyOrder)
	bound, err := consumer.Bound("right")
	assert.NoError(t, err)
	assert.False(t, bound)
}

func TestOutput(t *testing.T) {
	e := newEngine(t)
	n, err := e.NewAdd()
	require.NoError(t, err)
	out, err := n.Output(sigraph.MainOutput)
	assert.NoError(t, err)
	assert.Equal(t, n.Main(), out)
	assert.Equal(t, "main", out.Name())
	assert.Equal(t, testSettings.BlockSize, out.Block().Len())

	_, err = n.Output("aux")
	assert.ErrorIs(t, err, sigraph.ErrUnknownOutput)
	assert.Equal(t, "", sigraph.Output{}.Name())
	assert.Equal(t, "<unbound>", sigraph.Output{}.String())
}

func TestWrite(t *testing.T) {
	e := newEngine(t)
	in, err := e.NewInput()
	require.NoError(t, err)

	n, err := in.Write([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, in.Main().Block().Samples())

	n, err = in.Write([]float32{0.5, 0.5})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{0.5, 0.5, 0, 0, 0, 0, 0, 0}, in.Main().Block().Samples())

	osc, err := e.NewSine()
	require.NoError(t, err)
	_, err = osc.Write([]float32{1})
	assert.ErrorIs(t, err, sigraph.ErrWrongKind)
}

// TestUnboundInputs checks that every kind reads zeros from its unbound
// inputs: it's compared against the same kind with inputs bound to zero.
func TestUnboundInputs(t *testing.T) {
	for _, k := range sigraph.Kinds() {
		unbound := evaluateKind(t, k, false)
		bound := evaluateKind(t, k, true)
		for i := range unbound {
			if math.IsNaN(float64(bound[i])) {
				assert.True(t, math.IsNaN(float64(unbound[i])), "%v sample %d", k, i)
				continue
			}
			assert.Equal(t, bound[i], unbound[i], "%v sample %d", k, i)
		}
	}
}

// evaluateKind evaluates a single node of kind k over three blocks and
// returns the concatenated output.
func evaluateKind(t *testing.T, k sigraph.Kind, bindZeros bool) []float32 {
	t.Helper()
	e := newEngine(t)
	l, err := e.NewList(8)
	require.NoError(t, err)
	n, err := e.NewNode(k)
	require.NoError(t, err)
	if bindZeros {
		for _, input := range k.Inputs() {
			zero, err := e.NewValue(0)
			require.NoError(t, err)
			require.NoError(t, l.Append(zero))
			require.NoError(t, n.Bind(input, zero.Main()))
		}
	}
	require.NoError(t, l.Append(n))
	ev, err := sigraph.NewEvaluator(l)
	require.NoError(t, err)

	var result []float32
	for i := 0; i < 3; i++ {
		ev.Evaluate()
		result = append(result, n.Main().Block().Samples()...)
	}
	return result
}

func TestUnboundOutputs(t *testing.T) {
	tests := []struct {
		kind     sigraph.Kind
		expected float32
	}{
		{kind: sigraph.Value, expected: 1},
		{kind: sigraph.Input, expected: 0},
		{kind: sigraph.Sine, expected: 0},
		{kind: sigraph.Add, expected: 0},
		{kind: sigraph.Sub, expected: 0},
		{kind: sigraph.Mul, expected: 0},
		{kind: sigraph.Invert, expected: 0},
		{kind: sigraph.Tanh, expected: 0},
		{kind: sigraph.OnePole, expected: 0},
		{kind: sigraph.ToggleGate, expected: 0},
		{kind: sigraph.Accumulate, expected: 1},
		{kind: sigraph.TimedGate, expected: 0},
		{kind: sigraph.GatedTimer, expected: 0},
		{kind: sigraph.TimedTriggerCounter, expected: 0},
	}
	for _, test := range tests {
		for i, v := range evaluateKind(t, test.kind, false) {
			assert.Equal(t, test.expected, v, "%v sample %d", test.kind, i)
		}
	}
	for _, v := range evaluateKind(t, sigraph.Div, false) {
		assert.True(t, math.IsNaN(float64(v)))
	}
}
