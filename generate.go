package sigraph

import (
	"math"

	"github.com/dudk/sigraph/audio"
)

// generate overwrites node outputs for one block. It must not allocate.
func (n *Node) generate() {
	out := n.outputs[0].Samples()
	switch n.kind {
	case Value:
		v := n.params[0]
		// NaN never equals itself, so a NaN value is refilled every block.
		if v == n.last {
			return
		}
		for i := range out {
			out[i] = v
		}
		n.last = v
	case Input:
	case Sine:
		n.sine(out)
	case Add:
		left, right := n.inputs[0].samples, n.inputs[1].samples
		for i := range out {
			out[i] = left[i] + right[i]
		}
	case Sub:
		left, right := n.inputs[0].samples, n.inputs[1].samples
		for i := range out {
			out[i] = left[i] - right[i]
		}
	case Mul:
		left, right := n.inputs[0].samples, n.inputs[1].samples
		for i := range out {
			out[i] = left[i] * right[i]
		}
	case Div:
		left, right := n.inputs[0].samples, n.inputs[1].samples
		for i := range out {
			out[i] = left[i] / right[i]
		}
	case Invert:
		source := n.inputs[0].samples
		for i := range out {
			out[i] = -source[i]
		}
	case Tanh:
		source := n.inputs[0].samples
		for i := range out {
			out[i] = float32(math.Tanh(float64(source[i])))
		}
	case OnePole:
		source, coeff := n.inputs[0].samples, n.inputs[1].samples
		prev := n.prev
		for i := range out {
			prev = audio.OnePole(source[i], prev, coeff[i])
			out[i] = prev
		}
		n.prev = prev
	case ToggleGate:
		n.toggleGate(out)
	case Accumulate:
		n.accumulate(out)
	case TimedGate:
		n.timedGate(out)
	case GatedTimer:
		n.gatedTimer(out)
	case TimedTriggerCounter:
		n.timedTriggerCounter(out)
	}
}

func (n *Node) sine(out []float32) {
	var (
		freq   = n.inputs[0].samples
		offset = n.inputs[1].samples
		mul    = n.inputs[2].samples
		add    = n.inputs[3].samples
		step   = 2 * math.Pi / float64(n.engine.settings.SampleRate)
		phase  = n.phase
	)
	for i := range out {
		p := wrapPhase(phase + float64(offset[i]))
		out[i] = float32(math.Sin(p))*mul[i] + add[i]
		phase = wrapPhase(phase + float64(freq[i])*step)
	}
	n.phase = phase
}

func (n *Node) toggleGate(out []float32) {
	trigger := n.inputs[0].samples
	prev, open := n.prev, n.open
	for i := range out {
		if prev <= 0 && trigger[i] > 0 {
			open = !open
		}
		prev = trigger[i]
		if open {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	n.prev, n.open = prev, open
}

// accumulate is block-rate: only the first sample of each input is read.
func (n *Node) accumulate(out []float32) {
	source, reset := n.inputs[0].samples, n.inputs[1].samples
	if !n.started {
		n.acc = n.params[0]
		n.started = true
	}
	if n.prev <= 0 && reset[0] > 0 {
		n.acc = n.params[0]
	}
	n.prev = reset[0]
	n.acc += source[0]
	for i := range out {
		out[i] = n.acc
	}
}

// timedGate holds the gate value of the last trigger for duration
// samples. Negative triggers count only when bipolar is set. With
// resetOnTrigger, a trigger that arrives while the gate is open closes it
// for one sample.
func (n *Node) timedGate(out []float32) {
	var (
		trigger, duration = n.inputs[0].samples, n.inputs[1].samples
		reset             = n.params[0] > 0
		bipolar           = n.params[1] > 0
		settings          = n.engine.settings
	)
	for i := range out {
		t := trigger[i]
		switch {
		case t > 0 && n.prev <= 0, bipolar && t < 0 && n.prev >= 0:
			n.acc = t
			open := n.timer > 0
			n.timer = settings.SecondsToSamples(duration[i])
			if reset && open {
				out[i] = 0
			} else {
				out[i] = n.acc
				n.timer--
			}
		case n.timer > 0:
			out[i] = n.acc
			n.timer--
		default:
			out[i] = 0
		}
		n.prev = t
	}
}

// gatedTimer counts samples while the gate is open and fires once the
// duration elapses. It fires again only if loop is high. Closing the gate
// resets the timer.
func (n *Node) gatedTimer(out []float32) {
	gate, duration, loop := n.inputs[0].samples, n.inputs[1].samples, n.inputs[2].samples
	settings := n.engine.settings
	for i := range out {
		out[i] = 0
		switch {
		case gate[i] > 0:
			if n.running && loop[i] <= 0 {
				break
			}
			n.timer++
			if n.timer >= settings.SecondsToSamples(duration[i]) {
				out[i] = 1
				n.timer = 0
				n.running = true
			}
		case n.prev > 0:
			n.timer = 0
			n.running = false
		}
		n.prev = gate[i]
	}
}

// timedTriggerCounter starts a window of duration samples on a rising edge
// and counts falling edges within it. When the window ends it fires if the
// count matches.
func (n *Node) timedTriggerCounter(out []float32) {
	source, duration, count := n.inputs[0].samples, n.inputs[1].samples, n.inputs[2].samples
	settings := n.engine.settings
	for i := range out {
		out[i] = 0
		s := source[i]
		if s > 0 && n.prev <= 0 {
			n.running = true
		}
		if n.running {
			if s <= 0 && n.prev > 0 {
				n.count++
			}
			n.timer++
			if n.timer >= settings.SecondsToSamples(duration[i]) {
				if n.count == int(count[i]) {
					out[i] = 1
				}
				n.running = false
				n.count = 0
				n.timer = 0
			}
		}
		n.prev = s
	}
}

// wrapPhase returns phase wrapped into [0, 2π). Non-finite phase restarts
// at 0.
func wrapPhase(phase float64) float64 {
	if phase >= 0 && phase < 2*math.Pi {
		return phase
	}
	if math.IsNaN(phase) || math.IsInf(phase, 0) {
		return 0
	}
	phase = math.Mod(phase, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	if phase >= 2*math.Pi {
		phase = 0
	}
	return phase
}
