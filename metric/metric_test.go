package metric_test

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/dudk/sigraph/metric"
)

func TestMeter(t *testing.T) {
	var sampleRate float32 = 48000
	var tests = []struct {
		name             string
		routines         int
		blocks           int
		blockSize        int64
		expectedSamples  string
		expectedSessions string
		expectedDuration string
	}{
		{
			name:             "meter.test",
			routines:         2,
			blocks:           10,
			blockSize:        480,
			expectedSamples:  "9600",
			expectedSessions: "2",
			expectedDuration: `"200ms"`,
		},
		{
			name:             "meter.test",
			routines:         2,
			blocks:           10,
			blockSize:        480,
			expectedSamples:  "19200",
			expectedSessions: "4",
			expectedDuration: `"400ms"`,
		},
	}
	testFn := func(fn metric.MeasureFunc, wg *sync.WaitGroup, blocks int, blockSize int64) {
		for i := 0; i < blocks; i++ {
			fn(blockSize, time.Now())
		}
		wg.Done()
	}

	for _, c := range tests {
		wg := &sync.WaitGroup{}
		wg.Add(c.routines)
		for i := 0; i < c.routines; i++ {
			go testFn(metric.Meter(c.name, sampleRate)(), wg, c.blocks, c.blockSize)
		}
		// check if no data race.
		wg.Wait()
		values := metric.Get(c.name)
		assert.Equal(t, c.expectedSamples, values[metric.SampleCounter])
		assert.Equal(t, c.expectedSessions, values[metric.SessionCounter])
		assert.Equal(t, c.expectedDuration, values[metric.DurationCounter])
	}
	assert.Contains(t, metric.GetAll(), "meter.test")
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.Nil(t, metric.Register(reg, "prometheus.test"))
	assert.NotNil(t, metric.Register(reg, "prometheus.test"))

	measure := metric.Meter("prometheus.test", 48000)()
	for i := 0; i < 100; i++ {
		measure(480, time.Now())
	}

	families, err := reg.Gather()
	assert.Nil(t, err)
	values := make(map[string]float64)
	for _, f := range families {
		m := f.GetMetric()[0]
		assert.Equal(t, "prometheus.test", m.GetLabel()[0].GetValue())
		if c := m.GetCounter(); c != nil {
			values[f.GetName()] = c.GetValue()
		}
	}
	assert.Equal(t, float64(100), values["sigraph_blocks_total"])
	assert.Equal(t, float64(48000), values["sigraph_samples_total"])
	assert.Equal(t, float64(1), values["sigraph_sessions_total"])
	assert.InDelta(t, 1, values["sigraph_signal_seconds_total"], 1e-9)
}
