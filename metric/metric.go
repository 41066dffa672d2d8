// Package metric publishes host session counters through expvar. Counters
// can also be registered in prometheus.
package metric

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dudk/sigraph/signal"
)

const (
	sessionsLabel = "sigraph.sessions"
	namespace     = "sigraph"
)

const (
	// BlockCounter measures number of evaluated blocks.
	BlockCounter = "Blocks"
	// SampleCounter measures number of produced samples.
	SampleCounter = "Samples"
	// LatencyCounter measures time spent in the last evaluation.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of produced signal.
	DurationCounter = "Duration"
	// SessionCounter counts number of metered sessions.
	SessionCounter = "Sessions"
)

var (
	sessions = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		BlockCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		SessionCounter,
	}
)

// Get metrics values for provided name.
func Get(name string) map[string]string {
	return getCounters(name)
}

// GetAll returns counters for all metered names.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	sessions.Lock()
	defer sessions.Unlock()
	for name := range sessions.m {
		m[name] = getCounters(name)
	}
	return m
}

func getCounters(name string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(name, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to postpone
// metrics capture until session is actually running.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when a block is evaluated. It's called with
// the block size and the time the evaluation started at.
type MeasureFunc func(blockSize int64, startedAt time.Time)

// Meter creates new meter closure to capture counters of named sessions.
func Meter(name string, sampleRate float32) ResetFunc {
	metric := sessions.get(name)
	metric.sessions.Add(1)
	return func() MeasureFunc {
		var (
			blockSize     int64
			blockDuration time.Duration
		)
		return func(s int64, startedAt time.Time) {
			metric.latency.set(time.Since(startedAt))
			metric.blocks.Add(1)
			metric.samples.Add(s)
			// recalculate block duration only when block size has changed
			if blockSize != s {
				blockSize = s
				blockDuration = signal.DurationOf(sampleRate, s)
			}
			metric.duration.add(blockDuration)
		}
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(name string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[name]; ok {
		return metric
	}
	metric := newMetric(name)
	m.m[name] = metric
	return metric
}

type metric struct {
	sessions *expvar.Int
	blocks   *expvar.Int
	samples  *expvar.Int
	latency  *duration
	duration *duration
}

func newMetric(name string) metric {
	m := metric{
		sessions: expvar.NewInt(key(name, SessionCounter)),
		blocks:   expvar.NewInt(key(name, BlockCounter)),
		samples:  expvar.NewInt(key(name, SampleCounter)),
		latency:  &duration{},
		duration: &duration{},
	}
	expvar.Publish(key(name, LatencyCounter), m.latency)
	expvar.Publish(key(name, DurationCounter), m.duration)
	return m
}

func key(name, counter string) string {
	return fmt.Sprintf("%s.%s.%s", sessionsLabel, name, counter)
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)).String())
}

func (v *duration) get() time.Duration {
	return time.Duration(atomic.LoadInt64(&v.d))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}

// Register exposes counters of named sessions to prometheus. Counters are
// read at scrape time, so measuring stays allocation free.
func Register(r prometheus.Registerer, name string) error {
	m := sessions.get(name)
	labels := prometheus.Labels{"session": name}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "blocks_total",
			Help:        "Number of evaluated blocks.",
			ConstLabels: labels,
		}, func() float64 { return float64(m.blocks.Value()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "samples_total",
			Help:        "Number of produced samples.",
			ConstLabels: labels,
		}, func() float64 { return float64(m.samples.Value()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "sessions_total",
			Help:        "Number of metered sessions.",
			ConstLabels: labels,
		}, func() float64 { return float64(m.sessions.Value()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "signal_seconds_total",
			Help:        "Duration of produced signal.",
			ConstLabels: labels,
		}, func() float64 { return m.duration.get().Seconds() }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "latency_seconds",
			Help:        "Time spent in the last evaluation.",
			ConstLabels: labels,
		}, func() float64 { return m.latency.get().Seconds() }),
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
