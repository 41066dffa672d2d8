// Package host drives a signal graph the way an audio callback does: once
// per block period it feeds Input nodes from pumps, evaluates the graph and
// hands the output channels to sinks.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/dudk/sigraph"
	"github.com/dudk/sigraph/log"
	"github.com/dudk/sigraph/metric"
	"github.com/dudk/sigraph/signal"
)

var (
	// ErrSampleRateMismatch is returned when a pump sample rate differs from
	// the engine sample rate.
	ErrSampleRateMismatch = errors.New("sample rate mismatch")
	// ErrNoOutputs is returned when session has nothing to read from.
	ErrNoOutputs = errors.New("session has no outputs")
	// ErrSessionClosed is returned when closed session is processed.
	ErrSessionClosed = errors.New("session is closed")
	// ErrUnlistedOutput is returned when session output belongs to a node
	// that isn't in the session list.
	ErrUnlistedOutput = errors.New("output node isn't in the list")
)

// Pump is a source of samples for an Input node.
type Pump interface {
	// Pump returns a function that fills the block and returns the number
	// of samples read. It returns io.EOF when there is no more data and
	// io.ErrUnexpectedEOF together with the last, partial block.
	Pump(blockSize int) (func([]float32) (int, error), float32, error)
	Flush() error
}

// Sink is a destination of session output channels.
type Sink interface {
	Sink(sampleRate float32, numChannels, blockSize int) (func([][]float32) error, error)
	Flush() error
}

// Session evaluates one list per block period.
type Session struct {
	uid     string
	name    string
	engine  *sigraph.Engine
	list    *sigraph.List
	ev      *sigraph.Evaluator
	outputs []sigraph.Output
	feeds   []*feed
	sinks   []*sink
	buffer  signal.Float32
	blocks  int

	mutationc chan Mutation
	pending   mutations

	log            log.Logger
	metric         string
	measure        metric.MeasureFunc
	mutationBuffer int
	closed         bool
}

type feed struct {
	node *sigraph.Node
	pump Pump
	fn   func([]float32) (int, error)
	buf  []float32
	done bool
}

type sink struct {
	sink Sink
	fn   func([][]float32) error
}

// New creates a session for the list. If no outputs are provided, the main
// output of the last node in the list is used.
func New(l *sigraph.List, options ...Option) (*Session, error) {
	s := &Session{
		uid:            xid.New().String(),
		engine:         l.Engine(),
		list:           l,
		log:            silentLogger{},
		mutationBuffer: DefaultMutationBuffer,
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	if len(s.outputs) == 0 {
		if l.Len() == 0 {
			return nil, ErrNoOutputs
		}
		s.outputs = []sigraph.Output{l.At(l.Len() - 1).Main()}
	}
	for _, out := range s.outputs {
		if !out.Valid() || out.Node().Engine() != s.engine {
			return nil, fmt.Errorf("output %v: %w", out, sigraph.ErrForeignNode)
		}
		if out.Node().List() != l {
			return nil, fmt.Errorf("output %v: %w", out, ErrUnlistedOutput)
		}
	}

	ev, err := sigraph.NewEvaluator(l)
	if err != nil {
		return nil, err
	}
	s.ev = ev

	settings := s.engine.Settings()
	for _, f := range s.feeds {
		if f.fn, err = s.bindFeed(f); err != nil {
			return nil, err
		}
		f.buf = make([]float32, settings.BlockSize)
	}
	for _, snk := range s.sinks {
		if snk.fn, err = snk.sink.Sink(settings.SampleRate, settings.NumChannels, settings.BlockSize); err != nil {
			return nil, fmt.Errorf("%v: sink: %w", s, err)
		}
	}
	s.buffer = signal.EmptyFloat32(settings.NumChannels, settings.BlockSize)
	s.mutationc = make(chan Mutation, s.mutationBuffer)
	if s.metric != "" {
		s.measure = metric.Meter(s.metric, settings.SampleRate)()
	}
	s.log.Debug(fmt.Sprintf("%v: %d feeds, %d sinks, %d outputs", s, len(s.feeds), len(s.sinks), len(s.outputs)))
	return s, nil
}

func (s *Session) bindFeed(f *feed) (func([]float32) (int, error), error) {
	if f.node.Kind() != sigraph.Input {
		return nil, fmt.Errorf("%v: feed %v: %w", s, f.node, sigraph.ErrWrongKind)
	}
	if f.node.Engine() != s.engine {
		return nil, fmt.Errorf("%v: feed %v: %w", s, f.node, sigraph.ErrForeignNode)
	}
	fn, sampleRate, err := f.pump.Pump(s.engine.Settings().BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%v: feed %v: %w", s, f.node, err)
	}
	if sampleRate != s.engine.Settings().SampleRate {
		return nil, fmt.Errorf("%v: feed %v: %w: %v != %v", s, f.node, ErrSampleRateMismatch, sampleRate, s.engine.Settings().SampleRate)
	}
	return fn, nil
}

// Process runs one block period. Pushed mutations are applied first, then
// Input nodes are fed and the list is evaluated. Outputs are copied into the
// session buffer and pushed to sinks. Every feed is pulled before the block
// is processed, so the block in which a feed ends still carries samples of
// the other feeds, with the exhausted feed padded by zeros. The next call
// returns io.EOF. If no feed has samples left, io.EOF is returned at once.
func (s *Session) Process() error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.mutate(); err != nil {
		return err
	}
	for _, f := range s.feeds {
		if f.done {
			return io.EOF
		}
	}
	var (
		pulled int
		ended  bool
	)
	for _, f := range s.feeds {
		n, err := f.fn(f.buf)
		switch err {
		case nil:
		case io.EOF:
			f.done, ended, n = true, true, 0
		case io.ErrUnexpectedEOF:
			f.done = true
		default:
			return fmt.Errorf("%v: feed %v: %w", s, f.node, err)
		}
		pulled += n
		if _, err := f.node.Write(f.buf[:n]); err != nil {
			return err
		}
	}
	if ended && pulled == 0 {
		return io.EOF
	}

	startedAt := time.Now()
	s.ev.Evaluate()
	if s.measure != nil {
		s.measure(int64(len(s.buffer[0])), startedAt)
	}

	for i := range s.buffer {
		out := s.outputs[len(s.outputs)-1]
		if i < len(s.outputs) {
			out = s.outputs[i]
		}
		out.Block().CopyTo(s.buffer[i])
	}
	for _, snk := range s.sinks {
		if err := snk.fn(s.buffer); err != nil {
			return fmt.Errorf("%v: sink: %w", s, err)
		}
	}
	s.blocks++
	return nil
}

// Run processes blocks until the limit is reached, any feed is exhausted
// or context is done. Zero limit means no limit.
func (s *Session) Run(ctx context.Context, limit int) error {
	for i := 0; limit == 0 || i < limit; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Process(); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}
	s.log.Debug(fmt.Sprintf("%v: processed %d blocks", s, s.blocks))
	return nil
}

// Buffer returns output channels of the last processed block. It's
// overwritten by the next Process call.
func (s *Session) Buffer() signal.Float32 {
	return s.buffer
}

// Blocks returns number of processed blocks.
func (s *Session) Blocks() int {
	return s.blocks
}

// Duration returns duration of the processed signal.
func (s *Session) Duration() time.Duration {
	settings := s.engine.Settings()
	return signal.DurationOf(settings.SampleRate, int64(s.blocks*settings.BlockSize))
}

// Close flushes all pumps and sinks. Engine isn't closed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs flushErrors
	for _, f := range s.feeds {
		if err := f.pump.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("feed %v: %w", f.node, err))
		}
	}
	for _, snk := range s.sinks {
		if err := snk.sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	s.log.Debug(fmt.Sprintf("%v: closed", s))
	return errs.ret()
}

// UID returns unique id of the session.
func (s *Session) UID() string {
	return s.uid
}

func (s *Session) String() string {
	if s.name == "" {
		return s.uid
	}
	return fmt.Sprintf("%v %v", s.name, s.uid)
}

// flushErrors wraps errors that might occur when multiple components
// fail to flush.
type flushErrors []error

func (e flushErrors) Error() string {
	s := []string{}
	for _, se := range e {
		s = append(s, se.Error())
	}
	return strings.Join(s, ",")
}

// Is reports if any of wrapped errors matches target.
func (e flushErrors) Is(target error) bool {
	for _, se := range e {
		if errors.Is(se, target) {
			return true
		}
	}
	return false
}

// ret returns untyped nil if error list is empty.
func (e flushErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}
