package host

import (
	"fmt"

	"github.com/dudk/sigraph"
	"github.com/dudk/sigraph/log"
)

// Option provides a way to set functional parameters to session.
type Option func(*Session) error

// WithOutputs sets outputs read into session channels. Output i is copied
// into channel i; the last output fills remaining channels.
func WithOutputs(outputs ...sigraph.Output) Option {
	return func(s *Session) error {
		s.outputs = append(s.outputs, outputs...)
		return nil
	}
}

// WithFeed makes pump write into Input node before every evaluation.
func WithFeed(node *sigraph.Node, pump Pump) Option {
	return func(s *Session) error {
		if node == nil || pump == nil {
			return fmt.Errorf("feed: %w", sigraph.ErrWrongKind)
		}
		s.feeds = append(s.feeds, &feed{node: node, pump: pump})
		return nil
	}
}

// WithSinks adds sinks to session.
func WithSinks(sinks ...Sink) Option {
	return func(s *Session) error {
		for _, snk := range sinks {
			s.sinks = append(s.sinks, &sink{sink: snk})
		}
		return nil
	}
}

// WithLogger sets logger to session.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) error {
		s.log = logger
		return nil
	}
}

// WithName sets name to session.
func WithName(name string) Option {
	return func(s *Session) error {
		s.name = name
		return nil
	}
}

// WithMetric enables expvar metrics under provided name.
func WithMetric(name string) Option {
	return func(s *Session) error {
		s.metric = name
		return nil
	}
}

// WithMutationBuffer sets how many mutations can be pending between two
// evaluation periods.
func WithMutationBuffer(n int) Option {
	return func(s *Session) error {
		if n <= 0 {
			return fmt.Errorf("invalid mutation buffer size: %d", n)
		}
		s.mutationBuffer = n
		return nil
	}
}
