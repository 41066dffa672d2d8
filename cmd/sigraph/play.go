package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dudk/sigraph/control"
	"github.com/dudk/sigraph/host"
	"github.com/dudk/sigraph/metric"
	"github.com/dudk/sigraph/patch"
	"github.com/dudk/sigraph/portaudio"
)

type playCommand struct {
	*config
	seconds float32
	feeds   []string
	mic     string
	live    bool
	listen  string
}

func newPlayCmd(cfg *config) *cobra.Command {
	c := &playCommand{config: cfg}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play patch on the default audio device",
		Long:  `Play evaluates the patch in real time and writes the outputs to the default output device until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.Float32VarP(&c.seconds, "seconds", "s", 0, "duration to play, until interrupted if zero")
	flags.StringArrayVar(&c.feeds, "feed", nil, "feed input node from file, node=path")
	flags.StringVar(&c.mic, "mic", "", "input node fed from the default input device")
	flags.BoolVar(&c.live, "live", false, "read node.param=value lines from stdin while playing")
	flags.StringVar(&c.listen, "listen", "", "serve control API and metrics on address, e.g. :2112")
	return cmd
}

func (c *playCommand) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	l := c.logger()
	g, err := c.build(l)
	if err != nil {
		return err
	}
	defer g.Engine.Close()

	options, err := feedOptions(g, c.feeds)
	if err != nil {
		return err
	}
	settings := g.Engine.Settings()
	if c.mic != "" {
		n := g.Node(c.mic)
		if n == nil {
			return fmt.Errorf("mic %q: %w", c.mic, patch.ErrUnknownNode)
		}
		options = append(options, host.WithFeed(n, portaudio.NewPump(settings.SampleRate)))
	}
	options = append(options,
		host.WithSinks(portaudio.NewSink()),
		host.WithLogger(l),
		host.WithName("play"),
		host.WithMetric("play"),
	)
	s, err := g.Session(options...)
	if err != nil {
		return err
	}

	var limit int
	if c.seconds > 0 {
		samples := settings.SecondsToSamples(c.seconds)
		limit = (samples + settings.BlockSize - 1) / settings.BlockSize
	}
	if c.live {
		go c.readMutations(os.Stdin, g, s, l)
	}
	if c.listen != "" {
		srv, err := c.serve(g, s, l)
		if err != nil {
			s.Close()
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}
	l.WithFields(logrus.Fields{
		"session":  s.UID(),
		"settings": settings,
	}).Info("playing")
	err = s.Run(ctx, limit)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err == context.Canceled {
		err = nil
	}
	l.WithFields(logrus.Fields{
		"blocks":   s.Blocks(),
		"duration": s.Duration(),
	}).Info("stopped")
	return err
}

// readMutations pushes every line of r to the session as mutation.
func (c *playCommand) readMutations(r io.Reader, g *patch.Graph, s *host.Session, l *logrus.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m, err := g.Mutation(scanner.Text())
		if err == nil {
			err = s.Push(m)
		}
		if err != nil {
			l.WithError(err).Warn("mutation rejected")
			continue
		}
		l.WithField("mutation", m).Debug("mutation pushed")
	}
}

// serve starts control server for the session.
func (c *playCommand) serve(g *patch.Graph, s *host.Session, l *logrus.Logger) (*http.Server, error) {
	reg := prometheus.NewRegistry()
	if err := metric.Register(reg, "play"); err != nil {
		return nil, err
	}
	srv := &http.Server{
		Addr:    c.listen,
		Handler: control.NewHandler(g, s, reg),
	}
	go func() {
		l.WithField("addr", c.listen).Info("serving control api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.WithError(err).Error("control server failed")
		}
	}()
	return srv, nil
}
