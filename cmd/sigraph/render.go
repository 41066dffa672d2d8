package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dudk/sigraph/host"
	"github.com/dudk/sigraph/metric"
)

type renderCommand struct {
	*config
	out     string
	seconds float32
	feeds   []string
	encoding
}

func newRenderCmd(cfg *config) *cobra.Command {
	c := &renderCommand{config: cfg}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render patch into a file",
		Long:  `Render evaluates the patch offline and writes the outputs into a wav, aiff or mp3 file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&c.out, "out", "o", "", "output file, format is defined by extension (required)")
	flags.Float32VarP(&c.seconds, "seconds", "s", 1, "duration to render, rendered until feeds are over if zero")
	flags.StringArrayVar(&c.feeds, "feed", nil, "feed input node from file, node=path")
	flags.IntVar(&c.bitDepth, "bit-depth", 16, "bit depth of wav and aiff output")
	flags.IntVar(&c.bitRate, "bit-rate", 192, "bit rate of mp3 output")
	flags.IntVar(&c.quality, "quality", 2, "quality of mp3 output")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (c *renderCommand) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.seconds <= 0 && len(c.feeds) == 0 {
		return errors.New("zero duration needs at least one feed")
	}
	l := c.logger()
	g, err := c.build(l)
	if err != nil {
		return err
	}
	defer g.Engine.Close()

	sink, err := newSink(c.out, c.encoding)
	if err != nil {
		return err
	}
	feeds, err := feedOptions(g, c.feeds)
	if err != nil {
		return err
	}
	options := append(feeds,
		host.WithSinks(sink),
		host.WithLogger(l),
		host.WithName("render"),
		host.WithMetric("render"),
	)
	s, err := g.Session(options...)
	if err != nil {
		return err
	}

	settings := g.Engine.Settings()
	var limit int
	if c.seconds > 0 {
		samples := settings.SecondsToSamples(c.seconds)
		limit = (samples + settings.BlockSize - 1) / settings.BlockSize
	}
	started := time.Now()
	if err := s.Run(ctx, limit); err != nil {
		s.Close()
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}
	l.WithFields(logrus.Fields{
		"file":     c.out,
		"blocks":   s.Blocks(),
		"duration": s.Duration(),
		"elapsed":  time.Since(started),
		"latency":  metric.Get("render")[metric.LatencyCounter],
	}).Info("rendered")
	return nil
}
