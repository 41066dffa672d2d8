package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dudk/sigraph/aiff"
	"github.com/dudk/sigraph/host"
	"github.com/dudk/sigraph/mp3"
	"github.com/dudk/sigraph/patch"
	"github.com/dudk/sigraph/signal"
	"github.com/dudk/sigraph/vorbis"
	"github.com/dudk/sigraph/wav"
)

// encoding holds parameters of output files.
type encoding struct {
	bitDepth int
	bitRate  int
	quality  int
}

// newSink returns file sink for the path extension.
func newSink(path string, enc encoding) (host.Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		s, err := wav.NewSink(path, signal.BitDepth(enc.bitDepth))
		if err != nil {
			return nil, err
		}
		return s, nil
	case ".aif", ".aiff":
		s, err := aiff.NewSink(path, signal.BitDepth(enc.bitDepth))
		if err != nil {
			return nil, err
		}
		return s, nil
	case ".mp3":
		return mp3.NewSink(path, enc.bitRate, enc.quality), nil
	}
	return nil, fmt.Errorf("unsupported output format: %q", path)
}

// newPump returns file pump for the path extension.
func newPump(path string) (host.Pump, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.NewPump(path), nil
	case ".aif", ".aiff":
		return aiff.NewPump(path), nil
	case ".mp3":
		return mp3.NewPump(path), nil
	case ".ogg":
		return vorbis.NewPump(path), nil
	}
	return nil, fmt.Errorf("unsupported input format: %q", path)
}

// feedOptions parses "node=path" pairs into session feeds.
func feedOptions(g *patch.Graph, feeds []string) ([]host.Option, error) {
	var options []host.Option
	for _, f := range feeds {
		name, path, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid feed %q, expected node=path", f)
		}
		n := g.Node(name)
		if n == nil {
			return nil, fmt.Errorf("feed %q: %w", f, patch.ErrUnknownNode)
		}
		pump, err := newPump(path)
		if err != nil {
			return nil, err
		}
		options = append(options, host.WithFeed(n, pump))
	}
	return options, nil
}
