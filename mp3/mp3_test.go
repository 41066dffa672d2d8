package mp3_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/sigraph/host"
	"github.com/dudk/sigraph/internal/mock"
	"github.com/dudk/sigraph/mp3"
	"github.com/dudk/sigraph/patch"
)

func TestMp3(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp3")
	p := patch.Default()
	p.Settings.SampleRate = 44100
	p.Settings.BlockSize = 1152
	p.Settings.NumChannels = 2

	// render half a second of the oscillator
	g, err := p.Build()
	assert.Nil(t, err)
	defer g.Engine.Close()
	s, err := g.Session(host.WithSinks(mp3.NewSink(out, 192, 2)))
	assert.Nil(t, err)
	err = s.Run(context.Background(), 19)
	assert.Nil(t, err)
	assert.Nil(t, s.Close())

	// read it back into an input
	p.Nodes = []patch.NodeSpec{{Name: "in", Kind: "input"}}
	p.Outputs = []string{"in"}
	g2, err := p.Build()
	assert.Nil(t, err)
	defer g2.Engine.Close()
	sink := &mock.Sink{}
	s2, err := g2.Session(
		host.WithFeed(g2.Node("in"), mp3.NewPump(out)),
		host.WithSinks(sink),
	)
	assert.Nil(t, err)
	err = s2.Run(context.Background(), 0)
	assert.Nil(t, err)
	assert.Nil(t, s2.Close())

	blocks, samples := sink.Count()
	// encoder delay and padding only add frames
	assert.True(t, blocks >= 19, "decoded %d blocks", blocks)
	assert.Equal(t, blocks*1152, samples)
}

func TestPumpMissingFile(t *testing.T) {
	_, _, err := mp3.NewPump("missing.mp3").Pump(512)
	assert.NotNil(t, err)
	assert.Nil(t, mp3.NewPump("missing.mp3").Flush())
}

func TestSinkChannels(t *testing.T) {
	_, err := mp3.NewSink("out.mp3", 192, 2).Sink(44100, 6, 512)
	assert.Equal(t, mp3.ErrUnsupportedChannels, err)
}
