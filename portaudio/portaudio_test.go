//go:build portaudio
// +build portaudio

package portaudio_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/sigraph/host"
	"github.com/dudk/sigraph/patch"
	"github.com/dudk/sigraph/portaudio"
)

func TestSink(t *testing.T) {
	p := patch.Default()
	p.Settings.BlockSize = 512
	p.Settings.NumChannels = 2
	g, err := p.Build()
	assert.Nil(t, err)
	defer g.Engine.Close()

	s, err := g.Session(host.WithSinks(portaudio.NewSink()))
	assert.Nil(t, err)
	// about a second of the oscillator
	err = s.Run(context.Background(), 94)
	assert.Nil(t, err)
	assert.Nil(t, s.Close())
}

func TestPump(t *testing.T) {
	p := patch.Default()
	p.Settings.BlockSize = 512
	p.Nodes = []patch.NodeSpec{{Name: "mic", Kind: "input"}}
	p.Outputs = nil
	g, err := p.Build()
	assert.Nil(t, err)
	defer g.Engine.Close()

	s, err := g.Session(
		host.WithFeed(g.Node("mic"), portaudio.NewPump(p.Settings.SampleRate)),
		host.WithSinks(portaudio.NewSink()),
	)
	assert.Nil(t, err)
	err = s.Run(context.Background(), 94)
	assert.Nil(t, err)
	assert.Equal(t, 94, s.Blocks())
	assert.Nil(t, s.Close())
}
