package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/sigraph/patch"
)

func execute(args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInit(t *testing.T) {
	// check if commands are registered
	names := []string{}
	for _, cmd := range newRootCmd().Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"render", "play", "inspect", "kinds"})
}

func TestKinds(t *testing.T) {
	out, err := execute("kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "sine")
	assert.Contains(t, out, "inputs: [freq phaseOffset mul add]")
	assert.Contains(t, out, "params: [start]")
	assert.Contains(t, out, "params: [resetOnTrigger bipolar] inputs: [trigger duration]")
}

func TestInspect(t *testing.T) {
	out, err := execute("inspect", "--set", "freq.value=220")
	require.NoError(t, err)
	assert.Contains(t, out, "value = 220")
	assert.Contains(t, out, "freq <- value#0.main")
	assert.Contains(t, out, "out 0 <- mul#4.main")

	out, err = execute("inspect", "--yaml")
	require.NoError(t, err)
	p, err := patch.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, patch.Default(), p)

	out, err = execute("inspect", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "oscillator")

	_, err = execute("inspect", "--set", "lfo.value=1")
	assert.ErrorIs(t, err, patch.ErrUnknownNode)
	_, err = execute("inspect", "--patch", "missing.yaml")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "osc.wav")
	_, err := execute("render", "--out", out, "--seconds", "0.1")
	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	// 4800 16 bit samples and the header
	assert.True(t, info.Size() > 9600)

	// feed rendered file through a gain patch
	doc := []byte(`
nodes:
  - {name: in, kind: input}
  - {name: gain, kind: value, params: {value: 0.5}}
  - {name: out, kind: mul, inputs: {left: in, right: gain}}
`)
	patchFile := filepath.Join(dir, "gain.yaml")
	require.NoError(t, os.WriteFile(patchFile, doc, 0644))
	aiffOut := filepath.Join(dir, "gain.aiff")
	_, err = execute("render", "--patch", patchFile, "--feed", "in="+out, "--out", aiffOut, "--seconds", "0")
	require.NoError(t, err)
	_, err = os.Stat(aiffOut)
	assert.NoError(t, err)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	tests := [][]string{
		{"render"},
		{"render", "--out", filepath.Join(dir, "out.flac")},
		{"render", "--out", filepath.Join(dir, "out.wav"), "--bit-depth", "12"},
		{"render", "--out", filepath.Join(dir, "out.wav"), "--seconds", "0"},
		{"render", "--out", filepath.Join(dir, "out.wav"), "--feed", "in"},
		{"render", "--out", filepath.Join(dir, "out.wav"), "--feed", "in=in.wav"},
		{"render", "--out", filepath.Join(dir, "out.wav"), "--feed", "freq=in.flac"},
		{"render", "--out", filepath.Join(dir, "out.wav"), "--feed", "freq=missing.wav"},
	}
	for _, args := range tests {
		_, err := execute(args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestPlayUnknownMic(t *testing.T) {
	_, err := execute("play", "--mic", "nosuch")
	assert.ErrorIs(t, err, patch.ErrUnknownNode)
}

func TestReadMutations(t *testing.T) {
	g, err := patch.Default().Build()
	require.NoError(t, err)
	defer g.Engine.Close()
	s, err := g.Session()
	require.NoError(t, err)
	defer s.Close()

	c := &playCommand{config: &config{}}
	lines := strings.NewReader("gain.value=0.5\nnoise\nfreq.value=220\n")
	c.readMutations(lines, g, s, c.logger())
	require.NoError(t, s.Process())

	gain, err := g.Node("gain").Param("value")
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), gain)
	freq, err := g.Node("freq").Param("value")
	require.NoError(t, err)
	assert.Equal(t, float32(220), freq)
}
