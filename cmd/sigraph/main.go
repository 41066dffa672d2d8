// Command sigraph renders, plays and inspects signal graph patches.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dudk/sigraph"
	"github.com/dudk/sigraph/log"
	"github.com/dudk/sigraph/patch"
)

// config holds persistent flags shared by all commands.
type config struct {
	patch string
	set   []string
	lock  bool
	debug bool
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	root := &cobra.Command{
		Use:           "sigraph",
		Short:         "sigraph is a real-time signal graph engine",
		Long:          `sigraph evaluates graphs of audio nodes block by block and renders them into files or audio devices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&cfg.patch, "patch", "p", "", "patch file, built-in oscillator if empty")
	flags.StringArrayVar(&cfg.set, "set", nil, "override node parameter, node.param=value")
	flags.BoolVar(&cfg.lock, "lock", false, "lock engine memory in RAM")
	flags.BoolVar(&cfg.debug, "debug", false, "enable debug output")

	root.AddCommand(
		newRenderCmd(cfg),
		newPlayCmd(cfg),
		newInspectCmd(cfg),
		newKindsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logger returns logger configured with debug flag.
func (cfg *config) logger() *logrus.Logger {
	if cfg.debug {
		log.SetDebug(true)
	}
	return log.GetLogger()
}

// load reads the patch and applies overrides.
func (cfg *config) load() (*patch.Patch, error) {
	p := patch.Default()
	if cfg.patch != "" {
		f, err := os.Open(cfg.patch)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if p, err = patch.Load(f); err != nil {
			return nil, fmt.Errorf("%v: %w", cfg.patch, err)
		}
	}
	for _, expr := range cfg.set {
		if err := p.Set(expr); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// build loads the patch and builds graph with engine logging to l. Memory
// is locked if requested.
func (cfg *config) build(l *logrus.Logger) (*patch.Graph, error) {
	p, err := cfg.load()
	if err != nil {
		return nil, err
	}
	g, err := p.Build(sigraph.WithLogger(l))
	if err != nil {
		return nil, err
	}
	if cfg.lock {
		if err := g.Engine.Arena().Lock(); err != nil {
			g.Engine.Close()
			return nil, err
		}
	}
	return g, nil
}
