package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/dudk/sigraph/patch"
)

type inspectCommand struct {
	*config
	dump bool
	yaml bool
}

func newInspectCmd(cfg *config) *cobra.Command {
	c := &inspectCommand{config: cfg}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print nodes and bindings of the patch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&c.dump, "dump", false, "dump parsed patch structure")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "print patch with overrides applied as yaml")
	return cmd
}

func (c *inspectCommand) run(w io.Writer) error {
	p, err := c.load()
	if err != nil {
		return err
	}
	switch {
	case c.yaml:
		data, err := p.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case c.dump:
		cs := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		cs.Fdump(w, p)
		return nil
	}

	g, err := p.Build()
	if err != nil {
		return err
	}
	defer g.Engine.Close()
	printGraph(w, p, g)
	return nil
}

func printGraph(w io.Writer, p *patch.Patch, g *patch.Graph) {
	a := g.Engine.Arena()
	fmt.Fprintf(w, "%v\n", g.Engine)
	fmt.Fprintf(w, "settings: %v\n", g.Engine.Settings())
	fmt.Fprintf(w, "arena: %d of %d bytes\n", a.Len(), a.Cap())
	for i, n := range g.List.Nodes() {
		spec := p.Nodes[i]
		fmt.Fprintf(w, "%3d %-10s %v\n", i, spec.Name, n)
		for _, param := range n.Kind().Params() {
			v, _ := n.Param(param)
			fmt.Fprintf(w, "      %s = %v\n", param, v)
		}
		for _, input := range n.Kind().Inputs() {
			out, _ := n.Producer(input)
			fmt.Fprintf(w, "      %s <- %v\n", input, out)
		}
	}
	for i, out := range g.Outputs {
		fmt.Fprintf(w, "out %d <- %v\n", i, out)
	}
}
