package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dudk/sigraph"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List node kinds with their ports",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, k := range sigraph.Kinds() {
				fmt.Fprintf(w, "%-19s params: [%s] inputs: [%s] outputs: [%s]\n",
					k,
					strings.Join(k.Params(), " "),
					strings.Join(k.Inputs(), " "),
					strings.Join(k.Outputs(), " "),
				)
			}
		},
	}
}
