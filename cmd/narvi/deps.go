package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/narvi-dev/narvi/internal/errors"
	"github.com/narvi-dev/narvi/internal/model"
	"github.com/narvi-dev/narvi/pkg/notify"
)

func depsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [model]",
		Short: "Print the dependency index of a sample model",
		Long: `Print, for each base property of a sample model, the properties
notified directly when it changes.

Without an argument every model is printed.

Models: ` + strings.Join(model.Names(), ", ") + `

Examples:
  narvi deps
  narvi deps employee`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := model.Names()
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				if err := printDeps(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

func printDeps(w io.Writer, name string) error {
	typ, err := model.Lookup(name)
	if err != nil {
		return errors.New("N040").
			WithDetailf("%q is not one of %s", name, strings.Join(model.Names(), ", ")).
			Wrap(err)
	}

	graph := notify.DependencyGraph(typ)
	fmt.Fprintf(w, "%s\n", typ.String())
	if len(graph) == 0 {
		info(w, "(no dependencies)")
		return nil
	}
	for _, base := range slices.Sorted(maps.Keys(graph)) {
		info(w, "%-8s -> %s", base, strings.Join(graph[base], ", "))
	}
	return nil
}
