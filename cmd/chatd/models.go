package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"chatd/pkg/types"
)

func newModelsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			catalog, err := buildCatalog(cfg)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
}

func printCatalog(w io.Writer, models []types.Model) {
	if len(models) == 0 {
		color.New(color.FgYellow).Fprintln(w, "no models found")
		return
	}
	id := color.New(color.FgCyan, color.Bold)
	quant := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	for i, m := range models {
		fmt.Fprintf(w, "%2d. ", i+1)
		id.Fprint(w, m.ID)
		if m.Quant != "" {
			fmt.Fprint(w, " ")
			quant.Fprint(w, m.Quant)
		}
		if m.Name != "" && m.Name != m.ID {
			fmt.Fprintf(w, " %s", m.Name)
		}
		fmt.Fprintln(w)
		if m.Path != "" {
			dim.Fprintf(w, "    %s\n", m.Path)
		}
	}
}
