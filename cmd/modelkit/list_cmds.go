package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"modelkit/internal/presets"
	"modelkit/internal/registry"
	"modelkit/pkg/types"
)

func (a *app) modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List *.gguf models under --models-dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := registry.LoadDir(a.v.GetString("models-dir"))
			if err != nil {
				return err
			}
			if a.v.GetBool("json") {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(types.ModelsResponse{Models: models})
			}
			data := make([][]string, 0, len(models))
			for _, m := range models {
				data = append(data, []string{m.ID, dash(m.Family), dash(m.Quant), dash(m.Parameters), humanize.IBytes(uint64(m.SizeBytes))})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "FAMILY", "QUANT", "PARAMS", "SIZE"}, data)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func (a *app) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "List built-in presets or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				var data [][]string
				for _, p := range presets.All() {
					data = append(data, []string{p.Name, p.Description})
				}
				renderTable(out, []string{"NAME", "DESCRIPTION"}, data)
				return nil
			}
			p, ok := presets.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q (have %s)", args[0], strings.Join(presets.Names(), ", "))
			}
			fmt.Fprintf(out, "# %s: %s\n", p.Name, p.Description)
			fmt.Fprintf(out, "template:\n%s\n", p.Template)
			fmt.Fprintf(out, "stops: %q\n", p.Stops)
			if p.System != "" {
				fmt.Fprintf(out, "system: %s\n", p.System)
			}
			return nil
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
