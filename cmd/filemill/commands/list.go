package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/filemill/cmd/filemill/opts"
	"github.com/walteh/filemill/pkg/processor"
)

// NewListCmd creates a new list command
func NewListCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		category string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available processors",
		Long: `List shows every processor the registry can resolve: the compiled-in
ones plus everything discovered in the plugin directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			procs := opts.Registry.Processors()
			if category != "" {
				cat := processor.ParseCategory(category)
				if !cat.Valid() {
					return errors.Errorf("unknown category %q", category)
				}
				procs = opts.Registry.ProcessorsByCategory(cat)
			}

			descs := make([]processor.Descriptor, 0, len(procs))
			for _, p := range procs {
				descs = append(descs, p.Describe())
			}

			switch output {
			case "json":
				data, err := json.MarshalIndent(descs, "", "  ")
				if err != nil {
					return errors.Errorf("encoding listing: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "yaml":
				data, err := yaml.Marshal(descs)
				if err != nil {
					return errors.Errorf("encoding listing: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
			case "table":
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"NAME", "CATEGORY", "VERSION", "FORMATS", "DESCRIPTION"})
				for _, d := range descs {
					t.AppendRow(table.Row{d.Name, d.Category.String(), d.Version, formatColumn(d), d.Description})
				}
				t.Render()
			default:
				return errors.Errorf("unknown output format %q", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (individual or adjoint)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json, yaml)")
	return cmd
}

// formatColumn renders a descriptor's save formats for the table.
func formatColumn(d processor.Descriptor) string {
	if len(d.SaveFormats) == 0 {
		return "-"
	}
	exts := make([]string, 0, len(d.SaveFormats))
	for _, f := range d.SaveFormats {
		exts = append(exts, f.Ext)
	}
	return strings.Join(exts, ", ")
}

// TODO(dr.methodical): 📝 Show where each processor came from (builtin vs plugin path) as a column
