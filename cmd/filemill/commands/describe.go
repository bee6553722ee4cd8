package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/filemill/cmd/filemill/opts"
	"github.com/walteh/filemill/pkg/processor"
)

// NewDescribeCmd creates a new describe command
func NewDescribeCmd(opts *opts.RootOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "describe <processor>",
		Short: "Show a processor's full descriptor",
		Long: `Describe prints everything a processor publishes about itself:
category, accepted file types, save formats, config options, and its
declared external dependencies with their availability on this host.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := opts.Registry.ProcessorByName(args[0])
			if err != nil {
				return errors.Errorf("resolving processor: %w", err)
			}
			desc := proc.Describe()

			switch output {
			case "json":
				data, err := json.MarshalIndent(describePayload(desc), "", "  ")
				if err != nil {
					return errors.Errorf("encoding descriptor: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			case "yaml":
				data, err := yaml.Marshal(describePayload(desc))
				if err != nil {
					return errors.Errorf("encoding descriptor: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			case "text":
				renderDescriptor(cmd, desc)
				return nil
			default:
				return errors.Errorf("unknown output format %q", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}

// descriptorView is the machine-readable describe output: the descriptor
// plus the dependency probe results.
type descriptorView struct {
	processor.Descriptor `yaml:",inline"`
	MissingDependencies  []string `json:"missing_dependencies,omitempty" yaml:"missing_dependencies,omitempty"`
}

func describePayload(desc processor.Descriptor) descriptorView {
	return descriptorView{
		Descriptor:          desc,
		MissingDependencies: desc.MissingDependencies(),
	}
}

// renderDescriptor prints the human-readable describe layout.
func renderDescriptor(cmd *cobra.Command, desc processor.Descriptor) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s: %s\n", desc.Name, desc.Description)
	fmt.Fprintf(out, "  category: %s\n", desc.Category)
	if desc.Version != "" {
		fmt.Fprintf(out, "  version:  %s\n", desc.Version)
	}
	if len(desc.Metadata) > 0 {
		keys := make([]string, 0, len(desc.Metadata))
		for k := range desc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %s\n", k, desc.Metadata[k])
		}
	}

	if len(desc.FileTypes) > 0 {
		fmt.Fprintln(out, "\nAccepted inputs:")
		for _, ft := range desc.FileTypes {
			fmt.Fprintf(out, "  %-24s %s\n", ft.Label, ft.Pattern)
		}
	}

	if len(desc.SaveFormats) > 0 {
		fmt.Fprintln(out, "\nSave formats (first is default):")
		for _, f := range desc.SaveFormats {
			fmt.Fprintf(out, "  %-24s .%s\n", f.Label, f.Ext)
		}
	}

	if len(desc.ConfigOptions) > 0 {
		names := make([]string, 0, len(desc.ConfigOptions))
		for name := range desc.ConfigOptions {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(out, "\nConfig options:")
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"NAME", "TYPE", "DEFAULT", "DESCRIPTION"})
		for _, name := range names {
			opt := desc.ConfigOptions[name]
			t.AppendRow(table.Row{name, opt.Type, fmt.Sprintf("%v", opt.Default), opt.Description})
		}
		t.Render()
	}

	if len(desc.Dependencies) > 0 {
		missing := make(map[string]bool)
		for _, dep := range desc.MissingDependencies() {
			missing[dep] = true
		}

		fmt.Fprintln(out, "\nExternal dependencies:")
		for _, dep := range desc.Dependencies {
			state := "found"
			if missing[dep] {
				state = "MISSING"
			}
			fmt.Fprintf(out, "  %-24s %s\n", dep, state)
		}
	}
}
