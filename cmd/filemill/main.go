// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/filemill/cmd/filemill/commands"
	"github.com/walteh/filemill/cmd/filemill/opts"
	_ "github.com/walteh/filemill/pkg/builtin"
)

func main() {
	// Setup logging
	setupLogging()

	// Shared options, filled once flags are parsed
	rootOpts := &opts.RootOpts{}

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "filemill",
		Short: "A plugin-driven batch file processor",
		Long: `filemill runs a processor over many files at once. Processors are
either compiled in or discovered as external plugin executables;
individual processors write one artifact per input file while adjoint
processors fold the whole batch into a single combined output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, o, err := newRootOpts(cmd.Context())
			if err != nil {
				return err
			}
			*rootOpts = *o
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewListCmd(rootOpts),
		commands.NewDescribeCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
