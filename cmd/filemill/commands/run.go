package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/cmd/filemill/opts"
	"github.com/walteh/filemill/pkg/batch"
	"github.com/walteh/filemill/pkg/operation"
	"github.com/walteh/filemill/pkg/status"
)

// NewRunCmd creates a new run command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		output  string
		format  string
		glob    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "run <processor> [files...]",
		Short: "Run a processor over a batch of files",
		Long: `Run resolves a processor by name and feeds it the given files
concurrently. Individual processors write one artifact per file into
the output directory; adjoint processors combine every file into the
single output path. Per-file failures do not stop the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var observer batch.Observer = status.NewConsole(ctx, cmd.OutOrStdout())
			if opts.Quiet {
				observer = status.NewLogger(ctx)
			}

			done, err := opts.Operator.ProcessBatch(ctx, operation.Request{
				Processor:    args[0],
				Inputs:       args[1:],
				Glob:         glob,
				OutputTarget: output,
				Format:       format,
				MaxWorkers:   workers,
				Observers:    []batch.Observer{observer},
			})
			if err != nil {
				return errors.Errorf("running batch: %w", err)
			}

			if done.GatherErr != nil {
				return errors.Errorf("combining results: %w", done.GatherErr)
			}
			if failed := done.Failed(); failed > 0 {
				return errors.Errorf("%d of %d files failed", failed, len(done.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (individual) or combined file path (adjoint)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "save format, by extension or label")
	cmd.Flags().StringVar(&glob, "glob", "", "doublestar pattern for input files, filtered by accepted types")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "max concurrent files (0 = auto)")
	return cmd
}

// TODO(dr.methodical): 🔍 Add a --dry-run flag that lists the selected files without running
