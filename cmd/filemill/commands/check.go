package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/cmd/filemill/opts"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [processor...]",
		Short: "Verify processors can run on this host",
		Long: `Check probes the external dependencies each processor declares.
It will:
1. Resolve the named processors (or all of them when none are named)
2. Look up every declared dependency on PATH
3. Report what is missing and exit non-zero if anything is`,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks, err := opts.Operator.Preflight(cmd.Context(), args)
			if err != nil {
				return err
			}

			broken := 0
			for _, c := range checks {
				switch {
				case len(c.Dependencies) == 0:
					pterm.Success.WithWriter(cmd.OutOrStdout()).
						Printfln("%s: no external dependencies", c.Name)
				case c.OK():
					pterm.Success.WithWriter(cmd.OutOrStdout()).
						Printfln("%s: all %d dependencies available", c.Name, len(c.Dependencies))
				default:
					broken++
					for _, dep := range c.Missing {
						pterm.Error.WithWriter(cmd.OutOrStdout()).
							Printfln("%s: missing dependency %q", c.Name, dep)
					}
				}
			}

			if broken > 0 {
				return errors.Errorf("%d of %d processors have missing dependencies", broken, len(checks))
			}
			return nil
		},
	}

	return cmd
}
