package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/narayanwaraich/bookie-sub004/internal/duration"
	"github.com/narayanwaraich/bookie-sub004/internal/logging"
)

func (a *app) parseCmd() *cobra.Command {
	var strict, human bool

	cmd := &cobra.Command{
		Use:   "parse DURATION...",
		Short: "Convert duration strings to milliseconds",
		Long: `Convert each argument to milliseconds, one result per line.

Components are added together: "1h 30m" and "5m30s" are both valid. A bare
number counts as milliseconds. Invalid input prints 0 unless --strict is set.
Quote arguments that contain spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := duration.New(logging.FromContext(cmd.Context()))
			out := cmd.OutOrStdout()

			for _, arg := range args {
				var ms int64
				if strict {
					var err error
					if ms, err = p.ParseMs(arg); err != nil {
						return err
					}
				} else {
					ms = p.ToMs(arg)
				}

				var err error
				if human {
					_, err = fmt.Fprintf(out, "%s\t%d\t%s ms\t%s\n", arg, ms, humanize.Comma(ms), duration.Canonical(ms))
				} else {
					_, err = fmt.Fprintln(out, ms)
				}
				if err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on invalid input instead of printing 0")
	cmd.Flags().BoolVarP(&human, "human", "u", false, "Also print grouped milliseconds and the canonical duration")
	return cmd
}
