package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/narayanwaraich/bookie-sub004/internal/batch"
	"github.com/narayanwaraich/bookie-sub004/internal/duration"
	"github.com/narayanwaraich/bookie-sub004/internal/logging"
	"github.com/narayanwaraich/bookie-sub004/internal/util"
)

func (a *app) batchCmd() *cobra.Command {
	var (
		strict      bool
		quiet       bool
		output      string
		maxBytesStr string
	)

	cmd := &cobra.Command{
		Use:   "batch FILE|-",
		Short: "Convert a newline-separated list of durations",
		Long: `Read one duration per line from FILE (or stdin with "-") and write
"input<TAB>milliseconds" lines. gzip, bzip2, xz and zstd input is detected
automatically. Blank lines and lines starting with '#' are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			maxBytes, err := a.cfg.MaxBatchBytes()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-bytes") {
				if maxBytes, err = util.ParseByteSize(maxBytesStr); err != nil {
					return fmt.Errorf("invalid --max-bytes value: %w", err)
				}
			}

			res, err := batch.Run(cmd.Context(), a.tracker, batch.Job{
				Input:  args[0],
				Output: output,
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Options: batch.Options{
					Strict:   strict,
					MaxBytes: maxBytes,
					Quiet:    quiet,
					Parser:   duration.New(logger),
					Logger:   logger,
				},
			})
			if err != nil {
				return err
			}

			logger.Info("batch_complete",
				"lines", res.Lines,
				"converted", res.Converted,
				"invalid", res.Invalid,
				"compression", res.Compression.String(),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first invalid line")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not log progress")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write results to this file instead of stdout")
	cmd.Flags().StringVarP(&maxBytesStr, "max-bytes", "M", "64MiB", "Maximum decompressed input size (e.g., \"64MiB\", 0 = unlimited)")
	return cmd
}
