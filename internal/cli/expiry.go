package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/narayanwaraich/bookie-sub004/internal/expiry"
	"github.com/narayanwaraich/bookie-sub004/internal/logging"
)

func (a *app) expiryCmd() *cobra.Command {
	var kindStr, issuedAtStr string

	cmd := &cobra.Command{
		Use:   "expiry",
		Short: "Show when tokens issued now (or at --issued-at) expire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.now()
			issuedAt := now
			if issuedAtStr != "" {
				t, err := time.Parse(time.RFC3339, issuedAtStr)
				if err != nil {
					return fmt.Errorf("invalid --issued-at value: %w", err)
				}
				issuedAt = t
			}

			kinds := expiry.Kinds
			if kindStr != "" {
				k, err := expiry.ParseKind(kindStr)
				if err != nil {
					return err
				}
				kinds = []expiry.Kind{k}
			}

			calc := expiry.NewCalculator(a.cfg.Policy(), logging.FromContext(cmd.Context()))
			calc.Now = a.now

			out := cmd.OutOrStdout()
			for _, k := range kinds {
				exp, err := calc.ExpiresAt(k, issuedAt)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", k, calc.Policy[k], exp.Format(time.RFC3339), expiry.Describe(exp, now)); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindStr, "kind", "k", "", "Token kind: access, refresh, verify-email, reset-password (default all)")
	cmd.Flags().StringVar(&issuedAtStr, "issued-at", "", "Issue time in RFC3339 (default now)")
	return cmd
}
