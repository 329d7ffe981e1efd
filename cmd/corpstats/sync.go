package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"corpstats/internal/platform/config"
)

func newSyncCmd(cfg *config.Server) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile every stored snapshot once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.service.SyncAll(cmd.Context())
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Reason != "" {
					fmt.Fprintf(out, "%d\t%s\t%s\n", r.CorporationID, r.Outcome, r.Reason)
					continue
				}
				fmt.Fprintf(out, "%d\t%s\t+%d ~%d -%d\n", r.CorporationID, r.Outcome, r.Added, r.Updated, r.Removed)
			}
			return err
		},
	}
}
