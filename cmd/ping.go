package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Q&A service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), healthCheckTimeout)
			defer cancel()

			status, err := a.client.Health(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", a.cfg.BaseURL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.cfg.BaseURL, status)
			return nil
		},
	}
}
