package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPingCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and print the cluster version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.store.Ping(ctx); err != nil {
				a.logger.Error("Ping failed", zap.Error(err))
				return fmt.Errorf("ping %s: %w", a.cfg.OpenSearch.Host, err)
			}

			info, err := a.store.Info(ctx)
			if err != nil {
				return fmt.Errorf("cluster info: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "connected to %s\n", a.cfg.OpenSearch.Host)
			fmt.Fprintf(out, "cluster: %v\n", info["cluster_name"])
			if v, ok := info["version"].(map[string]any); ok {
				fmt.Fprintf(out, "version: %v\n", v["number"])
			}
			return nil
		},
	}
}
