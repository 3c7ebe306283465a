package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/colexec/colexec/pkg/health"
	"github.com/colexec/colexec/pkg/opcache"
)

// newHealthCmd reports the process-wide operator cache's health, the way an
// embedding service would probe it before accepting traffic (spec.md §10
// "Health/readiness"). colexec has no long-running daemon mode of its own
// (the web/RPC server the health.Checker was originally built for is out of
// scope), so this prints one HealthResponse for a freshly constructed cache
// rather than serving it over HTTP.
func newHealthCmd() *cobra.Command {
	var maxCacheKeys int

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Print a HealthResponse for a fresh operator cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := opcache.New()
			checker := health.NewChecker("colexec", cliVersion)

			checker.RegisterCheck("opcache", health.OpCacheCheck(cache), 5*time.Second, true)
			checker.RegisterCheck("opcache_pressure", health.OpCachePressureCheck(cache, maxCacheKeys), 5*time.Second, false)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(checker.Check(context.Background()))
		},
	}

	cmd.Flags().IntVar(&maxCacheKeys, "max-cache-keys", 10000, "opcache_pressure check fails above this many live keys")

	return cmd
}
