package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheExpired bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the stored Census observations",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many observations are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCacheStatus(cmd.Context(), cmd.OutOrStdout())
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge [ZIP...]",
	Short: "Delete stored observations",
	Long:  "Deletes the given ZIP codes, every expired observation with --expired, or everything when neither is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCachePurge(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func runCacheStatus(ctx context.Context, w io.Writer) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	n, err := st.CountObservations(ctx)
	if err != nil {
		return eris.Wrap(err, "cache status")
	}
	fmt.Fprintf(w, "driver:       %s\n", cfg.Store.Driver)
	fmt.Fprintf(w, "observations: %d\n", n)
	fmt.Fprintf(w, "ttl:          %s\n", cfg.Store.TTL())
	return nil
}

func runCachePurge(ctx context.Context, w io.Writer, zips []string) error {
	if cacheExpired && len(zips) > 0 {
		return eris.New("cache purge: --expired cannot be combined with ZIP codes")
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	var n int
	switch {
	case len(zips) > 0:
		for _, zip := range zips {
			if err := st.DeleteObservation(ctx, zip); err != nil {
				return eris.Wrapf(err, "cache purge: zip %s", zip)
			}
		}
		n = len(zips)
	case cacheExpired:
		n, err = st.DeleteExpired(ctx)
	default:
		n, err = st.DeleteAllObservations(ctx)
	}
	if err != nil {
		return eris.Wrap(err, "cache purge")
	}

	zap.L().Info("cache purged", zap.Int("count", n), zap.Bool("expired_only", cacheExpired))
	fmt.Fprintf(w, "purged %d observation(s)\n", n)
	return nil
}

func init() {
	cachePurgeCmd.Flags().BoolVar(&cacheExpired, "expired", false, "delete only expired observations")
	cacheCmd.AddCommand(cacheStatusCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
