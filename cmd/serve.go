package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/budget-cli/internal/api"
)

var (
	servePort           int
	serveResolveTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the budget analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initResolver(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store != nil {
			if n, err := env.Store.DeleteExpired(ctx); err != nil {
				zap.L().Warn("expired observation cleanup failed", zap.Error(err))
			} else if n > 0 {
				zap.L().Info("expired observations removed", zap.Int("count", n))
			}
		}

		opts := api.Options{
			CORSOrigins:    cfg.Server.CORSOrigins,
			ResolveTimeout: serveResolveTimeout,
		}
		if env.Store != nil {
			opts.Store = env.Store
		}
		srv := api.NewServer(env.Engine, env.Resolver, env.Classifier, opts)

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().DurationVar(&serveResolveTimeout, "resolve-timeout", 30*time.Second, "deadline for one demographics request (0 disables)")
	rootCmd.AddCommand(serveCmd)
}
