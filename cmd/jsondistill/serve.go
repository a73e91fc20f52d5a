package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted (SIGINT or SIGTERM).

Endpoints:
  GET  /health
  GET  /metrics
  POST /api/v1/distill
  POST /api/v1/fingerprint
  GET  /api/v1/tools
  POST /api/v1/scrub`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.configPath, cmd.ErrOrStderr(), opts.quiet)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			srv, err := a.newHTTPServer()
			if err != nil {
				return fmt.Errorf("failed to create http server: %w", err)
			}

			a.logger.Info(ctx, "starting jsondistill",
				zap.String("version", version),
				zap.String("addr", srv.Addr()),
				zap.Bool("auth", a.cfg.Server.AuthToken.IsSet()),
				zap.Float64("rate_limit", a.cfg.Server.RateLimit),
			)
			if err := srv.Start(ctx); err != nil {
				return err
			}
			a.logger.Info(ctx, "server shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config, 127.0.0.1)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config, 9480)")
	return cmd
}
