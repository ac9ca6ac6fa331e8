package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/internal/presentation/tui"
	httpAdapter "github.com/aretw0/tinysplit/pkg/adapters/http"
	"github.com/aretw0/tinysplit/pkg/observability"
	"github.com/aretw0/tinysplit/pkg/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves stateless splitting on POST /split and persisted sessions under
/sessions, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer b.close()

		metrics := observability.NewMetrics()
		opts := append(sessionOptions(), tinysplit.WithHooks(metrics.Hooks()))
		mgr := b.newManager(session.WithSessionOptions(opts...))

		srv := httpAdapter.NewServer(mgr,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithSessionOptions(opts...),
		)

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(os.Stderr)
		}
		logger.Info("Starting tinysplit server", "port", port, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
