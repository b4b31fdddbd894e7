// =============================================================================
// GRN Comparison Tool - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the interactive shell:
// a small web page with the two upload controls and one button per report.
//
// COMMAND USAGE:
//   grncompare serve [--addr :8080]
//
// The server stops gracefully on SIGINT or SIGTERM.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/grn-comparison/internal/reporter"
	"github.com/ginjaninja78/grn-comparison/internal/web"
	"github.com/spf13/cobra"
)

// addr overrides server.addr from the configuration.
var addr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive comparison shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listen := appConfig.Server.Addr
	if addr != "" {
		listen = addr
	}

	srv := web.NewServer(reporter.New(appConfig.Comparison), appConfig.Server)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
