package commands

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"iocc/internal/app"
	"iocc/pkg/scope"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve greetings over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			shutdownTracing, err := app.SetupTracing(cmd.Context(), cfg, "iocc")
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			w, err := newWire(cmd, scope.Web)
			if err != nil {
				return err
			}
			defer w.Root.Close()

			h, err := w.Handler()
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serveHTTP(ctx, ln, h, w.Logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (env IOCC_LISTEN)")
	return cmd
}

// serveHTTP serves h on ln until ctx is done, then shuts the server down
// gracefully. It closes ln.
func serveHTTP(ctx context.Context, ln net.Listener, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Printf("listening on %s", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Printf("server on %s stopped", ln.Addr())
	return nil
}
