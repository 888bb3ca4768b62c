package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/krhatland/cloudnetdraw-go/internal/api"
	"github.com/krhatland/cloudnetdraw-go/pkg/config"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	listen string // listen address
	config string // configuration file
}

// newServeCmd creates the serve command exposing the rendering pipeline
// over HTTP.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram pipeline as an HTTP API",
		Long: `Serve starts an HTTP server with the rendering pipeline:

  GET  /healthz            liveness probe
  POST /v1/diagrams/hld    topology JSON in, draw.io document out
  POST /v1/diagrams/mld    same with subnet rows`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.listen, "listen", "l", ":8080", "listen address")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file (.yaml or .toml)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              opts.listen,
		Handler:           api.NewServer(cfg, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.listen)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
