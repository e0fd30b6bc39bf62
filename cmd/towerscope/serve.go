package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/towerscope/towerscope/internal/api"
)

// newServeCmd runs the REST API locally against the filesystem store, for
// trying out the HTTP surface without the full towerscoped deployment.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg, "")
			if err != nil {
				return err
			}
			research, err := loadResearch(cfg, "")
			if err != nil {
				return err
			}
			mgr := newManager(cfg, cat)

			handler := api.NewHandler(cat, research, mgr, nil, cfg.Scoring.DefaultStrategy, nil)
			mux := http.NewServeMux()
			handler.RegisterRoutes(mux)
			mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, `{"status":"ok"}`)
			})

			addr := ":" + firstNonEmpty(port, cfg.Server.Port)
			srv := &http.Server{Addr: addr, Handler: api.CORS(mux)}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				fmt.Fprintf(os.Stderr, "Serving Towerscope API on %s\n", addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			return srv.Shutdown(context.Background())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from config)")

	return cmd
}
