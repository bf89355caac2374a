package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/internal/server"
	"github.com/matzehuels/seatmap/pkg/records"
)

// serveCommand creates the serve command for the layout HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored layouts over HTTP",
		Long: `Serve stored layouts over HTTP.

Routes:
  GET    /healthz
  GET    /layouts
  GET    /layouts/{id}
  PUT    /layouts/{id}
  DELETE /layouts/{id}
  GET    /layouts/{id}/svg
  POST   /layouts/{id}/availability`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.withStore(cmd.Context(), func(s records.Store) error {
				return c.runServe(cmd.Context(), s, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, s records.Store, addr string) error {
	sc := c.cfg.Server
	srv := server.New(s,
		server.WithLogger(c.Logger),
		server.WithMaxBodyBytes(sc.MaxBodyBytes),
		server.WithTimeouts(sc.ReadTimeout, sc.WriteTimeout),
	)

	printInfo("Serving %s layouts on %s", c.cfg.Store.Backend, StyleHighlight.Render(addr))
	err := srv.ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
