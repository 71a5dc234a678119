package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conetree/internal/server"
	"github.com/matzehuels/conetree/pkg/session"
)

// sessionCleanupInterval is how often expired sessions are swept while
// serving.
const sessionCleanupInterval = time.Hour

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes the pipeline over HTTP:

  POST /api/v1/render          parse, lay out, and render a document
  POST /api/v1/layout          parse and lay out, returning layout JSON
  POST /api/v1/sessions        save a viewer session
  GET  /api/v1/sessions/{id}   restore a viewer session
  PUT  /api/v1/sessions/{id}   update a viewer session
  GET  /healthz                liveness probe

The cache and session backends come from the [cache] and [session]
sections of the configuration file: redis and mongo for multi-instance
deployments, files for a single host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (default from config, :8080)")

	return cmd
}

// runServe wires the runner, stores, and server together and serves
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, address string) error {
	if address == "" {
		address = c.Config.Serve.Address
	}

	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sessions, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer sessions.Close()

	go c.cleanupSessions(ctx, sessions)

	srv := server.New(runner, sessions, c.Logger,
		server.WithTimeout(time.Duration(c.Config.Serve.TimeoutSeconds)*time.Second),
		server.WithSessionTTL(time.Duration(c.Config.Session.TTLHours)*time.Hour),
	)
	return srv.ListenAndServe(ctx, address)
}

// cleanupSessions sweeps expired sessions periodically.
func (c *CLI) cleanupSessions(ctx context.Context, sessions session.Store) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.Cleanup(ctx); err != nil {
				c.Logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
