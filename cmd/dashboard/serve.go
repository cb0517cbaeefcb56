package main

import (
	httpapi "magic-dashboard/internal/adapters/input/http"

	"github.com/spf13/cobra"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and entity API over HTTP",
	Long: `Generate the dashboard once at startup and serve it together with the merged
entity map and the dashboard config. GET /api/dashboard?refresh=true
regenerates; POST /admin/config saves the config and regenerates.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from config, env: DASHBOARD_LISTEN)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	listen := a.cfg.Server.Listen
	if flagListen != "" {
		listen = flagListen
	}

	// The API stays up when the first generation fails; the config can be
	// fixed through /admin/config.
	if _, err := a.dashboard.Generate(ctx); err != nil {
		a.logger.Warn("initial generation failed", "error", err)
	}

	server := httpapi.NewServer(a.dashboard, a.logger, a.cfg.FetchTimeout())
	return server.ListenAndServe(ctx, listen)
}
