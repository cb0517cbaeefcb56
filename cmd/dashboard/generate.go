package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/ports"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagFormat string
	flagOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one dashboard and print it",
	Long: `Fetch the registries and states once, build the dashboard and write it as
JSON or YAML to stdout or to --output.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagFormat, "format", "json", "Output format: json, yaml")
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagFormat != "json" && flagFormat != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", flagFormat)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.FetchTimeout())
	defer cancel()

	dash, err := a.dashboard.Generate(ctx)
	if errors.Is(err, ports.ErrNotConfigured) {
		return fmt.Errorf("%w: set home_assistant.url and home_assistant.token or DASHBOARD_HASS_URL and DASHBOARD_HASS_TOKEN", err)
	}
	if err != nil {
		return err
	}

	out, err := encodeDashboard(dash, flagFormat)
	if err != nil {
		return err
	}

	if flagOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(flagOutput, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", flagOutput, err)
	}
	a.logger.Info("dashboard written", "path", flagOutput, "views", len(dash.Views))
	return nil
}

func encodeDashboard(dash *model.Dashboard, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(dash)
	default:
		out, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}
