package main

import (
	"context"
	"fmt"
	"magic-dashboard/internal/adapters/output/homeassistant"
	"magic-dashboard/internal/adapters/output/persistence"
	"magic-dashboard/internal/domain/service"
	"magic-dashboard/internal/infrastructure/config"
	"magic-dashboard/internal/infrastructure/logging"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Home Assistant dashboard generator",
	Long: `dashboard reads the floor, area, device and entity registries of a Home
Assistant instance together with its live states, merges them into one
metadata record per entity and builds a dashboard with a view per area.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (env overrides: DASHBOARD_*)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute(version string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("dashboard %s\n", version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app holds the wired services shared by every command.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	dashboard *service.DashboardService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	logger := logging.New(cfg.Logging, rootCmd.Version)

	repo := persistence.NewJSONConfigRepository(cfg.Dashboard.ConfigPath)
	client := homeassistant.NewClient(logger, cfg.HomeAssistant.MaxRetries)

	configService := service.NewConfigService(repo, client)
	if _, err := configService.Bootstrap(ctx, cfg.HomeAssistant.URL, cfg.HomeAssistant.Token); err != nil {
		return nil, fmt.Errorf("loading dashboard config: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		dashboard: service.NewDashboardService(client, repo, logger),
	}, nil
}
