package service

import (
	"context"
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/ports"
)

// ConfigService reads and writes the dashboard config without regenerating.
type ConfigService struct {
	repo     ports.ConfigRepository
	provider ports.SnapshotProvider
}

func NewConfigService(repo ports.ConfigRepository, provider ports.SnapshotProvider) *ConfigService {
	return &ConfigService{
		repo:     repo,
		provider: provider,
	}
}

func (s *ConfigService) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.repo.Get(ctx)
}

func (s *ConfigService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	err := s.repo.Save(ctx, cfg)
	if err != nil {
		return err
	}
	s.provider.Configure(cfg.HassURL, cfg.HassToken)
	return nil
}

// Bootstrap loads the stored config and configures the provider from it. When
// nothing is stored yet, url and token seed the config and are saved.
func (s *ConfigService) Bootstrap(ctx context.Context, url, token string) (*model.Config, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.HassURL != "" && cfg.HassToken != "" {
		s.provider.Configure(cfg.HassURL, cfg.HassToken)
		return cfg, nil
	}
	if url == "" || token == "" {
		return cfg, nil
	}
	cfg.HassURL = url
	cfg.HassToken = token
	if err := s.UpdateConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
