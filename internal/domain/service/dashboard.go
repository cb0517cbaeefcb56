package service

import (
	"context"
	"fmt"
	"magic-dashboard/internal/domain/merge"
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/domain/query"
	"magic-dashboard/internal/domain/strategy"
	"magic-dashboard/internal/infrastructure/logging"
	"magic-dashboard/internal/ports"
	"sync"
)

// DashboardService runs generation cycles and keeps the latest result for readers.
type DashboardService struct {
	provider   ports.SnapshotProvider
	configRepo ports.ConfigRepository
	factory    *strategy.Factory
	logger     *logging.Logger

	merged    model.MergedEntityMap
	dashboard *model.Dashboard
	mu        sync.RWMutex
}

func NewDashboardService(provider ports.SnapshotProvider, configRepo ports.ConfigRepository, logger *logging.Logger) *DashboardService {
	return &DashboardService{
		provider:   provider,
		configRepo: configRepo,
		factory:    strategy.NewFactory(),
		logger:     logger.With("component", "dashboard"),
	}
}

// Refresh runs one generation cycle: fetch, merge, build. The cached result is
// replaced only when the whole cycle succeeds.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if !s.provider.IsConfigured() {
		return ports.ErrNotConfigured
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading dashboard config: %w", err)
	}
	snapshot, err := s.provider.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}

	merged := merge.Merge(snapshot.Areas, snapshot.Devices, snapshot.Entities, snapshot.States)
	dashboard := s.factory.Build(snapshot, merged, cfg)

	// debug in the dashboard config reports at info so it shows without
	// touching the process log level
	if cfg.Debug {
		s.logger.Info("generation inputs",
			"floors", len(snapshot.Floors),
			"areas", len(snapshot.Areas),
			"devices", len(snapshot.Devices),
			"entities", len(snapshot.Entities),
			"states", len(snapshot.States),
			"hidden_areas", cfg.Areas.Hide,
		)
	}
	s.logger.Info("dashboard generated", "merged", len(merged), "views", len(dashboard.Views))

	s.mu.Lock()
	s.merged = merged
	s.dashboard = dashboard
	s.mu.Unlock()
	return nil
}

// Generate always runs a fresh cycle.
func (s *DashboardService) Generate(ctx context.Context) (*model.Dashboard, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard, nil
}

// Dashboard returns the cached dashboard, generating it on first use.
func (s *DashboardService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	s.mu.RLock()
	d := s.dashboard
	s.mu.RUnlock()
	if d != nil {
		return d, nil
	}
	return s.Generate(ctx)
}

func (s *DashboardService) mergedMap(ctx context.Context) (model.MergedEntityMap, error) {
	s.mu.RLock()
	m := s.merged
	s.mu.RUnlock()
	if m != nil {
		return m, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.merged, nil
}

// Entities filters the cached merged map. Hidden and disabled records are left
// out unless the filter asks for them. An area filter returns the entities of
// the area, not its area.<area_id> record.
func (s *DashboardService) Entities(ctx context.Context, filter ports.EntityFilter) (model.Records, error) {
	m, err := s.mergedMap(ctx)
	if err != nil {
		return nil, err
	}

	if filter.Domain != "" {
		m = query.ByDomainPrefix(m, filter.Domain)
	}
	var records query.Collection = m
	if filter.AreaID != "" {
		records = query.ByArea(query.ExcludeAreas(m), filter.AreaID, true)
	}
	if filter.Platform != "" {
		records = query.ByPlatform(records, filter.Platform)
	}
	if len(filter.Properties) > 0 {
		records = query.ByProperties(records, filter.Properties)
	}

	if filter.IncludeHidden {
		return model.Records(records.Records()), nil
	}
	return query.RemoveHidden(records.Records()), nil
}

// Entity returns one merged record, area pseudo-entities included.
func (s *DashboardService) Entity(ctx context.Context, id string) (model.Record, error) {
	m, err := s.mergedMap(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrEntityNotFound, id)
	}
	return rec, nil
}

func (s *DashboardService) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.configRepo.Get(ctx)
}

// UpdateConfig persists cfg, points the provider at the configured host and
// regenerates. A failed regeneration after a successful save is reported as
// ports.ErrConfigNotApplied.
func (s *DashboardService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	err := s.configRepo.Save(ctx, cfg)
	if err != nil {
		return err
	}
	s.provider.Configure(cfg.HassURL, cfg.HassToken)
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrConfigNotApplied, err)
	}
	return nil
}
