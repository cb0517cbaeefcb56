package ports

import (
	"context"
	"errors"
	"magic-dashboard/internal/domain/model"
)

var (
	// ErrEntityNotFound is returned when a merged record does not exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrConfigNotApplied is returned when the config was saved but the
	// dashboard could not be regenerated with it.
	ErrConfigNotApplied = errors.New("config saved but dashboard not regenerated")
)

// EntityFilter selects merged records. Empty fields do not filter.
type EntityFilter struct {
	Domain        string
	AreaID        string
	Platform      string
	IncludeHidden bool
	Properties    map[string]any
}

type DashboardPort interface {
	Generate(ctx context.Context) (*model.Dashboard, error)
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	Entities(ctx context.Context, filter EntityFilter) (model.Records, error)
	Entity(ctx context.Context, id string) (model.Record, error)

	// Config management
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error
}
