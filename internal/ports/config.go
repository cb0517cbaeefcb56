package ports

import (
	"context"
	"magic-dashboard/internal/domain/model"
)

// ConfigRepository stores the dashboard config. Get on an empty store returns a
// zero config, not an error.
type ConfigRepository interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, cfg *model.Config) error
}
