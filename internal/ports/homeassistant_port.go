package ports

import (
	"context"
	"errors"
	"magic-dashboard/internal/domain/model"
)

// ErrNotConfigured is returned when the provider has no URL or token yet.
var ErrNotConfigured = errors.New("Home Assistant is not configured")

// SnapshotProvider fetches the registries and live states of the host.
type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context) (*model.Snapshot, error)
	Configure(url, token string)
	IsConfigured() bool
}
