package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"magic-dashboard/internal/domain/model"
	"os"
	"path/filepath"
	"sync"
)

type JSONConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

func NewJSONConfigRepository(filepath string) *JSONConfigRepository {
	return &JSONConfigRepository{filepath: filepath}
}

func (r *JSONConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", r.filepath, err)
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.filepath, err)
	}

	return &cfg, nil
}

func (r *JSONConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.filepath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	// holds the access token
	return os.WriteFile(r.filepath, data, 0o600)
}
