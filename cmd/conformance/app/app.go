package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roman-kulish/telemetry-bridge/internal/storage"
)

const (
	storageDir = "data"
)

// Run dispatches the configured scenarios and, unless storage is disabled,
// records the run in a new Sqlite file under the data directory.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	runID := uuid.NewString()
	logger = logger.With(slog.String("runID", runID))

	if config.Run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Run.Timeout)
		defer cancel()
	}

	options := []func(*Runner){
		WithWorkers(config.Run.Workers),
		WithRepeat(config.Run.Repeat),
		WithMaxBatchSize(config.Storage.MaxBatchSize),
		WithLogger(logger),
	}

	if !config.Storage.Disabled {
		store, dbPath, err := createStorage(&config.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error(fmt.Sprintf("closing storage: %s", err.Error()))
			}
		}()

		sessionID, err := store.CreateSession(ctx, runID, config.Run.Name, config)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}

		logger.Info("recording dispatches", slog.String("path", dbPath), slog.Int64("sessionID", sessionID))
		options = append(options, WithStore(store, sessionID))
	}

	runner, err := NewRunner(config.Scenarios, options...)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	logger.Info("starting dispatch",
		slog.String("name", config.Run.Name),
		slog.Int("scenarios", len(config.Scenarios)),
		slog.Int("workers", config.Run.Workers),
		slog.Int("repeat", config.Run.Repeat))

	if _, err = runner.Run(ctx); err != nil {
		return fmt.Errorf("run '%s': %w", config.Run.Name, err)
	}
	return nil
}

func createStorage(config *StorageConfig) (*storage.SqliteStore, string, error) {
	dir := config.DataDirectory
	if dir == "" {
		dir = storageDir
	}

	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating storage directory '%s': %w", dir, err)
	}

	dbPath := filepath.Join(dir, fmt.Sprintf("conformance_%s.sqlite", time.Now().UTC().Format("20060102_150405.000")))
	return storage.NewSqliteStore(dbPath), dbPath, nil
}
