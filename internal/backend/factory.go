package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tripboard/internal/rows/hosted"
	"tripboard/internal/rows/memory"
	"tripboard/internal/rows/sqlitestore"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case HostedBackend:
		return f.createHostedBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createHostedBackend(config Config) (*BackendResult, error) {
	client, err := hosted.NewClient(hosted.Config{
		Endpoint:   config.HostedEndpoint,
		ProjectID:  config.HostedProjectID,
		APIKey:     config.HostedAPIKey,
		DatabaseID: config.HostedDatabaseID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hosted row store client: %w", err)
	}

	f.logger.Info("Initialized hosted row store backend",
		"endpoint", config.HostedEndpoint,
		"database_id", config.HostedDatabaseID)

	return &BackendResult{
		Store:   client,
		Cleanup: nil, // No cleanup needed for the hosted backend
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := sqlitestore.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite mirror: %w", err)
	}

	f.logger.Info("Initialized SQLite mirror backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data" // Default directory
	}

	store := memory.NewFromFiles(dataDir, "users", "trips")

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Store:   store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
