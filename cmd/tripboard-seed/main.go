package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"tripboard/internal/backend"
	"tripboard/internal/config"
	applog "tripboard/internal/log"
	"tripboard/internal/rows"
)

// tripboard-seed loads fixture rows from DATA_DIRECTORY into the configured
// row store. Intended for bootstrapping a fresh hosted database or a local
// SQLite mirror with demo data.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to build backend config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize row store backend", "error", err, "backend", backendCfg.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	tables := map[string]string{
		cfg.UsersTableID: "users",
		cfg.TripsTableID: "trips",
	}

	for tableID, fixture := range tables {
		path := filepath.Join(cfg.DataDirectory, fixture+".json")
		count, err := seedTable(ctx, result.Store, tableID, path)
		if err != nil {
			logger.Error("Seeding failed", "table", tableID, "file", path, "error", err)
			os.Exit(1)
		}
		logger.Info("Seeded table", "table", tableID, "rows", count, "file", path)
	}
}

func seedTable(ctx context.Context, store rows.Store, table, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Fixture file missing, skipping", "file", path)
			return 0, nil
		}
		return 0, err
	}

	var fixture []rows.Row
	if err := json.Unmarshal(b, &fixture); err != nil {
		return 0, err
	}

	created := 0
	for _, row := range fixture {
		if _, err := store.Create(ctx, table, row.Data); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
