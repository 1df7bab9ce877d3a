package backend

import (
	"fmt"

	"tripboard/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.RowBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.RowBackend)
	}

	return Config{
		Type: backendType,

		// Hosted row store configuration
		HostedEndpoint:   appConfig.HostedEndpoint,
		HostedProjectID:  appConfig.HostedProjectID,
		HostedAPIKey:     appConfig.HostedAPIKey,
		HostedDatabaseID: appConfig.HostedDatabaseID,

		// SQLite mirror configuration
		SQLiteDBPath: appConfig.SQLiteDBPath,

		// Memory backend fixture directory
		DataDirectory: appConfig.DataDirectory,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case HostedBackend:
		if c.HostedEndpoint == "" {
			return fmt.Errorf("row store endpoint is required for hosted backend")
		}
		if c.HostedProjectID == "" {
			return fmt.Errorf("row store project ID is required for hosted backend")
		}
		if c.HostedDatabaseID == "" {
			return fmt.Errorf("row store database ID is required for hosted backend")
		}

	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case MemoryBackend:
		// Memory backend doesn't require additional validation.
		// DataDirectory will default to "data" if empty.
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{HostedBackend, SQLiteBackend, MemoryBackend}
}
