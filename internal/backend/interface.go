package backend

import (
	"context"

	"tripboard/internal/rows"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the row store instance and optional cleanup function
type BackendResult struct {
	Store   rows.Store
	Cleanup CleanupFunc
}

// Factory creates row store backends based on configuration
type Factory interface {
	// CreateBackend creates a row store instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Hosted row store specific
	HostedEndpoint   string
	HostedProjectID  string
	HostedAPIKey     string
	HostedDatabaseID string

	// SQLite mirror specific
	SQLiteDBPath string

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of row store backend
type BackendType string

const (
	HostedBackend BackendType = "hosted"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case HostedBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
