// Package backend builds the storage and messaging stack from
// configuration: an in-memory store for local runs, SQLite plus AMQP
// for real deployments.
package backend

import (
	"context"

	"finsight/internal/services"
	"finsight/internal/store"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles what a backend provides. Publisher is nil when no
// broker is configured.
type Result struct {
	Store     store.Store
	Publisher services.Publisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	DataDirectory string
}

// Type selects the backend implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
