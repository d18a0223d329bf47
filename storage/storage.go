// Package storage provides the key-value stores the tracker persists its
// JSON records in. Each key holds one whole record (day logs, biometrics,
// profile, stats) and is replaced on every save.
package storage

import (
	"context"
	"log"
)

// Store is a closable key-value store. It satisfies tracker.BatchStore.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	// SaveMany writes every value or none of them.
	SaveMany(ctx context.Context, values map[string][]byte) error
	Close() error
}

// Config selects the backend. DBURL wins over SQLitePath; with neither set
// the store lives in memory.
type Config struct {
	DBURL      string
	SQLitePath string
}

// Open returns the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch {
	case cfg.DBURL != "":
		log.Printf("[storage.Open] using postgres")
		s, err := NewPostgresStore(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case cfg.SQLitePath != "":
		log.Printf("[storage.Open] using sqlite at %s", cfg.SQLitePath)
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		log.Printf("[storage.Open] using in-memory store; nothing will be persisted")
		return NewMemoryStore(), nil
	}
}
