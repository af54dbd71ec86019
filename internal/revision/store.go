package revision

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"ifcaudit/internal/errors"
)

// Store persists revision records. Implementations only ever append.
type Store interface {
	// Append adds rec to the end of the log for rec.FileName.
	Append(ctx context.Context, rec Record) error
	// List returns the log for fileName, oldest first.
	List(ctx context.Context, fileName string) ([]Record, error)
	Close() error
}

// MemoryStore keeps logs for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string][]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string][]Record)}
}

func (s *MemoryStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[rec.FileName] = append(s.logs[rec.FileName], rec)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, fileName string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.logs[fileName]
	out := make([]Record, len(log))
	copy(out, log)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// Store kinds accepted by OpenStore.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// OpenStore opens a store by kind. For sqlite an empty dsn is a private
// in-memory database.
func OpenStore(kind, dsn string, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(kind) {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreSQLite:
		return OpenSQLiteStore(dsn, logger)
	}
	return nil, errors.Newf(errors.ConfigInvalid, "unknown revision store %q", kind)
}
