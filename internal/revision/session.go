package revision

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/slogutil"
)

// Session owns the revision logs of one analysis session. Appends for the
// same file name are serialized; different names do not contend.
type Session struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSession creates a session over store. A nil store is a MemoryStore.
func NewSession(store Store, logger *slog.Logger) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Session{
		store:  store,
		logger: logger,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Session) lockFor(fileName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[fileName]
	if !ok {
		l = &sync.Mutex{}
		s.locks[fileName] = l
	}
	return l
}

// Append adds rec to the log of fileName and returns the updated log.
// A zero ID, Timestamp or ApprovalStatus is filled in with a random UUID,
// the current time and Pending.
func (s *Session) Append(ctx context.Context, fileName string, rec Record) ([]Record, error) {
	if fileName == "" {
		return nil, errors.Newf(errors.InvalidInput, "revision record needs a file name")
	}
	if rec.ApprovalStatus == "" {
		rec.ApprovalStatus = Pending
	}
	if !rec.ApprovalStatus.Valid() {
		return nil, errors.Newf(errors.InvalidInput, "unknown approval status %q", string(rec.ApprovalStatus))
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now().UTC()
	}
	if rec.Algorithm == "" {
		rec.Algorithm = DefaultAlgorithm
	}
	rec.FileName = fileName

	lock := s.lockFor(fileName)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("Revision recorded",
		"file", fileName,
		"hash", rec.FileHash,
		"status", string(rec.ApprovalStatus),
		"author", rec.Author,
	)
	return s.store.List(ctx, fileName)
}

// Log returns a copy of the log for fileName, oldest first.
func (s *Session) Log(ctx context.Context, fileName string) ([]Record, error) {
	return s.store.List(ctx, fileName)
}

// Close closes the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}
