package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/review-center/internal/repository"
)

// SnapshotStorage provides in-memory snapshot persistence keyed by
// session ID. It backs single-node development runs and tests; the
// Postgres-backed store is used otherwise.
type SnapshotStorage struct {
	mu        sync.RWMutex
	snapshots map[int64][]byte
}

// NewSnapshotStorage creates a new SnapshotStorage.
func NewSnapshotStorage() *SnapshotStorage {
	return &SnapshotStorage{
		snapshots: make(map[int64][]byte),
	}
}

// Save stores the snapshot bytes for a session ID.
func (s *SnapshotStorage) Save(_ context.Context, sessionID int64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.snapshots[sessionID] = buf
	return nil
}

// Load retrieves the snapshot bytes for a session ID.
func (s *SnapshotStorage) Load(_ context.Context, sessionID int64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[sessionID]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Clear removes the snapshot for a session ID.
func (s *SnapshotStorage) Clear(_ context.Context, sessionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}
