package libraryrepository

import (
	"context"
	"slices"
	"sync"

	"github.com/Amund211/gamelens/internal/domain"
)

// Stub keeps snapshots in memory. Used in development when no database is reachable.
type Stub struct {
	mu        sync.Mutex
	snapshots map[string]domain.LibrarySnapshot
}

func NewStub() *Stub {
	return &Stub{
		snapshots: make(map[string]domain.LibrarySnapshot),
	}
}

func (s *Stub) StoreSnapshot(ctx context.Context, snapshot domain.LibrarySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if latest, ok := s.snapshots[snapshot.UserID]; ok && latest.QueriedAt.After(snapshot.QueriedAt) {
		return nil
	}

	snapshot.Games = slices.Clone(snapshot.Games)
	s.snapshots[snapshot.UserID] = snapshot
	return nil
}

func (s *Stub) GetLatestSnapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.snapshots[userID]
	if !ok {
		return domain.LibrarySnapshot{}, domain.ErrLibraryNotFound
	}
	return snapshot, nil
}
