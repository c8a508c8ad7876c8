package userrepository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
)

// Stub keeps visits in memory. Used in development when no database is reachable.
type Stub struct {
	mu      sync.Mutex
	users   map[string]domain.User
	nowFunc func() time.Time
}

func NewStub(nowFunc func() time.Time) *Stub {
	return &Stub{
		users:   make(map[string]domain.User),
		nowFunc: nowFunc,
	}
}

func (s *Stub) RegisterVisit(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error) {
	if userID == "" {
		return domain.User{}, fmt.Errorf("userID is empty")
	}
	if err := kind.Validate(); err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		user = domain.User{UserID: userID}
	}
	user = user.WithVisit(kind, s.nowFunc())

	s.users[userID] = user
	return user, nil
}
