package domain

import (
	"fmt"
	"time"
)

// VisitKind is the endpoint a user called
type VisitKind string

const (
	VisitKindLibrary  VisitKind = "library"
	VisitKindActivity VisitKind = "activity"
)

func (k VisitKind) Validate() error {
	switch k {
	case VisitKindLibrary, VisitKindActivity:
		return nil
	}
	return fmt.Errorf("unknown visit kind '%s'", k)
}

// User is an anonymous client identified by the id it sends in X-User-Id
type User struct {
	UserID      string
	FirstSeenAt time.Time
	LastSeenAt  time.Time

	LibraryVisits  int64
	ActivityVisits int64
}

func (u User) TotalVisits() int64 {
	return u.LibraryVisits + u.ActivityVisits
}

// WithVisit returns the user after one more visit of the given kind at the given time
func (u User) WithVisit(kind VisitKind, at time.Time) User {
	if u.FirstSeenAt.IsZero() || at.Before(u.FirstSeenAt) {
		u.FirstSeenAt = at
	}
	if at.After(u.LastSeenAt) {
		u.LastSeenAt = at
	}

	switch kind {
	case VisitKindLibrary:
		u.LibraryVisits++
	case VisitKindActivity:
		u.ActivityVisits++
	}
	return u
}
