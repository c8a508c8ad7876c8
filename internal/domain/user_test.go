package domain_test

import (
	"testing"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestVisitKindValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.VisitKindLibrary.Validate())
	require.NoError(t, domain.VisitKindActivity.Validate())
	require.Error(t, domain.VisitKind("").Validate())
	require.Error(t, domain.VisitKind("stats").Validate())
}

func TestUserWithVisit(t *testing.T) {
	t.Parallel()

	first := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	later := first.Add(2 * time.Hour)

	user := domain.User{UserID: "01234567-89ab-cdef-0123-456789abcdef"}

	user = user.WithVisit(domain.VisitKindLibrary, first)
	require.Equal(t, first, user.FirstSeenAt)
	require.Equal(t, first, user.LastSeenAt)
	require.Equal(t, int64(1), user.LibraryVisits)
	require.Equal(t, int64(0), user.ActivityVisits)

	user = user.WithVisit(domain.VisitKindActivity, later)
	require.Equal(t, first, user.FirstSeenAt)
	require.Equal(t, later, user.LastSeenAt)
	require.Equal(t, int64(2), user.TotalVisits())

	// Visits arriving out of order don't move LastSeenAt backwards
	user = user.WithVisit(domain.VisitKindLibrary, first.Add(time.Hour))
	require.Equal(t, first, user.FirstSeenAt)
	require.Equal(t, later, user.LastSeenAt)
	require.Equal(t, int64(2), user.LibraryVisits)
	require.Equal(t, int64(1), user.ActivityVisits)
}
