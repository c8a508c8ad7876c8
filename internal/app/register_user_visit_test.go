package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedVisit struct {
	userID string
	kind   domain.VisitKind
}

type fakeVisitRegisterer struct {
	visits []recordedVisit
	user   domain.User
	err    error
}

func (f *fakeVisitRegisterer) RegisterVisit(ctx context.Context, userID string, kind domain.VisitKind) (domain.User, error) {
	f.visits = append(f.visits, recordedVisit{userID: userID, kind: kind})
	return f.user, f.err
}

func TestBuildRegisterUserVisit(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	userID := "01234567-89ab-cdef-0123-456789abcdef"

	t.Run("passes visits through", func(t *testing.T) {
		t.Parallel()

		for _, kind := range []domain.VisitKind{domain.VisitKindLibrary, domain.VisitKindActivity} {
			user := domain.User{UserID: userID, FirstSeenAt: now, LastSeenAt: now}.WithVisit(kind, now)
			repo := &fakeVisitRegisterer{user: user}

			registered, err := app.BuildRegisterUserVisit(repo)(t.Context(), userID, kind)
			require.NoError(t, err)
			require.Equal(t, user, registered)
			require.Equal(t, []recordedVisit{{userID: userID, kind: kind}}, repo.visits)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		t.Parallel()

		repo := &fakeVisitRegisterer{err: assert.AnError}

		user, err := app.BuildRegisterUserVisit(repo)(t.Context(), userID, domain.VisitKindLibrary)
		require.ErrorIs(t, err, assert.AnError)
		require.Equal(t, domain.User{}, user)
		require.Len(t, repo.visits, 1)
	})

	t.Run("rejected before reaching the repository", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name   string
			userID string
			kind   domain.VisitKind
		}{
			{name: "sql in user id", userID: "test-user;`DROP TABLES;--", kind: domain.VisitKindLibrary},
			{name: "uppercase user id", userID: "01234567-89AB-CDEF-0123-456789ABCDEF", kind: domain.VisitKindLibrary},
			{name: "undashed user id", userID: "0123456789abcdef0123456789abcdef", kind: domain.VisitKindActivity},
			{name: "unknown kind", userID: userID, kind: domain.VisitKind("stats")},
		}

		for _, c := range cases {
			repo := &fakeVisitRegisterer{}
			_, err := app.BuildRegisterUserVisit(repo)(t.Context(), c.userID, c.kind)
			require.Error(t, err, c.name)
			require.Empty(t, repo.visits, c.name)
		}
	})
}
