package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/domaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSnapshotGetter struct {
	t *testing.T

	userID   string
	snapshot domain.LibrarySnapshot
	err      error
	called   bool
}

func (m *mockSnapshotGetter) GetLatestSnapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error) {
	m.t.Helper()
	require.Equal(m.t, m.userID, userID)
	require.False(m.t, m.called)

	m.called = true
	return m.snapshot, m.err
}

func TestBuildGetActivity(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 31, 15, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }
	yesterday := time.Date(2024, time.March, 30, 20, 0, 0, 0, time.UTC)

	userID := "01234567-89ab-cdef-0123-456789abcdef"
	snapshot := domain.LibrarySnapshot{
		UserID: userID,
		Games: []domain.GameRecord{
			domaintest.NewGameBuilder(domain.ProviderPC, "730").
				WithUnlocks(yesterday, yesterday.Add(-time.Hour), domain.UnknownTime).
				Build(),
		},
	}

	t.Run("histogram of the stored game", func(t *testing.T) {
		t.Parallel()

		repo := &mockSnapshotGetter{t: t, userID: userID, snapshot: snapshot}
		getActivity := app.BuildGetActivity(repo, nowFunc)

		buckets, err := getActivity(t.Context(), userID, "", "730", 30)
		require.NoError(t, err)
		require.Len(t, buckets, 30)
		require.Equal(t, 2, buckets[29].Count)
		require.True(t, repo.called)
	})

	t.Run("provider picks between colliding ids", func(t *testing.T) {
		t.Parallel()

		collidingSnapshot := domain.LibrarySnapshot{
			UserID: userID,
			Games: []domain.GameRecord{
				domaintest.NewGameBuilder(domain.ProviderPC, "1").
					WithUnlocks(yesterday).
					Build(),
				domaintest.NewGameBuilder(domain.ProviderRetro, "1").
					WithUnlocks(yesterday, yesterday.Add(-time.Minute), yesterday.Add(-48*time.Hour)).
					Build(),
			},
		}

		cases := []struct {
			provider  domain.Provider
			yesterday int
			total     int
		}{
			{provider: domain.ProviderRetro, yesterday: 2, total: 3},
			{provider: domain.ProviderPC, yesterday: 1, total: 1},
			// Without a provider the first game in merge order wins
			{provider: "", yesterday: 1, total: 1},
		}

		for _, c := range cases {
			t.Run(string(c.provider), func(t *testing.T) {
				t.Parallel()

				repo := &mockSnapshotGetter{t: t, userID: userID, snapshot: collidingSnapshot}
				getActivity := app.BuildGetActivity(repo, nowFunc)

				buckets, err := getActivity(t.Context(), userID, c.provider, "1", 30)
				require.NoError(t, err)
				require.Equal(t, c.yesterday, buckets[29].Count)

				total := 0
				for _, bucket := range buckets {
					total += bucket.Count
				}
				require.Equal(t, c.total, total)
			})
		}

		repo := &mockSnapshotGetter{t: t, userID: userID, snapshot: collidingSnapshot}
		getActivity := app.BuildGetActivity(repo, nowFunc)
		_, err := getActivity(t.Context(), userID, domain.ProviderConsoleNetwork, "1", 30)
		require.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("game missing from snapshot", func(t *testing.T) {
		t.Parallel()

		repo := &mockSnapshotGetter{t: t, userID: userID, snapshot: snapshot}
		getActivity := app.BuildGetActivity(repo, nowFunc)

		_, err := getActivity(t.Context(), userID, "", "440", 30)
		require.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("no snapshot", func(t *testing.T) {
		t.Parallel()

		repo := &mockSnapshotGetter{t: t, userID: userID, err: domain.ErrLibraryNotFound}
		getActivity := app.BuildGetActivity(repo, nowFunc)

		_, err := getActivity(t.Context(), userID, "", "730", 30)
		require.ErrorIs(t, err, domain.ErrLibraryNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		t.Parallel()

		repo := &mockSnapshotGetter{t: t, userID: userID, err: assert.AnError}
		getActivity := app.BuildGetActivity(repo, nowFunc)

		_, err := getActivity(t.Context(), userID, "", "730", 30)
		require.ErrorIs(t, err, assert.AnError)
		require.NotErrorIs(t, err, domain.ErrLibraryNotFound)
	})

	t.Run("invalid input does not reach the repository", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name       string
			userID     string
			provider   domain.Provider
			windowDays int
		}{
			{name: "zero window", userID: userID, windowDays: 0},
			{name: "window too long", userID: userID, windowDays: 366},
			{name: "stripped user id", userID: "0123456789abcdef0123456789abcdef", windowDays: 30},
			{name: "empty user id", userID: "", windowDays: 30},
			{name: "unknown provider", userID: userID, provider: "arcade", windowDays: 30},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				t.Parallel()

				repo := &mockSnapshotGetter{t: t, userID: userID, snapshot: snapshot}
				getActivity := app.BuildGetActivity(repo, nowFunc)

				_, err := getActivity(t.Context(), c.userID, c.provider, "730", c.windowDays)
				require.Error(t, err)
				require.False(t, repo.called)
			})
		}
	})
}
