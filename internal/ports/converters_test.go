package ports_test

import (
	"testing"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/domaintest"
	"github.com/Amund211/gamelens/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestLibraryToResponseData(t *testing.T) {
	t.Parallel()

	computedAt := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("empty library", func(t *testing.T) {
		t.Parallel()

		data, err := ports.LibraryToResponseData(domain.Library{ComputedAt: computedAt})
		require.NoError(t, err)
		require.JSONEq(t, `{
			"computedAt": "2024-03-10T12:00:00Z",
			"recent": [],
			"mostPlayed": [],
			"mostAchieved": []
		}`, string(data))
	})

	t.Run("game fields", func(t *testing.T) {
		t.Parallel()

		xbox := domaintest.NewGameBuilder(domain.ProviderSecondConsole, "9NBLGGH4R315").
			WithTitle("Forza").
			WithPlatforms("XboxOne", "PC", "Switch").
			WithLastPlayedAt(time.Date(2024, time.March, 9, 18, 30, 0, 0, time.UTC)).
			WithPlaytimeMinutes(59_759).
			WithCounts(3, 4).
			Build()
		console := domaintest.NewGameBuilder(domain.ProviderConsoleNetwork, "NPWR1").
			WithTitle("Trophies").
			WithPlaytimeMinutes(120).
			WithTrophies(
				domain.TrophyCounts{Gold: 1},
				domain.TrophyCounts{Gold: 1, Bronze: 7},
			).
			Build()

		data, err := ports.LibraryToResponseData(domain.Library{
			ComputedAt:   computedAt,
			Recent:       []domain.GameRecord{xbox},
			MostPlayed:   []domain.GameRecord{},
			MostAchieved: []domain.GameRecord{console},
		})
		require.NoError(t, err)
		require.JSONEq(t, `{
			"computedAt": "2024-03-10T12:00:00Z",
			"recent": [{
				"id": "9NBLGGH4R315",
				"title": "Forza",
				"provider": "second_console",
				"platforms": ["Xbox One", "PC", "Switch"],
				"lastPlayedAt": "2024-03-09T18:30:00Z",
				"firstPlayedAt": null,
				"playtimeMinutes": 59759,
				"playtime": "41d 11h",
				"completion": 75,
				"unlocked": 3,
				"total": 4
			}],
			"mostPlayed": [],
			"mostAchieved": [{
				"id": "NPWR1",
				"title": "Trophies",
				"provider": "console_network",
				"platforms": [],
				"lastPlayedAt": null,
				"firstPlayedAt": null,
				"playtimeMinutes": 120,
				"playtime": "2h",
				"completion": 30,
				"unlocked": 1,
				"total": 8,
				"trophyPointsPerHour": 45
			}]
		}`, string(data))
	})
}

func TestActivityToResponseData(t *testing.T) {
	t.Parallel()

	oslo, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Skip("timezone database not available")
	}

	data, err := ports.ActivityToResponseData([]domain.ActivityBucket{
		{Date: time.Date(2024, time.March, 30, 0, 0, 0, 0, oslo), Count: 0},
		{Date: time.Date(2024, time.March, 31, 0, 0, 0, 0, oslo), Count: 4},
	})
	require.NoError(t, err)
	require.JSONEq(t, `[{"date": "2024-03-30", "count": 0}, {"date": "2024-03-31", "count": 4}]`, string(data))

	data, err = ports.ActivityToResponseData(nil)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}
