package app

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"github.com/Amund211/gamelens/internal/adapters/gameprovider"
	"github.com/Amund211/gamelens/internal/domain"
)

// MergeByRecency ranks games by when they were last played, most recent first.
//
// Games without a known last played date are left out. Ties keep the input order.
func MergeByRecency(libraries ...[]domain.GameRecord) []domain.GameRecord {
	games := slices.DeleteFunc(slices.Concat(libraries...), func(game domain.GameRecord) bool {
		return domain.IsUnknown(game.LastPlayedAt)
	})

	slices.SortStableFunc(games, func(a, b domain.GameRecord) int {
		return b.LastPlayedAt.Compare(a.LastPlayedAt)
	})

	return nonNil(games)
}

// MergeByPlaytime ranks games by playtime, most played first.
//
// Retro games are left out since that provider does not track comparable playtime.
// Games without any playtime are left out too.
func MergeByPlaytime(libraries ...[]domain.GameRecord) []domain.GameRecord {
	games := slices.DeleteFunc(slices.Concat(libraries...), func(game domain.GameRecord) bool {
		return game.Provider == domain.ProviderRetro || game.PlaytimeMinutes <= 0
	})

	slices.SortStableFunc(games, func(a, b domain.GameRecord) int {
		return cmp.Compare(b.PlaytimeMinutes, a.PlaytimeMinutes)
	})

	return nonNil(games)
}

// MergeByAchievement ranks games by completion percentage, highest first.
//
// Games where nothing has been earned yet are left out.
func MergeByAchievement(libraries ...[]domain.GameRecord) []domain.GameRecord {
	type scored struct {
		game       domain.GameRecord
		completion float64
	}

	candidates := make([]scored, 0)
	for _, library := range libraries {
		for _, game := range library {
			completion := domain.CompletionPercentage(game)
			if math.IsNaN(completion) || math.IsInf(completion, 0) || completion <= 0 {
				continue
			}
			candidates = append(candidates, scored{game: game, completion: completion})
		}
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.completion, a.completion)
	})

	games := make([]domain.GameRecord, 0, len(candidates))
	for _, candidate := range candidates {
		games = append(games, candidate.game)
	}
	return games
}

func nonNil(games []domain.GameRecord) []domain.GameRecord {
	if games == nil {
		return []domain.GameRecord{}
	}
	return games
}

// RankLibrary produces the three ranked views from already normalized games
func RankLibrary(now time.Time, libraries ...[]domain.GameRecord) domain.Library {
	return domain.Library{
		ComputedAt:   now,
		Recent:       MergeByRecency(libraries...),
		MostPlayed:   MergeByPlaytime(libraries...),
		MostAchieved: MergeByAchievement(libraries...),
	}
}

// ComputeLibrary normalizes every raw provider array and ranks the result
func ComputeLibrary(ctx context.Context, now time.Time, payload gameprovider.Payload) domain.Library {
	return RankLibrary(now, gameprovider.NormalizePayload(ctx, payload)...)
}
