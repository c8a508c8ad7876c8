package domain

import (
	"fmt"
	"math"
)

type TrophyWeights struct {
	Bronze   int
	Silver   int
	Gold     int
	Platinum int
}

// RankingTrophyWeights is the canonical table for completion percentages
var RankingTrophyWeights = TrophyWeights{Bronze: 1, Silver: 2, Gold: 3, Platinum: 20}

// EfficiencyTrophyWeights is only used for trophy points per hour, never for ranking
var EfficiencyTrophyWeights = TrophyWeights{Bronze: 15, Silver: 30, Gold: 90, Platinum: 300}

func (w TrophyWeights) Score(counts TrophyCounts) int {
	return counts.Bronze*w.Bronze +
		counts.Silver*w.Silver +
		counts.Gold*w.Gold +
		counts.Platinum*w.Platinum
}

func percentage(numerator, denominator int) (float64, error) {
	if denominator == 0 {
		return 0, fmt.Errorf("%w: %d/%d", ErrZeroDenominator, numerator, denominator)
	}
	return float64(numerator) / float64(denominator) * 100, nil
}

// CompletionPercentage scores a game from 0 to 100.
//
// Trophies from the console network are weighted by tier, everything else counts
// each achievement equally. A game without any achievements scores 0.
func CompletionPercentage(game GameRecord) float64 {
	var result float64
	var err error

	switch game.Provider {
	case ProviderConsoleNetwork:
		result, err = percentage(
			RankingTrophyWeights.Score(game.Summary.Earned),
			RankingTrophyWeights.Score(game.Summary.Defined),
		)
	default:
		result, err = percentage(game.Summary.Unlocked, game.Summary.Total)
	}
	if err != nil || math.IsNaN(result) {
		return 0
	}

	// Inconsistent provider counts (more earned than defined) must not escape the range
	return math.Max(0, math.Min(100, result))
}

func TrophyPoints(counts TrophyCounts) int {
	return EfficiencyTrophyWeights.Score(counts)
}

// TrophyPointsPerHour is 0 for games without recorded playtime
func TrophyPointsPerHour(game GameRecord) float64 {
	if game.PlaytimeMinutes <= 0 {
		return 0
	}
	hours := float64(game.PlaytimeMinutes) / minutesPerHour
	return float64(TrophyPoints(game.Summary.Earned)) / hours
}
