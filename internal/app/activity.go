package app

import (
	"time"

	"github.com/Amund211/gamelens/internal/domain"
)

const DefaultActivityWindowDays = 30

// UnlockInstants returns the unlock time of every dated, unlocked achievement
func UnlockInstants(game domain.GameRecord) []time.Time {
	instants := make([]time.Time, 0, len(game.Achievements))
	for _, achievement := range game.Achievements {
		if !achievement.Dated() {
			continue
		}
		instants = append(instants, achievement.UnlockedAt)
	}
	return instants
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Bucketize counts unlocks per day over the windowDays days before today.
//
// The window is [today-windowDays, today) where today is the midnight of now. The result
// has exactly windowDays entries, oldest first. Unlocks outside the window are dropped.
func Bucketize(unlocks []time.Time, windowDays int, now time.Time) []domain.ActivityBucket {
	if windowDays <= 0 {
		return []domain.ActivityBucket{}
	}

	today := startOfDay(now)
	start := today.AddDate(0, 0, -windowDays)

	buckets := make([]domain.ActivityBucket, windowDays)
	for i := range buckets {
		buckets[i] = domain.ActivityBucket{
			Date:  start.AddDate(0, 0, i),
			Count: 0,
		}
	}

	for _, unlock := range unlocks {
		if domain.IsUnknown(unlock) {
			continue
		}

		day := startOfDay(unlock.In(now.Location()))
		if day.Before(start) || !day.Before(today) {
			continue
		}

		// Calendar days are not always 24h long, so search by date instead of dividing
		for i := range buckets {
			if buckets[i].Date.Equal(day) {
				buckets[i].Count++
				break
			}
		}
	}

	return buckets
}
