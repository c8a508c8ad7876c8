package domaintest

import (
	"time"

	"github.com/Amund211/gamelens/internal/domain"
)

type gameBuilder struct {
	game *domain.GameRecord
}

func (gb *gameBuilder) WithTitle(title string) *gameBuilder {
	gb.game.Title = title
	return gb
}

func (gb *gameBuilder) WithPlatforms(labels ...string) *gameBuilder {
	gb.game.PlatformLabels = labels
	return gb
}

func (gb *gameBuilder) WithLastPlayedAt(lastPlayedAt time.Time) *gameBuilder {
	gb.game.LastPlayedAt = lastPlayedAt
	return gb
}

func (gb *gameBuilder) WithFirstPlayedAt(firstPlayedAt time.Time) *gameBuilder {
	gb.game.FirstPlayedAt = firstPlayedAt
	return gb
}

func (gb *gameBuilder) WithPlaytimeMinutes(minutes int) *gameBuilder {
	gb.game.PlaytimeMinutes = minutes
	return gb
}

func (gb *gameBuilder) WithCounts(unlocked, total int) *gameBuilder {
	gb.game.Summary.Unlocked = unlocked
	gb.game.Summary.Total = total
	return gb
}

func (gb *gameBuilder) WithTrophies(earned, defined domain.TrophyCounts) *gameBuilder {
	gb.game.Summary.Earned = earned
	gb.game.Summary.Defined = defined
	gb.game.Summary.Unlocked = earned.Total()
	gb.game.Summary.Total = defined.Total()
	return gb
}

// WithUnlocks adds one unlocked achievement per instant and bumps the counts to match
func (gb *gameBuilder) WithUnlocks(unlockedAt ...time.Time) *gameBuilder {
	for _, at := range unlockedAt {
		gb.game.Achievements = append(gb.game.Achievements, domain.AchievementRecord{
			Name:       "Achievement",
			Unlocked:   true,
			UnlockedAt: at,
		})
		gb.game.Summary.Unlocked++
		gb.game.Summary.Total++
	}
	return gb
}

func (gb *gameBuilder) Build() domain.GameRecord {
	game := *gb.game
	game.PlatformLabels = append([]string{}, gb.game.PlatformLabels...)
	game.Achievements = append([]domain.AchievementRecord{}, gb.game.Achievements...)
	return game
}

func NewGameBuilder(provider domain.Provider, id string) *gameBuilder {
	game := &domain.GameRecord{
		ID:             id,
		Title:          id,
		Provider:       provider,
		PlatformLabels: []string{},
		LastPlayedAt:   domain.UnknownTime,
		FirstPlayedAt:  domain.UnknownTime,
		Achievements:   []domain.AchievementRecord{},
	}
	return &gameBuilder{
		game: game,
	}
}
