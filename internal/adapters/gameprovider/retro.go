package gameprovider

import "github.com/Amund211/gamelens/internal/domain"

type retroGame struct {
	GameID      flexibleID   `json:"game_id"`
	Title       string       `json:"title"`
	LastPlayed  flexibleDate `json:"last_played"`
	FirstPlayed flexibleDate `json:"first_played"`

	// Only earned achievements are listed
	Achievements         []retroAchievement `json:"achievements"`
	TotalAchievements    flexibleInt        `json:"total_achievements"`
	UnlockedAchievements flexibleInt        `json:"unlocked_achievements"`
}

type retroAchievement struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DateEarned  flexibleDate `json:"date_earned"`
}

func (g retroGame) toDomain(c converter) domain.GameRecord {
	achievements := make([]domain.AchievementRecord, 0, len(g.Achievements))
	for _, a := range g.Achievements {
		achievements = append(achievements, c.achievement(a.Title, a.Description, true, a.DateEarned, domain.TierNone))
	}

	return domain.GameRecord{
		ID:            string(g.GameID),
		Title:         g.Title,
		LastPlayedAt:  c.date(g.LastPlayed),
		FirstPlayedAt: c.date(g.FirstPlayed),
		Achievements:  achievements,
		Summary:       summarize(achievements, g.UnlockedAchievements, g.TotalAchievements),
	}
}
