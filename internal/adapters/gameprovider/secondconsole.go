package gameprovider

import "github.com/Amund211/gamelens/internal/domain"

type secondConsoleTitle struct {
	TitleID     flexibleID   `json:"title_id"`
	Name        string       `json:"name"`
	LastPlayed  flexibleDate `json:"last_played"`
	FirstPlayed flexibleDate `json:"first_played"`

	Achievements        []secondConsoleAchievement `json:"achievements"`
	CurrentAchievements flexibleInt                `json:"current_achievements"`
	TotalAchievements   flexibleInt                `json:"total_achievements"`
}

type secondConsoleAchievement struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Unlocked    flexibleBool `json:"unlocked"`
	UnlockedAt  flexibleDate `json:"unlocked_at"`
}

func (g secondConsoleTitle) toDomain(c converter) domain.GameRecord {
	achievements := make([]domain.AchievementRecord, 0, len(g.Achievements))
	for _, a := range g.Achievements {
		achievements = append(achievements, c.achievement(a.Name, a.Description, bool(a.Unlocked), a.UnlockedAt, domain.TierNone))
	}

	return domain.GameRecord{
		ID:            string(g.TitleID),
		Title:         g.Name,
		LastPlayedAt:  c.date(g.LastPlayed),
		FirstPlayedAt: c.date(g.FirstPlayed),
		Achievements:  achievements,
		Summary:       summarize(achievements, g.CurrentAchievements, g.TotalAchievements),
	}
}
