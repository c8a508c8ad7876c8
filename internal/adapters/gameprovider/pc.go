package gameprovider

import "github.com/Amund211/gamelens/internal/domain"

type pcGame struct {
	AppID       flexibleID   `json:"appid"`
	Name        string       `json:"name"`
	LastPlayed  flexibleDate `json:"last_played"`
	FirstPlayed flexibleDate `json:"first_played"`

	Achievements         []pcAchievement `json:"achievements"`
	TotalAchievements    flexibleInt     `json:"total_achievements"`
	UnlockedAchievements flexibleInt     `json:"unlocked_achievements"`
}

type pcAchievement struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Achieved    flexibleBool `json:"achieved"`
	UnlockTime  flexibleDate `json:"unlock_time"`
}

func (g pcGame) toDomain(c converter) domain.GameRecord {
	achievements := make([]domain.AchievementRecord, 0, len(g.Achievements))
	for _, a := range g.Achievements {
		achievements = append(achievements, c.achievement(a.Name, a.Description, bool(a.Achieved), a.UnlockTime, domain.TierNone))
	}

	return domain.GameRecord{
		ID:            string(g.AppID),
		Title:         g.Name,
		LastPlayedAt:  c.date(g.LastPlayed),
		FirstPlayedAt: c.date(g.FirstPlayed),
		Achievements:  achievements,
		Summary:       summarize(achievements, g.UnlockedAchievements, g.TotalAchievements),
	}
}
