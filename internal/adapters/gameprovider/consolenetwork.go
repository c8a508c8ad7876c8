package gameprovider

import (
	"strings"

	"github.com/Amund211/gamelens/internal/domain"
)

type consoleNetworkTitle struct {
	TitleID     flexibleID   `json:"title_id"`
	TitleName   string       `json:"title_name"`
	LastPlayed  flexibleDate `json:"last_played"`
	FirstPlayed flexibleDate `json:"first_played"`

	DefinedTrophies *trophyCounts          `json:"defined_trophies"`
	EarnedTrophies  *trophyCounts          `json:"earned_trophies"`
	Trophies        []consoleNetworkTrophy `json:"trophies"`
}

type trophyCounts struct {
	Bronze   flexibleInt `json:"bronze"`
	Silver   flexibleInt `json:"silver"`
	Gold     flexibleInt `json:"gold"`
	Platinum flexibleInt `json:"platinum"`
}

func (t *trophyCounts) toDomain() domain.TrophyCounts {
	return domain.TrophyCounts{
		Bronze:   t.Bronze.orZero(),
		Silver:   t.Silver.orZero(),
		Gold:     t.Gold.orZero(),
		Platinum: t.Platinum.orZero(),
	}
}

type consoleNetworkTrophy struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        string       `json:"type"`
	Earned      flexibleBool `json:"earned"`
	EarnedDate  flexibleDate `json:"earned_date"`
}

func parseTier(raw string) domain.Tier {
	switch tier := domain.Tier(strings.ToLower(strings.TrimSpace(raw))); tier {
	case domain.TierBronze, domain.TierSilver, domain.TierGold, domain.TierPlatinum:
		return tier
	}
	return domain.TierNone
}

func (g consoleNetworkTitle) toDomain(c converter) domain.GameRecord {
	achievements := make([]domain.AchievementRecord, 0, len(g.Trophies))
	listedDefined := domain.TrophyCounts{}
	listedEarned := domain.TrophyCounts{}
	for _, trophy := range g.Trophies {
		tier := parseTier(trophy.Type)
		achievement := c.achievement(trophy.Name, trophy.Description, bool(trophy.Earned), trophy.EarnedDate, tier)
		achievements = append(achievements, achievement)

		listedDefined.Add(tier)
		if achievement.Unlocked {
			listedEarned.Add(tier)
		}
	}

	// Summary objects win over counting the list, which may be partial
	defined := listedDefined
	if g.DefinedTrophies != nil {
		defined = g.DefinedTrophies.toDomain()
	}
	earned := listedEarned
	if g.EarnedTrophies != nil {
		earned = g.EarnedTrophies.toDomain()
	}

	return domain.GameRecord{
		ID:            string(g.TitleID),
		Title:         g.TitleName,
		LastPlayedAt:  c.date(g.LastPlayed),
		FirstPlayedAt: c.date(g.FirstPlayed),
		Achievements:  achievements,
		Summary: domain.AchievementSummary{
			Unlocked: earned.Total(),
			Total:    defined.Total(),
			Earned:   earned,
			Defined:  defined,
		},
	}
}
