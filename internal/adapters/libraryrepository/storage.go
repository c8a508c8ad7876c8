package libraryrepository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
)

const DATA_FORMAT_VERSION = 1

type gameStorage struct {
	ID              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	Provider        string   `json:"provider"`
	Platforms       []string `json:"platforms,omitempty"`
	LastPlayedAt    *string  `json:"last,omitempty"`
	FirstPlayedAt   *string  `json:"first,omitempty"`
	PlaytimeMinutes int      `json:"pt,omitempty"`

	Achievements []achievementStorage `json:"ach,omitempty"`

	Unlocked int                  `json:"u,omitempty"`
	Total    int                  `json:"t,omitempty"`
	Earned   *trophyCountsStorage `json:"earned,omitempty"`
	Defined  *trophyCountsStorage `json:"defined,omitempty"`
}

type achievementStorage struct {
	Name        string  `json:"n"`
	Description string  `json:"d,omitempty"`
	Unlocked    bool    `json:"u,omitempty"`
	UnlockedAt  *string `json:"at,omitempty"`
	Tier        string  `json:"tier,omitempty"`
}

type trophyCountsStorage struct {
	Bronze   int `json:"b,omitempty"`
	Silver   int `json:"s,omitempty"`
	Gold     int `json:"g,omitempty"`
	Platinum int `json:"p,omitempty"`
}

func timeToStorage(t time.Time) *string {
	if domain.IsUnknown(t) {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339Nano)
	return &formatted
}

func timeFromStorage(raw *string) (time.Time, error) {
	if raw == nil {
		return domain.UnknownTime, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time: %w", err)
	}
	return t, nil
}

func trophyCountsToStorage(counts domain.TrophyCounts) *trophyCountsStorage {
	if counts == (domain.TrophyCounts{}) {
		return nil
	}
	return &trophyCountsStorage{
		Bronze:   counts.Bronze,
		Silver:   counts.Silver,
		Gold:     counts.Gold,
		Platinum: counts.Platinum,
	}
}

func trophyCountsFromStorage(counts *trophyCountsStorage) domain.TrophyCounts {
	if counts == nil {
		return domain.TrophyCounts{}
	}
	return domain.TrophyCounts{
		Bronze:   counts.Bronze,
		Silver:   counts.Silver,
		Gold:     counts.Gold,
		Platinum: counts.Platinum,
	}
}

func gamesToDataStorage(games []domain.GameRecord) ([]byte, error) {
	stored := make([]gameStorage, 0, len(games))
	for _, game := range games {
		achievements := make([]achievementStorage, 0, len(game.Achievements))
		for _, achievement := range game.Achievements {
			achievements = append(achievements, achievementStorage{
				Name:        achievement.Name,
				Description: achievement.Description,
				Unlocked:    achievement.Unlocked,
				UnlockedAt:  timeToStorage(achievement.UnlockedAt),
				Tier:        string(achievement.Tier),
			})
		}

		stored = append(stored, gameStorage{
			ID:              game.ID,
			Title:           game.Title,
			Provider:        string(game.Provider),
			Platforms:       game.PlatformLabels,
			LastPlayedAt:    timeToStorage(game.LastPlayedAt),
			FirstPlayedAt:   timeToStorage(game.FirstPlayedAt),
			PlaytimeMinutes: game.PlaytimeMinutes,
			Achievements:    achievements,
			Unlocked:        game.Summary.Unlocked,
			Total:           game.Summary.Total,
			Earned:          trophyCountsToStorage(game.Summary.Earned),
			Defined:         trophyCountsToStorage(game.Summary.Defined),
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal games: %w", err)
	}
	return data, nil
}

func gamesFromDataStorage(data []byte) ([]domain.GameRecord, error) {
	var stored []gameStorage
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games: %w", err)
	}

	games := make([]domain.GameRecord, 0, len(stored))
	for _, game := range stored {
		provider := domain.Provider(game.Provider)
		if !provider.Valid() {
			return nil, fmt.Errorf("unknown provider '%s' for game '%s'", game.Provider, game.ID)
		}

		lastPlayedAt, err := timeFromStorage(game.LastPlayedAt)
		if err != nil {
			return nil, err
		}
		firstPlayedAt, err := timeFromStorage(game.FirstPlayedAt)
		if err != nil {
			return nil, err
		}

		achievements := make([]domain.AchievementRecord, 0, len(game.Achievements))
		for _, achievement := range game.Achievements {
			unlockedAt, err := timeFromStorage(achievement.UnlockedAt)
			if err != nil {
				return nil, err
			}
			achievements = append(achievements, domain.AchievementRecord{
				Name:        achievement.Name,
				Description: achievement.Description,
				Unlocked:    achievement.Unlocked,
				UnlockedAt:  unlockedAt,
				Tier:        domain.Tier(achievement.Tier),
			})
		}

		platforms := game.Platforms
		if platforms == nil {
			platforms = []string{}
		}

		games = append(games, domain.GameRecord{
			ID:              game.ID,
			Title:           game.Title,
			Provider:        provider,
			PlatformLabels:  platforms,
			LastPlayedAt:    lastPlayedAt,
			FirstPlayedAt:   firstPlayedAt,
			PlaytimeMinutes: game.PlaytimeMinutes,
			Achievements:    achievements,
			Summary: domain.AchievementSummary{
				Unlocked: game.Unlocked,
				Total:    game.Total,
				Earned:   trophyCountsFromStorage(game.Earned),
				Defined:  trophyCountsFromStorage(game.Defined),
			},
		})
	}

	return games, nil
}
