package ports

import (
	"encoding/json"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
)

type gameResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Provider  string   `json:"provider"`
	Platforms []string `json:"platforms"`

	LastPlayedAt  *time.Time `json:"lastPlayedAt"`
	FirstPlayedAt *time.Time `json:"firstPlayedAt"`

	PlaytimeMinutes int    `json:"playtimeMinutes"`
	Playtime        string `json:"playtime"`

	Completion float64 `json:"completion"`
	Unlocked   int     `json:"unlocked"`
	Total      int     `json:"total"`

	TrophyPointsPerHour *float64 `json:"trophyPointsPerHour,omitempty"`
}

type libraryResponse struct {
	ComputedAt   time.Time      `json:"computedAt"`
	Recent       []gameResponse `json:"recent"`
	MostPlayed   []gameResponse `json:"mostPlayed"`
	MostAchieved []gameResponse `json:"mostAchieved"`
}

type activityBucketResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func timeOrNull(t time.Time) *time.Time {
	if domain.IsUnknown(t) {
		return nil
	}
	return &t
}

func gameToResponse(game domain.GameRecord) gameResponse {
	response := gameResponse{
		ID:              game.ID,
		Title:           game.Title,
		Provider:        string(game.Provider),
		Platforms:       domain.FormatPlatformLabels(game.PlatformLabels),
		LastPlayedAt:    timeOrNull(game.LastPlayedAt),
		FirstPlayedAt:   timeOrNull(game.FirstPlayedAt),
		PlaytimeMinutes: game.PlaytimeMinutes,
		Playtime:        domain.FormatPlaytime(game.PlaytimeMinutes),
		Completion:      domain.CompletionPercentage(game),
		Unlocked:        game.Summary.Unlocked,
		Total:           game.Summary.Total,
	}

	if game.Provider == domain.ProviderConsoleNetwork {
		pointsPerHour := domain.TrophyPointsPerHour(game)
		response.TrophyPointsPerHour = &pointsPerHour
	}

	return response
}

func gamesToResponse(games []domain.GameRecord) []gameResponse {
	response := make([]gameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, gameToResponse(game))
	}
	return response
}

func LibraryToResponseData(library domain.Library) ([]byte, error) {
	return json.Marshal(libraryResponse{
		ComputedAt:   library.ComputedAt,
		Recent:       gamesToResponse(library.Recent),
		MostPlayed:   gamesToResponse(library.MostPlayed),
		MostAchieved: gamesToResponse(library.MostAchieved),
	})
}

func ActivityToResponseData(buckets []domain.ActivityBucket) ([]byte, error) {
	response := make([]activityBucketResponse, 0, len(buckets))
	for _, bucket := range buckets {
		response = append(response, activityBucketResponse{
			Date:  bucket.Date.Format(time.DateOnly),
			Count: bucket.Count,
		})
	}
	return json.Marshal(response)
}
