package gameprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type converter struct {
	fallback func(kind fallbackKind, err error)
}

func (c converter) date(raw flexibleDate) time.Time {
	parsed, err := raw.parse()
	if err != nil {
		c.fallback(fallbackDate, err)
		return domain.UnknownTime
	}
	return parsed
}

func (c converter) achievement(name, description string, unlocked bool, unlockedAt flexibleDate, tier domain.Tier) domain.AchievementRecord {
	at := domain.UnknownTime
	if unlocked {
		at = c.date(unlockedAt)
	}
	return domain.AchievementRecord{
		Name:        name,
		Description: description,
		Unlocked:    unlocked,
		UnlockedAt:  at,
		Tier:        tier,
	}
}

// summarize prefers the counts sent by the provider and counts the list otherwise
func summarize(achievements []domain.AchievementRecord, unlocked, total flexibleInt) domain.AchievementSummary {
	summary := domain.AchievementSummary{
		Total: len(achievements),
	}
	for _, achievement := range achievements {
		if achievement.Unlocked {
			summary.Unlocked++
		}
	}

	if total.valid {
		summary.Total = total.orZero()
	}
	if unlocked.valid {
		summary.Unlocked = unlocked.orZero()
	}
	return summary
}

// Normalize turns one raw provider record into a GameRecord.
//
// Malformed dates, durations and unrecognized shapes fall back silently. An error is only
// returned when the record is not an object matching the detected provider's schema.
func Normalize(ctx context.Context, raw json.RawMessage) (domain.GameRecord, error) {
	logger := logging.FromContext(ctx)

	f, err := decodeFields(raw)
	if err != nil {
		return domain.GameRecord{}, err
	}

	classification, classifyErr := classifyFields(f)

	c := converter{
		fallback: func(kind fallbackKind, err error) {
			logger.DebugContext(ctx, "Using fallback value", "kind", string(kind), "provider", string(classification.Provider), "error", err)
			metrics.fallbackCount.Add(ctx, 1, metric.WithAttributes(
				attribute.String("kind", string(kind)),
				attribute.String("provider", string(classification.Provider)),
			))
		},
	}

	if classifyErr != nil {
		c.fallback(fallbackShape, classifyErr)
	}

	game, err := decodeGame(classification.Provider, raw, c)
	if err != nil {
		return domain.GameRecord{}, err
	}

	playtime, err := playtimeFromFields(classification.Provider, f)
	if err != nil {
		c.fallback(fallbackDuration, err)
		playtime = 0
	}

	game.Provider = classification.Provider
	game.PlatformLabels = classification.PlatformLabels
	game.PlaytimeMinutes = playtime

	return game, nil
}

func decodeGame(provider domain.Provider, raw json.RawMessage, c converter) (domain.GameRecord, error) {
	switch provider {
	case domain.ProviderConsoleNetwork:
		var title consoleNetworkTitle
		if err := json.Unmarshal(raw, &title); err != nil {
			return domain.GameRecord{}, fmt.Errorf("failed to decode console network title: %w", err)
		}
		return title.toDomain(c), nil
	case domain.ProviderSecondConsole:
		var title secondConsoleTitle
		if err := json.Unmarshal(raw, &title); err != nil {
			return domain.GameRecord{}, fmt.Errorf("failed to decode second console title: %w", err)
		}
		return title.toDomain(c), nil
	case domain.ProviderRetro:
		var game retroGame
		if err := json.Unmarshal(raw, &game); err != nil {
			return domain.GameRecord{}, fmt.Errorf("failed to decode retro game: %w", err)
		}
		return game.toDomain(c), nil
	default:
		var game pcGame
		if err := json.Unmarshal(raw, &game); err != nil {
			return domain.GameRecord{}, fmt.Errorf("failed to decode pc game: %w", err)
		}
		return game.toDomain(c), nil
	}
}

// NormalizePayload normalizes every array of the payload, keeping the array order.
// Records that cannot be decoded are skipped.
func NormalizePayload(ctx context.Context, payload Payload) [][]domain.GameRecord {
	logger := logging.FromContext(ctx)

	libraries := make([][]domain.GameRecord, 0, len(domain.Providers))
	for _, array := range payload.Arrays() {
		games := make([]domain.GameRecord, 0, len(array))
		for i, raw := range array {
			game, err := Normalize(ctx, raw)
			if err != nil {
				logger.WarnContext(ctx, "Skipping undecodable game record", slog.Int("index", i), slog.String("error", err.Error()))
				metrics.skippedCount.Add(ctx, 1)
				continue
			}
			games = append(games, game)
		}
		libraries = append(libraries, games)
	}
	return libraries
}
