package gameprovider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Amund211/gamelens/internal/domain"
)

var playStationTokens = []string{"PS3", "PS4", "PS5", "PSVITA"}

var xboxFamilyTokens = []string{"Xbox360", "XboxOne", "XboxSeries", "PC", "Win32"}

type Classification struct {
	Provider       domain.Provider
	PlatformLabels []string
}

type fields map[string]json.RawMessage

func decodeFields(raw json.RawMessage) (fields, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: record is not a JSON object: %w", domain.ErrUnknownProviderShape, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: record is null", domain.ErrUnknownProviderShape)
	}
	return f, nil
}

func (f fields) has(key string) bool {
	value, ok := f[key]
	return ok && !isNull(value)
}

func (f fields) str(key string) (string, bool) {
	value, ok := f[key]
	if !ok || isNull(value) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", false
	}
	return s, true
}

func containsAnyToken(labels []string, tokens []string) bool {
	for _, label := range labels {
		for _, token := range tokens {
			if strings.EqualFold(label, token) {
				return true
			}
		}
	}
	return false
}

// Classify works out which provider produced a raw game record from its fields alone.
//
// Records matching no provider are classified as pc. In that case the classification is
// still returned, together with ErrUnknownProviderShape.
func Classify(raw json.RawMessage) (Classification, error) {
	f, err := decodeFields(raw)
	if err != nil {
		return defaultClassification(), err
	}
	return classifyFields(f)
}

func defaultClassification() Classification {
	return Classification{
		Provider:       domain.ProviderPC,
		PlatformLabels: []string{"PC"},
	}
}

func classifyFields(f fields) (Classification, error) {
	platform, hasPlatform := f.str("platform")
	labels := domain.SplitPlatformLabels(platform)

	// PlayStation generations carry trophy tiers, so they belong to the console network
	if hasPlatform && containsAnyToken(labels, playStationTokens) {
		return Classification{
			Provider:       domain.ProviderConsoleNetwork,
			PlatformLabels: labels,
		}, nil
	}

	if consoleName, ok := f.str("console_name"); ok {
		retroLabels := []string{}
		if name := strings.TrimSpace(consoleName); name != "" {
			retroLabels = append(retroLabels, name)
		}
		return Classification{
			Provider:       domain.ProviderRetro,
			PlatformLabels: retroLabels,
		}, nil
	}

	if hasPlatform && containsAnyToken(labels, xboxFamilyTokens) {
		return Classification{
			Provider:       domain.ProviderSecondConsole,
			PlatformLabels: labels,
		}, nil
	}

	if hasPlatform {
		literal := []string{}
		if label := strings.TrimSpace(platform); label != "" {
			literal = append(literal, label)
		}
		return Classification{
			Provider:       domain.ProviderSecondConsole,
			PlatformLabels: literal,
		}, nil
	}

	_, hasTotalPlaytime := f.str("total_playtime")
	if hasTotalPlaytime || f.has("defined_trophies") || f.has("earned_trophies") || f.has("trophies") {
		return Classification{
			Provider:       domain.ProviderConsoleNetwork,
			PlatformLabels: []string{},
		}, nil
	}

	if !f.has("appid") && !f.has("playtime_minutes") {
		return defaultClassification(), fmt.Errorf("%w: no distinguishing fields", domain.ErrUnknownProviderShape)
	}

	return defaultClassification(), nil
}
