package gameprovider

import (
	"encoding/json"
	"fmt"

	"github.com/Amund211/gamelens/internal/domain"
)

// PlaytimeMinutes returns the playtime of a raw record in minutes.
//
// Malformed or missing values give 0.
func PlaytimeMinutes(raw json.RawMessage) int {
	f, err := decodeFields(raw)
	if err != nil {
		return 0
	}
	classification, _ := classifyFields(f)
	minutes, err := playtimeFromFields(classification.Provider, f)
	if err != nil {
		return 0
	}
	return minutes
}

func playtimeFromFields(provider domain.Provider, f fields) (int, error) {
	switch provider {
	case domain.ProviderPC:
		return minutesField(f, "playtime_minutes")
	case domain.ProviderSecondConsole:
		return minutesField(f, "playtime")
	case domain.ProviderConsoleNetwork, domain.ProviderRetro:
		raw, ok := f.str("total_playtime")
		if !ok {
			return 0, nil
		}
		return domain.ParsePlaytimeDuration(raw)
	}
	return 0, nil
}

func minutesField(f fields, key string) (int, error) {
	value, ok := f[key]
	if !ok || isNull(value) {
		return 0, nil
	}

	var minutes flexibleInt
	if err := json.Unmarshal(value, &minutes); err != nil || !minutes.valid || minutes.value < 0 {
		return 0, fmt.Errorf("%w: '%s' is not a minute count", domain.ErrMalformedDuration, string(value))
	}
	return minutes.value, nil
}
