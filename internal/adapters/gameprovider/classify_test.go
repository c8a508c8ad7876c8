package gameprovider_test

import (
	"encoding/json"
	"testing"

	"github.com/Amund211/gamelens/internal/adapters/gameprovider"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		provider domain.Provider
		labels   []string
		unknown  bool
	}{
		{
			name:     "pc",
			raw:      `{"appid": 730, "name": "Counter-Strike 2", "playtime_minutes": 600}`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
		},
		{
			name:     "playstation generation token",
			raw:      `{"title_id": "NPWR1", "platform": "PS5"}`,
			provider: domain.ProviderConsoleNetwork,
			labels:   []string{"PS5"},
		},
		{
			name:     "cross generation",
			raw:      `{"title_id": "NPWR1", "platform": "PS4,PS5,PS4"}`,
			provider: domain.ProviderConsoleNetwork,
			labels:   []string{"PS4", "PS5"},
		},
		{
			name:     "playstation token wins over console name",
			raw:      `{"platform": "ps4", "console_name": "SNES"}`,
			provider: domain.ProviderConsoleNetwork,
			labels:   []string{"ps4"},
		},
		{
			name:     "retro",
			raw:      `{"game_id": 1, "console_name": "SNES", "platform": "XboxOne"}`,
			provider: domain.ProviderRetro,
			labels:   []string{"SNES"},
		},
		{
			name:     "retro with empty console name",
			raw:      `{"game_id": 1, "console_name": " "}`,
			provider: domain.ProviderRetro,
			labels:   []string{},
		},
		{
			name:     "xbox family",
			raw:      `{"title_id": "1", "platform": "XboxOne, XboxSeries, PC, XboxOne"}`,
			provider: domain.ProviderSecondConsole,
			labels:   []string{"XboxOne", "XboxSeries", "PC"},
		},
		{
			name:     "other platform is kept literally",
			raw:      `{"title_id": "1", "platform": "Nintendo Switch"}`,
			provider: domain.ProviderSecondConsole,
			labels:   []string{"Nintendo Switch"},
		},
		{
			name:     "trophies without platform",
			raw:      `{"title_id": "NPWR1", "defined_trophies": {"bronze": 1}}`,
			provider: domain.ProviderConsoleNetwork,
			labels:   []string{},
		},
		{
			name:     "total playtime only",
			raw:      `{"total_playtime": "2 days, 03:45:00"}`,
			provider: domain.ProviderConsoleNetwork,
			labels:   []string{},
		},
		{
			name:     "non string platform is ignored",
			raw:      `{"appid": 1, "platform": 5}`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
		},
		{
			name:     "null platform is absent",
			raw:      `{"appid": 1, "playtime_minutes": 600, "platform": null}`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
		},
		{
			name:     "null console name is absent",
			raw:      `{"appid": 1, "playtime_minutes": 600, "console_name": null}`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
		},
		{
			name:     "null total playtime is absent",
			raw:      `{"appid": 1, "total_playtime": null}`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
		},
		{
			name:     "null platform with console name",
			raw:      `{"game_id": 1, "console_name": "SNES", "platform": null}`,
			provider: domain.ProviderRetro,
			labels:   []string{"SNES"},
		},
		{
			name:     "unknown shape",
			raw:      `{"foo": "bar"}`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
			unknown:  true,
		},
		{
			name:     "not an object",
			raw:      `[1, 2, 3]`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
			unknown:  true,
		},
		{
			name:     "null",
			raw:      `null`,
			provider: domain.ProviderPC,
			labels:   []string{"PC"},
			unknown:  true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			classification, err := gameprovider.Classify(json.RawMessage(c.raw))
			if c.unknown {
				require.ErrorIs(t, err, domain.ErrUnknownProviderShape)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, c.provider, classification.Provider)
			require.Equal(t, c.labels, classification.PlatformLabels)

			again, _ := gameprovider.Classify(json.RawMessage(c.raw))
			require.Equal(t, classification, again)
		})
	}
}

func TestClassifiedLabelsFormat(t *testing.T) {
	t.Parallel()

	classification, err := gameprovider.Classify(json.RawMessage(`{"platform": "XboxOne, Stadia"}`))
	require.NoError(t, err)

	require.Equal(t, []string{"Xbox One", "Stadia"}, domain.FormatPlatformLabels(classification.PlatformLabels))
}
