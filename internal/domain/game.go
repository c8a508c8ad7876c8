package domain

import (
	"time"
)

type Provider string

const (
	ProviderPC             Provider = "pc"
	ProviderConsoleNetwork Provider = "console_network"
	ProviderSecondConsole  Provider = "second_console"
	ProviderRetro          Provider = "retro"
)

// Providers lists every provider in the order their arrays are merged
var Providers = []Provider{
	ProviderPC,
	ProviderConsoleNetwork,
	ProviderSecondConsole,
	ProviderRetro,
}

func (p Provider) Valid() bool {
	switch p {
	case ProviderPC, ProviderConsoleNetwork, ProviderSecondConsole, ProviderRetro:
		return true
	}
	return false
}

type Tier string

const (
	TierNone     Tier = ""
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

type GameRecord struct {
	ID    string
	Title string

	Provider       Provider
	PlatformLabels []string

	LastPlayedAt  time.Time
	FirstPlayedAt time.Time

	PlaytimeMinutes int

	Achievements []AchievementRecord
	Summary      AchievementSummary
}

type AchievementRecord struct {
	Name        string
	Description string

	Unlocked   bool
	UnlockedAt time.Time

	// Only set for trophies from the console network
	Tier Tier
}

// Dated reports whether the achievement is unlocked and has a known unlock time
func (a AchievementRecord) Dated() bool {
	return a.Unlocked && !IsUnknown(a.UnlockedAt)
}

type TrophyCounts struct {
	Bronze   int
	Silver   int
	Gold     int
	Platinum int
}

func (c TrophyCounts) Total() int {
	return c.Bronze + c.Silver + c.Gold + c.Platinum
}

func (c *TrophyCounts) Add(tier Tier) {
	switch tier {
	case TierBronze:
		c.Bronze++
	case TierSilver:
		c.Silver++
	case TierGold:
		c.Gold++
	case TierPlatinum:
		c.Platinum++
	}
}

// AchievementSummary holds the counts the completion scorer works on.
//
// Earned/Defined are only populated for the console network.
type AchievementSummary struct {
	Unlocked int
	Total    int

	Earned  TrophyCounts
	Defined TrophyCounts
}

// Library holds the three ranked views of a user's games
type Library struct {
	ComputedAt time.Time

	Recent       []GameRecord
	MostPlayed   []GameRecord
	MostAchieved []GameRecord
}

// LibrarySnapshot is a stored, normalized copy of every game a user submitted
type LibrarySnapshot struct {
	ID        string
	UserID    string
	QueriedAt time.Time
	Games     []GameRecord
}

// FindGame returns the game with the given id. Ids are only unique within a provider,
// so an empty provider matches the first game with the id from any provider.
func (s LibrarySnapshot) FindGame(provider Provider, id string) (GameRecord, bool) {
	for _, game := range s.Games {
		if game.ID == id && (provider == "" || game.Provider == provider) {
			return game, true
		}
	}
	return GameRecord{}, false
}

type ActivityBucket struct {
	Date  time.Time
	Count int
}
