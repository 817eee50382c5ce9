// Package progress persists the player's meta progression between runs:
// gems, lives, unlocked characters, shop purchases and stage save points.
package progress

import (
	"maps"
	"slices"
)

// Defaults for a fresh profile.
const (
	DefaultGems      = 500
	DefaultLives     = 5
	DefaultCharacter = "rimuru"
)

// SavePoint snapshots gems and lives when a stage is reached.
type SavePoint struct {
	Stage     int   `json:"stage"`
	Round     int   `json:"round"`
	Timestamp int64 `json:"timestamp"` // Unix millis
	Gems      int   `json:"gems"`
	Lives     int   `json:"lives"`
}

// Progress is the persisted profile blob.
type Progress struct {
	Gems               int               `json:"gems"`
	Lives              int               `json:"lives"`
	MaxLives           int               `json:"maxLives"`
	UnlockedCharacters []string          `json:"unlockedCharacters"`
	PurchasedUpgrades  map[string]int    `json:"purchasedUpgrades"`
	OwnedArtifacts     []string          `json:"ownedArtifacts"`
	HighestStage       int               `json:"highestStage"`
	CurrentStage       int               `json:"currentStage"`
	CurrentRound       int               `json:"currentRound"`
	SavePoints         map[int]SavePoint `json:"savePoints"`
}

// Default returns a fresh profile.
func Default() Progress {
	return Progress{
		Gems:               DefaultGems,
		Lives:              DefaultLives,
		MaxLives:           DefaultLives,
		UnlockedCharacters: []string{DefaultCharacter},
		PurchasedUpgrades:  map[string]int{},
		OwnedArtifacts:     []string{},
		HighestStage:       1,
		CurrentStage:       1,
		CurrentRound:       1,
		SavePoints:         map[int]SavePoint{},
	}
}

// clone deep-copies p so callers never share slices or maps with the store.
func (p Progress) clone() Progress {
	c := p
	c.UnlockedCharacters = slices.Clone(p.UnlockedCharacters)
	c.OwnedArtifacts = slices.Clone(p.OwnedArtifacts)
	c.PurchasedUpgrades = maps.Clone(p.PurchasedUpgrades)
	c.SavePoints = maps.Clone(p.SavePoints)
	c.normalize()
	return c
}

// normalize fills nil collections left by older or hand-edited files.
func (p *Progress) normalize() {
	if p.UnlockedCharacters == nil {
		p.UnlockedCharacters = []string{}
	}
	if p.OwnedArtifacts == nil {
		p.OwnedArtifacts = []string{}
	}
	if p.PurchasedUpgrades == nil {
		p.PurchasedUpgrades = map[string]int{}
	}
	if p.SavePoints == nil {
		p.SavePoints = map[int]SavePoint{}
	}
}

// IsCharacterUnlocked reports whether id can be picked for a run.
func (p Progress) IsCharacterUnlocked(id string) bool {
	return slices.Contains(p.UnlockedCharacters, id)
}

// UpgradeLevel returns the purchased level of an upgrade, 0 if never bought.
func (p Progress) UpgradeLevel(id string) int {
	return p.PurchasedUpgrades[id]
}

// HasArtifact reports whether the artifact is owned.
func (p Progress) HasArtifact(id string) bool {
	return slices.Contains(p.OwnedArtifacts, id)
}
