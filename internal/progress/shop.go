package progress

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownItem  = errors.New("unknown shop item")
	ErrMaxLevel     = errors.New("upgrade at max level")
	ErrAlreadyOwned = errors.New("already owned")
)

// LifeCost is the gem price of one extra max life.
const LifeCost = 200

// UpgradeEffect holds the per-level stat bonuses of an upgrade.
type UpgradeEffect struct {
	HPBonus      float64 `json:"hpBonus,omitempty"`
	MPBonus      float64 `json:"mpBonus,omitempty"`
	PowerBonus   float64 `json:"powerBonus,omitempty"`
	DefenseBonus float64 `json:"defenseBonus,omitempty"`
	SpeedBonus   float64 `json:"speedBonus,omitempty"`
	RangeBonus   float64 `json:"rangeBonus,omitempty"`
}

// Upgrade is a repeatable purchase whose price grows with its level.
type Upgrade struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        string        `json:"type"` // stat, passive or ability
	Cost        int           `json:"cost"` // base cost, multiplied by the next level
	MaxLevel    int           `json:"maxLevel"`
	Effect      UpgradeEffect `json:"effect"`
}

// CostAt is the price of going from level to level+1.
func (u Upgrade) CostAt(level int) int {
	return u.Cost * (level + 1)
}

// Artifact is a one-time purchase.
type Artifact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Rarity      string `json:"rarity"`
	Effect      string `json:"effect"`
}

// Shop prices and applies purchases against a Store.
type Shop struct {
	store       *Store
	upgrades    map[string]Upgrade
	artifacts   map[string]Artifact
	unlockCosts map[string]int
}

// NewShop creates a shop with the built-in price tables.
func NewShop(store *Store) *Shop {
	sh := &Shop{
		store:       store,
		upgrades:    make(map[string]Upgrade),
		artifacts:   make(map[string]Artifact),
		unlockCosts: DefaultUnlockCosts(),
	}
	for _, u := range DefaultUpgrades() {
		sh.upgrades[u.ID] = u
	}
	for _, a := range DefaultArtifacts() {
		sh.artifacts[a.ID] = a
	}
	return sh
}

// Upgrades lists upgrades sorted by id.
func (sh *Shop) Upgrades() []Upgrade {
	out := make([]Upgrade, 0, len(sh.upgrades))
	for _, u := range sh.upgrades {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Artifacts lists artifacts sorted by id.
func (sh *Shop) Artifacts() []Artifact {
	out := make([]Artifact, 0, len(sh.artifacts))
	for _, a := range sh.artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UnlockCost returns the gem price of a character and whether it is sold.
func (sh *Shop) UnlockCost(characterID string) (int, bool) {
	c, ok := sh.unlockCosts[characterID]
	return c, ok
}

// BuyUpgrade charges base × (level+1) gems and raises the upgrade one level.
func (sh *Shop) BuyUpgrade(id string) (Progress, error) {
	u, ok := sh.upgrades[id]
	if !ok {
		return sh.store.Snapshot(), fmt.Errorf("%w: upgrade %q", ErrUnknownItem, id)
	}
	return sh.store.update(func(p *Progress) error {
		level := p.UpgradeLevel(id)
		if level >= u.MaxLevel {
			return fmt.Errorf("%w: %s is level %d", ErrMaxLevel, u.Name, level)
		}
		if err := spend(p, u.CostAt(level)); err != nil {
			return err
		}
		p.PurchasedUpgrades[id] = level + 1
		return nil
	})
}

// BuyArtifact charges the artifact's cost once.
func (sh *Shop) BuyArtifact(id string) (Progress, error) {
	a, ok := sh.artifacts[id]
	if !ok {
		return sh.store.Snapshot(), fmt.Errorf("%w: artifact %q", ErrUnknownItem, id)
	}
	return sh.store.update(func(p *Progress) error {
		if p.HasArtifact(id) {
			return fmt.Errorf("%w: %s", ErrAlreadyOwned, a.Name)
		}
		if err := spend(p, a.Cost); err != nil {
			return err
		}
		p.OwnedArtifacts = append(p.OwnedArtifacts, id)
		return nil
	})
}

// BuyCharacter unlocks a character for its listed price.
func (sh *Shop) BuyCharacter(id string) (Progress, error) {
	cost, ok := sh.unlockCosts[id]
	if !ok {
		return sh.store.Snapshot(), fmt.Errorf("%w: character %q", ErrUnknownItem, id)
	}
	return sh.store.update(func(p *Progress) error {
		if p.IsCharacterUnlocked(id) {
			return fmt.Errorf("%w: %s", ErrAlreadyOwned, id)
		}
		if err := spend(p, cost); err != nil {
			return err
		}
		unlock(p, id)
		return nil
	})
}

// BuyLife charges LifeCost and raises max lives and lives by one.
func (sh *Shop) BuyLife() (Progress, error) {
	return sh.store.update(func(p *Progress) error {
		if err := spend(p, LifeCost); err != nil {
			return err
		}
		p.MaxLives++
		p.Lives++
		return nil
	})
}

// DefaultUpgrades returns the built-in upgrade table.
func DefaultUpgrades() []Upgrade {
	return []Upgrade{
		{ID: "vitality", Name: "Vitality", Description: "Increase maximum HP", Type: "stat", Cost: 100, MaxLevel: 10, Effect: UpgradeEffect{HPBonus: 10}},
		{ID: "magicule", Name: "Magicule Reserve", Description: "Increase maximum MP", Type: "stat", Cost: 100, MaxLevel: 10, Effect: UpgradeEffect{MPBonus: 10}},
		{ID: "power", Name: "Raw Power", Description: "Increase attack power", Type: "stat", Cost: 150, MaxLevel: 10, Effect: UpgradeEffect{PowerBonus: 2}},
		{ID: "defense", Name: "Hardened Body", Description: "Increase defense", Type: "stat", Cost: 120, MaxLevel: 10, Effect: UpgradeEffect{DefenseBonus: 2}},
		{ID: "agility", Name: "Agility", Description: "Increase movement speed", Type: "passive", Cost: 200, MaxLevel: 5, Effect: UpgradeEffect{SpeedBonus: 0.5}},
		{ID: "reach", Name: "Extended Reach", Description: "Increase attack range", Type: "ability", Cost: 250, MaxLevel: 5, Effect: UpgradeEffect{RangeBonus: 10}},
	}
}

// DefaultArtifacts returns the built-in artifact table.
func DefaultArtifacts() []Artifact {
	return []Artifact{
		{ID: "storm-crest", Name: "Storm Dragon Crest", Description: "A scale of Veldora.", Cost: 500, Rarity: "legendary", Effect: "Ultimate cooldown -20%"},
		{ID: "kijin-mask", Name: "Kijin Mask", Description: "Worn by ogre warriors.", Cost: 300, Rarity: "epic", Effect: "+10% damage"},
		{ID: "goblin-charm", Name: "Goblin Charm", Description: "A lucky trinket.", Cost: 100, Rarity: "common", Effect: "+5% gems"},
		{ID: "spirit-orb", Name: "Spirit Orb", Description: "Condensed magicules.", Cost: 250, Rarity: "rare", Effect: "MP regen +1"},
	}
}

// DefaultUnlockCosts returns the gem price of every character in the built-in
// roster. A cost of 0 marks a starter character.
func DefaultUnlockCosts() map[string]int {
	return map[string]int{
		"rimuru":   0,
		"benimaru": 300,
		"shion":    400,
		"diablo":   800,
		"milim":    1000,
	}
}
