// Package catalog holds the static character roster consumed by the arena.
// Characters are immutable once loaded; the simulation only reads them.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// Element is a character's elemental affinity.
type Element string

const (
	ElementWater    Element = "water"
	ElementFire     Element = "fire"
	ElementStorm    Element = "storm"
	ElementDarkness Element = "darkness"
	ElementLight    Element = "light"
)

// Color returns the attack particle color for the element.
func (e Element) Color() string {
	switch e {
	case ElementFire:
		return "#FF4500"
	case ElementWater:
		return "#00BFFF"
	default:
		return "#FFD700"
	}
}

// Rarity is a character's collection tier.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// MoveType identifies one of the four ability slots.
type MoveType string

const (
	MoveBasic    MoveType = "basic"
	MoveCharge   MoveType = "charge"
	MoveSpecial  MoveType = "special"
	MoveUltimate MoveType = "ultimate"
)

// MoveOrder is the required slot order of a character's moves.
var MoveOrder = [4]MoveType{MoveBasic, MoveCharge, MoveSpecial, MoveUltimate}

// Stats are a character's base attributes.
type Stats struct {
	HP         float64 `json:"hp"`
	MP         float64 `json:"mp"`
	Speed      float64 `json:"speed"`
	Power      float64 `json:"power"`
	Defense    float64 `json:"defense"`
	Range      float64 `json:"range"`
	CritChance float64 `json:"critChance,omitempty"`
	Attack     float64 `json:"attack,omitempty"`
}

// Requirements gate an evolution tier.
type Requirements struct {
	Level int      `json:"level"`
	Kills int      `json:"kills,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Evolution is one tier of a character's power progression.
type Evolution struct {
	Name            string       `json:"name"`
	Requirements    Requirements `json:"requirements"`
	StatsMultiplier float64      `json:"statsMultiplier"`
	Lore            string       `json:"lore,omitempty"`
	Benefits        string       `json:"benefits,omitempty"`
}

// Move is one of a character's four abilities.
// Cooldown is in seconds, Range in pixels.
type Move struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        MoveType `json:"type"`
	Cooldown    float64  `json:"cooldown"`
	Damage      float64  `json:"damage"`
	Range       float64  `json:"range"`
	MPCost      float64  `json:"mpCost"`
	Description string   `json:"description,omitempty"`
}

// Character is a playable fighter.
type Character struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Element     Element     `json:"element"`
	Rarity      Rarity      `json:"rarity"`
	Category    string      `json:"category,omitempty"`
	BaseStats   Stats       `json:"baseStats"`
	Evolutions  []Evolution `json:"evolutions"`
	Moves       []Move      `json:"moves"`
}

// Move returns the move in the given slot (0..3).
func (c *Character) Move(slot int) (Move, bool) {
	if slot < 0 || slot >= len(c.Moves) {
		return Move{}, false
	}
	return c.Moves[slot], true
}

// ErrUnknownCharacter is returned when an id is not in the catalog.
var ErrUnknownCharacter = errors.New("unknown character")

// Catalog is a read-only set of characters keyed by id.
type Catalog struct {
	characters map[string]*Character
}

// New builds a catalog from characters and validates it.
func New(chars []Character) (*Catalog, error) {
	c := &Catalog{characters: make(map[string]*Character, len(chars))}
	for i := range chars {
		ch := chars[i]
		if ch.ID == "" {
			return nil, fmt.Errorf("character %d: missing id", i)
		}
		if _, dup := c.characters[ch.ID]; dup {
			return nil, fmt.Errorf("character %q: duplicate id", ch.ID)
		}
		c.characters[ch.ID] = &ch
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads a JSON array of characters from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var chars []Character
	if err := json.Unmarshal(data, &chars); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(chars)
}

// Get returns the character with the given id.
func (c *Catalog) Get(id string) (*Character, error) {
	ch, ok := c.characters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	return ch, nil
}

// IDs returns all character ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.characters))
	for id := range c.characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every character ordered by id.
func (c *Catalog) All() []*Character {
	ids := c.IDs()
	out := make([]*Character, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.characters[id])
	}
	return out
}

// Len returns the number of characters.
func (c *Catalog) Len() int {
	return len(c.characters)
}
