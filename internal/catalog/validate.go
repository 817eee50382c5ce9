package catalog

import (
	"errors"
	"fmt"
)

// Validate checks every character against the invariants the simulation
// relies on. A malformed catalog must never reach a run.
func (c *Catalog) Validate() error {
	var errs []error
	for _, id := range c.IDs() {
		if err := c.characters[id].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks a single character.
func (ch *Character) Validate() error {
	if ch.BaseStats.HP <= 0 {
		return fmt.Errorf("character %q: base hp must be positive", ch.ID)
	}
	if ch.BaseStats.MP < 0 || ch.BaseStats.Speed < 0 {
		return fmt.Errorf("character %q: negative base stats", ch.ID)
	}

	if len(ch.Moves) != len(MoveOrder) {
		return fmt.Errorf("character %q: has %d moves, want %d", ch.ID, len(ch.Moves), len(MoveOrder))
	}
	seen := make(map[string]bool, len(ch.Moves))
	for i, m := range ch.Moves {
		if m.Type != MoveOrder[i] {
			return fmt.Errorf("character %q: move %d is %q, want %q", ch.ID, i, m.Type, MoveOrder[i])
		}
		if m.ID == "" {
			return fmt.Errorf("character %q: move %d has no id", ch.ID, i)
		}
		if seen[m.ID] {
			return fmt.Errorf("character %q: duplicate move id %q", ch.ID, m.ID)
		}
		seen[m.ID] = true
		if m.Cooldown < 0 || m.Damage < 0 || m.Range < 0 || m.MPCost < 0 {
			return fmt.Errorf("character %q: move %q has negative values", ch.ID, m.ID)
		}
	}

	if len(ch.Evolutions) == 0 {
		return fmt.Errorf("character %q: no evolutions", ch.ID)
	}
	base := ch.Evolutions[0].Requirements
	if base.Level > 1 || base.Kills > 0 {
		return fmt.Errorf("character %q: base form must be unlocked at level 1", ch.ID)
	}
	for i, evo := range ch.Evolutions {
		if evo.StatsMultiplier <= 0 {
			return fmt.Errorf("character %q: evolution %q multiplier must be positive", ch.ID, evo.Name)
		}
		if i > 0 && evo.Requirements.Level < ch.Evolutions[i-1].Requirements.Level {
			return fmt.Errorf("character %q: evolution %q out of order", ch.ID, evo.Name)
		}
	}
	return nil
}
