package game

import (
	"math"

	"tensura-arena/internal/catalog"
)

// Attack fires the move in the given slot (0 basic .. 3 ultimate).
func (r *RunState) Attack(slot int) bool {
	move, ok := r.character.Move(slot)
	if !ok {
		return false
	}
	return r.AttackMove(move)
}

// AttackMove resolves move against every enemy within its range.
// A move on cooldown, short on MP, or fired while paused is silently ignored
// and leaves the state untouched.
func (r *RunState) AttackMove(move catalog.Move) bool {
	if r.IsPaused() {
		return false
	}
	if _, cooling := r.Cooldowns[move.ID]; cooling {
		return false
	}
	if r.MP < move.MPCost {
		return false
	}

	r.MP = math.Max(0, r.MP-move.MPCost)
	if move.Cooldown > 0 {
		r.Cooldowns[move.ID] = move.Cooldown
	}
	r.burst(r.PlayerX, r.PlayerY, r.character.Element.Color(), AttackBurstCount, ParticleHit)

	damage := move.Damage * r.Multiplier()
	targets := r.enemiesInRange(move.Range)
	for _, e := range targets {
		e.HP -= damage
		r.burst(e.X, e.Y, HitColor, HitBurstCount, ParticleHit)
	}

	killed := r.removeDead()

	r.emit(EventTypeAttack, AttackPayload{
		MoveID: move.ID,
		Damage: damage,
		Hits:   len(targets),
		Kills:  len(killed),
		MP:     r.MP,
	})

	if len(killed) > 0 {
		r.Kills += len(killed)
		for _, e := range killed {
			r.emit(EventTypeKill, KillPayload{EnemyID: e.ID, Type: string(e.Type), TotalKills: r.Kills})
		}
		r.gainXP(XPPerKill * len(killed))
	}

	r.checkEvolution()
	return true
}

// enemiesInRange returns enemies whose distance to the player is at most radius.
// The boundary is inclusive.
func (r *RunState) enemiesInRange(radius float64) []*Enemy {
	r.grid.Clear()
	for i, e := range r.Enemies {
		r.grid.Insert(uint32(i), e.X, e.Y)
	}

	var hits []*Enemy
	for _, idx := range r.grid.QueryRadius(r.PlayerX, r.PlayerY, radius) {
		e := r.Enemies[idx]
		if math.Hypot(e.X-r.PlayerX, e.Y-r.PlayerY) <= radius {
			hits = append(hits, e)
		}
	}
	return hits
}

// removeDead drops enemies with HP at or below zero and returns them.
// Each dead enemy is returned exactly once.
func (r *RunState) removeDead() []*Enemy {
	var dead []*Enemy
	n := 0
	for _, e := range r.Enemies {
		if e.HP > 0 {
			r.Enemies[n] = e
			n++
			continue
		}
		dead = append(dead, e)
	}
	clear(r.Enemies[n:])
	r.Enemies = r.Enemies[:n]
	return dead
}

// gainXP adds experience and processes at most one level-up.
// Overflow past the threshold carries into the next bar.
func (r *RunState) gainXP(amount int) {
	r.XP += amount
	if r.XP < r.XPToNext {
		return
	}

	threshold := r.XPToNext
	r.Level++
	r.XPToNext = int(math.Floor(float64(threshold) * XPGrowth))
	r.XP -= threshold
	r.HP = r.MaxHP
	r.MP = r.MaxMP

	r.emit(EventTypeLevelUp, LevelUpPayload{Level: r.Level, XP: r.XP, XPToNext: r.XPToNext})
}
