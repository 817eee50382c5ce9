package game

import "math"

// EnemyType is the cosmetic kind of an enemy.
type EnemyType string

const (
	EnemySlime  EnemyType = "slime"
	EnemyWolf   EnemyType = "wolf"
	EnemyOrc    EnemyType = "orc"
	EnemyGoblin EnemyType = "goblin"
)

// EnemyTypes lists the kinds the spawner picks from uniformly.
var EnemyTypes = []EnemyType{EnemySlime, EnemyWolf, EnemyOrc, EnemyGoblin}

// Enemy pursues the player and is removed once HP reaches zero.
type Enemy struct {
	ID     uint64
	X, Y   float64
	HP     float64
	MaxHP  float64
	Speed  float64 // pixels per tick
	Damage float64
	Type   EnemyType
	Size   float64 // collision diameter
}

// HPFraction is the remaining health in [0, 1].
func (e *Enemy) HPFraction() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return clamp(e.HP/e.MaxHP, 0, 1)
}

// Enemy scaling by player level at spawn time.
const (
	EnemyBaseHP        = 20.0
	EnemyHPPerLevel    = 5.0
	EnemyBaseSpeed     = 1.5
	EnemySpeedPerLevel = 0.1
	EnemyBaseDamage    = 5.0
	EnemyDamagePerLvl  = 2.0

	// ContactDamagePerTick is applied for every touching enemy each tick.
	ContactDamagePerTick = 0.5
)

// SpawnEnemy places one enemy just outside a random arena edge.
// It is a no-op while paused or when the live set is full.
func (r *RunState) SpawnEnemy() bool {
	if r.IsPaused() || len(r.Enemies) >= r.cfg.Limits.MaxEnemies {
		return false
	}

	w, h := r.cfg.Arena.Width, r.cfg.Arena.Height
	offset := r.cfg.Arena.EnemySize / 2

	var x, y float64
	switch r.rng.Intn(4) {
	case 0: // top
		x, y = r.rng.Float64()*w, -offset
	case 1: // right
		x, y = w+offset, r.rng.Float64()*h
	case 2: // bottom
		x, y = r.rng.Float64()*w, h+offset
	default: // left
		x, y = -offset, r.rng.Float64()*h
	}

	lvl := float64(r.Level)
	hp := EnemyBaseHP + lvl*EnemyHPPerLevel
	r.nextID++
	enemy := &Enemy{
		ID:     r.nextID,
		X:      x,
		Y:      y,
		HP:     hp,
		MaxHP:  hp,
		Speed:  EnemyBaseSpeed + lvl*EnemySpeedPerLevel,
		Damage: EnemyBaseDamage + lvl*EnemyDamagePerLvl,
		Type:   EnemyTypes[r.rng.Intn(len(EnemyTypes))],
		Size:   r.cfg.Arena.EnemySize,
	}
	r.Enemies = append(r.Enemies, enemy)

	r.emit(EventTypeSpawn, SpawnPayload{EnemyID: enemy.ID, Type: string(enemy.Type), X: x, Y: y, HP: hp})
	return true
}

// updateEnemies applies contact damage and moves every enemy one step
// toward the player. Both happen in the same tick.
func (r *RunState) updateEnemies() {
	playerRadius := r.cfg.Arena.PlayerSize / 2

	for _, e := range r.Enemies {
		dx := r.PlayerX - e.X
		dy := r.PlayerY - e.Y
		dist := math.Hypot(dx, dy)

		if dist < playerRadius+e.Size/2 {
			r.HP = math.Max(0, r.HP-ContactDamagePerTick)
		}

		if dist > 0 {
			e.X += dx / dist * e.Speed
			e.Y += dy / dist * e.Speed
		}
	}
}
