package game

import (
	"math"
	"math/rand"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/config"
	"tensura-arena/internal/game/spatial"
)

// Progression constants.
const (
	InitialXPToNext = 100
	XPPerKill       = 50
	XPGrowth        = 1.5
)

// RunConfig is the static configuration of one arena session.
type RunConfig struct {
	Arena  config.ArenaConfig
	Timers config.TimerConfig
	Limits config.ResourceLimits
}

// DefaultRunConfig returns the default geometry, timers and limits.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Arena:  config.DefaultArena(),
		Timers: config.DefaultTimers(),
		Limits: config.DefaultLimits(),
	}
}

// RunResult is what a finished run hands back to progression bookkeeping.
type RunResult struct {
	CharacterID string `json:"characterId"`
	Level       int    `json:"level"`
	Kills       int    `json:"kills"`
	Evolution   int    `json:"evolution"`
	Defeated    bool   `json:"defeated"`
	Ticks       uint64 `json:"ticks"`
}

// RunState is the complete mutable state of one arena session.
// It is not safe for concurrent use; Engine serializes all access.
type RunState struct {
	character *catalog.Character
	cfg       RunConfig
	rng       *rand.Rand

	PlayerX, PlayerY float64
	VX, VY           float64
	joystick         Joystick

	HP, MaxHP float64
	MP, MaxMP float64
	Level     int
	XP        int
	XPToNext  int
	Kills     int
	Evolution int

	// Cooldowns maps move id to remaining seconds. Absent means ready.
	Cooldowns map[string]float64
	Enemies   []*Enemy
	Particles []*Particle

	paused    bool
	defeated  bool
	TickCount uint64

	nextID uint64
	grid   *spatial.SpatialGrid
	emit   func(EventType, interface{})
}

// NewRun creates a run for ch at level 1 with full HP/MP in the arena center.
func NewRun(ch *catalog.Character, cfg RunConfig, rng *rand.Rand) *RunState {
	r := &RunState{
		character: ch,
		cfg:       cfg,
		rng:       rng,
		PlayerX:   cfg.Arena.Width / 2,
		PlayerY:   cfg.Arena.Height / 2,
		joystick:  Joystick{Radius: cfg.Arena.JoystickRadius()},
		HP:        ch.BaseStats.HP,
		MaxHP:     ch.BaseStats.HP,
		MP:        ch.BaseStats.MP,
		MaxMP:     ch.BaseStats.MP,
		Level:     1,
		XPToNext:  InitialXPToNext,
		Cooldowns: make(map[string]float64),
		Enemies:   make([]*Enemy, 0, cfg.Limits.MaxEnemies),
		Particles: make([]*Particle, 0, cfg.Limits.MaxParticles),
		// Cell size 100px covers the shortest move ranges in 3x3 cells
		grid: spatial.NewSpatialGrid(cfg.Arena.Width, cfg.Arena.Height, 100, cfg.Limits.MaxEnemies),
		emit: func(EventType, interface{}) {},
	}
	return r
}

// Character returns the character this run plays.
func (r *RunState) Character() *catalog.Character {
	return r.character
}

// CurrentEvolution returns the active evolution tier.
func (r *RunState) CurrentEvolution() catalog.Evolution {
	return r.character.Evolutions[r.Evolution]
}

// Multiplier is the active evolution's stat scalar.
func (r *RunState) Multiplier() float64 {
	return r.CurrentEvolution().StatsMultiplier
}

// IsPaused reports whether gameplay is frozen, either by request or by defeat.
func (r *RunState) IsPaused() bool {
	return r.paused || r.defeated
}

// IsDefeated reports whether the player has died. Defeat is terminal.
func (r *RunState) IsDefeated() bool {
	return r.defeated
}

// Pause freezes gameplay. The scheduling heartbeat keeps running.
func (r *RunState) Pause() bool {
	if r.paused {
		return false
	}
	r.paused = true
	return true
}

// Resume lifts an explicit pause. It cannot lift a defeat.
func (r *RunState) Resume() bool {
	if !r.paused {
		return false
	}
	r.paused = false
	return true
}

// Tick advances the simulation by one frame. Movement is a constant step per
// frame scaled by velocity only; no elapsed time is integrated.
func (r *RunState) Tick() {
	r.TickCount++
	if r.IsPaused() {
		return
	}

	r.movePlayer()
	r.updateEnemies()
	r.updateParticles()

	if r.HP <= 0 {
		r.HP = 0
		r.defeated = true
		r.emit(EventTypeDefeat, DefeatPayload{Level: r.Level, Kills: r.Kills})
		return
	}

	r.checkEvolution()
}

// movePlayer integrates velocity and keeps the player's body inside the arena.
func (r *RunState) movePlayer() {
	half := r.cfg.Arena.PlayerSize / 2
	r.PlayerX = clamp(r.PlayerX+r.VX, half, r.cfg.Arena.Width-half)
	r.PlayerY = clamp(r.PlayerY+r.VY, half, r.cfg.Arena.Height-half)
}

// TickCooldowns removes one cooldown step from every active entry and drops
// entries that reach zero. It runs regardless of pause.
func (r *RunState) TickCooldowns() {
	step := r.cfg.Timers.CooldownStep
	for id, remaining := range r.Cooldowns {
		remaining = math.Max(0, remaining-step)
		if remaining == 0 {
			delete(r.Cooldowns, id)
			continue
		}
		r.Cooldowns[id] = remaining
	}
}

// RegenMP restores MP up to the maximum unless paused.
func (r *RunState) RegenMP() bool {
	if r.IsPaused() || r.MP >= r.MaxMP {
		return false
	}
	r.MP = math.Min(r.MP+r.cfg.Timers.RegenAmount, r.MaxMP)
	return true
}

// Drag feeds a joystick displacement from gesture start and updates velocity.
func (r *RunState) Drag(dx, dy float64) {
	speed := r.character.BaseStats.Speed * r.Multiplier()
	r.VX, r.VY = r.joystick.Drag(dx, dy, speed)
}

// Release ends the drag gesture. Velocity and knob return to zero.
func (r *RunState) Release() {
	r.joystick.Release()
	r.VX, r.VY = 0, 0
}

// Knob returns the joystick knob offset for rendering.
func (r *RunState) Knob() (float64, float64) {
	return r.joystick.KnobX, r.joystick.KnobY
}

// Result returns the outputs consumed by progression bookkeeping.
func (r *RunState) Result() RunResult {
	return RunResult{
		CharacterID: r.character.ID,
		Level:       r.Level,
		Kills:       r.Kills,
		Evolution:   r.Evolution,
		Defeated:    r.defeated,
		Ticks:       r.TickCount,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
