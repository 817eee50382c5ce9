package game

import (
	"sync/atomic"
	"time"

	"tensura-arena/internal/catalog"
)

// PlayerSnapshot is an immutable copy of player state for rendering.
// Uses value types (not pointers) to ensure immutability.
type PlayerSnapshot struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	VX            float64 `json:"vx"`
	VY            float64 `json:"vy"`
	HP            float64 `json:"hp"`
	MaxHP         float64 `json:"maxHp"`
	MP            float64 `json:"mp"`
	MaxMP         float64 `json:"maxMp"`
	Level         int     `json:"level"`
	XP            int     `json:"xp"`
	XPToNext      int     `json:"xpToNext"`
	Kills         int     `json:"kills"`
	Evolution     int     `json:"evolution"`
	EvolutionName string  `json:"evolutionName"`
	Multiplier    float64 `json:"multiplier"`
	Color         string  `json:"color"`
	KnobX         float64 `json:"knobX"`
	KnobY         float64 `json:"knobY"`
}

// EnemySnapshot is an immutable enemy for rendering
type EnemySnapshot struct {
	ID         uint64  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	HPFraction float64 `json:"hpFraction"`
	Size       float64 `json:"size"`
	Type       string  `json:"type"`
}

// ParticleSnapshot is an immutable particle for rendering
type ParticleSnapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alpha float64 `json:"alpha"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Kind  string  `json:"kind"`
}

// CooldownSnapshot describes one attack button.
type CooldownSnapshot struct {
	MoveID    string  `json:"moveId"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Remaining float64 `json:"remaining"`
	Fraction  float64 `json:"fraction"` // remaining / full cooldown, 0 when ready
	MPCost    float64 `json:"mpCost"`
	Usable    bool    `json:"usable"`
}

// RunSnapshot is a complete immutable run state for rendering.
// A published snapshot is never written again.
type RunSnapshot struct {
	Sequence    uint64    `json:"sequence"`
	Timestamp   time.Time `json:"timestamp"`
	TickNumber  uint64    `json:"tick"`
	CharacterID string    `json:"characterId"`

	Player    PlayerSnapshot      `json:"player"`
	Enemies   []EnemySnapshot     `json:"enemies"`
	Particles []ParticleSnapshot  `json:"particles"`
	Cooldowns [4]CooldownSnapshot `json:"cooldowns"`

	ArenaWidth  float64 `json:"arenaWidth"`
	ArenaHeight float64 `json:"arenaHeight"`
	PlayerSize  float64 `json:"playerSize"`

	Paused   bool `json:"paused"`
	Defeated bool `json:"defeated"`
}

// Snapshot copies the current state into a fresh RunSnapshot.
func (r *RunState) Snapshot() *RunSnapshot {
	evo := r.CurrentEvolution()
	snap := &RunSnapshot{
		Timestamp:   time.Now(),
		TickNumber:  r.TickCount,
		CharacterID: r.character.ID,
		Player: PlayerSnapshot{
			X: r.PlayerX, Y: r.PlayerY,
			VX: r.VX, VY: r.VY,
			HP: r.HP, MaxHP: r.MaxHP,
			MP: r.MP, MaxMP: r.MaxMP,
			Level:         r.Level,
			XP:            r.XP,
			XPToNext:      r.XPToNext,
			Kills:         r.Kills,
			Evolution:     r.Evolution,
			EvolutionName: evo.Name,
			Multiplier:    evo.StatsMultiplier,
			Color:         r.character.Element.Color(),
			KnobX:         r.joystick.KnobX,
			KnobY:         r.joystick.KnobY,
		},
		Enemies:     make([]EnemySnapshot, 0, len(r.Enemies)),
		Particles:   make([]ParticleSnapshot, 0, len(r.Particles)),
		ArenaWidth:  r.cfg.Arena.Width,
		ArenaHeight: r.cfg.Arena.Height,
		PlayerSize:  r.cfg.Arena.PlayerSize,
		Paused:      r.paused,
		Defeated:    r.defeated,
	}

	for _, e := range r.Enemies {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID: e.ID, X: e.X, Y: e.Y,
			HPFraction: e.HPFraction(),
			Size:       e.Size,
			Type:       string(e.Type),
		})
	}

	for _, p := range r.Particles {
		snap.Particles = append(snap.Particles, ParticleSnapshot{
			X: p.X, Y: p.Y,
			Alpha: p.Opacity(),
			Color: p.Color,
			Size:  p.Size,
			Kind:  string(p.Kind),
		})
	}

	for i := range snap.Cooldowns {
		if m, ok := r.character.Move(i); ok {
			snap.Cooldowns[i] = r.cooldownSnapshot(m)
		}
	}

	return snap
}

func (r *RunState) cooldownSnapshot(m catalog.Move) CooldownSnapshot {
	remaining := r.Cooldowns[m.ID]
	cs := CooldownSnapshot{
		MoveID:    m.ID,
		Name:      m.Name,
		Type:      string(m.Type),
		Remaining: remaining,
		MPCost:    m.MPCost,
		Usable:    remaining == 0 && r.MP >= m.MPCost && !r.IsPaused(),
	}
	if m.Cooldown > 0 {
		cs.Fraction = remaining / m.Cooldown
	}
	return cs
}

// SnapshotPublisher hands the latest snapshot from the simulation goroutine
// to any number of readers without locks.
type SnapshotPublisher struct {
	latest   atomic.Pointer[RunSnapshot]
	sequence uint64 // atomic - monotonic sequence
}

// Publish stamps snap with the next sequence number and makes it current.
// snap must not be modified afterwards.
func (p *SnapshotPublisher) Publish(snap *RunSnapshot) {
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	p.latest.Store(snap)
}

// Latest returns the most recent snapshot, or nil before the first publish.
func (p *SnapshotPublisher) Latest() *RunSnapshot {
	return p.latest.Load()
}
