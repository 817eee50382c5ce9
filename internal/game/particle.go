package game

import "math"

// ParticleKind tags what produced a particle.
type ParticleKind string

const (
	ParticleAura ParticleKind = "aura"
	ParticleHit  ParticleKind = "hit"
)

// Particle is a short-lived cosmetic dot. Life counts down once per tick.
type Particle struct {
	ID      uint64
	X, Y    float64
	VX, VY  float64
	Life    int
	MaxLife int
	Color   string
	Size    float64
	Kind    ParticleKind
}

// Opacity is the fraction of life remaining.
func (p *Particle) Opacity() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

const (
	ParticleLife = 30 // ticks

	AttackBurstCount    = 8
	HitBurstCount       = 6
	EvolutionBurstCount = 20

	HitColor       = "#FF0000"
	EvolutionColor = "#FFD700"
)

// burst emits count particles evenly spread around (x, y).
func (r *RunState) burst(x, y float64, color string, count int, kind ParticleKind) {
	for i := 0; i < count; i++ {
		// HARD CAP: drop silently once the live set is full
		if len(r.Particles) >= r.cfg.Limits.MaxParticles {
			return
		}

		angle := math.Pi * 2 * float64(i) / float64(count)
		speed := 2 + r.rng.Float64()*3
		r.nextID++
		r.Particles = append(r.Particles, &Particle{
			ID:      r.nextID,
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    ParticleLife,
			MaxLife: ParticleLife,
			Color:   color,
			Size:    4 + r.rng.Float64()*4,
			Kind:    kind,
		})
	}
}

// updateParticles advances and expires particles in place.
func (r *RunState) updateParticles() {
	n := 0
	for _, p := range r.Particles {
		p.X += p.VX
		p.Y += p.VY
		p.Life--

		if p.Life > 0 {
			r.Particles[n] = p
			n++
		}
	}
	clear(r.Particles[n:])
	r.Particles = r.Particles[:n]
}
