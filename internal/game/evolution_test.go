package game

import "testing"

func TestEvolutionGate(t *testing.T) {
	tests := []struct {
		name  string
		level int
		kills int
		want  int
	}{
		{"base form", 1, 0, 0},
		{"level met, kills short", 5, 5, 0},
		{"kills met, level short", 4, 50, 0},
		{"both met", 5, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRun(t)
			r.Level, r.Kills = tt.level, tt.kills

			r.Tick()

			if r.Evolution != tt.want {
				t.Errorf("Evolution = %d, want %d", r.Evolution, tt.want)
			}
		})
	}
}

func TestEvolutionAdvancesOneTierPerCheck(t *testing.T) {
	r := newTestRun(t)
	r.Level, r.Kills = 20, 100

	for want := 1; want <= 3; want++ {
		r.Tick()
		if r.Evolution != want {
			t.Fatalf("Evolution = %d after tick %d, want %d", r.Evolution, want, want)
		}
	}

	r.Tick()
	if r.Evolution != 3 {
		t.Errorf("Evolution = %d, want to stay at the final tier", r.Evolution)
	}
	if r.Multiplier() != 3.5 {
		t.Errorf("Multiplier() = %v, want 3.5", r.Multiplier())
	}
}

func TestEvolutionNeverRegresses(t *testing.T) {
	r := newTestRun(t)
	r.Level, r.Kills = 5, 10
	r.Tick()

	r.Level, r.Kills = 1, 0
	r.Tick()

	if r.Evolution != 1 {
		t.Errorf("Evolution = %d, want 1", r.Evolution)
	}
}

func TestEvolutionBurst(t *testing.T) {
	r := newTestRun(t)
	r.Level, r.Kills = 5, 10

	if !r.checkEvolution() {
		t.Fatal("checkEvolution() = false")
	}

	if len(r.Particles) != EvolutionBurstCount {
		t.Fatalf("particles = %d, want %d", len(r.Particles), EvolutionBurstCount)
	}
	for _, p := range r.Particles {
		if p.Color != EvolutionColor || p.Kind != ParticleAura {
			t.Errorf("particle = %s/%s, want %s aura", p.Color, p.Kind, EvolutionColor)
		}
	}
}

func TestEvolutionViaAttack(t *testing.T) {
	r := newTestRun(t)
	r.Level, r.Kills = 5, 9
	addEnemy(r, r.PlayerX+10, r.PlayerY, 1)

	r.Attack(0)

	if r.Evolution != 1 {
		t.Errorf("Evolution = %d after 10th kill at level 5, want 1", r.Evolution)
	}
}
