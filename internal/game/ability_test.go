package game

import (
	"testing"
)

func TestAttackRangeIsInclusive(t *testing.T) {
	r := newTestRun(t)
	move, _ := r.character.Move(0) // Water Blade: range 120, damage 15

	onEdge := addEnemy(r, r.PlayerX+move.Range, r.PlayerY, 100)
	beyond := addEnemy(r, r.PlayerX, r.PlayerY-move.Range-0.5, 100)

	if !r.Attack(0) {
		t.Fatal("Attack(0) = false")
	}

	if onEdge.HP != 85 {
		t.Errorf("enemy at exactly range: HP = %v, want 85", onEdge.HP)
	}
	if beyond.HP != 100 {
		t.Errorf("enemy beyond range: HP = %v, want untouched", beyond.HP)
	}
}

func TestAttackFindsOffArenaEnemies(t *testing.T) {
	r := newTestRun(t)
	r.PlayerX, r.PlayerY = 25, 25
	e := addEnemy(r, -20, 25, 10)

	r.Attack(0)

	if len(r.Enemies) != 0 || r.Kills != 1 {
		t.Errorf("enemy outside the arena edge was not hit: live=%d kills=%d hp=%v", len(r.Enemies), r.Kills, e.HP)
	}
}

func TestAttackSetsCooldownAndSpendsMP(t *testing.T) {
	r := newTestRun(t)
	move, _ := r.character.Move(1) // Predator: cooldown 3, mp 10

	if !r.Attack(1) {
		t.Fatal("Attack(1) = false")
	}

	if r.MP != 90 {
		t.Errorf("MP = %v, want 90", r.MP)
	}
	if got := r.Cooldowns[move.ID]; got != move.Cooldown {
		t.Errorf("cooldown = %v, want %v", got, move.Cooldown)
	}
	if len(r.Particles) != AttackBurstCount {
		t.Errorf("particles = %d, want one attack burst of %d", len(r.Particles), AttackBurstCount)
	}
}

func TestAttackIgnoredLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *RunState)
		slot  int
	}{
		{"on cooldown", func(r *RunState) { r.Cooldowns["rimuru-water-blade"] = 0.3 }, 0},
		{"insufficient MP", func(r *RunState) { r.MP = 5 }, 1},
		{"paused", func(r *RunState) { r.Pause() }, 0},
		{"slot out of range", func(r *RunState) {}, 4},
		{"negative slot", func(r *RunState) {}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRun(t)
			e := addEnemy(r, r.PlayerX+10, r.PlayerY, 100)
			tt.setup(r)

			mp := r.MP
			cooldowns := len(r.Cooldowns)

			if r.Attack(tt.slot) {
				t.Fatal("Attack() = true, want ignored")
			}
			if r.MP != mp {
				t.Errorf("MP = %v, want %v", r.MP, mp)
			}
			if len(r.Cooldowns) != cooldowns {
				t.Errorf("cooldowns = %v, want %d entries", r.Cooldowns, cooldowns)
			}
			if e.HP != 100 {
				t.Errorf("enemy HP = %v, want untouched", e.HP)
			}
			if len(r.Particles) != 0 {
				t.Errorf("particles = %d, want none", len(r.Particles))
			}
		})
	}
}

func TestZeroCooldownMoveCreatesNoEntry(t *testing.T) {
	r := newTestRun(t)
	move, _ := r.character.Move(0)
	move.Cooldown = 0

	r.AttackMove(move)
	if !r.AttackMove(move) {
		t.Error("zero-cooldown move should fire twice in a row")
	}
	if len(r.Cooldowns) != 0 {
		t.Errorf("Cooldowns = %v, want empty", r.Cooldowns)
	}
}

func TestEachKillCountedOnce(t *testing.T) {
	r := newTestRun(t)
	for i := 0; i < 3; i++ {
		addEnemy(r, r.PlayerX+float64(i*10), r.PlayerY, 10)
	}
	survivor := addEnemy(r, r.PlayerX+5, r.PlayerY+5, 100)

	r.Attack(0)

	if r.Kills != 3 {
		t.Errorf("Kills = %d, want 3", r.Kills)
	}
	if len(r.Enemies) != 1 || r.Enemies[0] != survivor {
		t.Fatalf("live enemies = %d, want only the survivor", len(r.Enemies))
	}

	delete(r.Cooldowns, "rimuru-water-blade")
	r.Attack(0)

	if r.Kills != 3 {
		t.Errorf("Kills = %d after second attack, want still 3", r.Kills)
	}
}

func TestLevelUpCarriesOverflow(t *testing.T) {
	r := newTestRun(t)
	r.XP = 90
	r.HP = 10
	r.MP = 20
	addEnemy(r, r.PlayerX+10, r.PlayerY, 10)

	r.Attack(0)

	if r.Level != 2 || r.XP != 40 || r.XPToNext != 150 {
		t.Errorf("level = %d xp = %d/%d, want 2 40/150", r.Level, r.XP, r.XPToNext)
	}
	if r.HP != r.MaxHP || r.MP != r.MaxMP {
		t.Errorf("HP/MP = %v/%v, want restored on level-up", r.HP, r.MP)
	}
}

func TestOneLevelUpPerAttack(t *testing.T) {
	r := newTestRun(t)
	for i := 0; i < 5; i++ {
		addEnemy(r, r.PlayerX+float64(i), r.PlayerY, 1)
	}

	r.Attack(0)

	// 250 xp: one level-up, the rest carries even past the new threshold
	if r.Level != 2 || r.XP != 150 || r.XPToNext != 150 {
		t.Errorf("level = %d xp = %d/%d, want 2 150/150", r.Level, r.XP, r.XPToNext)
	}
}

func TestDamageScalesWithEvolution(t *testing.T) {
	r := newTestRun(t)
	r.Level, r.Kills, r.Evolution = 5, 10, 1
	e := addEnemy(r, r.PlayerX+10, r.PlayerY, 100)

	r.Attack(0)

	if e.HP != 77.5 {
		t.Errorf("HP = %v, want 100 - 15*1.5 = 77.5", e.HP)
	}
}

func TestHitBurstPerTarget(t *testing.T) {
	r := newTestRun(t)
	addEnemy(r, r.PlayerX+10, r.PlayerY, 100)
	addEnemy(r, r.PlayerX-10, r.PlayerY, 100)

	r.Attack(0)

	want := AttackBurstCount + 2*HitBurstCount
	if len(r.Particles) != want {
		t.Errorf("particles = %d, want %d", len(r.Particles), want)
	}
}
