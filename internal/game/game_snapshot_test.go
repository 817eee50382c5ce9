package game

import "testing"

func TestSnapshotCopiesState(t *testing.T) {
	r := newTestRun(t)
	e := addEnemy(r, 10, 20, 40)
	e.HP = 10
	r.Cooldowns["rimuru-predator"] = 1.5
	r.Drag(3, 4)
	r.MP = 50

	snap := r.Snapshot()

	if snap.Player.X != r.PlayerX || snap.Player.KnobX != 3 || snap.Player.KnobY != 4 {
		t.Errorf("player = %+v", snap.Player)
	}
	if snap.Player.EvolutionName != "Slime" || snap.Player.Color != "#00BFFF" {
		t.Errorf("evolution/color = %q/%q", snap.Player.EvolutionName, snap.Player.Color)
	}
	if len(snap.Enemies) != 1 || snap.Enemies[0].HPFraction != 0.25 {
		t.Errorf("enemies = %+v", snap.Enemies)
	}

	cd := snap.Cooldowns[1]
	if cd.MoveID != "rimuru-predator" || cd.Remaining != 1.5 || cd.Fraction != 0.5 || cd.Usable {
		t.Errorf("cooldown slot 1 = %+v", cd)
	}
	if !snap.Cooldowns[0].Usable {
		t.Error("slot 0 should be usable")
	}
	if snap.Cooldowns[3].Usable {
		t.Error("slot 3 should not be usable with 50 MP")
	}

	// Later mutation must not leak into a taken snapshot
	e.X = 999
	r.PlayerX = 1
	if snap.Enemies[0].X != 10 || snap.Player.X == 1 {
		t.Error("snapshot changed after state mutation")
	}
}

func TestSnapshotPublisher(t *testing.T) {
	var p SnapshotPublisher
	if p.Latest() != nil {
		t.Fatal("Latest() before publish should be nil")
	}

	a, b := &RunSnapshot{}, &RunSnapshot{}
	p.Publish(a)
	p.Publish(b)

	if p.Latest() != b {
		t.Error("Latest() is not the last published snapshot")
	}
	if a.Sequence != 1 || b.Sequence != 2 {
		t.Errorf("sequences = %d, %d; want 1, 2", a.Sequence, b.Sequence)
	}
}
