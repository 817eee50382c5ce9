package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
	"tensura-arena/internal/session"

	"github.com/gdamore/tcell/v2"
)

func testSnapshot() *game.RunSnapshot {
	return &game.RunSnapshot{
		ArenaWidth:  400,
		ArenaHeight: 800,
		Player: game.PlayerSnapshot{
			X: 200, Y: 400, HP: 80, MaxHP: 100, MP: 50, MaxMP: 100,
			Level: 3, Color: "#00BFFF", EvolutionName: "Slime",
		},
		Enemies: []game.EnemySnapshot{
			{ID: 1, X: 10, Y: 10, Type: "slime"},
			{ID: 2, X: -50, Y: 10, Type: "orc"}, // still walking in
		},
		Cooldowns: [4]game.CooldownSnapshot{
			{Name: "Water Blade", Usable: true},
			{Name: "Predator", Remaining: 1.5},
			{Name: "Lightning"},
			{Name: "Megiddo"},
		},
	}
}

// gridCanvas records the last drawn frame.
type gridCanvas struct {
	w, h  int
	cells [][]rune
	shown int
}

func newGridCanvas(w, h int) *gridCanvas {
	g := &gridCanvas{w: w, h: h}
	g.Clear()
	return g
}

func (g *gridCanvas) Clear() {
	g.cells = make([][]rune, g.h)
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", g.w))
	}
}

func (g *gridCanvas) Size() (int, int) { return g.w, g.h }

func (g *gridCanvas) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic("draw outside the screen")
	}
	g.cells[y][x] = r
}

func (g *gridCanvas) Show() { g.shown++ }

func (g *gridCanvas) row(y int) string { return string(g.cells[y]) }

func TestCellFor(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		x, y         float64
		wantC, wantR int
	}{
		{0, 0, 0, 0},
		{200, 400, 20, 10},
		{399, 799, 39, 19},
		{-50, 10, -5, 0},
	}
	for _, tt := range tests {
		c, r := cellFor(tt.x, tt.y, snap, 40, 20)
		if c != tt.wantC || r != tt.wantR {
			t.Errorf("cellFor(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, c, r, tt.wantC, tt.wantR)
		}
	}
}

func TestDrawPlacesActors(t *testing.T) {
	s := newGridCanvas(40, 20+hudRows)

	draw(s, testSnapshot(), "Rimuru")

	if r := s.cells[10][20]; r != '@' {
		t.Errorf("player cell = %q, want '@'", r)
	}
	if r := s.cells[0][1]; r != 's' {
		t.Errorf("slime cell = %q, want 's'", r)
	}
	if s.shown != 1 {
		t.Errorf("Show called %d times, want 1", s.shown)
	}
	if status := s.row(20); !strings.Contains(status, "Rimuru") || !strings.Contains(status, "Lv 3") {
		t.Errorf("status row = %q", status)
	}
	if moves := s.row(21); !strings.Contains(moves, "1:Water Blade") || !strings.Contains(moves, "1.5s") {
		t.Errorf("moves row = %q", moves)
	}
}

func TestDrawOverlay(t *testing.T) {
	s := newGridCanvas(40, 20+hudRows)

	snap := testSnapshot()
	snap.Defeated = true
	draw(s, snap, "Rimuru")

	if row := s.row(10); !strings.Contains(row, "DEFEATED") {
		t.Errorf("overlay row = %q", row)
	}
}

func TestDrawTinyScreen(t *testing.T) {
	s := newGridCanvas(10, 2)

	// Too small for the play area; must not panic
	draw(s, testSnapshot(), "Rimuru")
	draw(s, nil, "Rimuru")
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want action
		ok   bool
	}{
		{"arrow up", tcell.KeyUp, 0, action{kind: actDrag, dy: -1}, true},
		{"arrow right", tcell.KeyRight, 0, action{kind: actDrag, dx: 1}, true},
		{"wasd a", tcell.KeyRune, 'a', action{kind: actDrag, dx: -1}, true},
		{"space", tcell.KeyRune, ' ', action{kind: actRelease}, true},
		{"slot 1", tcell.KeyRune, '1', action{kind: actAttack, slot: 0}, true},
		{"slot 4", tcell.KeyRune, '4', action{kind: actAttack, slot: 3}, true},
		{"pause", tcell.KeyRune, 'p', action{kind: actTogglePause}, true},
		{"quit", tcell.KeyRune, 'q', action{kind: actQuit}, true},
		{"escape", tcell.KeyEscape, 0, action{kind: actQuit}, true},
		{"unbound rune", tcell.KeyRune, 'z', action{}, false},
		{"unbound key", tcell.KeyF5, 0, action{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyAction(tt.key, tt.r)
			if ok != tt.ok || got != tt.want {
				t.Errorf("keyAction = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestActionApplyReportsEngineErrors(t *testing.T) {
	ch, err := catalog.Default().Get("rimuru")
	if err != nil {
		t.Fatal(err)
	}
	engine := game.NewEngine(ch, game.EngineConfig{Run: game.DefaultRunConfig(), Seed: 1})

	actions := []action{
		{kind: actDrag, dx: 1},
		{kind: actRelease},
		{kind: actAttack, slot: 0},
		{kind: actTogglePause},
	}
	for _, a := range actions {
		quit, err := a.apply(engine, 25)
		if quit || !errors.Is(err, game.ErrRunNotStarted) {
			t.Errorf("apply(%+v) before start = %v, %v; want ErrRunNotStarted", a, quit, err)
		}
	}

	engine.Start()
	engine.Stop()
	for _, a := range actions {
		if _, err := a.apply(engine, 25); !errors.Is(err, game.ErrRunStopped) {
			t.Errorf("apply(%+v) after stop = %v, want ErrRunStopped", a, err)
		}
	}

	quit, err := action{kind: actQuit}.apply(engine, 25)
	if !quit || err != nil {
		t.Errorf("quit apply = %v, %v; want true, nil", quit, err)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "Rimuru Tempest", session.Summary{
		Result:     game.RunResult{Level: 4, Kills: 12, Defeated: true},
		GemsEarned: 120,
		Progress:   progress.Progress{Gems: 620, Lives: 4, MaxLives: 5},
	})

	out := buf.String()
	for _, want := range []string{"was defeated", "level 4", "12 kills", "Earned 120 gems", "620 gems", "4/5 lives"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q missing %q", out, want)
		}
	}
}
