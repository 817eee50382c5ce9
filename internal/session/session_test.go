package session

import (
	"errors"
	"testing"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
)

func newManager(t *testing.T) (*Manager, *progress.Store) {
	t.Helper()
	store, err := progress.Open("")
	if err != nil {
		t.Fatal(err)
	}
	return NewManager(Config{
		Catalog:  catalog.Default(),
		Progress: store,
		Run:      game.DefaultRunConfig(),
		Seed:     1,
	}), store
}

func TestStartAndExit(t *testing.T) {
	m, _ := newManager(t)

	e, err := m.Start("rimuru")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if active, ok := m.Active(); !ok || active != e {
		t.Fatal("Active() does not return the started engine")
	}

	sum, err := m.Exit()
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if sum.Result.CharacterID != "rimuru" || sum.Progress.Lives != 5 {
		t.Errorf("summary = %+v", sum)
	}
	if _, ok := m.Active(); ok {
		t.Error("run still active after Exit")
	}
	select {
	case <-e.Done():
	default:
		t.Error("engine not stopped by Exit")
	}
}

func TestStartRejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Manager, s *progress.Store)
		id    string
		want  error
	}{
		{"unknown character", func(*Manager, *progress.Store) {}, "veldora", catalog.ErrUnknownCharacter},
		{"locked character", func(*Manager, *progress.Store) {}, "milim", ErrCharacterLocked},
		{"no lives", func(_ *Manager, s *progress.Store) {
			for i := 0; i < 5; i++ {
				s.LoseLife()
			}
		}, "rimuru", ErrNoLives},
		{"already running", func(m *Manager, _ *progress.Store) { m.Start("rimuru") }, "rimuru", ErrRunActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s := newManager(t)
			defer m.Shutdown()
			tt.setup(m, s)

			if _, err := m.Start(tt.id); !errors.Is(err, tt.want) {
				t.Errorf("Start(%q) err = %v, want %v", tt.id, err, tt.want)
			}
		})
	}
}

func TestExitWithoutRun(t *testing.T) {
	m, _ := newManager(t)

	if _, err := m.Exit(); !errors.Is(err, ErrNoActiveRun) {
		t.Errorf("Exit() err = %v, want ErrNoActiveRun", err)
	}
	m.Shutdown()
}
