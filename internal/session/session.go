// Package session owns the single active arena run and hands its result to
// progress bookkeeping when the player exits.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
)

var (
	ErrRunActive       = errors.New("a run is already active")
	ErrNoActiveRun     = errors.New("no active run")
	ErrCharacterLocked = errors.New("character is locked")
	ErrNoLives         = errors.New("no lives left")
)

// Summary is what exiting a run reports back.
type Summary struct {
	Result     game.RunResult    `json:"result"`
	GemsEarned int               `json:"gemsEarned"`
	Progress   progress.Progress `json:"progress"`
}

// Config wires a Manager to its collaborators.
type Config struct {
	Catalog  *catalog.Catalog
	Progress *progress.Store
	Run      game.RunConfig
	EventLog *game.EventLog
	Observer game.Observer
	Seed     int64 // fixed seed for every run, 0 picks one per run
}

// Manager runs at most one engine at a time. It is safe for concurrent use.
type Manager struct {
	cfg Config

	mu     sync.Mutex
	engine *game.Engine
}

// NewManager creates a manager with no active run.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Start begins a run with characterID. The character must exist, be unlocked
// and the player must have a life left.
func (m *Manager) Start(characterID string) (*game.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine != nil {
		return nil, ErrRunActive
	}

	ch, err := m.cfg.Catalog.Get(characterID)
	if err != nil {
		return nil, err
	}

	p := m.cfg.Progress.Snapshot()
	if !p.IsCharacterUnlocked(characterID) {
		return nil, fmt.Errorf("%w: %s", ErrCharacterLocked, characterID)
	}
	if p.Lives <= 0 {
		return nil, ErrNoLives
	}

	e := game.NewEngine(ch, game.EngineConfig{
		Run:      m.cfg.Run,
		Seed:     m.cfg.Seed,
		EventLog: m.cfg.EventLog,
		Observer: m.cfg.Observer,
	})
	e.Start()
	m.engine = e
	return e, nil
}

// Active returns the running engine, if any.
func (m *Manager) Active() (*game.Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine, m.engine != nil
}

// Exit stops the active run and folds its result into progress.
func (m *Manager) Exit() (Summary, error) {
	m.mu.Lock()
	e := m.engine
	m.engine = nil
	m.mu.Unlock()

	if e == nil {
		return Summary{}, ErrNoActiveRun
	}

	res := e.Stop()
	earned, p, err := m.cfg.Progress.ApplyRunResult(res)
	if err != nil {
		log.Printf("❌ Failed to save run result: %v", err)
		return Summary{Result: res, Progress: p}, err
	}
	return Summary{Result: res, GemsEarned: earned, Progress: p}, nil
}

// Shutdown ends any active run during process exit.
func (m *Manager) Shutdown() {
	if _, err := m.Exit(); err != nil && !errors.Is(err, ErrNoActiveRun) {
		log.Printf("⚠️ Run shutdown: %v", err)
	}
}
