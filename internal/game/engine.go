package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"tensura-arena/internal/catalog"
)

var (
	// ErrRunStopped is returned for commands sent after the loop has exited.
	ErrRunStopped = errors.New("run stopped")
	// ErrRunNotStarted is returned for commands sent before Start.
	ErrRunNotStarted = errors.New("run not started")
)

// Observer receives simulation callbacks from the loop goroutine.
// Implementations must not block.
type Observer interface {
	OnTick(d time.Duration, enemies, particles int)
	OnSpawn()
	OnKill(n int)
	OnLevelUp(level int)
	OnEvolve(tier int, name string)
	OnDefeat()
	OnRunEnd(result RunResult)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) OnTick(time.Duration, int, int) {}
func (NopObserver) OnSpawn()                       {}
func (NopObserver) OnKill(int)                     {}
func (NopObserver) OnLevelUp(int)                  {}
func (NopObserver) OnEvolve(int, string)           {}
func (NopObserver) OnDefeat()                      {}
func (NopObserver) OnRunEnd(RunResult)             {}

// EngineConfig configures one run's engine.
type EngineConfig struct {
	Run      RunConfig
	Seed     int64  // 0 picks a time-based seed
	RunID    string // defaults to "<character>-<seed>"
	EventLog *EventLog
	Observer Observer
}

type command struct {
	fn    func(*RunState) bool
	reply chan bool
}

// Engine drives one RunState. A single goroutine owns the state; the frame
// ticker, the three periodic timers and every external command are
// multiplexed through one select loop.
type Engine struct {
	run      *RunState
	cfg      EngineConfig
	runID    string
	observer Observer
	eventLog *EventLog

	snapshots SnapshotPublisher

	commands chan command
	stopChan chan struct{}
	done     chan struct{}

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
	result    RunResult
}

// NewEngine creates an engine for ch. The run does not advance until Start.
func NewEngine(ch *catalog.Character, cfg EngineConfig) *Engine {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	runID := cfg.RunID
	if runID == "" {
		runID = fmt.Sprintf("%s-%d", ch.ID, cfg.Seed)
	}

	e := &Engine{
		run:      NewRun(ch, cfg.Run, rand.New(rand.NewSource(cfg.Seed))),
		cfg:      cfg,
		runID:    runID,
		observer: cfg.Observer,
		eventLog: cfg.EventLog,
		commands: make(chan command),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	e.run.emit = e.emit
	e.snapshots.Publish(e.run.Snapshot())
	return e
}

// emit routes a simulation event to the event log and the observer.
// Always called on the loop goroutine.
func (e *Engine) emit(t EventType, payload interface{}) {
	e.eventLog.EmitSimple(t, e.run.TickCount, e.runID, payload)

	switch p := payload.(type) {
	case SpawnPayload:
		e.observer.OnSpawn()
	case AttackPayload:
		if p.Kills > 0 {
			e.observer.OnKill(p.Kills)
		}
	case LevelUpPayload:
		e.observer.OnLevelUp(p.Level)
	case EvolvePayload:
		log.Printf("✨ %s evolved into %s (x%.1f)", e.run.character.Name, p.Name, p.Multiplier)
		e.observer.OnEvolve(p.Tier, p.Name)
	case DefeatPayload:
		log.Printf("💀 %s defeated at level %d with %d kills", e.run.character.Name, p.Level, p.Kills)
		e.observer.OnDefeat()
	}
}

// Start begins the run loop. Subsequent calls are no-ops.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		e.eventLog.EmitSimple(EventTypeRunStart, 0, e.runID, RunStartPayload{
			CharacterID: e.run.character.ID,
			Seed:        e.cfg.Seed,
		})
		e.started.Store(true)
		go e.loop()
		log.Printf("🎮 Run %s started at %d FPS", e.runID, e.cfg.Run.Timers.FrameRate)
	})
}

func (e *Engine) loop() {
	defer close(e.done)

	timers := e.cfg.Run.Timers
	frame := time.NewTicker(time.Second / time.Duration(max(timers.FrameRate, 1)))
	spawn := time.NewTicker(timers.SpawnInterval)
	cooldown := time.NewTicker(timers.CooldownInterval)
	regen := time.NewTicker(timers.RegenInterval)
	defer frame.Stop()
	defer spawn.Stop()
	defer cooldown.Stop()
	defer regen.Stop()

	for {
		select {
		case <-e.stopChan:
			return

		case <-frame.C:
			start := time.Now()
			e.run.Tick()
			e.snapshots.Publish(e.run.Snapshot())
			e.observer.OnTick(time.Since(start), len(e.run.Enemies), len(e.run.Particles))

		case <-spawn.C:
			e.run.SpawnEnemy()

		case <-cooldown.C:
			e.run.TickCooldowns()

		case <-regen.C:
			e.run.RegenMP()

		case cmd := <-e.commands:
			cmd.reply <- cmd.fn(e.run)
		}
	}
}

// do runs fn on the loop goroutine and returns its result.
func (e *Engine) do(fn func(*RunState) bool) (bool, error) {
	if !e.started.Load() {
		return false, ErrRunNotStarted
	}

	cmd := command{fn: fn, reply: make(chan bool, 1)}
	select {
	case e.commands <- cmd:
	case <-e.done:
		return false, ErrRunStopped
	}
	return <-cmd.reply, nil
}

// Attack fires the move in slot. false means the attack was ignored.
func (e *Engine) Attack(slot int) (bool, error) {
	return e.do(func(r *RunState) bool { return r.Attack(slot) })
}

// Drag feeds a joystick displacement from gesture start.
func (e *Engine) Drag(dx, dy float64) error {
	_, err := e.do(func(r *RunState) bool {
		r.Drag(dx, dy)
		return true
	})
	return err
}

// Release ends the joystick gesture.
func (e *Engine) Release() error {
	_, err := e.do(func(r *RunState) bool {
		r.Release()
		return true
	})
	return err
}

// Pause freezes gameplay. false means the run was already paused.
func (e *Engine) Pause() (bool, error) {
	return e.do(func(r *RunState) bool { return r.Pause() })
}

// Resume lifts a pause. false means the run was not paused.
func (e *Engine) Resume() (bool, error) {
	return e.do(func(r *RunState) bool { return r.Resume() })
}

// GetSnapshot returns the latest published snapshot. Never nil.
func (e *Engine) GetSnapshot() *RunSnapshot {
	return e.snapshots.Latest()
}

// Done is closed once the loop has exited.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// RunID identifies this run in the event log.
func (e *Engine) RunID() string {
	return e.runID
}

// CharacterID returns the character being played.
func (e *Engine) CharacterID() string {
	return e.run.character.ID
}

// Stop ends the run and returns its result. It waits for the loop to exit
// and is safe to call more than once.
func (e *Engine) Stop() RunResult {
	e.stopOnce.Do(func() {
		// Consume startOnce so a late Start cannot launch the loop.
		e.startOnce.Do(func() { close(e.done) })
		close(e.stopChan)
		<-e.done

		e.result = e.run.Result()
		e.snapshots.Publish(e.run.Snapshot())
		e.eventLog.EmitSimple(EventTypeRunEnd, e.run.TickCount, e.runID, e.result)
		e.observer.OnRunEnd(e.result)
		log.Printf("🛑 Run %s ended: level %d, %d kills", e.runID, e.result.Level, e.result.Kills)
	})
	return e.result
}
