// Package sfx plays short synthesized cues for run events.
package sfx

import (
	"sync"
	"time"

	"tensura-arena/internal/game"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the speaker rate every cue is rendered at.
const SampleRate = beep.SampleRate(44100)

// Cue names a sound.
type Cue int

const (
	CueKill Cue = iota
	CueLevelUp
	CueEvolve
	CueDefeat
)

type note struct {
	freq float64
	dur  time.Duration
}

// melodies are played note after note. A zero frequency is a rest.
var melodies = map[Cue][]note{
	CueKill:    {{880, 50 * time.Millisecond}},
	CueLevelUp: {{523, 80 * time.Millisecond}, {659, 80 * time.Millisecond}, {784, 120 * time.Millisecond}},
	CueEvolve: {
		{392, 100 * time.Millisecond}, {0, 20 * time.Millisecond},
		{523, 100 * time.Millisecond}, {0, 20 * time.Millisecond},
		{784, 250 * time.Millisecond},
	},
	CueDefeat: {{330, 200 * time.Millisecond}, {262, 200 * time.Millisecond}, {196, 400 * time.Millisecond}},
}

// Streamer renders cue at sr. The result is finite.
func Streamer(sr beep.SampleRate, cue Cue) (beep.Streamer, error) {
	var parts []beep.Streamer
	for _, n := range melodies[cue] {
		samples := sr.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(samples, tone))
	}
	return &effects.Gain{Streamer: beep.Seq(parts...), Gain: -0.7}, nil
}

// Player plays cues through the speaker and implements game.Observer.
// Before Init succeeds every method is a no-op.
type Player struct {
	game.NopObserver

	mu      sync.Mutex
	ready   bool
	mixer   *beep.Mixer
	lastHit time.Time
}

// NewPlayer creates a silent player.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Callers treat an error as "run without sound".
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
}

// Play queues cue on the mixer without waiting for it.
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	ready := p.ready
	p.mu.Unlock()
	if !ready {
		return
	}

	s, err := Streamer(SampleRate, cue)
	if err != nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// OnKill plays at most one kill cue every 50ms.
func (p *Player) OnKill(int) {
	p.mu.Lock()
	now := time.Now()
	skip := now.Sub(p.lastHit) < 50*time.Millisecond
	if !skip {
		p.lastHit = now
	}
	p.mu.Unlock()

	if !skip {
		p.Play(CueKill)
	}
}

func (p *Player) OnLevelUp(int)        { p.Play(CueLevelUp) }
func (p *Player) OnEvolve(int, string) { p.Play(CueEvolve) }
func (p *Player) OnDefeat()            { p.Play(CueDefeat) }

var _ game.Observer = (*Player)(nil)
