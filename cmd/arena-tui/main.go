// arena-tui plays one arena run in the terminal and folds the result into
// the saved progress when the player quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/config"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
	"tensura-arena/internal/session"
	"tensura-arena/internal/sfx"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
)

const drawInterval = 33 * time.Millisecond

func main() {
	godotenv.Load(".env")
	appConfig := config.Load()

	characterID := flag.String("character", progress.DefaultCharacter, "character to play")
	progressPath := flag.String("progress", appConfig.Storage.ProgressPath, "progress file")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// The screen owns the terminal; logs would corrupt it.
	log.SetOutput(io.Discard)
	if *logPath != "" {
		if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	if err := run(appConfig, *characterID, *progressPath, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "arena-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(appConfig config.AppConfig, characterID, progressPath string, mute bool) error {
	roster := catalog.Default()
	if appConfig.Storage.CatalogPath != "" {
		var err error
		if roster, err = catalog.LoadFile(appConfig.Storage.CatalogPath); err != nil {
			return err
		}
	}

	store, err := progress.Open(progressPath)
	if err != nil {
		return err
	}

	eventLog := game.NewEventLog()
	if err := eventLog.Start(appConfig.Storage.EventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	}
	defer eventLog.Stop()

	audio := sfx.NewPlayer()
	if !mute {
		if err := audio.Init(); err != nil {
			// Non-fatal, the run plays without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}
	defer audio.Close()

	runs := session.NewManager(session.Config{
		Catalog:  roster,
		Progress: store,
		Run: game.RunConfig{
			Arena:  appConfig.Arena,
			Timers: appConfig.Timers,
			Limits: appConfig.Limits,
		},
		EventLog: eventLog,
		Observer: audio,
	})

	engine, err := runs.Start(characterID)
	if err != nil {
		return err
	}
	ch, _ := roster.Get(characterID)

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		runs.Shutdown()
		return err
	}

	loop(screen, engine, ch.Name, appConfig.Arena.JoystickRadius())
	screen.Fini()

	sum, err := runs.Exit()
	if err != nil {
		return err
	}
	printSummary(os.Stdout, ch.Name, sum)
	return nil
}

// loop draws snapshots and feeds keys to the engine until the player quits.
func loop(screen tcell.Screen, engine *game.Engine, name string, radius float64) {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(drawInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !handleEvent(ev, engine, radius) {
				return
			}
		case <-ticker.C:
			draw(screen, engine.GetSnapshot(), name)
		}
	}
}

// handleEvent applies one terminal event. It returns false to quit.
func handleEvent(ev tcell.Event, engine *game.Engine, radius float64) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		act, ok := keyAction(ev.Key(), ev.Rune())
		if !ok {
			return true
		}
		quit, err := act.apply(engine, radius)
		if err != nil && !errors.Is(err, game.ErrRunStopped) {
			log.Printf("⌨️ Key %q rejected: %v", ev.Name(), err)
		}
		return !quit
	case *tcell.EventResize:
		// Redrawn on the next tick
	}
	return true
}

type actionKind int

const (
	actDrag actionKind = iota
	actRelease
	actAttack
	actTogglePause
	actQuit
)

type action struct {
	kind   actionKind
	dx, dy float64 // unit direction for actDrag
	slot   int
}

// keyAction maps a key press to a run action. r is only read for KeyRune.
func keyAction(key tcell.Key, r rune) (action, bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return action{kind: actQuit}, true
	case tcell.KeyUp:
		return action{kind: actDrag, dy: -1}, true
	case tcell.KeyDown:
		return action{kind: actDrag, dy: 1}, true
	case tcell.KeyLeft:
		return action{kind: actDrag, dx: -1}, true
	case tcell.KeyRight:
		return action{kind: actDrag, dx: 1}, true
	case tcell.KeyRune:
	default:
		return action{}, false
	}

	switch r {
	case 'q', 'Q':
		return action{kind: actQuit}, true
	case 'w', 'W':
		return action{kind: actDrag, dy: -1}, true
	case 's', 'S':
		return action{kind: actDrag, dy: 1}, true
	case 'a', 'A':
		return action{kind: actDrag, dx: -1}, true
	case 'd', 'D':
		return action{kind: actDrag, dx: 1}, true
	case ' ':
		return action{kind: actRelease}, true
	case 'p', 'P':
		return action{kind: actTogglePause}, true
	case '1', '2', '3', '4':
		return action{kind: actAttack, slot: int(r - '1')}, true
	}
	return action{}, false
}

// apply sends the action to engine. Drags push the knob fully to the rim.
// quit is true for the quit action.
func (a action) apply(engine *game.Engine, radius float64) (quit bool, err error) {
	switch a.kind {
	case actQuit:
		return true, nil
	case actDrag:
		err = engine.Drag(a.dx*radius, a.dy*radius)
	case actRelease:
		err = engine.Release()
	case actAttack:
		_, err = engine.Attack(a.slot)
	case actTogglePause:
		if engine.GetSnapshot().Paused {
			_, err = engine.Resume()
		} else {
			_, err = engine.Pause()
		}
	}
	return false, err
}

func printSummary(w io.Writer, name string, sum session.Summary) {
	res := sum.Result
	outcome := "left the arena"
	if res.Defeated {
		outcome = "was defeated"
	}
	fmt.Fprintf(w, "%s %s at level %d with %d kills (evolution tier %d).\n", name, outcome, res.Level, res.Kills, res.Evolution)
	fmt.Fprintf(w, "Earned %d gems. Now %d gems, %d/%d lives.\n", sum.GemsEarned, sum.Progress.Gems, sum.Progress.Lives, sum.Progress.MaxLives)
}
