package game

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// STRESS TEST SUITE: CONCURRENT CLIENTS AGAINST A LIVE RUN
// Run with: go test -race -v -run='TestStress|TestLatency' ./internal/game/...
// =============================================================================

// -----------------------------------------------------------------------------
// STRESS TEST: CONCURRENT COMMANDS
// -----------------------------------------------------------------------------

func TestStress_ConcurrentCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	cfg := fastEngineConfig()
	cfg.Run.Timers.FrameRate = 240
	cfg.Run.Timers.CooldownInterval = time.Millisecond
	e := NewEngine(rimuru(t), cfg)
	e.Start()
	defer e.Stop()

	var wg sync.WaitGroup
	var commandsProcessed, errCount int64

	numWorkers := 8
	commandsPerWorker := 200

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < commandsPerWorker; i++ {
				var err error
				switch rng.Intn(5) {
				case 0:
					_, err = e.Attack(rng.Intn(4))
				case 1:
					err = e.Drag(rng.Float64()*100-50, rng.Float64()*100-50)
				case 2:
					err = e.Release()
				case 3:
					_, err = e.Pause()
				case 4:
					_, err = e.Resume()
				}
				if err != nil {
					atomic.AddInt64(&errCount, 1)
				}
				atomic.AddInt64(&commandsProcessed, 1)
			}
		}(int64(w))
	}

	// Snapshot readers run alongside the writers
	stopReaders := make(chan struct{})
	var readers sync.WaitGroup
	var regressions int64
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			var last uint64
			for {
				select {
				case <-stopReaders:
					return
				default:
				}
				snap := e.GetSnapshot()
				if snap.Sequence < last {
					atomic.AddInt64(&regressions, 1)
				}
				last = snap.Sequence
				if len(snap.Enemies) > cfg.Run.Limits.MaxEnemies {
					atomic.AddInt64(&regressions, 1)
				}
			}
		}()
	}

	wg.Wait()
	close(stopReaders)
	readers.Wait()

	t.Logf("Concurrent Commands Test:")
	t.Logf("  Commands Processed: %d", commandsProcessed)
	t.Logf("  Errors: %d", errCount)

	if errCount > 0 {
		t.Errorf("Had %d errors during concurrent command processing", errCount)
	}
	if regressions > 0 {
		t.Errorf("Readers saw %d inconsistent snapshots", regressions)
	}
	if commandsProcessed != int64(numWorkers*commandsPerWorker) {
		t.Errorf("Processed %d commands, want %d", commandsProcessed, numWorkers*commandsPerWorker)
	}
}

// -----------------------------------------------------------------------------
// LATENCY TEST: COMMAND TO SNAPSHOT
// -----------------------------------------------------------------------------

func TestLatency_CommandToSnapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping latency test in short mode")
	}

	cfg := fastEngineConfig()
	cfg.Run.Timers.FrameRate = 60
	e := NewEngine(rimuru(t), cfg)
	e.Start()
	defer e.Stop()

	var latencies []time.Duration
	for i := 0; i < 20; i++ {
		want := i%2 == 0
		cmdTime := time.Now()
		if want {
			e.Pause()
		} else {
			e.Resume()
		}

		for e.GetSnapshot().Paused != want {
			if time.Since(cmdTime) > time.Second {
				t.Fatalf("pause=%v never reached a snapshot", want)
			}
			time.Sleep(time.Millisecond)
		}
		latencies = append(latencies, time.Since(cmdTime))
	}

	var total, worst time.Duration
	for _, l := range latencies {
		total += l
		worst = max(worst, l)
	}
	avg := total / time.Duration(len(latencies))

	t.Logf("Command-to-Snapshot Latency:")
	t.Logf("  Samples: %d", len(latencies))
	t.Logf("  Average: %v", avg)
	t.Logf("  Max: %v", worst)

	// A command lands in the next published frame; allow a few frames of slack
	maxAcceptable := 4 * time.Second / 60
	if avg > maxAcceptable {
		t.Errorf("Average latency %v exceeds acceptable %v", avg, maxAcceptable)
	}
}
