package game

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEventLogWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatalf("Start: %v", err)
	}

	el.EmitSimple(EventTypeRunStart, 0, "run-1", RunStartPayload{CharacterID: "rimuru", Seed: 7})
	el.EmitSimple(EventTypeKill, 3, "run-1", KillPayload{EnemyID: 9, Type: "wolf", TotalKills: 1})
	el.EmitSimple(EventTypeRunEnd, 4, "run-1", RunResult{CharacterID: "rimuru", Kills: 1})
	el.Stop()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}

	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	wantNames := []string{"run_start", "kill", "run_end"}
	for i, ev := range events {
		if ev.Name != wantNames[i] {
			t.Errorf("event %d name = %q, want %q", i, ev.Name, wantNames[i])
		}
		if ev.Sequence != uint64(i+1) {
			t.Errorf("event %d sequence = %d, want %d", i, ev.Sequence, i+1)
		}
		if ev.RunID != "run-1" {
			t.Errorf("event %d runId = %q", i, ev.RunID)
		}
	}

	var kill KillPayload
	if err := json.Unmarshal(events[1].Payload, &kill); err != nil {
		t.Fatal(err)
	}
	if kill.EnemyID != 9 || kill.Type != "wolf" {
		t.Errorf("kill payload = %+v", kill)
	}
}

func TestEventLogRejectsWhenStopped(t *testing.T) {
	el := NewEventLog()
	if el.EmitSimple(EventTypeSpawn, 0, "", nil) {
		t.Error("Emit before Start = true")
	}

	var nilLog *EventLog
	if nilLog.EmitSimple(EventTypeSpawn, 0, "", nil) {
		t.Error("Emit on nil log = true")
	}
}

func TestEventLogRateLimit(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatal(err)
	}
	defer el.Stop()

	for i := 0; i < 1000; i++ {
		el.EmitSimple(EventTypeSpawn, uint64(i), "", nil)
	}

	if el.GetDroppedCount() == 0 {
		t.Error("burst of 1000 events dropped none")
	}
	if el.GetTotalCount() >= 1000 {
		t.Errorf("accepted %d events, want rate limited", el.GetTotalCount())
	}
	stats := el.GetStats()
	if stats["running"] != true {
		t.Errorf("stats = %v", stats)
	}
}
