package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeRunStart
	EventTypeSpawn
	EventTypeAttack
	EventTypeKill
	EventTypeLevelUp
	EventTypeEvolve
	EventTypeDefeat
	EventTypeRunEnd
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Name      string          `json:"name"`      // Human-readable type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Frame this occurred in
	RunID     string          `json:"runId"`
	Payload   json.RawMessage `json:"payload"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeRunStart:
		return "run_start"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeAttack:
		return "attack"
	case EventTypeKill:
		return "kill"
	case EventTypeLevelUp:
		return "level_up"
	case EventTypeEvolve:
		return "evolve"
	case EventTypeDefeat:
		return "defeat"
	case EventTypeRunEnd:
		return "run_end"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// RunStartPayload records the character and seed of a run
type RunStartPayload struct {
	CharacterID string `json:"characterId"`
	Seed        int64  `json:"seed"`
}

// SpawnPayload contains enemy spawn details
type SpawnPayload struct {
	EnemyID uint64  `json:"enemyId"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	HP      float64 `json:"hp"`
}

// AttackPayload contains a resolved attack
type AttackPayload struct {
	MoveID string  `json:"moveId"`
	Damage float64 `json:"damage"`
	Hits   int     `json:"hits"`
	Kills  int     `json:"kills"`
	MP     float64 `json:"mp"`
}

// KillPayload contains kill event details
type KillPayload struct {
	EnemyID    uint64 `json:"enemyId"`
	Type       string `json:"type"`
	TotalKills int    `json:"totalKills"`
}

// LevelUpPayload contains level-up details
type LevelUpPayload struct {
	Level    int `json:"level"`
	XP       int `json:"xp"`
	XPToNext int `json:"xpToNext"`
}

// EvolvePayload contains evolution details
type EvolvePayload struct {
	Tier       int     `json:"tier"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// DefeatPayload contains the final numbers at the moment of defeat
type DefeatPayload struct {
	Level int `json:"level"`
	Kills int `json:"kills"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, runID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Name:      eventType.String(),
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		RunID:     runID,
		Payload:   EncodePayload(payload),
	}
}
