// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for arena geometry, timers and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig holds the geometry of the arena and its actors.
// All values are in screen pixels.
type ArenaConfig struct {
	Width        float64 // Arena width (full screen)
	Height       float64 // Arena height (full screen)
	PlayerSize   float64 // Player collision diameter
	EnemySize    float64 // Enemy collision diameter
	JoystickSize float64 // Joystick base diameter
	KnobSize     float64 // Joystick knob diameter
}

// DefaultArena returns the default arena configuration (portrait phone screen).
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:        390,
		Height:       844,
		PlayerSize:   50,
		EnemySize:    40,
		JoystickSize: 100,
		KnobSize:     50,
	}
}

// JoystickRadius is the maximum knob displacement from the joystick center.
func (a ArenaConfig) JoystickRadius() float64 {
	return a.JoystickSize/2 - a.KnobSize/2
}

// ArenaFromEnv returns arena configuration with environment variable overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}

	return cfg
}

// =============================================================================
// TIMER CONFIGURATION
// =============================================================================

// TimerConfig holds the scheduling cadence of the simulation.
// The frame loop and the periodic timers are independent of each other.
type TimerConfig struct {
	FrameRate        int           // Frames per second of the render-synchronized tick
	SpawnInterval    time.Duration // Enemy spawner period
	CooldownInterval time.Duration // Cooldown ticker period
	CooldownStep     float64       // Seconds removed from every cooldown per ticker fire
	RegenInterval    time.Duration // MP regeneration period
	RegenAmount      float64       // MP restored per regeneration fire
}

// DefaultTimers returns the default timer configuration.
func DefaultTimers() TimerConfig {
	return TimerConfig{
		FrameRate:        60,
		SpawnInterval:    2000 * time.Millisecond,
		CooldownInterval: 100 * time.Millisecond,
		CooldownStep:     0.1,
		RegenInterval:    500 * time.Millisecond,
		RegenAmount:      1,
	}
}

// TimersFromEnv returns timer configuration with environment variable overrides.
func TimersFromEnv() TimerConfig {
	cfg := DefaultTimers()

	if fps := getEnvInt("FRAME_RATE", 0); fps > 0 {
		cfg.FrameRate = fps
	}
	if d := getEnvDuration("SPAWN_INTERVAL", 0); d > 0 {
		cfg.SpawnInterval = d
	}

	return cfg
}

// =============================================================================
// GAME RESOURCE LIMITS
// =============================================================================

// ResourceLimits caps the live entity sets of a run.
type ResourceLimits struct {
	MaxEnemies   int // Spawner is a no-op at this many live enemies
	MaxParticles int // Particle bursts beyond this are dropped
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxEnemies:   15,
		MaxParticles: 400,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	CORSOrigins []string
	DebugServer bool
	DebugAddr   string // pprof and /metrics, localhost only
	FrameWidth  int    // PNG frame size served by /api/run/frame.png
	FrameHeight int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:        3000,
		DebugServer: true,
		DebugAddr:   "127.0.0.1:6060",
		FrameWidth:  390,
		FrameHeight: 844,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.DebugServer = false
	}
	if w := getEnvInt("FRAME_WIDTH", 0); w > 0 {
		cfg.FrameWidth = w
	}
	if h := getEnvInt("FRAME_HEIGHT", 0); h > 0 {
		cfg.FrameHeight = h
	}

	return cfg
}

// =============================================================================
// STORAGE CONFIGURATION
// =============================================================================

// StorageConfig holds file locations used by the app.
type StorageConfig struct {
	ProgressPath string // Persisted player progress (JSON)
	EventLogPath string // Run event log (JSONL), empty disables it
	CatalogPath  string // Character catalog override (JSON), empty uses the built-in roster
}

// DefaultStorage returns the default storage configuration.
func DefaultStorage() StorageConfig {
	return StorageConfig{
		ProgressPath: "progress.json",
	}
}

// StorageFromEnv returns storage configuration with environment variable overrides.
func StorageFromEnv() StorageConfig {
	cfg := DefaultStorage()

	cfg.ProgressPath = getEnvWithDefault("PROGRESS_PATH", cfg.ProgressPath)
	cfg.EventLogPath = os.Getenv("EVENT_LOG_PATH")
	cfg.CatalogPath = os.Getenv("CATALOG_PATH")

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena   ArenaConfig
	Timers  TimerConfig
	Limits  ResourceLimits
	Server  ServerConfig
	Storage StorageConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:   ArenaFromEnv(),
		Timers:  TimersFromEnv(),
		Limits:  DefaultLimits(),
		Server:  ServerFromEnv(),
		Storage: StorageFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvWithDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
