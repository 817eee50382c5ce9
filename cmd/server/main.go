package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tensura-arena/internal/api"
	"tensura-arena/internal/catalog"
	"tensura-arena/internal/config"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
	"tensura-arena/internal/render"
	"tensura-arena/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  TENSURA ARENA - GO ENGINE")
	log.Println("🎮 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server
	storageCfg := appConfig.Storage

	roster, err := loadCatalog(storageCfg.CatalogPath)
	if err != nil {
		log.Fatalf("❌ Catalog: %v", err)
	}
	log.Printf("📚 %d characters loaded", roster.Len())

	store, err := progress.Open(storageCfg.ProgressPath)
	if err != nil {
		log.Fatalf("❌ Progress: %v", err)
	}
	p := store.Snapshot()
	log.Printf("💾 Progress %s: %d gems, %d/%d lives", storageCfg.ProgressPath, p.Gems, p.Lives, p.MaxLives)

	eventLog := game.NewEventLog()
	if err := eventLog.Start(storageCfg.EventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	} else if storageCfg.EventLogPath != "" {
		log.Printf("📝 Event log: %s", storageCfg.EventLogPath)
	}
	api.TrackEventLog(eventLog)

	runCfg := game.RunConfig{
		Arena:  appConfig.Arena,
		Timers: appConfig.Timers,
		Limits: appConfig.Limits,
	}
	log.Printf("🎮 Config: %.0fx%.0f arena, %d FPS, spawn every %v, max %d enemies",
		runCfg.Arena.Width, runCfg.Arena.Height, runCfg.Timers.FrameRate, runCfg.Timers.SpawnInterval, runCfg.Limits.MaxEnemies)

	runs := session.NewManager(session.Config{
		Catalog:  roster,
		Progress: store,
		Run:      runCfg,
		EventLog: eventLog,
		Observer: api.Metrics{},
	})

	// Start debug server
	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.Enabled = serverCfg.DebugServer
	debugCfg.ListenAddr = serverCfg.DebugAddr
	if err := api.StartDebugServer(debugCfg); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	server := api.NewServer(api.RouterConfig{
		Runs:        runs,
		Catalog:     roster,
		Progress:    store,
		Shop:        progress.NewShop(store),
		Renderer:    render.New(serverCfg.FrameWidth, serverCfg.FrameHeight),
		CORSOrigins: serverCfg.CORSOrigins,
	})

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	runs.Shutdown()
	eventLog.Stop()
	log.Println("👋 Goodbye!")
}

// loadCatalog reads the roster override at path, or the built-in roster.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}
