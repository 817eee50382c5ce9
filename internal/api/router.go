package api

import (
	"net/http"
	"time"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
	"tensura-arena/internal/render"
	"tensura-arena/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RunManager is the run lifecycle the API drives.
// Keep this minimal - only include methods the API layer actually calls.
type RunManager interface {
	// Start begins a run with the given character
	Start(characterID string) (*game.Engine, error)
	// Active returns the running engine, if any
	Active() (*game.Engine, bool)
	// Exit stops the active run and folds its result into progress
	Exit() (session.Summary, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Runs:     manager,
//	    Catalog:  catalog.Default(),
//	    Progress: store,
//	    Shop:     progress.NewShop(store),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Runs owns the active run (required)
	Runs RunManager

	// Catalog is the character roster (required)
	Catalog *catalog.Catalog

	// Progress and Shop back the meta-progression routes (required)
	Progress *progress.Store
	Shop     *progress.Shop

	// Renderer draws /api/run/frame.png. If nil, a 390x844 renderer is used.
	Renderer *render.Renderer

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses DefaultAllowedOrigins plus local development ports.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the dependencies shared by the handler functions.
type routerHandlers struct {
	runs     RunManager
	catalog  *catalog.Catalog
	progress *progress.Store
	shop     *progress.Shop
	renderer *render.Renderer
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//   - No background workers are launched
//
// (A rate limiter created here starts its cleanup goroutine; pass one in
// through RouterConfig.RateLimiter to control its lifetime.)
//
// Example:
//
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/characters")
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = append([]string{"http://localhost:*", "http://127.0.0.1:*"}, DefaultAllowedOrigins...)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.New(390, 844)
	}

	h := &routerHandlers{
		runs:     cfg.Runs,
		catalog:  cfg.Catalog,
		progress: cfg.Progress,
		shop:     cfg.Shop,
		renderer: renderer,
	}

	r.Route("/api", func(r chi.Router) {
		// Roster
		r.Get("/characters", h.handleListCharacters)
		r.Get("/characters/{id}", h.handleGetCharacter)

		// Run control
		r.Post("/run", h.handleStartRun)
		r.Get("/run/snapshot", h.handleRunSnapshot)
		r.Get("/run/frame.png", h.handleRunFrame)
		r.Post("/run/attack/{slot}", h.handleRunAttack)
		r.Post("/run/joystick", h.handleRunJoystick)
		r.Post("/run/release", h.handleRunRelease)
		r.Post("/run/pause", h.handleRunPause)
		r.Post("/run/resume", h.handleRunResume)
		r.Post("/run/exit", h.handleRunExit)

		// Meta-progression
		r.Get("/progress", h.handleGetProgress)
		r.Post("/progress/savepoint", h.handleCreateSavePoint)
		r.Post("/progress/savepoint/{stage}/load", h.handleLoadSavePoint)
		r.Post("/progress/reset", h.handleResetProgress)

		// Shop
		r.Get("/shop", h.handleGetShop)
		r.Post("/shop/upgrade/{id}", h.handleBuyUpgrade)
		r.Post("/shop/artifact/{id}", h.handleBuyArtifact)
		r.Post("/shop/character/{id}", h.handleBuyCharacter)
		r.Post("/shop/life", h.handleBuyLife)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return r
}

// metricsMiddleware records latency and status per route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}
