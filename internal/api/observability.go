package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"sync/atomic"
	"time"

	"tensura-arena/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-run or per-enemy labels)
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Time spent in one frame tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.016},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_render_duration_seconds",
		Help:    "Time spent rendering a PNG frame",
		Buckets: []float64{0.005, 0.01, 0.02, 0.033, 0.05, 0.1},
	})

	enemyCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_enemy_count",
		Help: "Live enemies in the active run",
	})

	particleCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_particle_count",
		Help: "Live particles in the active run",
	})

	spawnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_spawns_total",
		Help: "Enemies spawned",
	})

	killsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_kills_total",
		Help: "Enemies killed",
	})

	levelUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_level_ups_total",
		Help: "Player level-ups",
	})

	evolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_evolutions_total",
		Help: "Evolutions reached, by tier",
	}, []string{"tier"}) // Bounded: "1".."3"

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_runs_total",
		Help: "Finished runs by outcome",
	}, []string{"outcome"}) // Bounded: "defeated", "exited"

	runActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_run_active",
		Help: "1 while a run is in progress",
	})

	// Event log metrics
	eventLogTotal = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "event_log_accepted",
		Help: "Events accepted by the run event log",
	}, func() float64 { return float64(eventLogSource().GetTotalCount()) })

	eventLogDropped = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "event_log_dropped",
		Help: "Events dropped due to rate limiting or buffer full",
	}, func() float64 { return float64(eventLogSource().GetDroppedCount()) })

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})
)

var trackedEventLog atomic.Pointer[game.EventLog]

// eventLogSource returns the event log whose counters are exported.
// Before TrackEventLog it returns an empty log.
func eventLogSource() *game.EventLog {
	if el := trackedEventLog.Load(); el != nil {
		return el
	}
	return emptyEventLog
}

var emptyEventLog = game.NewEventLog()

// TrackEventLog exports el's accepted and dropped counters on /metrics.
func TrackEventLog(el *game.EventLog) {
	if el != nil {
		trackedEventLog.Store(el)
	}
}

// Metrics feeds simulation callbacks into Prometheus. It implements
// game.Observer and never blocks.
type Metrics struct{}

var _ game.Observer = Metrics{}

func (Metrics) OnTick(d time.Duration, enemies, particles int) {
	tickDuration.Observe(d.Seconds())
	enemyCount.Set(float64(enemies))
	particleCount.Set(float64(particles))
	runActive.Set(1)
}

func (Metrics) OnSpawn()      { spawnsTotal.Inc() }
func (Metrics) OnKill(n int)  { killsTotal.Add(float64(n)) }
func (Metrics) OnLevelUp(int) { levelUpsTotal.Inc() }
func (Metrics) OnDefeat()     {}
func (Metrics) OnEvolve(tier int, _ string) {
	evolutionsTotal.WithLabelValues(tierLabel(tier)).Inc()
}

func (Metrics) OnRunEnd(res game.RunResult) {
	outcome := "exited"
	if res.Defeated {
		outcome = "defeated"
	}
	runsTotal.WithLabelValues(outcome).Inc()
	runActive.Set(0)
	enemyCount.Set(0)
	particleCount.Set(0)
}

func tierLabel(tier int) string {
	switch tier {
	case 1:
		return "1"
	case 2:
		return "2"
	case 3:
		return "3"
	default:
		return "other"
	}
}

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // MUST be a loopback address in production
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// isLoopback reports whether addr binds to a loopback interface.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// DebugHandler serves pprof, /metrics and /health.
func DebugHandler() http.Handler {
	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// StartDebugServer starts the internal observability server.
// CRITICAL: This MUST bind to localhost only to prevent pprof-based DoS
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if !isLoopback(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Println("⚠️ Debug server forced to localhost for security")
		cfg.ListenAddr = DefaultObservabilityConfig().ListenAddr
	}

	handler := DebugHandler()
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, handler)
	}

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordRender records frame render timing
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
