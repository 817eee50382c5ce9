package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tensura-arena/internal/api"
	"tensura-arena/internal/catalog"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
	"tensura-arena/internal/render"
	"tensura-arena/internal/session"
)

// testEnv is a router backed by an in-memory progress store.
type testEnv struct {
	ts    *httptest.Server
	runs  *session.Manager
	store *progress.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := progress.Open("")
	if err != nil {
		t.Fatal(err)
	}
	cat := catalog.Default()
	runs := session.NewManager(session.Config{
		Catalog:  cat,
		Progress: store,
		Run:      game.DefaultRunConfig(),
		Seed:     7,
	})

	router := api.NewRouter(api.RouterConfig{
		Runs:     runs,
		Catalog:  cat,
		Progress: store,
		Shop:     progress.NewShop(store),
		Renderer: render.New(195, 422),
		RateLimitConfig: &api.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			CleanupInterval:   time.Hour,
		},
		DisableLogging: true, // Quiet logs in tests
	})

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		runs.Shutdown()
		ts.Close()
	})
	return &testEnv{ts: ts, runs: runs, store: store}
}

func (env *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(env.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (env *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(env.ts.URL+path, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected %d, got %d", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode)
	}
}

// TestNewRouterHasNoSideEffects verifies that NewRouter completes without
// starting a run or touching progress.
func TestNewRouterHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t)

	if _, ok := env.runs.Active(); ok {
		t.Error("router construction started a run")
	}
	if env.store.Snapshot().Gems != progress.DefaultGems {
		t.Error("router construction changed progress")
	}
}

func TestAPIListCharacters(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/characters")
	expectStatus(t, resp, http.StatusOK)

	var chars []struct {
		ID         string `json:"id"`
		Unlocked   bool   `json:"unlocked"`
		UnlockCost int    `json:"unlockCost"`
	}
	decode(t, resp, &chars)

	if len(chars) != catalog.Default().Len() {
		t.Fatalf("Expected %d characters, got %d", catalog.Default().Len(), len(chars))
	}
	byID := make(map[string]int)
	for i, c := range chars {
		byID[c.ID] = i
	}
	if c := chars[byID["rimuru"]]; !c.Unlocked {
		t.Error("rimuru should be unlocked by default")
	}
	if c := chars[byID["milim"]]; c.Unlocked || c.UnlockCost != 1000 {
		t.Errorf("milim = %+v, want locked at 1000", c)
	}
}

func TestAPIGetCharacter(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/characters/benimaru")
	expectStatus(t, resp, http.StatusOK)
	var ch catalog.Character
	decode(t, resp, &ch)
	if ch.Name != "Benimaru" || len(ch.Moves) != 4 {
		t.Errorf("unexpected character: %+v", ch)
	}

	expectStatus(t, env.get(t, "/api/characters/veldora"), http.StatusNotFound)
}

func TestAPIStartRunValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", `{invalid}`, http.StatusBadRequest},
		{"missing character", `{}`, http.StatusBadRequest},
		{"unknown character", `{"character":"veldora"}`, http.StatusNotFound},
		{"locked character", `{"character":"milim"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			expectStatus(t, env.post(t, "/api/run", tt.body), tt.wantStatus)
		})
	}
}

func TestAPIStartRunWithoutLives(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < progress.DefaultLives; i++ {
		env.store.LoseLife()
	}

	expectStatus(t, env.post(t, "/api/run", `{"character":"rimuru"}`), http.StatusForbidden)
}

func TestAPIRunLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// No run yet
	expectStatus(t, env.get(t, "/api/run/snapshot"), http.StatusNotFound)

	resp := env.post(t, "/api/run", `{"character":"rimuru"}`)
	expectStatus(t, resp, http.StatusCreated)
	var started struct {
		RunID    string           `json:"runId"`
		Snapshot game.RunSnapshot `json:"snapshot"`
	}
	decode(t, resp, &started)
	if started.RunID != "rimuru-7" || started.Snapshot.CharacterID != "rimuru" {
		t.Errorf("unexpected start response: %+v", started)
	}

	// Only one run at a time
	expectStatus(t, env.post(t, "/api/run", `{"character":"rimuru"}`), http.StatusConflict)

	resp = env.get(t, "/api/run/snapshot")
	expectStatus(t, resp, http.StatusOK)
	var snap game.RunSnapshot
	decode(t, resp, &snap)
	if snap.Player.MaxHP != 100 || snap.Cooldowns[3].Name != "Megiddo" {
		t.Errorf("unexpected snapshot: %+v", snap.Player)
	}

	// Ultimate fires once, then sits on its 15s cooldown
	var fired map[string]bool
	decode(t, env.post(t, "/api/run/attack/3", ""), &fired)
	if !fired["fired"] {
		t.Error("first ultimate should fire")
	}
	decode(t, env.post(t, "/api/run/attack/3", ""), &fired)
	if fired["fired"] {
		t.Error("ultimate on cooldown should be ignored")
	}
	expectStatus(t, env.post(t, "/api/run/attack/4", ""), http.StatusBadRequest)
	expectStatus(t, env.post(t, "/api/run/attack/x", ""), http.StatusBadRequest)

	expectStatus(t, env.post(t, "/api/run/joystick", `{"dx":40,"dy":0}`), http.StatusOK)
	expectStatus(t, env.post(t, "/api/run/joystick", `nope`), http.StatusBadRequest)
	expectStatus(t, env.post(t, "/api/run/release", ""), http.StatusOK)

	var paused map[string]bool
	decode(t, env.post(t, "/api/run/pause", ""), &paused)
	if !paused["paused"] || !paused["changed"] {
		t.Errorf("pause = %v", paused)
	}
	decode(t, env.post(t, "/api/run/pause", ""), &paused)
	if paused["changed"] {
		t.Error("second pause should not change state")
	}
	decode(t, env.post(t, "/api/run/resume", ""), &paused)
	if paused["paused"] || !paused["changed"] {
		t.Errorf("resume = %v", paused)
	}

	resp = env.get(t, "/api/run/frame.png")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("frame content type = %q", ct)
	}

	resp = env.post(t, "/api/run/exit", "")
	expectStatus(t, resp, http.StatusOK)
	var sum session.Summary
	decode(t, resp, &sum)
	if sum.Result.CharacterID != "rimuru" || sum.Progress.Gems != progress.DefaultGems+sum.GemsEarned {
		t.Errorf("unexpected summary: %+v", sum)
	}

	expectStatus(t, env.get(t, "/api/run/snapshot"), http.StatusNotFound)
	expectStatus(t, env.post(t, "/api/run/exit", ""), http.StatusNotFound)
}

func TestAPIShop(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/shop")
	expectStatus(t, resp, http.StatusOK)
	var listing struct {
		Upgrades  []progress.Upgrade  `json:"upgrades"`
		Artifacts []progress.Artifact `json:"artifacts"`
		LifeCost  int                 `json:"lifeCost"`
	}
	decode(t, resp, &listing)
	if len(listing.Upgrades) == 0 || len(listing.Artifacts) == 0 || listing.LifeCost != progress.LifeCost {
		t.Errorf("unexpected listing: %+v", listing)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantGems   int
	}{
		{"upgrade level 1", "/api/shop/upgrade/vitality", http.StatusOK, 400},
		{"upgrade level 2 costs double", "/api/shop/upgrade/vitality", http.StatusOK, 200},
		{"unknown upgrade", "/api/shop/upgrade/flight", http.StatusNotFound, 200},
		{"artifact", "/api/shop/artifact/goblin-charm", http.StatusOK, 100},
		{"artifact twice", "/api/shop/artifact/goblin-charm", http.StatusBadRequest, 100},
		{"character too expensive", "/api/shop/character/benimaru", http.StatusBadRequest, 100},
		{"starter already owned", "/api/shop/character/rimuru", http.StatusBadRequest, 100},
		{"life too expensive", "/api/shop/life", http.StatusBadRequest, 100},
	}

	for _, tt := range tests {
		resp := env.post(t, tt.path, "")
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.wantStatus, resp.StatusCode)
		}
		if got := env.store.Snapshot().Gems; got != tt.wantGems {
			t.Errorf("%s: gems = %d, want %d", tt.name, got, tt.wantGems)
		}
	}
}

func TestAPIBuyLife(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/shop/life", "")
	expectStatus(t, resp, http.StatusOK)
	var p progress.Progress
	decode(t, resp, &p)
	if p.Lives != 6 || p.MaxLives != 6 || p.Gems != 300 {
		t.Errorf("after buying a life: lives=%d max=%d gems=%d", p.Lives, p.MaxLives, p.Gems)
	}
}

func TestAPISavePoints(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.post(t, "/api/progress/savepoint", `{"stage":0,"round":1}`), http.StatusBadRequest)

	resp := env.post(t, "/api/progress/savepoint", `{"stage":2,"round":3}`)
	expectStatus(t, resp, http.StatusOK)
	var p progress.Progress
	decode(t, resp, &p)
	if p.HighestStage != 2 || p.SavePoints[2].Round != 3 {
		t.Errorf("unexpected progress after save: %+v", p)
	}

	env.store.SpendGems(100)
	resp = env.post(t, "/api/progress/savepoint/2/load", "")
	expectStatus(t, resp, http.StatusOK)
	decode(t, resp, &p)
	if p.Gems != progress.DefaultGems || p.CurrentStage != 2 || p.CurrentRound != 3 {
		t.Errorf("save point not restored: %+v", p)
	}

	expectStatus(t, env.post(t, "/api/progress/savepoint/9/load", ""), http.StatusNotFound)
	expectStatus(t, env.post(t, "/api/progress/savepoint/x/load", ""), http.StatusBadRequest)
}

func TestAPIResetProgress(t *testing.T) {
	env := newTestEnv(t)
	env.store.SpendGems(250)

	// Reset is refused while a run is in progress
	expectStatus(t, env.post(t, "/api/run", `{"character":"rimuru"}`), http.StatusCreated)
	expectStatus(t, env.post(t, "/api/progress/reset", ""), http.StatusConflict)
	expectStatus(t, env.post(t, "/api/run/exit", ""), http.StatusOK)

	resp := env.post(t, "/api/progress/reset", "")
	expectStatus(t, resp, http.StatusOK)
	var p progress.Progress
	decode(t, resp, &p)
	if p.Gems != progress.DefaultGems {
		t.Errorf("gems after reset = %d", p.Gems)
	}

	resp = env.get(t, "/api/progress")
	expectStatus(t, resp, http.StatusOK)
}

func TestAPIRateLimit(t *testing.T) {
	store, _ := progress.Open("")
	limiter := api.NewIPRateLimiter(api.RateLimitConfig{
		RequestsPerSecond: 0.001,
		Burst:             2,
		CleanupInterval:   time.Hour,
	})
	defer limiter.Stop()

	router := api.NewRouter(api.RouterConfig{
		Runs:           session.NewManager(session.Config{Catalog: catalog.Default(), Progress: store}),
		Catalog:        catalog.Default(),
		Progress:       store,
		Shop:           progress.NewShop(store),
		RateLimiter:    limiter,
		DisableLogging: true,
	})

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("request %d: expected %d, got %d", i, want, rec.Code)
		}
	}

	if stats := limiter.GetStats(); stats["rejected"] != 1 {
		t.Errorf("rejected = %d, want 1", stats["rejected"])
	}
}

func TestAPIHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/health")
	expectStatus(t, resp, http.StatusOK)
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if !strings.Contains(body.String(), "ok") {
		t.Errorf("health body = %q", body.String())
	}
}
