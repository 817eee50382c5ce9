package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tensura-arena/internal/catalog"
	"tensura-arena/internal/game"
	"tensura-arena/internal/progress"
	"tensura-arena/internal/session"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	p := h.progress.Snapshot()

	type entry struct {
		*catalog.Character
		Unlocked   bool `json:"unlocked"`
		UnlockCost int  `json:"unlockCost"`
	}
	chars := h.catalog.All()
	out := make([]entry, 0, len(chars))
	for _, ch := range chars {
		cost, _ := h.shop.UnlockCost(ch.ID)
		out = append(out, entry{Character: ch, Unlocked: p.IsCharacterUnlocked(ch.ID), UnlockCost: cost})
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	ch, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, ch)
}

func (h *routerHandlers) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Character string `json:"character"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Character == "" {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	e, err := h.runs.Start(req.Character)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"runId":    e.RunID(),
		"snapshot": e.GetSnapshot(),
	})
}

// activeRun writes a 404 and returns nil when no run is in progress.
func (h *routerHandlers) activeRun(w http.ResponseWriter) *game.Engine {
	e, ok := h.runs.Active()
	if !ok {
		writeErr(w, session.ErrNoActiveRun)
		return nil
	}
	return e
}

func (h *routerHandlers) handleRunSnapshot(w http.ResponseWriter, r *http.Request) {
	if e := h.activeRun(w); e != nil {
		writeJSON(w, e.GetSnapshot())
	}
}

func (h *routerHandlers) handleRunFrame(w http.ResponseWriter, r *http.Request) {
	e := h.activeRun(w)
	if e == nil {
		return
	}

	start := time.Now()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.WritePNG(w, e.GetSnapshot()); err != nil {
		log.Printf("⚠️ Frame encode failed: %v", err)
	}
	RecordRender(time.Since(start))
}

func (h *routerHandlers) handleRunAttack(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil || slot < 0 || slot > 3 {
		writeError(w, "slot must be 0..3", http.StatusBadRequest)
		return
	}

	e := h.activeRun(w)
	if e == nil {
		return
	}
	fired, err := e.Attack(slot)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"fired": fired})
}

func (h *routerHandlers) handleRunJoystick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	e := h.activeRun(w)
	if e == nil {
		return
	}
	if err := e.Drag(req.DX, req.DY); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleRunRelease(w http.ResponseWriter, r *http.Request) {
	e := h.activeRun(w)
	if e == nil {
		return
	}
	if err := e.Release(); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleRunPause(w http.ResponseWriter, r *http.Request) {
	e := h.activeRun(w)
	if e == nil {
		return
	}
	changed, err := e.Pause()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"paused": true, "changed": changed})
}

func (h *routerHandlers) handleRunResume(w http.ResponseWriter, r *http.Request) {
	e := h.activeRun(w)
	if e == nil {
		return
	}
	changed, err := e.Resume()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, map[string]bool{"paused": false, "changed": changed})
}

func (h *routerHandlers) handleRunExit(w http.ResponseWriter, r *http.Request) {
	sum, err := h.runs.Exit()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, sum)
}

func (h *routerHandlers) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.progress.Snapshot())
}

func (h *routerHandlers) handleCreateSavePoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stage int `json:"stage"`
		Round int `json:"round"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stage < 1 || req.Round < 1 {
		writeError(w, "stage and round must be positive", http.StatusBadRequest)
		return
	}
	respondProgress(w)(h.progress.CreateSavePoint(req.Stage, req.Round))
}

func (h *routerHandlers) handleLoadSavePoint(w http.ResponseWriter, r *http.Request) {
	stage, err := strconv.Atoi(chi.URLParam(r, "stage"))
	if err != nil {
		writeError(w, "invalid stage", http.StatusBadRequest)
		return
	}
	respondProgress(w)(h.progress.LoadSavePoint(stage))
}

func (h *routerHandlers) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	if _, running := h.runs.Active(); running {
		writeErr(w, session.ErrRunActive)
		return
	}
	respondProgress(w)(h.progress.Reset())
}

func (h *routerHandlers) handleGetShop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"upgrades":  h.shop.Upgrades(),
		"artifacts": h.shop.Artifacts(),
		"lifeCost":  progress.LifeCost,
	})
}

func (h *routerHandlers) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	respondProgress(w)(h.shop.BuyUpgrade(chi.URLParam(r, "id")))
}

func (h *routerHandlers) handleBuyArtifact(w http.ResponseWriter, r *http.Request) {
	respondProgress(w)(h.shop.BuyArtifact(chi.URLParam(r, "id")))
}

func (h *routerHandlers) handleBuyCharacter(w http.ResponseWriter, r *http.Request) {
	respondProgress(w)(h.shop.BuyCharacter(chi.URLParam(r, "id")))
}

func (h *routerHandlers) handleBuyLife(w http.ResponseWriter, r *http.Request) {
	respondProgress(w)(h.shop.BuyLife())
}

// respondProgress writes the result of a progress mutation.
func respondProgress(w http.ResponseWriter) func(progress.Progress, error) {
	return func(p progress.Progress, err error) {
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, p)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownCharacter),
		errors.Is(err, progress.ErrUnknownItem),
		errors.Is(err, progress.ErrNoSavePoint),
		errors.Is(err, session.ErrNoActiveRun),
		errors.Is(err, game.ErrRunStopped):
		return http.StatusNotFound
	case errors.Is(err, session.ErrCharacterLocked),
		errors.Is(err, session.ErrNoLives):
		return http.StatusForbidden
	case errors.Is(err, session.ErrRunActive):
		return http.StatusConflict
	case errors.Is(err, progress.ErrInsufficientGems),
		errors.Is(err, progress.ErrMaxLevel),
		errors.Is(err, progress.ErrAlreadyOwned),
		errors.Is(err, progress.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("❌ Request failed: %v", err)
	}
	writeError(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
