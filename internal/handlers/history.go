package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ktsuchiya/globalmatch-api/internal/config"
	"github.com/ktsuchiya/globalmatch-api/internal/history"
	"github.com/ktsuchiya/globalmatch-api/internal/middleware"
	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

type HistoryHandler struct {
	sessions *history.Manager
	logger   *utils.Logger
}

func NewHistoryHandler(sessions *history.Manager, logger *utils.Logger) *HistoryHandler {
	return &HistoryHandler{sessions: sessions, logger: logger}
}

func (h *HistoryHandler) store(r *http.Request) (*history.Store, string) {
	sessionID := middleware.SessionID(r)
	return h.sessions.Get(r.Context(), sessionID), sessionID
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := models.DocKind(mux.Vars(r)["kind"])

	store, _ := h.store(r)
	entries := store.List(kind)

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"kind":    kind,
		"entries": entries,
	})
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := models.DocKind(vars["kind"])
	id := vars["id"]

	store, sessionID := h.store(r)
	if !store.Delete(kind, id) {
		respondError(w, h.logger, utils.NewNotFoundError("History entry not found"))
		return
	}
	h.sessions.Persist(r.Context(), sessionID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	kind := models.DocKind(mux.Vars(r)["kind"])

	store, sessionID := h.store(r)
	store.Clear(kind)
	h.sessions.Persist(r.Context(), sessionID)

	w.WriteHeader(http.StatusNoContent)
}

// Export streams the session's full history as a JSON document the
// client can later re-import.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	store, _ := h.store(r)

	payload, err := store.Export(config.AppVersion)
	if err != nil {
		respondError(w, h.logger, utils.NewInternalError("Failed to export history"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="globalmatch_history.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// Import replaces the session's history wholesale from an exported
// document and reports how many entries were restored.
func (h *HistoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Failed to read request body"))
		return
	}

	store, sessionID := h.store(r)
	count, err := store.Import(payload)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.sessions.Persist(r.Context(), sessionID)

	respondJSON(w, h.logger, http.StatusOK, map[string]int{"imported": count})
}
