package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/share"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

type ShareHandler struct {
	service *share.Service
	logger  *utils.Logger
}

func NewShareHandler(service *share.Service, logger *utils.Logger) *ShareHandler {
	return &ShareHandler{service: service, logger: logger}
}

// Create stores a generated document under a fresh share token.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ShareCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, h.logger, utils.NewBadRequestError("Content is required"))
		return
	}
	if req.Title == "" {
		req.Title = "Shared document"
	}

	resp, err := h.service.Create(r.Context(), req.Content, req.Title)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

// View resolves a share token into the read-only shared view model.
func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		respondError(w, h.logger, utils.NewBadRequestError("Share token is required"))
		return
	}

	rec, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, models.ShareViewResponse{
		Title:     rec.Title,
		Content:   rec.Content,
		ViewCount: rec.ViewCount,
		ExpiresAt: rec.ExpiresAt,
	})
}
