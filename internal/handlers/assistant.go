package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ktsuchiya/globalmatch-api/internal/config"
	"github.com/ktsuchiya/globalmatch-api/internal/history"
	"github.com/ktsuchiya/globalmatch-api/internal/markdown"
	"github.com/ktsuchiya/globalmatch-api/internal/middleware"
	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/services"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

// APIKeyHeader lets the operator override the server-configured
// completion credential per request.
const APIKeyHeader = "X-Api-Key"

type AssistantHandler struct {
	service  services.AssistantService
	sessions *history.Manager
	renderer *markdown.Renderer
	cfg      *config.Config
	logger   *utils.Logger
}

func NewAssistantHandler(service services.AssistantService, sessions *history.Manager, cfg *config.Config, logger *utils.Logger) *AssistantHandler {
	return &AssistantHandler{
		service:  service,
		sessions: sessions,
		renderer: markdown.NewRenderer(),
		cfg:      cfg,
		logger:   logger,
	}
}

func (h *AssistantHandler) credential(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}
	return h.cfg.APIKey
}

// Transform runs a single document transformation and records the result
// in the session's history.
func (h *AssistantHandler) Transform(w http.ResponseWriter, r *http.Request) {
	var req models.TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	credential := h.credential(r)
	if credential == "" {
		respondError(w, h.logger, utils.NewUnauthorizedError("API key is required"))
		return
	}

	resp, err := h.service.Transform(r.Context(), credential, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	sessionID := middleware.SessionID(r)
	store := h.sessions.Get(r.Context(), sessionID)
	store.Append(req.Kind, resp.Output, "")
	h.sessions.Persist(r.Context(), sessionID)

	respondJSON(w, h.logger, http.StatusOK, resp)
}

// RunBatch processes delimiter-separated documents sequentially.
func (h *AssistantHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	credential := h.credential(r)
	if credential == "" {
		respondError(w, h.logger, utils.NewUnauthorizedError("API key is required"))
		return
	}

	resp, err := h.service.RunBatch(r.Context(), credential, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	sessionID := middleware.SessionID(r)
	store := h.sessions.Get(r.Context(), sessionID)
	for _, item := range resp.Items {
		if item.Status == models.BatchStatusSuccess {
			store.Append(models.DocKindResume, item.Output, "")
		}
	}
	h.sessions.Persist(r.Context(), sessionID)

	respondJSON(w, h.logger, http.StatusOK, resp)
}

// Render converts model-produced Markdown into a downloadable HTML
// document.
func (h *AssistantHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req models.RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		respondError(w, h.logger, utils.NewBadRequestError("Markdown content is required"))
		return
	}
	if req.Title == "" {
		req.Title = "Document"
	}

	html := h.renderer.Render(req.Markdown, req.Title)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, html); err != nil {
		h.logger.Error("Failed to write HTML response", "error", err)
	}
}

// Extract pulls text out of an uploaded PDF, DOCX or TXT file.
func (h *AssistantHandler) Extract(w http.ResponseWriter, r *http.Request) {
	maxSize := h.cfg.MaxFileSize
	if r.ContentLength > maxSize {
		respondError(w, h.logger, utils.NewBadRequestError("File size exceeds 10MB limit"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			respondError(w, h.logger, utils.NewBadRequestError("File size exceeds 10MB limit"))
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		respondError(w, h.logger, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > maxSize {
		respondError(w, h.logger, utils.NewBadRequestError("File size exceeds 10MB limit"))
		return
	}
	if len(data) == 0 {
		respondError(w, h.logger, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	resp, err := h.service.ExtractDocument(r.Context(), header.Filename, contentType, data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

// determineContentType maps the filename extension to a MIME type,
// falling back to the header the browser sent.
func determineContentType(filename, headerContentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt", ".md":
		return "text/plain"
	}
	return headerContentType
}
