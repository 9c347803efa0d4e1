package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ktsuchiya/globalmatch-api/internal/config"
	"github.com/ktsuchiya/globalmatch-api/internal/handlers"
	"github.com/ktsuchiya/globalmatch-api/internal/history"
	"github.com/ktsuchiya/globalmatch-api/internal/middleware"
	"github.com/ktsuchiya/globalmatch-api/internal/services"
	"github.com/ktsuchiya/globalmatch-api/internal/share"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

func New(service services.AssistantService, sessions *history.Manager, shareService *share.Service, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Session())

	assistantHandler := handlers.NewAssistantHandler(service, sessions, cfg, logger)
	historyHandler := handlers.NewHistoryHandler(sessions, logger)
	shareHandler := handlers.NewShareHandler(shareService, logger)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Transformations
	api.HandleFunc("/transform", assistantHandler.Transform).Methods(http.MethodPost)
	api.HandleFunc("/batch", assistantHandler.RunBatch).Methods(http.MethodPost)
	api.HandleFunc("/render", assistantHandler.Render).Methods(http.MethodPost)
	api.HandleFunc("/documents/extract", assistantHandler.Extract).Methods(http.MethodPost)

	// Session history
	api.HandleFunc("/history/export", historyHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/history/import", historyHandler.Import).Methods(http.MethodPost)
	api.HandleFunc("/history/{kind}", historyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/history/{kind}", historyHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/history/{kind}/{id}", historyHandler.Delete).Methods(http.MethodDelete)

	// Share links
	api.HandleFunc("/share", shareHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/share/{token}", shareHandler.View).Methods(http.MethodGet)

	return r
}
