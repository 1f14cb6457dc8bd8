package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/domain"
)

// APIHandler serves the read-only catalog endpoints.
type APIHandler struct {
	service *app.GuideService
	logger  *zap.Logger
}

func NewAPIHandler(service *app.GuideService, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{service: service, logger: logger}
}

func (h *APIHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.service.Artifacts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artifacts)
}

func (h *APIHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.service.Artifact(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCatalog):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error("api request failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewRouter mounts every endpoint the page talks to.
func NewRouter(ws *WSHandler, api *APIHandler, snapshots *SnapshotHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ws", ws.ServeWS)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/artifacts", api.ListArtifacts).Methods(http.MethodGet)
	apiRouter.HandleFunc("/artifacts/{key}", api.GetArtifact).Methods(http.MethodGet)
	apiRouter.Handle("/snapshots", snapshots).Methods(http.MethodPost)
	return router
}
