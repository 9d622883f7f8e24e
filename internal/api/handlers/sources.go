package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
	"github.com/narvanalabs/logsight/internal/models"
	"github.com/narvanalabs/logsight/internal/store"
)

// SourceHandler serves the known log sources.
type SourceHandler struct {
	store  store.Store
	logger *slog.Logger
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(st store.Store, logger *slog.Logger) *SourceHandler {
	return &SourceHandler{
		store:  st,
		logger: logger,
	}
}

// List handles GET /api/sources/.
func (h *SourceHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.store.Sources().List(r.Context())
	if err != nil {
		writeFailure(w, r, h.logger, apierrors.CodeStorage, "failed to list sources", apierrors.MessageInternal, err)
		return
	}

	if sources == nil {
		sources = []*models.LogSource{}
	}

	WriteJSON(w, http.StatusOK, sources)
}
