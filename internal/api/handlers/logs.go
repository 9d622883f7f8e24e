package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
	"github.com/narvanalabs/logsight/internal/models"
	"github.com/narvanalabs/logsight/internal/store"
)

// LogHandler serves the joined log view.
type LogHandler struct {
	store  store.Store
	logger *slog.Logger
}

// NewLogHandler creates a new log handler.
func NewLogHandler(st store.Store, logger *slog.Logger) *LogHandler {
	return &LogHandler{
		store:  st,
		logger: logger,
	}
}

// List handles GET /api/logs/ - every entry with its source, newest first.
// An optional ?level=ERROR,WARNING narrows the result to those levels.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.LogFilter{Levels: parseLevels(r.URL.Query().Get("level"))}

	logs, err := h.store.Logs().ListWithSources(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, h.logger, apierrors.CodeStorage, "failed to list logs", apierrors.MessageInternal, err)
		return
	}

	if logs == nil {
		logs = []*models.LogView{}
	}

	WriteJSON(w, http.StatusOK, logs)
}

func parseLevels(raw string) []string {
	var levels []string
	for _, level := range strings.Split(raw, ",") {
		if level = strings.TrimSpace(level); level != "" {
			levels = append(levels, level)
		}
	}
	return levels
}
