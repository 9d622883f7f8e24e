package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
	"github.com/narvanalabs/logsight/pkg/logger"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	apierrors.WriteJSON(w, status, data)
}

// writeFailure logs err with full detail and writes a 500 carrying only the
// client-facing message.
func writeFailure(w http.ResponseWriter, r *http.Request, log *slog.Logger, code, msg, clientMessage string, err error) {
	entry := apierrors.NewLogEntry(logger.RequestIDFromContext(r.Context()), code, msg)
	attrs := append([]any{"error", err, "path", r.URL.Path}, entry.ToSlogAttrs()...)
	log.ErrorContext(r.Context(), msg, attrs...)

	apierrors.Write(w, http.StatusInternalServerError, clientMessage)
}
