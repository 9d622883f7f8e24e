package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
)

// Recovery returns a middleware that recovers from panics and logs the error.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					entry := apierrors.NewLogEntry(
						middleware.GetReqID(r.Context()),
						apierrors.CodeInternal,
						"panic recovered",
					).WithStack()

					attrs := append([]any{"error", rec, "method", r.Method, "path", r.URL.Path}, entry.ToSlogAttrs()...)
					logger.Error("panic recovered", attrs...)

					apierrors.WriteInternal(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
