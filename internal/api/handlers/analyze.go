package handlers

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
)

// Analyzer produces a summary of recent logs.
type Analyzer interface {
	Analyze(ctx context.Context) (string, error)
}

// AnalysisResponse is the body of a successful analysis.
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// AnalyzeHandler serves AI log summaries.
type AnalyzeHandler struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewAnalyzeHandler creates a new analysis handler.
func NewAnalyzeHandler(analyzer Analyzer, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// Analyze handles GET /api/ai/analyze. Every failure, storage or
// collaborator, gets the same response.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	text, err := h.analyzer.Analyze(r.Context())
	if err != nil {
		writeFailure(w, r, h.logger, apierrors.CodeCollaborator, "log analysis failed", apierrors.MessageAnalysisFailed, err)
		return
	}

	WriteJSON(w, http.StatusOK, AnalysisResponse{Analysis: text})
}
