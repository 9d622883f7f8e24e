// Package analysis summarizes recent log entries through a completion collaborator.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/narvanalabs/logsight/internal/ai"
	"github.com/narvanalabs/logsight/internal/models"
	"github.com/narvanalabs/logsight/internal/store"
)

const (
	// RecentLimit is how many of the newest entries are summarized.
	RecentLimit = 100

	// Placeholder is returned instead of calling the collaborator when there
	// are no entries.
	Placeholder = "No log data available for AI analysis."

	// renderLayout formats timestamps in rendered lines.
	renderLayout = "2006-01-02 15:04:05.999999"
)

// ErrAnalysisFailed is returned for any storage or collaborator failure.
var ErrAnalysisFailed = errors.New("AI analysis failed")

// Service produces AI summaries of recent logs.
type Service struct {
	store     store.Store
	completer ai.Completer
	logger    *slog.Logger
}

// NewService creates a new analysis service.
func NewService(st store.Store, completer ai.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     st,
		completer: completer,
		logger:    logger.With("component", "analysis"),
	}
}

// Analyze summarizes the most recent entries. The collaborator's text is
// returned verbatim.
func (s *Service) Analyze(ctx context.Context) (string, error) {
	entries, err := s.store.Logs().Recent(ctx, RecentLimit)
	if err != nil {
		s.logger.Error("failed to read recent logs", "error", err)
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	if len(entries) == 0 {
		return Placeholder, nil
	}

	text, err := s.completer.Complete(ctx, Render(entries))
	if err != nil {
		s.logger.Error("AI analysis failed", "error", err, "entries", len(entries))
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	s.logger.Info("AI log analysis completed", "entries", len(entries))
	return text, nil
}

// Render formats entries one per line as "timestamp [level] message".
func Render(entries []*models.LogEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s [%s] %s", FormatTime(e.Timestamp), e.Level, e.Message)
	}
	return strings.Join(lines, "\n")
}

// FormatTime renders t the way Render does.
func FormatTime(t time.Time) string {
	return t.UTC().Format(renderLayout)
}
