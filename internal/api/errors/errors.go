// Package errors provides the client-facing error bodies and internal error
// log entries for the API.
package errors

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/google/uuid"
)

// Client-facing messages. Internal detail is never placed in a response.
const (
	MessageInternal       = "Internal Server Error"
	MessageAnalysisFailed = "AI analysis failed"
	MessageNotFound       = "Not Found"
	MessageMethod         = "Method Not Allowed"
)

// Error codes used in internal log entries.
const (
	CodeStorage      = "STORAGE_ERROR"
	CodeCollaborator = "COLLABORATOR_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Response is the body of every error response.
type Response struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Write writes {"error": message} with the given status code.
func Write(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Error: message})
}

// WriteInternal writes the generic 500 body.
func WriteInternal(w http.ResponseWriter) {
	Write(w, http.StatusInternalServerError, MessageInternal)
}

// GetStackTrace returns the current stack trace as a string.
func GetStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// LogEntry is the internal record of a failure that reached the API boundary.
type LogEntry struct {
	CorrelationID string `json:"correlation_id"`
	RequestID     string `json:"request_id"`
	ErrorCode     string `json:"error_code"`
	Message       string `json:"message"`
	StackTrace    string `json:"stack_trace,omitempty"`
}

// NewLogEntry creates a log entry with a fresh correlation ID.
func NewLogEntry(requestID, errorCode, message string) *LogEntry {
	return &LogEntry{
		CorrelationID: uuid.NewString(),
		RequestID:     requestID,
		ErrorCode:     errorCode,
		Message:       message,
	}
}

// WithStack returns the entry with the current stack trace attached.
func (e *LogEntry) WithStack() *LogEntry {
	e.StackTrace = GetStackTrace()
	return e
}

// ToSlogAttrs returns the entry as slog attributes for structured logging.
func (e *LogEntry) ToSlogAttrs() []any {
	attrs := []any{
		"correlation_id", e.CorrelationID,
		"request_id", e.RequestID,
		"error_code", e.ErrorCode,
	}
	if e.StackTrace != "" {
		attrs = append(attrs, "stack_trace", e.StackTrace)
	}
	return attrs
}
