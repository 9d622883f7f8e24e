// Package models defines the persisted and transport types for logsight.
package models

import "time"

// Details is the structured key=value payload extracted from a log line.
type Details map[string]string

// LogEntry represents a single persisted log line.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"log_level"`
	Message   string    `json:"message"`
	Details   Details   `json:"details"`
	SourceID  *int64    `json:"source_id,omitempty"` // nil when the line had no IP/endpoint
}

// LogView is a log entry joined with its (optional) source.
type LogView struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"log_level"`
	Message   string    `json:"message"`
	Details   Details   `json:"details"`
	SourceIP  *string   `json:"source_ip"`
	Endpoint  *string   `json:"endpoint"`
}

// ParsedLine is the result of parsing one raw log line, before source resolution.
type ParsedLine struct {
	Timestamp time.Time
	Level     string
	Message   string
	Details   Details
	SourceIP  *string
	Endpoint  *string
}

// HasSource reports whether the line carried any source attribution.
func (p *ParsedLine) HasSource() bool {
	return p.SourceIP != nil || p.Endpoint != nil
}

// Entry converts the parsed line into an insertable entry referencing sourceID.
func (p *ParsedLine) Entry(sourceID *int64) *LogEntry {
	details := p.Details
	if details == nil {
		details = Details{}
	}
	return &LogEntry{
		Timestamp: p.Timestamp,
		Level:     p.Level,
		Message:   p.Message,
		Details:   details,
		SourceID:  sourceID,
	}
}

// LogFilter narrows a log listing. The zero value matches every entry.
type LogFilter struct {
	Levels []string
}
