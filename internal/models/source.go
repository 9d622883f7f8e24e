package models

// LogSource identifies where a log line originated. The (SourceIP, Endpoint)
// pair is unique; either half may be nil.
type LogSource struct {
	ID       int64   `json:"id"`
	SourceIP *string `json:"source_ip"`
	Endpoint *string `json:"endpoint"`
}

// SourceKey returns a printable form of the pair, for logging.
func (s *LogSource) SourceKey() string {
	return FormatSourceKey(s.SourceIP, s.Endpoint)
}

// FormatSourceKey renders an (ip, endpoint) pair with "-" for missing halves.
func FormatSourceKey(ip, endpoint *string) string {
	a, b := "-", "-"
	if ip != nil {
		a = *ip
	}
	if endpoint != nil {
		b = *endpoint
	}
	return a + " " + b
}
