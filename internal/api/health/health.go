// Package health reports whether logsight can serve queries and analyses.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	apierrors "github.com/narvanalabs/logsight/internal/api/errors"
)

// Status is the state of one dependency or of the whole service.
type Status string

const (
	StatusHealthy Status = "healthy"
	// StatusDegraded means logs can be listed but analysis will fail.
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// rank orders statuses from best to worst.
var rank = map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}

// ComponentStatus is the state of the log store or the AI collaborator.
type ComponentStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response is the body of GET /health.
type Response struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
}

// Pinger reports whether the log store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker reports database reachability and whether the completion
// collaborator is configured. The collaborator itself is never called.
type Checker struct {
	store        Pinger
	aiConfigured bool
	version      string
	started      time.Time

	mu      sync.RWMutex
	timeout time.Duration
}

// NewChecker creates a Checker. A nil store is reported as unhealthy.
func NewChecker(store Pinger, version string, aiConfigured bool) *Checker {
	return &Checker{
		store:        store,
		aiConfigured: aiConfigured,
		version:      version,
		started:      time.Now(),
		timeout:      5 * time.Second,
	}
}

// SetTimeout bounds the database ping.
func (c *Checker) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	c.timeout = timeout
	c.mu.Unlock()
}

// Check pings the store and reports the worst component status overall.
func (c *Checker) Check(ctx context.Context) *Response {
	c.mu.RLock()
	timeout := c.timeout
	c.mu.RUnlock()

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp := &Response{
		Status: StatusHealthy,
		Components: map[string]ComponentStatus{
			"database": c.database(pingCtx),
			"ai":       c.collaborator(),
		},
		Version: c.version,
		Uptime:  time.Since(c.started).Round(time.Second).String(),
	}
	for _, comp := range resp.Components {
		if rank[comp.Status] > rank[resp.Status] {
			resp.Status = comp.Status
		}
	}
	return resp
}

func (c *Checker) database(ctx context.Context) ComponentStatus {
	if c.store == nil {
		return ComponentStatus{Status: StatusUnhealthy, Message: "log store not configured"}
	}
	// The ping error stays out of the body; it may carry connection details.
	if err := c.store.Ping(ctx); err != nil {
		return ComponentStatus{Status: StatusUnhealthy, Message: "database ping failed"}
	}
	return ComponentStatus{Status: StatusHealthy, Message: "connected"}
}

func (c *Checker) collaborator() ComponentStatus {
	if !c.aiConfigured {
		return ComponentStatus{Status: StatusDegraded, Message: "api key not configured"}
	}
	return ComponentStatus{Status: StatusHealthy, Message: "configured"}
}

// Handler serves GET /health: 503 when the store is unreachable, 200 otherwise.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := c.Check(r.Context())

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		apierrors.WriteJSON(w, status, resp)
	}
}
