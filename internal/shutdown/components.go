package shutdown

import (
	"context"
	"io"
)

// Shutdowner is implemented by servers that drain in-flight work, such as
// *http.Server and the API server.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ServerComponent wraps a server for graceful shutdown.
type ServerComponent struct {
	name   string
	server Shutdowner
}

// NewServerComponent creates a new server shutdown component.
func NewServerComponent(name string, server Shutdowner) *ServerComponent {
	return &ServerComponent{
		name:   name,
		server: server,
	}
}

// Name returns the component name.
func (c *ServerComponent) Name() string {
	return c.name
}

// Shutdown stops accepting new connections and waits for in-flight requests
// to complete.
func (c *ServerComponent) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

// CloserComponent wraps an io.Closer for graceful shutdown.
type CloserComponent struct {
	name   string
	closer io.Closer
}

// NewCloserComponent creates a new closer shutdown component.
func NewCloserComponent(name string, closer io.Closer) *CloserComponent {
	return &CloserComponent{
		name:   name,
		closer: closer,
	}
}

// Name returns the component name.
func (c *CloserComponent) Name() string {
	return c.name
}

// Shutdown closes the underlying resource.
func (c *CloserComponent) Shutdown(ctx context.Context) error {
	return c.closer.Close()
}
