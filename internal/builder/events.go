package builder

// Event names published by the builder.
const (
	EventRendered = "manifest.rendered"
	EventWritten  = "manifest.written"
	EventFailed   = "manifest.failed"
)

// Event represents a builder lifecycle event.
// Minimal and stable: name + source path and optional fields via key/values.
type Event struct {
	Name   string
	Source string
	Fields map[string]any
}

// EventPublisher receives events from the builder. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
