// Package telemetry delivers named simulation notifications to a sink.
// Fire-and-forget: the core never consumes a return value.
package telemetry

import "log/slog"

// Sink accepts a named event with a small structured payload.
type Sink interface {
	Emit(event string, payload map[string]any)
}

// SlogSink logs every notification through the default slog logger.
type SlogSink struct{}

// Emit writes the notification as a structured log line.
func (SlogSink) Emit(event string, payload map[string]any) {
	attrs := make([]any, 0, len(payload)*2)
	for k, v := range payload {
		attrs = append(attrs, k, v)
	}
	slog.Info("notification", append([]any{"event", event}, attrs...)...)
}

// Notification is one captured sink delivery.
type Notification struct {
	Event   string
	Payload map[string]any
}

// MemorySink records notifications in order, for tests and the CLI log view.
type MemorySink struct {
	Events []Notification
}

// Emit appends the notification.
func (m *MemorySink) Emit(event string, payload map[string]any) {
	m.Events = append(m.Events, Notification{Event: event, Payload: payload})
}

// Drain returns and clears the recorded notifications.
func (m *MemorySink) Drain() []Notification {
	out := m.Events
	m.Events = nil
	return out
}
