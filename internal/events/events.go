// Package events publishes inspection outcomes to a message broker.
package events

import "context"

// Event summarizes one wheel inspection.
type Event struct {
	Key          string `json:"key"`
	Distribution string `json:"distribution,omitempty"`
	Version      string `json:"version,omitempty"`
	Status       string `json:"status"` // "inspected" or "invalid"
	Detail       string `json:"detail,omitempty"`
	Violations   int    `json:"violations,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
}

// Publisher emits inspection events.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NullPublisher discards events.
type NullPublisher struct{}

func (NullPublisher) Publish(_ context.Context, _ Event) error { return nil }
