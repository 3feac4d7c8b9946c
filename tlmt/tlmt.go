// Package tlmt is the anonymous usage telemetry seam. Runners send coarse
// lifecycle events through it; the noop implementation is used when telemetry
// is disabled or the backend is unreachable.
package tlmt

import "context"

type Event struct {
	Name       string
	Properties map[string]any
}

func NewEvent(name string, properties map[string]any) Event {
	return Event{
		Name:       name,
		Properties: properties,
	}
}

type Telemetry interface {
	Send(ctx context.Context, event Event) error
	Close() error
}
