package sink

import (
	"context"

	"github.com/socialmux/cleanser/model"
)

// CompletionSink receives a CompletionEvent once a cleaning run finishes.
// Pushing is best effort from the orchestrator's point of view, a sink
// failure never fails the run itself.
type CompletionSink interface {
	Push(ctx context.Context, event *model.CompletionEvent) error

	// Healthy reports whether the sink can currently accept events. Used by
	// the health endpoint, not consulted before Push.
	Healthy() bool
}
