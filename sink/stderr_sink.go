package sink

import (
	"context"
	"encoding/json"

	"github.com/socialmux/cleanser/model"
	Logger "github.com/socialmux/cleanser/utils/log"
)

// StdErrSink logs completion events instead of publishing them. Used in
// development and as a fallback when no external channel is configured.
type StdErrSink struct{}

func NewStdErrSink() *StdErrSink {
	return &StdErrSink{}
}

func (s *StdErrSink) Push(ctx context.Context, event *model.CompletionEvent) error {
	if event == nil {
		return nil
	}
	serialized, _ := json.Marshal(event)
	Logger.Log.Info("=== mock pushed completion event to sink === \n", string(serialized))
	return nil
}

func (s *StdErrSink) Healthy() bool {
	return true
}
