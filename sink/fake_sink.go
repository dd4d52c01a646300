package sink

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/socialmux/cleanser/model"
)

// FakeSink records pushed events in memory for tests.
type FakeSink struct {
	mu        sync.Mutex
	Events    []*model.CompletionEvent
	FailPush  bool
	Unhealthy bool
}

func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

func (s *FakeSink) Push(ctx context.Context, event *model.CompletionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPush {
		return errors.New("sink unavailable")
	}
	s.Events = append(s.Events, event)
	return nil
}

func (s *FakeSink) Healthy() bool {
	return !s.Unhealthy
}

func (s *FakeSink) Pushed() []*model.CompletionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.CompletionEvent, len(s.Events))
	copy(out, s.Events)
	return out
}
