package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/socialmux/cleanser/model"
)

// FakeRawStore is an in-memory RawStore for testing and local debugging.
type FakeRawStore struct {
	mu      sync.Mutex
	records map[string]*model.RawData
	// Statuses records every status update, keyed by record id.
	Statuses map[string]string
	// FailFetch makes every fetch fail, to exercise storage failure paths.
	FailFetch bool
}

func NewFakeRawStore(records ...*model.RawData) *FakeRawStore {
	s := &FakeRawStore{
		records:  map[string]*model.RawData{},
		Statuses: map[string]string{},
	}
	for _, r := range records {
		s.records[r.Id] = r
	}
	return s
}

func (s *FakeRawStore) Put(record *model.RawData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Id] = record
}

func (s *FakeRawStore) FetchById(ctx context.Context, id string) (*model.RawData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFetch {
		return nil, errors.New("storage error: raw store unavailable")
	}
	record, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return record, nil
}

func (s *FakeRawStore) UpdateStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statuses[id] = status
	if record, ok := s.records[id]; ok {
		record.Status = status
	}
	return nil
}
