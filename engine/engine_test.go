package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
)

type countingModule struct {
	name      string
	runs      int32
	shutdowns int32
}

func (m *countingModule) RunModule(ctx context.Context) error {
	atomic.AddInt32(&m.runs, 1)
	<-ctx.Done()
	return nil
}

func (m *countingModule) Name() string { return m.name }

func (m *countingModule) Shutdown() {
	atomic.AddInt32(&m.shutdowns, 1)
}

func TestEngineRunAndShutdown(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	module := &countingModule{name: "counting"}
	e := NewEngine([]Module{module}, ctx, cancel, bus)

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// Give the module a moment to start before shutting down.
	time.Sleep(50 * time.Millisecond)
	e.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after shutdown")
	}

	assert.EqualValues(t, 1, atomic.LoadInt32(&module.runs))
	assert.EqualValues(t, 1, atomic.LoadInt32(&module.shutdowns))
}
