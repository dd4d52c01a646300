package engine

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	Logger "github.com/socialmux/cleanser/utils/log"
)

// Engine runs the cleaning daemon's modules over a shared event bus and
// manages their lifecycle. Notifications flow from the queue consumer to the
// cleaner and results flow onward to the reporter, all through bus topics.
type Engine struct {
	// Modules running inside this engine, each on its own goroutine. A
	// module's lifetime is bound to the engine's lifetime.
	Modules []Module

	// Root context the engine is running on.
	ctx context.Context

	// Cancel function for the root context, used for graceful shutdown.
	cancel context.CancelFunc

	// The bus carrying pending notifications and cleaning results between
	// modules. In-process for now, the sink already covers cross-process
	// delivery.
	EventBus *gochannel.GoChannel
}

// NewEngine creates an engine over the provided modules and event bus.
func NewEngine(ms []Module, ctx context.Context, cancel context.CancelFunc, e *gochannel.GoChannel) *Engine {
	return &Engine{
		Modules:  ms,
		ctx:      ctx,
		cancel:   cancel,
		EventBus: e,
	}
}

// Run executes every module and blocks until all of them finish.
func (e *Engine) Run() {
	var wg sync.WaitGroup

	for idx := range e.Modules {
		wg.Add(1)
		go func(index int) {
			Logger.Log.Infof("start cleaning module %s", e.Modules[index].Name())
			defer wg.Done()
			RunModuleWithGracefulRestart(e.ctx, e.Modules[index])
			Logger.Log.Infof("cleaning module %s finished execution", e.Modules[index].Name())
		}(idx)
	}

	// Block until every module goroutine has returned.
	wg.Wait()
}

// Shutdown cancels the root context and releases module resources.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("starting graceful shutdown of the cleaning engine")
	e.cancel()

	var wg sync.WaitGroup
	for idx := range e.Modules {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			Logger.Log.Infof("shutdown cleaning module %s", e.Modules[index].Name())
			e.Modules[index].Shutdown()
			Logger.Log.Infof("cleaning module %s shut down", e.Modules[index].Name())
		}(idx)
	}

	// Block until every module has released its resources.
	wg.Wait()
}
