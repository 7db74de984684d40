package engine

import (
	"context"
	"sync"

	Logger "github.com/kabar-app/kabar/utils/log"
)

// Engine manages the execution lifecycle of each background module. Each
// module runs in its own goroutine; the engine's context cancellation is the
// single shutdown signal.
type Engine struct {
	modules []Module

	ctx    context.Context
	cancel context.CancelFunc
}

// NewEngine creates an engine owning the provided modules. The returned
// engine must be started with Run and stopped with Shutdown.
func NewEngine(ctx context.Context, modules []Module) *Engine {
	ctx, cancel := context.WithCancel(ctx)
	return &Engine{
		modules: modules,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run executes all modules and blocks until every module finished execution.
func (e *Engine) Run() {
	var wg sync.WaitGroup

	for idx := range e.modules {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			Logger.Log.Infof("start engine module %s", e.modules[index].Name())
			RunModuleWithGracefulRestart(e.ctx, e.modules[index])
			Logger.Log.Infof("module %s finished execution", e.modules[index].Name())
		}(idx)
	}

	wg.Wait()
}

// Shutdown cancels the engine context, letting every module drain and exit.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("starting graceful shutdown process")
	e.cancel()
}
