package engine

import (
	"context"
	"time"

	Logger "github.com/kabar-app/kabar/utils/log"
)

const (
	gracefulRetryDelay = 3 * time.Second
)

// Module is a long-running background component whose lifetime is bound to
// the engine's lifetime.
type Module interface {
	// RunModule contains the customized logic of the module. It takes in a
	// context object by which its lifecycle is managed. Return error if
	// encountered any error during execution.
	RunModule(ctx context.Context) error

	// Name uniquely identifies the module instance. If there are multiple
	// instances of the same module, each instance should have a unique name.
	Name() string
}

// RunModuleWithGracefulRestart keeps re-running a module until it exits
// cleanly or its context is cancelled.
func RunModuleWithGracefulRestart(ctx context.Context, module Module) {
	for {
		err := module.RunModule(ctx)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		Logger.Log.Errorf(
			"module %s exited with error %v, retry in %v",
			module.Name(), err, gracefulRetryDelay)

		// Wait for a small amount of time and restart.
		time.Sleep(gracefulRetryDelay)
	}
}
