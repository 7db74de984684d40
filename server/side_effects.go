package server

import (
	"context"
	"sync"
	"time"
)

// runSideEffects executes the independent post-commit steps of a write
// concurrently, bounding each with its own timeout so a slow downstream never
// inflates the write's latency past the configured cap. Every step owns its
// failure handling; nothing here can fail the parent write.
func runSideEffects(ctx context.Context, timeout time.Duration, steps ...func(ctx context.Context)) {
	var wg sync.WaitGroup
	for _, step := range steps {
		if step == nil {
			continue
		}
		wg.Add(1)
		go func(step func(ctx context.Context)) {
			defer wg.Done()
			stepCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			step(stepCtx)
		}(step)
	}
	wg.Wait()
}
