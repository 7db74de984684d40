package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type blockingModule struct {
	runs int32
}

func (m *blockingModule) RunModule(ctx context.Context) error {
	atomic.AddInt32(&m.runs, 1)
	<-ctx.Done()
	return nil
}

func (m *blockingModule) Name() string {
	return "blocking_module"
}

func TestEngineRunsModulesUntilShutdown(t *testing.T) {
	first := &blockingModule{}
	second := &blockingModule{}
	e := NewEngine(context.Background(), []Module{first, second})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	// Both modules must be running before we shut down.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&first.runs) == 1 && atomic.LoadInt32(&second.runs) == 1
	}, time.Second, 10*time.Millisecond)

	e.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop after shutdown")
	}
}

func TestGracefulRestartExitsOnCleanReturn(t *testing.T) {
	m := &blockingModule{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context makes the module return nil immediately; the
	// restart loop must not spin it up again.
	RunModuleWithGracefulRestart(ctx, m)
	assert.Equal(t, int32(1), atomic.LoadInt32(&m.runs))
}
