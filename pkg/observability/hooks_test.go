package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	mu        sync.Mutex
	started   int
	rows      int
	completed int
}

func (h *recordingPipelineHooks) OnBatchStart(_ context.Context, rows int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
	h.rows = rows
}

func (h *recordingPipelineHooks) OnRowRendered(context.Context, int, time.Duration, error) {}

func (h *recordingPipelineHooks) OnBatchComplete(_ context.Context, _, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
}

func TestSetAndGetPipelineHooks(t *testing.T) {
	defer Reset()

	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)

	Pipeline().OnBatchStart(context.Background(), 7)
	Pipeline().OnBatchComplete(context.Background(), 7, 100, time.Second, nil)

	if h.started != 1 || h.rows != 7 || h.completed != 1 {
		t.Errorf("hooks not invoked: %+v", h)
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	defer Reset()

	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)
	SetPipelineHooks(nil)

	Pipeline().OnBatchStart(context.Background(), 1)
	if h.started != 1 {
		t.Error("nil registration replaced existing hooks")
	}
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	// Must not panic.
	Pipeline().OnBatchStart(context.Background(), 3)
	Pipeline().OnRowRendered(context.Background(), 0, time.Millisecond, nil)
	Archive().OnArchiveParsed(context.Background(), 5, 1024, nil)
}

func TestConcurrentAccess(t *testing.T) {
	defer Reset()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				SetPipelineHooks(&recordingPipelineHooks{})
				Pipeline().OnBatchStart(context.Background(), 1)
			}
		}()
	}
	wg.Wait()
}
