// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about batch execution and archive
// parsing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls hooks to emit events:
//
//	observability.Pipeline().OnBatchStart(ctx, rows)
//	// ... render ...
//	observability.Pipeline().OnBatchComplete(ctx, rows, bytes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the rendering pipeline.
type PipelineHooks interface {
	// OnBatchStart fires after limits and parsing succeed, before any row
	// renders.
	OnBatchStart(ctx context.Context, rows int)

	// OnRowRendered fires once per row, from whichever worker rendered it.
	OnRowRendered(ctx context.Context, index int, duration time.Duration, err error)

	// OnBatchComplete fires when the output archive is finalized or the
	// batch aborts.
	OnBatchComplete(ctx context.Context, rows, archiveBytes int, duration time.Duration, err error)
}

// ArchiveHooks receives events from background-archive parsing.
type ArchiveHooks interface {
	// OnArchiveParsed records a parsed upload: entry count after image
	// filtering and the raw buffer size.
	OnArchiveParsed(ctx context.Context, entries, rawBytes int, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBatchStart(context.Context, int)                            {}
func (NoopPipelineHooks) OnRowRendered(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnBatchComplete(context.Context, int, int, time.Duration, error) {
}

// NoopArchiveHooks is a no-op implementation of ArchiveHooks.
type NoopArchiveHooks struct{}

func (NoopArchiveHooks) OnArchiveParsed(context.Context, int, int, error) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	archiveHooks  ArchiveHooks  = NoopArchiveHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Call once at
// application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetArchiveHooks registers custom archive hooks.
func SetArchiveHooks(h ArchiveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		archiveHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Archive returns the registered archive hooks.
func Archive() ArchiveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return archiveHooks
}

// Reset restores the no-op hooks. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	archiveHooks = NoopArchiveHooks{}
}
