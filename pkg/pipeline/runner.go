package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/curiosity110/LabelForge/pkg/archive"
	"github.com/curiosity110/LabelForge/pkg/errors"
	"github.com/curiosity110/LabelForge/pkg/observability"
	"github.com/curiosity110/LabelForge/pkg/overlay"
	"github.com/curiosity110/LabelForge/pkg/table"
)

// Companion file and entry naming inside the output archive.
const (
	imageEntryFormat = "images/%04d.png"
	companionEntry   = "data.csv"
)

// Runner executes pipeline invocations. It is stateless except for the
// logger; multiple goroutines can safely share one Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Result is the output of one batch run.
type Result struct {
	// Archive is the completed output ZIP: images/0001.png … in row order,
	// then the companion CSV.
	Archive []byte

	// Rows is the number of rendered rows.
	Rows int

	// Duration covers the full run, parsing included.
	Duration time.Duration
}

// run-scoped state shared by batch and preview.
type invocation struct {
	tbl      *table.Table
	resolver resolver
	comp     *overlay.Compositor
	zones    []overlay.Zone
	mapping  overlay.Mapping
}

// prepare runs the common front half of an invocation: limit checks,
// table parsing, archive parsing, resolver and compositor construction.
// No rendering happens here.
func (r *Runner) prepare(ctx context.Context, opts *Options) (*invocation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := opts.checkPayloadSizes(); err != nil {
		return nil, err
	}

	tbl, err := table.Parse(opts.TableName, opts.TableData)
	if err != nil {
		return nil, err
	}
	if len(tbl.Rows) > opts.Limits.MaxRows {
		return nil, errors.New(errors.ErrCodeTooManyRows,
			"%d rows exceeds the limit of %d", len(tbl.Rows), opts.Limits.MaxRows)
	}

	var entries map[string][]byte
	if opts.Mode == ModeArchive {
		entries, err = opts.Codec.Parse(opts.ArchiveData)
		observability.Archive().OnArchiveParsed(ctx, len(entries), len(opts.ArchiveData), err)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("parsed background archive", "images", len(entries))
	}

	res, err := newResolver(opts, entries, len(tbl.Rows))
	if err != nil {
		return nil, err
	}
	comp, err := overlay.NewCompositor(opts.Fonts)
	if err != nil {
		return nil, err
	}

	return &invocation{
		tbl:      tbl,
		resolver: res,
		comp:     comp,
		zones:    opts.Zones,
		mapping:  opts.Mapping,
	}, nil
}

// renderRow resolves, lays out, and composites a single row.
func (inv *invocation) renderRow(index int) ([]byte, error) {
	row := inv.tbl.Rows[index]

	bg, err := inv.resolver.resolve(index, row)
	if err != nil {
		return nil, err
	}
	w, h, err := overlay.Dimensions(bg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "row %d background", index)
	}
	ov := overlay.Build(w, h, inv.zones, inv.mapping, row)
	return inv.comp.Composite(bg, ov)
}

// Run executes a full batch: every row rendered, results appended to the
// output archive in original row order regardless of render order, then
// the companion CSV. Any row failure aborts the whole batch; there is no
// partial output.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	inv, err := r.prepare(ctx, &opts)
	if err != nil {
		return nil, err
	}
	n := len(inv.tbl.Rows)
	r.Logger.Info("starting batch render", "rows", n, "zones", len(opts.Zones), "workers", opts.Limits.Workers)
	observability.Pipeline().OnBatchStart(ctx, n)

	results, err := r.renderAll(ctx, inv, n, opts.Limits.Workers)
	if err != nil {
		observability.Pipeline().OnBatchComplete(ctx, n, 0, time.Since(start), err)
		return nil, err
	}

	// Ordering is a post-condition of the output: results are buffered per
	// index above and appended sequentially here.
	w := archive.NewWriter()
	for i, data := range results {
		if err := w.Add(fmt.Sprintf(imageEntryFormat, i+1), data); err != nil {
			return nil, err
		}
	}
	if err := w.Add(companionEntry, inv.tbl.CSV()); err != nil {
		return nil, err
	}
	out, err := w.Close()
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	r.Logger.Info("batch render complete", "rows", n, "bytes", len(out), "elapsed", elapsed)
	observability.Pipeline().OnBatchComplete(ctx, n, len(out), elapsed, nil)
	return &Result{Archive: out, Rows: n, Duration: elapsed}, nil
}

// renderAll renders every row across a bounded worker pool, buffering
// results by row index. The first failure cancels remaining work.
func (r *Runner) renderAll(ctx context.Context, inv *invocation, n, workers int) ([][]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]byte, n)
	indices := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for range min(workers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if ctx.Err() != nil {
					return
				}
				rowStart := time.Now()
				data, err := inv.renderRow(i)
				observability.Pipeline().OnRowRendered(ctx, i, time.Since(rowStart), err)
				if err != nil {
					fail(err)
					return
				}
				results[i] = data
			}
		}()
	}

feed:
	for i := range n {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "batch cancelled")
	}
	return results, nil
}

// Preview renders exactly one row and returns its PNG bytes directly, with
// no archive assembly. The same limits and modes apply as for Run.
func (r *Runner) Preview(ctx context.Context, opts Options, rowIndex int) ([]byte, error) {
	inv, err := r.prepare(ctx, &opts)
	if err != nil {
		return nil, err
	}
	if rowIndex < 0 || rowIndex >= len(inv.tbl.Rows) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"row index %d out of range (table has %d rows)", rowIndex, len(inv.tbl.Rows))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "preview cancelled")
	}

	r.Logger.Debug("rendering preview", "row", rowIndex)
	return inv.renderRow(rowIndex)
}
