package analysis

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/jurisnorm/jurisnorm/cluster"
	"github.com/jurisnorm/jurisnorm/core"
)

// Request names one analysis to run.
type Request struct {
	Field   string
	Filters core.FilterSet
	Config  cluster.Config
}

// Runner serializes analyses and delivers only the latest result.
// When an operator changes field or filters faster than analyses finish,
// superseded runs are cancelled and their callbacks never fire, so a
// stale report can never overwrite a fresh one.
type Runner struct {
	analyzer *Analyzer
	pool     *ants.Pool

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewRunner creates a runner over the analyzer.
func NewRunner(analyzer *Analyzer) (*Runner, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	// One worker: analyses are CPU bound and only the latest matters
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	return &Runner{
		analyzer: analyzer,
		pool:     pool,
	}, nil
}

// Submit schedules an analysis and cancels any outstanding one.
// The callback runs only if this request is still the latest when the
// analysis finishes.
func (r *Runner) Submit(ctx context.Context, request Request, callback func(*Report, error)) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.seq++
	mySeq := r.seq
	r.mu.Unlock()

	return r.pool.Submit(func() {
		report, err := r.analyzer.AnalyzeField(runCtx, request.Field, request.Filters, request.Config)

		r.mu.Lock()
		latest := r.seq == mySeq
		r.mu.Unlock()

		if latest {
			callback(report, err)
		}
	})
}

// Release cancels any outstanding analysis and releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.pool.Release()
}
