// Copyright 2025 Jurisnorm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package normalize executes bulk term rewrites across the document store.
//
// A rewrite is fault tolerant rather than transactional: each matching
// document is updated independently with retries, and a run where some
// documents fail reports exactly which ones so the operator can rerun
// the same request. Reruns are idempotent because already-rewritten
// documents no longer match the source value.
package normalize

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/storage"
)

const (
	// DefaultLookupLimit bounds how many matching documents one run rewrites.
	DefaultLookupLimit = 10000

	defaultMaxAttempts = 3
	defaultBaseDelay   = 100 * time.Millisecond
)

// DocumentResult is the per-document outcome of a normalization run.
type DocumentResult struct {
	Id   core.ID
	ECLI string
	Err  error
}

// Result is the outcome of a normalization run.
type Result struct {
	// Success is true when every matched document was rewritten.
	Success bool

	// UpdatedCount is the number of documents actually rewritten.
	UpdatedCount int

	// Partial is true when more documents matched than the lookup limit
	// allowed; the run rewrote only the first batch.
	Partial bool

	// Documents holds the per-document outcomes, failures included.
	Documents []DocumentResult
}

// Executor runs normalization requests against a document repository.
type Executor struct {
	repository  storage.DocumentRepository
	fields      []core.FieldInfo
	pool        *ants.Pool
	monitor     Monitor
	logger      *slog.Logger
	lookupLimit int
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures an Executor.
type Option func(*Executor) error

// WithPoolSize sets the worker pool size for concurrent document rewrites.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Executor) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor sets a progress monitor. Default is a no-op.
func WithMonitor(monitor Monitor) Option {
	return func(e *Executor) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// WithRetry sets the per-document retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Executor) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		e.maxAttempts = maxAttempts
		e.baseDelay = baseDelay
		return nil
	}
}

// WithLookupLimit bounds how many matching documents one run rewrites.
func WithLookupLimit(limit int) Option {
	return func(e *Executor) error {
		if limit < 1 {
			limit = 1
		}
		e.lookupLimit = limit
		return nil
	}
}

// NewExecutor creates a normalization executor over the repository.
// The fields registry decides which field keys requests may target.
func NewExecutor(repository storage.DocumentRepository, fields []core.FieldInfo, opts ...Option) (*Executor, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Executor{
		repository:  repository,
		fields:      fields,
		pool:        pool,
		monitor:     &noopMonitor{},
		logger:      slog.Default(),
		lookupLimit: DefaultLookupLimit,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// AffectedCount returns how many documents currently carry the request's
// source value, up to the lookup limit. The second return value is true
// when the limit hides further matches.
func (e *Executor) AffectedCount(ctx context.Context, request core.NormalizationRequest) (int, bool, error) {
	if err := core.ValidateNormalizationRequest(&request, e.fields); err != nil {
		return 0, false, err
	}
	docs, truncated, err := e.repository.FindByFieldValue(ctx, request.Field, request.FromValue, e.lookupLimit)
	if err != nil {
		return 0, false, err
	}
	return len(docs), truncated, nil
}

// Normalize rewrites every occurrence of the request's source value to
// its target value across matching documents. Validation failures return
// before any document is touched. After that point the run keeps going
// through individual failures and reports them in the result; the error
// is a *PartialFailureError when at least one document failed.
func (e *Executor) Normalize(ctx context.Context, request core.NormalizationRequest) (*Result, error) {
	if err := core.ValidateNormalizationRequest(&request, e.fields); err != nil {
		return nil, err
	}

	docs, truncated, err := e.repository.FindByFieldValue(ctx, request.Field, request.FromValue, e.lookupLimit)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Partial:   truncated,
		Documents: make([]DocumentResult, len(docs)),
	}

	e.monitor.Start(request, len(docs))
	if truncated {
		e.logger.Warn("match count exceeds lookup limit, rewriting first batch only",
			"field", request.Field, "from", request.FromValue, "limit", e.lookupLimit)
	}

	var wg sync.WaitGroup
	for i, doc := range docs {
		result.Documents[i] = DocumentResult{Id: doc.Id, ECLI: doc.ECLI}

		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()
			err := RetryWithBackoff(ctx, func() error {
				return e.updateDocument(ctx, doc, request)
			}, e.maxAttempts, e.baseDelay)
			result.Documents[i].Err = err
			if err != nil {
				e.logger.Error("failed to rewrite document", "id", doc.Id, "ecli", doc.ECLI, "err", err)
				e.monitor.DocumentFailed(doc.Id, doc.ECLI, err)
			} else {
				e.monitor.DocumentUpdated(doc.Id, doc.ECLI)
			}
		})
		if submitErr != nil {
			wg.Done()
			result.Documents[i].Err = submitErr
		}
	}
	wg.Wait()

	failed := 0
	for _, dr := range result.Documents {
		if dr.Err != nil {
			failed++
		} else {
			result.UpdatedCount++
		}
	}
	result.Success = failed == 0

	e.monitor.Finish(result)

	if failed > 0 {
		return result, &PartialFailureError{FailedCount: failed, TotalCount: len(docs)}
	}
	return result, nil
}

// updateDocument rewrites one document's field. The document's stored
// Original projection is retained by the repository layer.
func (e *Executor) updateDocument(ctx context.Context, doc *core.Document, request core.NormalizationRequest) error {
	field := doc.Fields[request.Field]
	updated := core.GenericField{
		Show:  replaceValue(field.Show, request.FromValue, request.ToValue),
		Index: replaceValue(field.Index, request.FromValue, request.ToValue),
	}
	return e.repository.UpdateDocumentField(ctx, doc.Id, request.Field, updated)
}

// Release releases the worker pool.
// The executor should not be used after calling Release.
func (e *Executor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// replaceValue swaps every element equal to from with to. Element order
// and untouched elements are preserved exactly; only the matching
// elements change.
func replaceValue(values []string, from, to string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		if v == from {
			v = to
		}
		out[i] = v
	}
	return out
}
