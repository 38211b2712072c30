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


// Package analysis orchestrates field vocabulary analysis: it pulls a
// term catalog for a field and runs the clustering pipeline over it,
// producing a report of likely variant groups.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jurisnorm/jurisnorm/cluster"
	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/similarity"
	"github.com/jurisnorm/jurisnorm/storage"
)

// DefaultFetchSize is how many terms are pulled from the catalog per
// analysis. It deliberately exceeds the clustering cap so the cap, not
// the fetch, decides which terms compete.
const DefaultFetchSize = 10000

// Report is the outcome of analyzing one field's vocabulary.
type Report struct {
	Field    string
	Filters  core.FilterSet
	Terms    []core.Term
	Clusters []core.Cluster

	// Truncated is true when the field's vocabulary exceeded the fetch
	// size or the clustering cap, so some terms were never compared.
	Truncated bool
}

// Analyzer runs clustering analysis over a term catalog.
type Analyzer struct {
	catalog   storage.TermCatalog
	fields    []core.FieldInfo
	engine    *similarity.Engine
	logger    *slog.Logger
	fetchSize int
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithEngine sets the similarity engine used for clustering.
// Default is a case-insensitive engine without diacritic folding.
func WithEngine(engine *similarity.Engine) Option {
	return func(a *Analyzer) error {
		if engine != nil {
			a.engine = engine
		}
		return nil
	}
}

// WithFetchSize sets how many terms are pulled from the catalog.
func WithFetchSize(size int) Option {
	return func(a *Analyzer) error {
		if size < 1 {
			size = 1
		}
		a.fetchSize = size
		return nil
	}
}

// NewAnalyzer creates an analyzer over the catalog.
// The fields registry decides which field keys may be analyzed.
func NewAnalyzer(catalog storage.TermCatalog, fields []core.FieldInfo, opts ...Option) (*Analyzer, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}

	engine, err := similarity.NewEngine()
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		catalog:   catalog,
		fields:    fields,
		engine:    engine,
		logger:    slog.Default(),
		fetchSize: DefaultFetchSize,
	}

	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			return nil, optErr
		}
	}

	return a, nil
}

// AnalyzeField fetches the field's vocabulary and clusters it.
func (a *Analyzer) AnalyzeField(ctx context.Context, field string, filters core.FilterSet, cfg cluster.Config) (*Report, error) {
	if !core.KnownField(a.fields, field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	terms, fetchTruncated, err := a.catalog.FetchTerms(ctx, field, filters, a.fetchSize)
	if err != nil {
		return nil, err
	}

	clusters, err := cluster.Analyze(a.engine, terms, cfg)
	if err != nil {
		return nil, err
	}

	truncated := fetchTruncated || len(terms) > cfg.Cap
	if truncated {
		a.logger.Warn("vocabulary exceeds analysis bounds, rare terms excluded",
			"field", field, "terms", len(terms), "cap", cfg.Cap)
	}

	a.logger.Debug("field analyzed",
		"field", field, "terms", len(terms), "clusters", len(clusters))

	return &Report{
		Field:     field,
		Filters:   filters,
		Terms:     terms,
		Clusters:  clusters,
		Truncated: truncated,
	}, nil
}

// RareTerms returns the field's terms at or below maxCount occurrences.
func (a *Analyzer) RareTerms(ctx context.Context, field string, filters core.FilterSet, maxCount int) ([]core.Term, error) {
	if !core.KnownField(a.fields, field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return a.catalog.RareTerms(ctx, field, filters, maxCount)
}

// Timeline returns the document timeline under the filters.
func (a *Analyzer) Timeline(ctx context.Context, interval storage.Interval, filters core.FilterSet) ([]storage.TimelineBucket, error) {
	return a.catalog.Timeline(ctx, interval, filters)
}
