package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurisnorm/jurisnorm/cluster"
	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/storage"
)

// stubCatalog serves a fixed vocabulary per field.
type stubCatalog struct {
	terms     map[string][]core.Term
	truncated bool
	fetches   int
	block     chan struct{} // when set, FetchTerms waits for a signal
}

var _ storage.TermCatalog = (*stubCatalog)(nil)

func (s *stubCatalog) FetchTerms(ctx context.Context, field string, filters core.FilterSet, size int) ([]core.Term, bool, error) {
	s.fetches++
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	terms := s.terms[field]
	if len(terms) > size {
		return terms[:size], true, nil
	}
	return terms, s.truncated, nil
}

func (s *stubCatalog) RareTerms(ctx context.Context, field string, filters core.FilterSet, maxCount int) ([]core.Term, error) {
	var rare []core.Term
	for _, t := range s.terms[field] {
		if t.Frequency <= maxCount {
			rare = append(rare, t)
		}
	}
	return rare, nil
}

func (s *stubCatalog) Timeline(ctx context.Context, interval storage.Interval, filters core.FilterSet) ([]storage.TimelineBucket, error) {
	return nil, nil
}

func descritoresCatalog() *stubCatalog {
	return &stubCatalog{
		terms: map[string][]core.Term{
			"Descritores": {
				{Key: "Acórdão", Frequency: 120},
				{Key: "Recurso de Revista", Frequency: 80},
				{Key: "Acordão", Frequency: 7},
				{Key: "Habeas Corpus", Frequency: 15},
			},
		},
	}
}

func TestNewAnalyzerRequiresCatalog(t *testing.T) {
	_, err := NewAnalyzer(nil, core.DefaultFields())
	assert.ErrorIs(t, err, ErrCatalogRequired)
}

func TestAnalyzeField(t *testing.T) {
	analyzer, err := NewAnalyzer(descritoresCatalog(), core.DefaultFields())
	require.NoError(t, err)

	report, err := analyzer.AnalyzeField(context.Background(), "Descritores", core.FilterSet{}, cluster.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "Descritores", report.Field)
	assert.Len(t, report.Terms, 4)
	assert.False(t, report.Truncated)

	require.Len(t, report.Clusters, 1)
	assert.Equal(t, "Acórdão", report.Clusters[0].Canonical.Key)
	require.Len(t, report.Clusters[0].Irregulars, 1)
	assert.Equal(t, "Acordão", report.Clusters[0].Irregulars[0].Term.Key)
}

func TestAnalyzeFieldUnknownField(t *testing.T) {
	analyzer, err := NewAnalyzer(descritoresCatalog(), core.DefaultFields())
	require.NoError(t, err)

	_, err = analyzer.AnalyzeField(context.Background(), "Nonexistent", core.FilterSet{}, cluster.DefaultConfig())
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestAnalyzeFieldInvalidConfig(t *testing.T) {
	analyzer, err := NewAnalyzer(descritoresCatalog(), core.DefaultFields())
	require.NoError(t, err)

	_, err = analyzer.AnalyzeField(context.Background(), "Descritores", core.FilterSet{}, cluster.Config{Cap: 10, Threshold: 0.2})
	assert.ErrorIs(t, err, cluster.ErrInvalidThreshold)
}

func TestAnalyzeFieldTruncation(t *testing.T) {
	catalog := descritoresCatalog()
	analyzer, err := NewAnalyzer(catalog, core.DefaultFields(), WithFetchSize(2))
	require.NoError(t, err)

	report, err := analyzer.AnalyzeField(context.Background(), "Descritores", core.FilterSet{}, cluster.DefaultConfig())
	require.NoError(t, err)

	assert.True(t, report.Truncated)
	assert.Len(t, report.Terms, 2)
}

func TestAnalyzeFieldCapTruncation(t *testing.T) {
	analyzer, err := NewAnalyzer(descritoresCatalog(), core.DefaultFields())
	require.NoError(t, err)

	report, err := analyzer.AnalyzeField(context.Background(), "Descritores", core.FilterSet{},
		cluster.Config{Cap: 2, Threshold: cluster.DefaultThreshold})
	require.NoError(t, err)

	// Fetch returned everything, but the cap left terms uncompared
	assert.True(t, report.Truncated)
	assert.Len(t, report.Terms, 4)
}

func TestAnalyzerRareTerms(t *testing.T) {
	analyzer, err := NewAnalyzer(descritoresCatalog(), core.DefaultFields())
	require.NoError(t, err)

	rare, err := analyzer.RareTerms(context.Background(), "Descritores", core.FilterSet{}, 10)
	require.NoError(t, err)
	require.Len(t, rare, 1)
	assert.Equal(t, "Acordão", rare[0].Key)

	_, err = analyzer.RareTerms(context.Background(), "Nonexistent", core.FilterSet{}, 10)
	assert.ErrorIs(t, err, ErrUnknownField)
}
