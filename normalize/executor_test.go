package normalize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurisnorm/jurisnorm/core"
	"github.com/jurisnorm/jurisnorm/storage"
	"github.com/jurisnorm/jurisnorm/storage/badger"
)

func testRepo(t *testing.T) storage.DocumentRepository {
	t.Helper()
	docRepo, _, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { docRepo.Close(); backend.Close() })
	return docRepo
}

func seedDocuments(t *testing.T, repo storage.DocumentRepository, descritores ...[]string) []*core.Document {
	t.Helper()
	ctx := context.Background()
	docs := make([]*core.Document, len(descritores))
	for i, values := range descritores {
		docs[i] = &core.Document{
			ECLI: "ECLI:PT:STJ:2023:" + string(rune('A'+i)),
			Date: time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC),
			Fields: map[string]core.GenericField{
				"Descritores": {
					Show:     append([]string(nil), values...),
					Index:    append([]string(nil), values...),
					Original: append([]string(nil), values...),
				},
			},
		}
	}
	added, err := repo.AddDocuments(ctx, docs...)
	require.NoError(t, err)
	return added
}

func newTestExecutor(t *testing.T, repo storage.DocumentRepository, opts ...Option) *Executor {
	t.Helper()
	exec, err := NewExecutor(repo, core.DefaultFields(), opts...)
	require.NoError(t, err)
	t.Cleanup(exec.Release)
	return exec
}

func TestNewExecutorRequiresRepository(t *testing.T) {
	_, err := NewExecutor(nil, core.DefaultFields())
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestNormalizeRewritesMatches(t *testing.T) {
	repo := testRepo(t)
	docs := seedDocuments(t, repo,
		[]string{"Acordão", "Recurso"},
		[]string{"Acordão"},
		[]string{"Habeas Corpus"},
	)
	exec := newTestExecutor(t, repo)

	ctx := context.Background()
	result, err := exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.UpdatedCount)
	assert.False(t, result.Partial)
	assert.Len(t, result.Documents, 2)

	updated, err := repo.GetDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	gf := updated.Fields["Descritores"]
	assert.Equal(t, []string{"Acórdão", "Recurso"}, gf.Show)
	assert.Equal(t, []string{"Acórdão", "Recurso"}, gf.Index)
	// Provenance data survives the rewrite untouched
	assert.Equal(t, []string{"Acordão", "Recurso"}, gf.Original)

	// The untouched document is untouched
	other, err := repo.GetDocument(ctx, docs[2].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Habeas Corpus"}, other.Fields["Descritores"].Show)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	repo := testRepo(t)
	seedDocuments(t, repo, []string{"Acordão"})
	exec := newTestExecutor(t, repo)

	ctx := context.Background()
	request := core.NormalizationRequest{Field: "Descritores", FromValue: "Acordão", ToValue: "Acórdão"}

	first, err := exec.Normalize(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, 1, first.UpdatedCount)

	// A rerun matches nothing and succeeds
	second, err := exec.Normalize(ctx, request)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 0, second.UpdatedCount)
	assert.Empty(t, second.Documents)
}

func TestNormalizePreservesUntouchedElements(t *testing.T) {
	repo := testRepo(t)
	docs := seedDocuments(t, repo,
		[]string{"Recurso", "Recurso", "Acordão"},
		[]string{"Acordão", "Acórdão"},
	)
	exec := newTestExecutor(t, repo)

	ctx := context.Background()
	_, err := exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})
	require.NoError(t, err)

	// Only the matching element changes; order and repeated untouched
	// elements survive the rewrite exactly
	updated, err := repo.GetDocument(ctx, docs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Recurso", "Recurso", "Acórdão"}, updated.Fields["Descritores"].Show)
	assert.Equal(t, []string{"Recurso", "Recurso", "Acórdão"}, updated.Fields["Descritores"].Index)
	assert.Equal(t, []string{"Recurso", "Recurso", "Acordão"}, updated.Fields["Descritores"].Original)

	// A rewrite that lands on an already-present value keeps both
	// elements; the rewrite never edits values it was not asked about
	other, err := repo.GetDocument(ctx, docs[1].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acórdão", "Acórdão"}, other.Fields["Descritores"].Show)
	assert.Equal(t, []string{"Acordão", "Acórdão"}, other.Fields["Descritores"].Original)
}

func TestNormalizeValidatesBeforeMutating(t *testing.T) {
	repo := testRepo(t)
	seedDocuments(t, repo, []string{"Acordão"})
	exec := newTestExecutor(t, repo)

	ctx := context.Background()

	_, err := exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Nonexistent",
		FromValue: "a",
		ToValue:   "b",
	})
	assert.ErrorIs(t, err, core.ErrUnknownField)

	_, err = exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "",
		ToValue:   "b",
	})
	assert.ErrorIs(t, err, core.ErrEmptyFromValue)

	// Nothing was rewritten
	docs, _, err := repo.FindByFieldValue(ctx, "Descritores", "Acordão", 10)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

// failingRepository fails UpdateDocumentField for one document ID.
type failingRepository struct {
	storage.DocumentRepository
	failID core.ID
}

var errInjected = errors.New("injected write failure")

func (r *failingRepository) UpdateDocumentField(ctx context.Context, id core.ID, field string, value core.GenericField) error {
	if id == r.failID {
		return errInjected
	}
	return r.DocumentRepository.UpdateDocumentField(ctx, id, field, value)
}

func TestNormalizePartialFailure(t *testing.T) {
	repo := testRepo(t)
	docs := seedDocuments(t, repo,
		[]string{"Acordão"},
		[]string{"Acordão"},
	)
	failing := &failingRepository{DocumentRepository: repo, failID: docs[0].Id}
	exec := newTestExecutor(t, failing, WithRetry(2, time.Millisecond))

	ctx := context.Background()
	result, err := exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})

	var pfe *PartialFailureError
	require.ErrorAs(t, err, &pfe)
	assert.Equal(t, 1, pfe.FailedCount)
	assert.Equal(t, 2, pfe.TotalCount)

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.UpdatedCount)

	// The failure names the document so the operator can rerun
	var failed *DocumentResult
	for i := range result.Documents {
		if result.Documents[i].Err != nil {
			failed = &result.Documents[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, docs[0].Id, failed.Id)
	assert.ErrorIs(t, failed.Err, errInjected)

	// The successful rewrite stays applied
	other, err := repo.GetDocument(ctx, docs[1].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acórdão"}, other.Fields["Descritores"].Show)
}

func TestNormalizeLookupLimit(t *testing.T) {
	repo := testRepo(t)
	seedDocuments(t, repo,
		[]string{"Acordão"},
		[]string{"Acordão"},
		[]string{"Acordão"},
	)
	exec := newTestExecutor(t, repo, WithLookupLimit(2))

	ctx := context.Background()
	result, err := exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Equal(t, 2, result.UpdatedCount)

	// The remainder is picked up by a rerun
	result, err = exec.Normalize(ctx, core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})
	require.NoError(t, err)
	assert.False(t, result.Partial)
	assert.Equal(t, 1, result.UpdatedCount)
}

type countingMonitor struct {
	started  int
	updated  int
	failed   int
	finished int
}

func (m *countingMonitor) Start(_ core.NormalizationRequest, _ int)    { m.started++ }
func (m *countingMonitor) DocumentUpdated(_ core.ID, _ string)         { m.updated++ }
func (m *countingMonitor) DocumentFailed(_ core.ID, _ string, _ error) { m.failed++ }
func (m *countingMonitor) Finish(_ *Result)                            { m.finished++ }

func TestNormalizeMonitor(t *testing.T) {
	repo := testRepo(t)
	seedDocuments(t, repo, []string{"Acordão"}, []string{"Acordão"})

	monitor := &countingMonitor{}
	exec := newTestExecutor(t, repo, WithMonitor(monitor))

	_, err := exec.Normalize(context.Background(), core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, monitor.started)
	assert.Equal(t, 2, monitor.updated)
	assert.Equal(t, 0, monitor.failed)
	assert.Equal(t, 1, monitor.finished)
}

func TestAffectedCount(t *testing.T) {
	repo := testRepo(t)
	seedDocuments(t, repo, []string{"Acordão"}, []string{"Acordão"}, []string{"Recurso"})
	exec := newTestExecutor(t, repo)

	count, truncated, err := exec.AffectedCount(context.Background(), core.NormalizationRequest{
		Field:     "Descritores",
		FromValue: "Acordão",
		ToValue:   "Acórdão",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, truncated)
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		if attempts < 3 {
			return errInjected
		}
		return nil
	}, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	// Exhausted attempts surface the last error
	attempts = 0
	err = RetryWithBackoff(ctx, func() error {
		attempts++
		return errInjected
	}, 2, time.Millisecond)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 2, attempts)

	// Invalid attempts
	err = RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	// Cancelled context stops retrying
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = RetryWithBackoff(cancelled, func() error { return errInjected }, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}
