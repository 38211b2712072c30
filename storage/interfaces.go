package storage

import (
	"context"
	"time"

	"github.com/jurisnorm/jurisnorm/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing jurisprudence documents.
type DocumentRepository interface {
	Repository

	// AddDocuments adds one or more documents to storage.
	// For documents with ID=0, derives the ID from the ECLI.
	// Re-adding an existing ID overwrites the stored document and its
	// indices, keeping the original InsertedAt timestamp.
	// Returns the documents with IDs and timestamps populated.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments updates existing documents.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// GetDocumentsByDateRange retrieves documents within a time range.
	// Returns documents where start <= Date < end, ordered by date.
	GetDocumentsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Document, error)

	// FindByFieldValue retrieves documents whose field's Show projection
	// contains an element exactly equal to value, up to limit documents.
	// The second return value is true when more matches exist beyond the
	// limit; callers must surface that rather than silently truncate.
	FindByFieldValue(ctx context.Context, field, value string, limit int) ([]*core.Document, bool, error)

	// UpdateDocumentField replaces the Show and Index projections of one
	// field on one document. The stored Original projection is always
	// retained regardless of what the passed value carries.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocumentField(ctx context.Context, id core.ID, field string, value core.GenericField) error
}

// Interval selects the bucket width of a timeline aggregation.
type Interval string

const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// TimelineBucket is one bucket of a timeline aggregation.
type TimelineBucket struct {
	Date  time.Time
	Count int
	ECLIs []string
}

// TermCatalog supplies ranked term/frequency pairs for a field.
// Frequencies are document counts under the given filters; results are
// computed fresh on every call and carry no caching contract.
type TermCatalog interface {
	// FetchTerms returns the terms observed in the field's Show projection,
	// ordered by descending frequency then ascending key, up to size terms.
	// The second return value is true when the vocabulary exceeds size.
	FetchTerms(ctx context.Context, field string, filters core.FilterSet, size int) ([]core.Term, bool, error)

	// RareTerms returns the terms whose frequency is <= maxCount,
	// ordered by ascending frequency then ascending key.
	RareTerms(ctx context.Context, field string, filters core.FilterSet, maxCount int) ([]core.Term, error)

	// Timeline returns document counts bucketed by the given interval,
	// ordered by ascending bucket date. Empty buckets are omitted.
	Timeline(ctx context.Context, interval Interval, filters core.FilterSet) ([]TimelineBucket, error)
}
