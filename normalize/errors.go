package normalize

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryRequired is returned when the executor is created
	// without a document repository.
	ErrRepositoryRequired = errors.New("document repository is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)

// PartialFailureError reports a normalization run where some document
// rewrites failed after retries. The run is not rolled back; documents
// already rewritten stay rewritten, so retrying the same request is safe
// and will only touch the documents still carrying the old value.
type PartialFailureError struct {
	FailedCount int
	TotalCount  int
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("normalization partially failed: %d of %d documents not updated", e.FailedCount, e.TotalCount)
}
