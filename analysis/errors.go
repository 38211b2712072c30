package analysis

import "errors"

var (
	// ErrCatalogRequired is returned when the analyzer is created
	// without a term catalog.
	ErrCatalogRequired = errors.New("term catalog is required")

	// ErrAnalyzerRequired is returned when the runner is created
	// without an analyzer.
	ErrAnalyzerRequired = errors.New("analyzer is required")

	// ErrUnknownField is returned when analysis targets a field key
	// outside the registry.
	ErrUnknownField = errors.New("unknown field")
)
