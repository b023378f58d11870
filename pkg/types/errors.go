package types

import "errors"

// Domain errors shared across the retrieval core.
var (
	// ErrInvalidQuery is returned for empty or whitespace-only query strings.
	ErrInvalidQuery = errors.New("query cannot be empty")

	// ErrEmptyCorpus is returned when a query arrives before any corpus has
	// been loaded. A loaded corpus with zero documents is not an error; it
	// yields empty result sets.
	ErrEmptyCorpus = errors.New("no corpus loaded")

	// ErrIndexUnavailable marks a snapshot whose vector index could not be
	// built. Lexical search keeps working; vector mode fails with this error.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrChunkOutOfRange is returned for chunk ids outside the chunk map.
	ErrChunkOutOfRange = errors.New("chunk id out of range")

	// ErrDocOutOfRange is returned for document ids outside the corpus.
	ErrDocOutOfRange = errors.New("document id out of range")

	// ErrCorpusTooLarge is returned at load time when the input exceeds the
	// configured size ceiling, before any index is built.
	ErrCorpusTooLarge = errors.New("corpus exceeds configured size limit")

	// ErrInvalidLineNumber is returned for results without valid provenance.
	ErrInvalidLineNumber = errors.New("line number must be >= 1")

	// ErrUnsupportedFormat is returned for unknown format hints.
	ErrUnsupportedFormat = errors.New("unsupported log format")
)
