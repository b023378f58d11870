package types

// SearchMode selects which index (or fusion of both) answers a query.
type SearchMode string

const (
	SearchModeLexical SearchMode = "lexical" // inverted-index term overlap
	SearchModeVector  SearchMode = "vector"  // embedding cosine similarity
	SearchModeHybrid  SearchMode = "hybrid"  // weighted min-max fusion
)

// Operator controls how multiple query terms combine in lexical search.
type Operator string

const (
	OperatorAnd Operator = "AND" // documents containing all query terms
	OperatorOr  Operator = "OR"  // documents containing any query term
)

// SearchResult is the only structure crossing the retrieval boundary. Score
// semantics depend on the mode: distinct-term count for lexical, cosine
// similarity for vector, weighted combination in [0,1] for hybrid.
type SearchResult struct {
	DocID int
	Score float64

	// Provenance back to the source and to the owning chunk. When a document
	// sits in the overlap region of two chunks, ChunkID names the earlier one.
	ChunkID    int
	SourcePath string
	LineNumber int

	RawText string
}

// Validate checks structural invariants on a result.
func (sr *SearchResult) Validate() error {
	if sr.DocID < 0 {
		return ErrDocOutOfRange
	}
	if sr.ChunkID < 0 {
		return ErrChunkOutOfRange
	}
	if sr.LineNumber < 1 {
		return ErrInvalidLineNumber
	}
	return nil
}

// ParseMode reports whether the mode string names a supported search mode.
func ParseMode(s string) (SearchMode, bool) {
	switch SearchMode(s) {
	case SearchModeLexical, SearchModeVector, SearchModeHybrid:
		return SearchMode(s), true
	}
	return "", false
}

// ParseOperator reports whether the operator string is supported.
func ParseOperator(s string) (Operator, bool) {
	switch Operator(s) {
	case OperatorAnd, OperatorOr:
		return Operator(s), true
	}
	return "", false
}
