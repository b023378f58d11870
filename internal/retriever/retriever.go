package retriever

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/logsift/logsift/internal/chunker"
	"github.com/logsift/logsift/internal/embedder"
	"github.com/logsift/logsift/internal/lexical"
	"github.com/logsift/logsift/internal/parser"
	"github.com/logsift/logsift/internal/scorer"
	"github.com/logsift/logsift/internal/vector"
	"github.com/logsift/logsift/pkg/types"
)

// Result limits, matching the tool surface.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Options configures corpus builds and hybrid scoring. All values are owned
// by the external configuration layer; zero values select the defaults,
// except HybridWeight, which is applied verbatim: 0 is pure lexical and 1 is
// pure vector, so the 0.6 default lives in the configuration layer only.
type Options struct {
	ChunkSize     int
	ChunkOverlap  int
	HybridWeight  float64
	MaxCorpusSize int              // 0 disables the ceiling
	IndexMode     types.SearchMode // SearchModeLexical skips the vector build
	Workers       int
	BatchSize     int
}

// Filter narrows search results by extracted fields and provenance. The zero
// value matches every document. Level and Source match exactly; Component is
// a case-insensitive substring match.
type Filter struct {
	Level     string
	Component string
	Source    string
}

func (f Filter) empty() bool {
	return f.Level == "" && f.Component == "" && f.Source == ""
}

func (f Filter) matches(doc *types.Document) bool {
	if f.Level != "" && doc.Record.Level != f.Level {
		return false
	}
	if f.Component != "" &&
		!strings.Contains(strings.ToLower(doc.Record.Component), strings.ToLower(f.Component)) {
		return false
	}
	if f.Source != "" && doc.SourcePath != f.Source {
		return false
	}
	return true
}

// Retriever is the public facade of the retrieval core. It owns a versioned,
// immutable snapshot reference: Reload builds a new snapshot off to the side
// and swaps it in atomically, so in-flight queries complete against the
// snapshot they started with.
type Retriever struct {
	parser   *parser.Parser
	chunker  *chunker.Chunker
	embedder embedder.Embedder
	opts     Options

	snapshot atomic.Pointer[Snapshot]
}

// New creates a Retriever in the Empty state. emb may be nil for a
// lexical-only deployment.
func New(emb embedder.Embedder, opts Options) (*Retriever, error) {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = chunker.DefaultChunkSize
		if opts.ChunkOverlap == 0 {
			opts.ChunkOverlap = chunker.DefaultOverlap
		}
	}
	if opts.HybridWeight < 0 || opts.HybridWeight > 1 {
		return nil, fmt.Errorf("hybrid weight must be in [0,1], got %v", opts.HybridWeight)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.IndexMode == "" {
		opts.IndexMode = types.SearchModeHybrid
	}

	c, err := chunker.New(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	return &Retriever{
		parser:   parser.New(),
		chunker:  c,
		embedder: emb,
		opts:     opts,
	}, nil
}

// Reload builds a brand-new snapshot from the sources and atomically
// replaces the active one. The old snapshot is dropped once no in-flight
// query references it.
func (r *Retriever) Reload(ctx context.Context, sources []Source) (*Stats, error) {
	snap, err := r.buildSnapshot(ctx, sources)
	if err != nil {
		return nil, err
	}
	r.snapshot.Store(snap)
	return snap.stats(r.opts), nil
}

// Search answers a query against the active snapshot.
//
// Score semantics follow the mode: distinct-term count (lexical), cosine
// similarity (vector), or the weighted fusion in [0,1] (hybrid). Hybrid
// degrades to pure lexical output when the snapshot has no vector index.
// A non-empty filter is applied to the candidate set before truncation, so
// the top-k is taken over eligible documents only.
func (r *Retriever) Search(ctx context.Context, query string, k int, mode types.SearchMode, op types.Operator, filter Filter) ([]types.SearchResult, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, types.ErrEmptyCorpus
	}
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrInvalidQuery
	}
	if k <= 0 {
		k = DefaultLimit
	}
	if k > MaxLimit {
		k = MaxLimit
	}
	if op == "" {
		op = types.OperatorAnd
	}

	switch mode {
	case types.SearchModeLexical, "":
		return r.searchLexical(snap, query, k, op, filter)
	case types.SearchModeVector:
		return r.searchVector(ctx, snap, query, k, filter)
	case types.SearchModeHybrid:
		return r.searchHybrid(ctx, snap, query, k, op, filter)
	default:
		return nil, fmt.Errorf("unsupported search mode: %s", mode)
	}
}

// fetchSize is how many candidates a side retrieves. A filter forces a full
// retrieval so the post-filter top-k is exact.
func fetchSize(k int, filter Filter) int {
	if filter.empty() {
		return k
	}
	return 0
}

func (r *Retriever) searchLexical(snap *Snapshot, query string, k int, op types.Operator, filter Filter) ([]types.SearchResult, error) {
	hits, err := snap.lex.Search(query, fetchSize(k, filter), op)
	if err != nil {
		return nil, err
	}
	ranked := truncateRanked(snap.filterRanked(toRanked(hits, nil), filter), k)
	return r.annotateAll(snap, ranked)
}

func (r *Retriever) searchVector(ctx context.Context, snap *Snapshot, query string, k int, filter Filter) ([]types.SearchResult, error) {
	if snap.vec == nil {
		if snap.vecErr != nil {
			return nil, snap.vecErr
		}
		return nil, types.ErrIndexUnavailable
	}
	hits, err := snap.vec.Search(ctx, query, fetchSize(k, filter))
	if err != nil {
		return nil, err
	}
	ranked := truncateRanked(snap.filterRanked(toRanked(nil, hits), filter), k)
	return r.annotateAll(snap, ranked)
}

func (r *Retriever) searchHybrid(ctx context.Context, snap *Snapshot, query string, k int, op types.Operator, filter Filter) ([]types.SearchResult, error) {
	// Vector index unusable: fall back to pure lexical rather than failing.
	if snap.vec == nil {
		return r.searchLexical(snap, query, k, op, filter)
	}

	fetch := scorer.OverFetch * k
	if !filter.empty() {
		fetch = 0
	}
	lexHits, err := snap.lex.Search(query, fetch, op)
	if err != nil {
		return nil, err
	}
	vecHits, err := snap.vec.Search(ctx, query, fetch)
	if err != nil {
		return nil, err
	}

	// Filter each side before fusion so normalization spans eligible
	// candidates only.
	if !filter.empty() {
		kept := lexHits[:0:0]
		for _, h := range lexHits {
			if filter.matches(&snap.docs[h.DocID]) {
				kept = append(kept, h)
			}
		}
		lexHits = kept

		keptVec := vecHits[:0:0]
		for _, h := range vecHits {
			if filter.matches(&snap.docs[h.DocID]) {
				keptVec = append(keptVec, h)
			}
		}
		vecHits = keptVec
	}

	fused := scorer.Fuse(vecHits, lexHits, r.opts.HybridWeight, k)
	return r.annotateAll(snap, fused)
}

// filterRanked keeps only the ranked entries whose documents pass the filter.
func (s *Snapshot) filterRanked(ranked []scorer.Ranked, filter Filter) []scorer.Ranked {
	if filter.empty() {
		return ranked
	}
	kept := ranked[:0:0]
	for _, h := range ranked {
		if filter.matches(&s.docs[h.DocID]) {
			kept = append(kept, h)
		}
	}
	return kept
}

func truncateRanked(ranked []scorer.Ranked, k int) []scorer.Ranked {
	if k > 0 && len(ranked) > k {
		return ranked[:k]
	}
	return ranked
}

// toRanked converts either side's native results to the fused result shape
// so annotation has one input type.
func toRanked(lex []lexical.Result, vec []vector.Result) []scorer.Ranked {
	out := make([]scorer.Ranked, 0, len(lex)+len(vec))
	for _, h := range lex {
		out = append(out, scorer.Ranked{DocID: h.DocID, Score: h.Score})
	}
	for _, h := range vec {
		out = append(out, scorer.Ranked{DocID: h.DocID, Score: h.Score})
	}
	return out
}

func (r *Retriever) annotateAll(snap *Snapshot, ranked []scorer.Ranked) ([]types.SearchResult, error) {
	results := make([]types.SearchResult, 0, len(ranked))
	for _, h := range ranked {
		res, err := snap.annotate(h.DocID, h.Score)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GetDocument returns the document with the given id.
func (r *Retriever) GetDocument(docID int) (types.Document, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return types.Document{}, types.ErrEmptyCorpus
	}
	if docID < 0 || docID >= len(snap.docs) {
		return types.Document{}, fmt.Errorf("%w: %d", types.ErrDocOutOfRange, docID)
	}
	return snap.docs[docID], nil
}

// GetContextWindow returns the records from max(0, docID-before) through
// min(last, docID+after) inclusive, drawn from the full ordered corpus, not
// chunk-local, so a window is never truncated by a chunk boundary. At the
// corpus edges the missing side is simply empty.
func (r *Retriever) GetContextWindow(docID, before, after int) ([]types.LogRecord, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, types.ErrEmptyCorpus
	}
	if docID < 0 || docID >= len(snap.docs) {
		return nil, fmt.Errorf("%w: %d", types.ErrDocOutOfRange, docID)
	}

	start, end := windowRange(len(snap.docs), docID, before, after)
	records := make([]types.LogRecord, 0, end-start+1)
	for i := start; i <= end; i++ {
		records = append(records, snap.docs[i].Record)
	}
	return records, nil
}

// FormatContextWindow renders a context window as readable text with the
// target line marked, for consumers that want a displayable block.
func (r *Retriever) FormatContextWindow(docID, before, after int) (string, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return "", types.ErrEmptyCorpus
	}
	if docID < 0 || docID >= len(snap.docs) {
		return "", fmt.Errorf("%w: %d", types.ErrDocOutOfRange, docID)
	}

	start, end := windowRange(len(snap.docs), docID, before, after)
	var b strings.Builder
	for i := start; i <= end; i++ {
		marker := "    "
		if i == docID {
			marker = ">>> "
		}
		doc := &snap.docs[i]
		fmt.Fprintf(&b, "%s%d: %s\n", marker, doc.Record.LineNumber, doc.Record.RawText)
	}
	return b.String(), nil
}

// windowRange clamps a context window to valid corpus bounds. Negative
// before/after collapse to zero.
func windowRange(numDocs, docID, before, after int) (int, int) {
	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}
	start := docID - before
	if start < 0 {
		start = 0
	}
	end := docID + after
	if end > numDocs-1 {
		end = numDocs - 1
	}
	return start, end
}

// GetChunk returns a chunk's full document list, for expand-to-full-context
// use after a search hit.
func (r *Retriever) GetChunk(chunkID int) ([]types.Document, error) {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil, types.ErrEmptyCorpus
	}
	chunk, err := snap.chunks.Chunk(chunkID)
	if err != nil {
		return nil, err
	}

	docs := make([]types.Document, 0, chunk.Size())
	docs = append(docs, snap.docs[chunk.StartDoc:chunk.EndDoc+1]...)
	return docs, nil
}

// Ready reports whether a snapshot is loaded.
func (r *Retriever) Ready() bool {
	return r.snapshot.Load() != nil
}

// Stats describes the active snapshot for status reporting.
type Stats struct {
	Documents       int
	DistinctTerms   int
	AvgDocLength    float64
	Chunks          int
	ChunkSize       int
	ChunkOverlap    int
	VectorAvailable bool
	VectorDimension int
	HybridWeight    float64
	Sources         map[string]int
	ParseWarnings   int
}

// Stats returns statistics for the active snapshot, or nil when Empty.
func (r *Retriever) Stats() *Stats {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.stats(r.opts)
}

func (s *Snapshot) stats(opts Options) *Stats {
	st := &Stats{
		Documents:     len(s.docs),
		DistinctTerms: s.lex.NumTerms(),
		AvgDocLength:  s.lex.AvgDocLength(),
		Chunks:        s.chunks.Len(),
		ChunkSize:     opts.ChunkSize,
		ChunkOverlap:  opts.ChunkOverlap,
		HybridWeight:  opts.HybridWeight,
		Sources:       s.sources,
		ParseWarnings: s.warnings,
	}
	if s.vec != nil {
		st.VectorAvailable = true
		st.VectorDimension = s.vec.Dimension()
	}
	return st
}
