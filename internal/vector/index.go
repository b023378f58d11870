package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/logsift/logsift/internal/embedder"
	"github.com/logsift/logsift/pkg/types"
)

// DefaultBatchSize is the number of documents embedded per provider call.
const DefaultBatchSize = 50

// Result is a scored nearest-neighbor match. Score is cosine similarity;
// both sides are unit-norm so it is a plain dot product.
type Result struct {
	DocID int
	Score float64
}

// Index is a dense embedding matrix over a corpus snapshot, row-indexed by
// docID. Vectors are L2-normalized at insertion time. Read-only once built.
type Index struct {
	vectors  [][]float32
	dim      int
	embedder embedder.Embedder
}

// Build embeds every document's raw text in batches and stores normalized
// vectors. Batches are distributed across workers; each batch writes into
// its own row range, so the matrix is identical regardless of completion
// order. Any provider error fails the whole build: the caller downgrades
// the snapshot to lexical-only.
func Build(ctx context.Context, docs []types.Document, emb embedder.Embedder, workers, batchSize int) (*Index, error) {
	if emb == nil {
		return nil, fmt.Errorf("%w: no embedder supplied", types.ErrIndexUnavailable)
	}
	if batchSize <= 0 || batchSize > embedder.MaxBatchSize {
		batchSize = DefaultBatchSize
	}
	if workers < 1 {
		workers = 1
	}

	ix := &Index{
		vectors:  make([][]float32, len(docs)),
		dim:      emb.Dimension(),
		embedder: emb,
	}
	if len(docs) == 0 {
		return ix, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, doc := range batch {
				texts[i] = embeddableText(&doc)
			}
			vecs, err := ix.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding batch at doc %d: %w", batch[0].DocID, err)
			}
			for i, vec := range vecs {
				ix.vectors[batch[i].DocID] = Normalize(vec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ix, nil
}

// embeddableText is the embedding input for a document. Raw text only: the
// structured fields are substrings of it for every supported format, and the
// raw line keeps the surrounding tokens a semantic model benefits from.
func embeddableText(doc *types.Document) string {
	if doc.Record.RawText != "" {
		return doc.Record.RawText
	}
	// Blank raw text never happens for parsed corpora, but the provider
	// rejects empty input, so keep a placeholder.
	return " "
}

// Search embeds the query with the index's embedder, normalizes it, and
// scores every stored vector by dot product. Results are ordered by
// similarity desc, then ascending docID, truncated to k. k <= 0 returns all.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if len(ix.vectors) == 0 {
		return []Result{}, nil
	}

	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryVec = Normalize(queryVec)

	results := make([]Result, 0, len(ix.vectors))
	for docID, vec := range ix.vectors {
		results = append(results, Result{DocID: docID, Score: dot(queryVec, vec)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// NumDocs returns the number of stored vectors.
func (ix *Index) NumDocs() int {
	return len(ix.vectors)
}

// Dimension returns the embedding dimension.
func (ix *Index) Dimension() int {
	return ix.dim
}

// Normalize scales a vector to unit length. A zero-norm vector is returned
// unchanged: its similarities degenerate to zero and ranking falls back to
// the docID tie-break instead of dividing by zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}

// dot computes the dot product, treating dimension mismatches as zero
// similarity rather than panicking.
func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
