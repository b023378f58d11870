package lexical

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/logsift/logsift/pkg/types"
)

// Posting is one entry in a token's postings list.
type Posting struct {
	DocID    int
	TermFreq int
}

// Result is a scored lexical match. Score is the count of distinct query
// tokens present in the document, not raw term frequency: covering more
// distinct terms always beats repeating one term.
type Result struct {
	DocID int
	Score float64
}

// Index is a read-only inverted index over a corpus snapshot. Build it once
// with Build; afterwards it is safe for unlimited concurrent queries.
type Index struct {
	postings map[string][]Posting
	numDocs  int
	totalLen int // token count across all documents, for stats
}

// Build constructs the inverted index. Documents are partitioned across
// workers that each produce partial postings; the merge appends shards in
// docID order, so index contents are identical regardless of worker
// completion order.
func Build(ctx context.Context, docs []types.Document, workers int) (*Index, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	ix := &Index{
		postings: make(map[string][]Posting),
		numDocs:  len(docs),
	}
	if len(docs) == 0 {
		return ix, nil
	}

	type shard struct {
		postings map[string][]Posting
		totalLen int
	}
	shards := make([]shard, workers)
	shardSize := (len(docs) + workers - 1) / workers

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * shardSize
		end := start + shardSize
		if end > len(docs) {
			end = len(docs)
		}
		g.Go(func() error {
			sh := shard{postings: make(map[string][]Posting)}
			for _, doc := range docs[start:end] {
				tokens := Tokenize(indexableText(&doc))
				sh.totalLen += len(tokens)

				freq := make(map[string]int, len(tokens))
				for _, tok := range tokens {
					freq[tok]++
				}
				for tok, tf := range freq {
					sh.postings[tok] = append(sh.postings[tok], Posting{DocID: doc.DocID, TermFreq: tf})
				}
			}
			// Shard-local postings are appended in docID order already; sort
			// defensively in case document order ever changes upstream.
			for tok := range sh.postings {
				list := sh.postings[tok]
				sort.Slice(list, func(i, j int) bool { return list[i].DocID < list[j].DocID })
			}
			shards[w] = sh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build inverted index: %w", err)
	}

	// Merge in shard order: shard w covers strictly lower docIDs than w+1.
	for _, sh := range shards {
		ix.totalLen += sh.totalLen
		for tok, list := range sh.postings {
			ix.postings[tok] = append(ix.postings[tok], list...)
		}
	}

	return ix, nil
}

// indexableText is the token stream for a document: the raw line plus the
// structured fields, so extracted values stay searchable even when the raw
// text formats them differently.
func indexableText(doc *types.Document) string {
	rec := &doc.Record
	parts := []string{rec.RawText}
	for _, field := range []string{rec.Timestamp, rec.Level, rec.Component, rec.Message} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	for _, val := range rec.Fields {
		parts = append(parts, val)
	}
	return strings.Join(parts, " ")
}

// Search answers a term-overlap query. AND intersects the postings lists of
// all query tokens (any unindexed token empties the result); OR unions them.
// Results are ordered by score desc, then ascending docID, truncated to k.
// k <= 0 returns all matches.
func (ix *Index) Search(query string, k int, op types.Operator) ([]Result, error) {
	tokens := distinct(Tokenize(query))
	if len(tokens) == 0 {
		return nil, types.ErrInvalidQuery
	}
	if ix.numDocs == 0 {
		return []Result{}, nil
	}

	// Count, per candidate document, how many distinct query tokens hit it.
	// Under OR that count is the score; under AND a candidate must be hit by
	// every token.
	hits := make(map[int]int)
	for _, tok := range tokens {
		for _, post := range ix.postings[tok] {
			hits[post.DocID]++
		}
	}

	results := make([]Result, 0, len(hits))
	for docID, count := range hits {
		if op == types.OperatorAnd && count < len(tokens) {
			continue
		}
		results = append(results, Result{DocID: docID, Score: float64(count)})
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

// NumDocs returns the number of indexed documents.
func (ix *Index) NumDocs() int {
	return ix.numDocs
}

// NumTerms returns the number of distinct indexed tokens.
func (ix *Index) NumTerms() int {
	return len(ix.postings)
}

// AvgDocLength returns the mean token count per document.
func (ix *Index) AvgDocLength() float64 {
	if ix.numDocs == 0 {
		return 0
	}
	return float64(ix.totalLen) / float64(ix.numDocs)
}

// Postings returns the postings list for a token. Exposed for tests.
func (ix *Index) Postings(token string) []Posting {
	return ix.postings[token]
}
