// Package lexical implements the inverted index for exact term-level
// retrieval.
//
// Tokenization is deliberately simple: lowercase, split on anything that is
// not a letter, digit, or underscore, no stemming, no stop-word removal.
// Queries are tokenized exactly like documents.
//
// Postings map each token to an ordered (docID, termFrequency) list. The
// index is built once per corpus snapshot and read-only afterwards, so
// concurrent queries need no locking.
//
//	ix, err := lexical.Build(ctx, docs, runtime.NumCPU())
//	results, err := ix.Search("error nova", 10, types.OperatorAnd)
//
// Scores count distinct query tokens present in the document. Ties order by
// ascending docID, which keeps rankings deterministic across rebuilds.
package lexical
