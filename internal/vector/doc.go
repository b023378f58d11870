// Package vector implements semantic nearest-neighbor retrieval over a dense
// embedding matrix.
//
// Vectors are produced by an injected embedder, L2-normalized at insertion,
// and stored row-per-docID, so cosine similarity reduces to a dot product at
// query time. The matrix is built once per corpus snapshot; queries are
// lock-free thereafter.
//
// A zero-norm vector (possible with degenerate embedders) is stored as-is:
// similarity is zero everywhere and ordering falls back to ascending docID.
package vector
