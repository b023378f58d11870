// Package chunker partitions the ordered document sequence into fixed-size
// overlapping windows so a consumer with a bounded context budget can request
// a self-contained slice around any match.
//
// Chunk i spans docIDs [i*stride, i*stride+size-1] with stride =
// size - overlap; the final chunk may be shorter. Coverage is total: every
// document belongs to at least one chunk, and documents in an overlap region
// belong to exactly two adjacent chunks. The earlier of the two is the
// deterministic owner reported in search results.
//
//	c, err := chunker.New(1000, 100)
//	m := c.Build(docs)
//	chunk, err := m.Chunk(3)
package chunker
