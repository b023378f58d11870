package types

// Chunk is a fixed-size, overlap-preserving contiguous slice of the document
// sequence. Chunks are generated once per corpus snapshot and never mutated;
// adjacent chunks share a suffix/prefix of overlap documents so a consumer
// with a bounded context budget can read a self-contained window.
type Chunk struct {
	ChunkID  int
	StartDoc int // first docID in the chunk, inclusive
	EndDoc   int // last docID in the chunk, inclusive

	StartLine int // line number of the first document
	EndLine   int // line number of the last document
}

// Size returns the number of documents in the chunk.
func (c *Chunk) Size() int {
	return c.EndDoc - c.StartDoc + 1
}

// Contains reports whether the chunk covers the given docID.
func (c *Chunk) Contains(docID int) bool {
	return docID >= c.StartDoc && docID <= c.EndDoc
}
