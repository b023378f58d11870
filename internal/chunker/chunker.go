package chunker

import (
	"fmt"

	"github.com/logsift/logsift/pkg/types"
)

// Defaults for consumers that do not configure chunking.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
)

// Chunker partitions an ordered document sequence into fixed-size windows
// where consecutive chunks share overlap documents.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. overlap must satisfy 0 <= overlap < size; a stride
// of zero would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0,%d), got %d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Map is the immutable chunk map for one corpus snapshot: every document
// belongs to at least one chunk, documents in an overlap region to exactly
// two adjacent ones.
type Map struct {
	chunks  []types.Chunk
	stride  int
	size    int
	numDocs int
}

// Build generates the chunk map. Chunk i starts at docID i*stride with
// stride = size - overlap; the final chunk may be shorter.
func (c *Chunker) Build(docs []types.Document) *Map {
	stride := c.size - c.overlap
	m := &Map{stride: stride, size: c.size, numDocs: len(docs)}

	for start := 0; start < len(docs); start += stride {
		end := start + c.size - 1
		if end >= len(docs) {
			end = len(docs) - 1
		}
		m.chunks = append(m.chunks, types.Chunk{
			ChunkID:   len(m.chunks),
			StartDoc:  start,
			EndDoc:    end,
			StartLine: docs[start].Record.LineNumber,
			EndLine:   docs[end].Record.LineNumber,
		})
	}

	return m
}

// Chunk returns the chunk with the given id.
func (m *Map) Chunk(chunkID int) (types.Chunk, error) {
	if chunkID < 0 || chunkID >= len(m.chunks) {
		return types.Chunk{}, fmt.Errorf("%w: %d (have %d chunks)", types.ErrChunkOutOfRange, chunkID, len(m.chunks))
	}
	return m.chunks[chunkID], nil
}

// OwnerOf returns the id of the earliest chunk containing docID. A document
// in an overlap region belongs to two chunks; the earlier one is the
// deterministic owner used for result provenance.
func (m *Map) OwnerOf(docID int) (int, error) {
	if docID < 0 || docID >= m.numDocs || len(m.chunks) == 0 {
		return 0, fmt.Errorf("%w: %d", types.ErrDocOutOfRange, docID)
	}

	// Earliest chunk i with i*stride <= docID <= i*stride+size-1.
	owner := 0
	if docID >= m.size {
		owner = (docID - m.size + m.stride) / m.stride
	}
	if owner >= len(m.chunks) {
		owner = len(m.chunks) - 1
	}
	return owner, nil
}

// Len returns the number of chunks.
func (m *Map) Len() int {
	return len(m.chunks)
}

// Chunks returns the full chunk list. Exposed for tests and statistics.
func (m *Map) Chunks() []types.Chunk {
	return m.chunks
}
