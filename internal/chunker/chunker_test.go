package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/pkg/types"
)

func makeDocs(n int) []types.Document {
	docs := make([]types.Document, n)
	for i := range docs {
		docs[i] = types.Document{
			DocID:  i,
			Record: types.LogRecord{LineNumber: i + 1, RawText: "line"},
		}
	}
	return docs
}

func TestNew_ValidatesOverlap(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(10, -1)
	assert.Error(t, err)

	_, err = New(10, 10)
	assert.Error(t, err)

	c, err := New(10, 9)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestBuild_OverlappingWindows(t *testing.T) {
	// 10 documents, size 4, overlap 1: stride 3.
	c, err := New(4, 1)
	require.NoError(t, err)

	m := c.Build(makeDocs(10))
	chunks := m.Chunks()
	require.Len(t, chunks, 4)

	expected := [][2]int{{0, 3}, {3, 6}, {6, 9}, {9, 9}}
	for i, want := range expected {
		assert.Equal(t, i, chunks[i].ChunkID)
		assert.Equal(t, want[0], chunks[i].StartDoc)
		assert.Equal(t, want[1], chunks[i].EndDoc)
	}

	// Line provenance tracks the docs.
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 4, chunks[0].EndLine)
	assert.Equal(t, 10, chunks[3].EndLine)
}

func TestBuild_TotalCoverage(t *testing.T) {
	c, err := New(7, 2)
	require.NoError(t, err)

	docs := makeDocs(23)
	m := c.Build(docs)

	covered := make(map[int]int)
	for _, chunk := range m.Chunks() {
		for d := chunk.StartDoc; d <= chunk.EndDoc; d++ {
			covered[d]++
		}
	}
	for i := range docs {
		// Every doc in at least one chunk, overlap docs in exactly two.
		assert.GreaterOrEqual(t, covered[i], 1, "doc %d uncovered", i)
		assert.LessOrEqual(t, covered[i], 2, "doc %d over-covered", i)
	}
}

func TestBuild_NoOverlap(t *testing.T) {
	c, err := New(5, 0)
	require.NoError(t, err)

	m := c.Build(makeDocs(12))
	chunks := m.Chunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, 5, chunks[1].Size())
	assert.Equal(t, 2, chunks[2].Size())
}

func TestBuild_CorpusSmallerThanChunk(t *testing.T) {
	c, err := New(1000, 100)
	require.NoError(t, err)

	m := c.Build(makeDocs(3))
	require.Equal(t, 1, m.Len())
	chunk, err := m.Chunk(0)
	require.NoError(t, err)
	assert.Equal(t, 0, chunk.StartDoc)
	assert.Equal(t, 2, chunk.EndDoc)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)

	m := c.Build(nil)
	assert.Equal(t, 0, m.Len())

	_, err = m.Chunk(0)
	assert.ErrorIs(t, err, types.ErrChunkOutOfRange)
}

func TestChunk_OutOfRange(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)
	m := c.Build(makeDocs(10))

	_, err = m.Chunk(-1)
	assert.ErrorIs(t, err, types.ErrChunkOutOfRange)
	_, err = m.Chunk(4)
	assert.ErrorIs(t, err, types.ErrChunkOutOfRange)
}

func TestOwnerOf_EarlierChunkOwnsOverlap(t *testing.T) {
	// Chunks: [0-3] [3-6] [6-9] [9-9]. Docs 3, 6, 9 sit in overlap regions
	// and belong to the earlier chunk.
	c, err := New(4, 1)
	require.NoError(t, err)
	m := c.Build(makeDocs(10))

	cases := map[int]int{
		0: 0, 1: 0, 2: 0, 3: 0,
		4: 1, 5: 1, 6: 1,
		7: 2, 8: 2, 9: 2,
	}
	for docID, want := range cases {
		owner, err := m.OwnerOf(docID)
		require.NoError(t, err)
		assert.Equal(t, want, owner, "doc %d", docID)
	}
}

func TestOwnerOf_ConsistentWithContains(t *testing.T) {
	c, err := New(6, 3)
	require.NoError(t, err)
	m := c.Build(makeDocs(20))

	for docID := 0; docID < 20; docID++ {
		owner, err := m.OwnerOf(docID)
		require.NoError(t, err)

		chunk, err := m.Chunk(owner)
		require.NoError(t, err)
		assert.True(t, chunk.Contains(docID), "owner %d does not contain doc %d", owner, docID)

		// No earlier chunk may contain the doc.
		for id := 0; id < owner; id++ {
			earlier, err := m.Chunk(id)
			require.NoError(t, err)
			assert.False(t, earlier.Contains(docID), "earlier chunk %d also contains doc %d", id, docID)
		}
	}
}

func TestOwnerOf_OutOfRange(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)
	m := c.Build(makeDocs(10))

	_, err = m.OwnerOf(-1)
	assert.ErrorIs(t, err, types.ErrDocOutOfRange)
	_, err = m.OwnerOf(10)
	assert.ErrorIs(t, err, types.ErrDocOutOfRange)
}
