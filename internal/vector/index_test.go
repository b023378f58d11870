package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsift/logsift/pkg/types"
)

// stubEmbedder returns fixed 3-dimensional vectors keyed by text, so
// similarity outcomes are fully predictable.
type stubEmbedder struct {
	vectors map[string][]float32
	failAll bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.failAll {
		return nil, errors.New("provider down")
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int   { return 3 }
func (s *stubEmbedder) Provider() string { return "stub" }
func (s *stubEmbedder) Close() error     { return nil }

func vecDocs(lines ...string) []types.Document {
	docs := make([]types.Document, len(lines))
	for i, line := range lines {
		docs[i] = types.Document{
			DocID:  i,
			Record: types.LogRecord{LineNumber: i + 1, RawText: line},
		}
	}
	return docs
}

func TestBuild_StoresNormalizedRows(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"disk failure": {3, 0, 0},
		"all healthy":  {0, 4, 0},
	}}
	docs := vecDocs("disk failure", "all healthy")

	ix, err := Build(context.Background(), docs, emb, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.NumDocs())
	assert.Equal(t, 3, ix.Dimension())

	results, err := ix.Search(context.Background(), "disk failure", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].DocID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.InDelta(t, 0.0, results[1].Score, 1e-6)
}

func TestBuild_NilEmbedder(t *testing.T) {
	_, err := Build(context.Background(), vecDocs("a"), nil, 1, 10)
	assert.ErrorIs(t, err, types.ErrIndexUnavailable)
}

func TestBuild_ProviderFailureFailsBuild(t *testing.T) {
	emb := &stubEmbedder{failAll: true}
	_, err := Build(context.Background(), vecDocs("a", "b"), emb, 2, 1)
	assert.Error(t, err)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	emb := &stubEmbedder{}
	ix, err := Build(context.Background(), nil, emb, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.NumDocs())

	results, err := ix.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBuild_RowsIndexedByDocID(t *testing.T) {
	// Batch size 1 with several workers: completion order must not matter.
	emb := &stubEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0, 0, 1},
	}}
	docs := vecDocs("a", "b", "c")

	ix, err := Build(context.Background(), docs, emb, 3, 1)
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), "c", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].DocID)
}

func TestSearch_TieBreakByDocID(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"same": {1, 0, 0},
	}}
	docs := vecDocs("same", "same", "same")

	ix, err := Build(context.Background(), docs, emb, 1, 10)
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), "same", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i, res.DocID)
	}
}

func TestSearch_ZeroVectorDoesNotPanic(t *testing.T) {
	// A zero-norm vector stays unnormalized and scores zero everywhere.
	emb := &stubEmbedder{vectors: map[string][]float32{
		"signal": {1, 1, 0},
	}}
	docs := vecDocs("signal", "nothing matches this")

	ix, err := Build(context.Background(), docs, emb, 1, 10)
	require.NoError(t, err)

	results, err := ix.Search(context.Background(), "nothing matches this", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, 0.0, res.Score)
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(out[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(out[1]), 1e-6)

	zero := []float32{0, 0, 0}
	assert.Equal(t, zero, Normalize(zero))
}

func TestDot_DimensionMismatch(t *testing.T) {
	assert.Equal(t, 0.0, dot([]float32{1, 2}, []float32{1, 2, 3}))
}
