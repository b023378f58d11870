// Package retriever is the public facade of the retrieval core.
//
// A Retriever owns one active corpus Snapshot: documents, the inverted
// index, the embedding matrix, and the chunk map, built together and
// immutable once Ready. Reload builds a replacement snapshot off to the
// side and swaps the reference atomically; queries already running keep the
// snapshot they loaded, so a reload never blocks or corrupts them.
//
//	r, _ := retriever.New(emb, retriever.Options{ChunkSize: 500, ChunkOverlap: 50})
//	_, err := r.Reload(ctx, []retriever.Source{{Path: "nova.log", Format: types.FormatAuto}})
//	results, err := r.Search(ctx, "error nova", 10, types.SearchModeHybrid, types.OperatorOr, retriever.Filter{})
//
// Search results carry full provenance: owning chunk (the earlier chunk when
// the document sits in an overlap region), source path, and line number.
// Context windows are corpus-global, clamped at the edges, and independent
// of chunk boundaries.
package retriever
