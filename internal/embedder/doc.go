// Package embedder provides the injected embedding capability consumed by
// the vector index.
//
// The Embedder interface has a narrow contract: text in, fixed-dimension
// float vector out. Two providers exist:
//   - openai: any OpenAI-compatible /embeddings endpoint, with LRU caching
//     of vectors by content hash and exponential-backoff retry
//   - local: a deterministic hash-based stand-in used when no API key is
//     configured, useful offline and in tests
//
// Provider failure during index construction is a capability degradation,
// not a fatal error: the retrieval core falls back to lexical-only mode.
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider: "openai",
//	    Model:    "text-embedding-3-small",
//	})
package embedder
