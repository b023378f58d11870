// Package types provides shared type definitions for the logsift retrieval
// core.
//
// # Core Types
//
// LogRecord is one parsed log line. The raw text is always retained; the
// structured fields (timestamp, level, component, message) are best-effort:
//
//	rec := types.LogRecord{
//	    LineNumber: 42,
//	    RawText:    "2017-05-16 00:00:04.500 2931 INFO nova.compute.manager ...",
//	    Timestamp:  "2017-05-16 00:00:04.500",
//	    Level:      "INFO",
//	    Component:  "nova.compute.manager",
//	}
//
// Document binds a LogRecord to a dense, 0-based DocID that is the join key
// across the lexical index, the vector index, and the chunk map.
//
// Chunk is a contiguous docID range; adjacent chunks overlap by a configured
// number of documents so context survives chunk boundaries.
//
// SearchResult is the only structure returned across the retrieval boundary
// and carries full provenance (source path, line number, owning chunk).
//
// # Errors
//
// The sentinel errors in this package form the error taxonomy of the core.
// Callers match them with errors.Is:
//
//	if errors.Is(err, types.ErrInvalidQuery) {
//	    // reject the request, keep the snapshot
//	}
package types
