// Package mcp exposes the retrieval core as an MCP stdio server.
//
// Five tools make up the surface: index_logs loads files and swaps in a
// fresh corpus snapshot, search_logs queries it in lexical, vector, or
// hybrid mode, get_context returns the lines around a hit, get_chunk
// expands a hit to its full chunk, and get_status reports snapshot
// statistics. Handlers validate arguments, translate core sentinel errors
// to MCP error codes, and return indented JSON.
package mcp
