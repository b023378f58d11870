package retriever

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/logsift/logsift/internal/chunker"
	"github.com/logsift/logsift/internal/lexical"
	"github.com/logsift/logsift/internal/vector"
	"github.com/logsift/logsift/pkg/types"
)

// Source names one log input for a corpus build.
type Source struct {
	Path   string
	Name   string       // display name, defaults to the file base name
	Format types.Format // FormatAuto enables extension/content sniffing
}

// Snapshot is one immutable corpus version: documents, both indexes, and the
// chunk map, built together and never mutated. Once Ready it is safe for
// unlimited concurrent read-only queries with no locking.
type Snapshot struct {
	docs   []types.Document
	lex    *lexical.Index
	vec    *vector.Index // nil when the vector build failed or was skipped
	vecErr error         // recorded once at build time
	chunks *chunker.Map

	sources  map[string]int // documents per source name
	warnings int
}

// buildSnapshot parses all sources and constructs the indexes and chunk map.
// The corpus-size ceiling is enforced after parsing, before any index work.
// A vector-side failure degrades the snapshot to lexical-only instead of
// failing the load.
func (r *Retriever) buildSnapshot(ctx context.Context, sources []Source) (*Snapshot, error) {
	snap := &Snapshot{sources: make(map[string]int)}

	for _, src := range sources {
		res, err := r.parser.ParseFile(src.Path, src.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", src.Path, err)
		}

		name := src.Name
		if name == "" {
			name = filepath.Base(src.Path)
		}
		if res.Warnings > 0 {
			log.Printf("parse: %d undecodable line(s) in %s retained as raw text", res.Warnings, name)
		}
		snap.warnings += res.Warnings
		snap.sources[name] += len(res.Records)

		for _, rec := range res.Records {
			snap.docs = append(snap.docs, types.Document{
				DocID:      len(snap.docs),
				SourcePath: name,
				Record:     rec,
			})
		}
	}

	if r.opts.MaxCorpusSize > 0 && len(snap.docs) > r.opts.MaxCorpusSize {
		return nil, fmt.Errorf("%w: %d documents, limit %d",
			types.ErrCorpusTooLarge, len(snap.docs), r.opts.MaxCorpusSize)
	}

	lex, err := lexical.Build(ctx, snap.docs, r.opts.Workers)
	if err != nil {
		return nil, err
	}
	snap.lex = lex

	snap.chunks = r.chunker.Build(snap.docs)

	if r.opts.IndexMode != types.SearchModeLexical && r.embedder != nil {
		vec, err := vector.Build(ctx, snap.docs, r.embedder, r.opts.Workers, r.opts.BatchSize)
		if err != nil {
			// Capability degradation, surfaced once here; lexical search
			// keeps working against this snapshot.
			log.Printf("vector index unavailable, continuing lexical-only: %v", err)
			snap.vecErr = fmt.Errorf("%w: %v", types.ErrIndexUnavailable, err)
		} else {
			snap.vec = vec
		}
	}

	return snap, nil
}

// annotate attaches chunk and source provenance to a ranked docID.
func (s *Snapshot) annotate(docID int, score float64) (types.SearchResult, error) {
	owner, err := s.chunks.OwnerOf(docID)
	if err != nil {
		return types.SearchResult{}, err
	}
	doc := &s.docs[docID]
	return types.SearchResult{
		DocID:      docID,
		Score:      score,
		ChunkID:    owner,
		SourcePath: doc.SourcePath,
		LineNumber: doc.Record.LineNumber,
		RawText:    doc.Record.RawText,
	}, nil
}
