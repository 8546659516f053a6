// Package ingest orchestrates one document upload: extract, chunk, embed,
// persist. Only extraction failure aborts the document; every per-chunk
// failure degrades and the pipeline continues.
package ingest

import (
	"context"
	"os"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/internal/rag/chunker"
	"github.com/rizkyfm/docchat/internal/rag/embedding"
	"github.com/rizkyfm/docchat/internal/rag/extract"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var logger = logx.NewLogger("ingest")

// Request describes one uploaded document. Path points at the temporary
// upload file, which Run removes on every exit path.
type Request struct {
	Path       string
	SourceName string
	OwnerID    string
}

// Run executes the pipeline for one document. The returned error is
// non-nil only for extraction failure; embedding failures substitute the
// fallback vector and persistence failures skip the chunk, both reflected
// in the result counts. progress, when non-nil, observes step changes.
func Run(ctx context.Context, req Request, embedder embedding.Embedder, store vectorstore.FragmentStore,
	progress func(jobmodel.InternalStatus)) (ragmodel.IngestResult, error) {

	var res ragmodel.IngestResult
	step := func(s jobmodel.InternalStatus) {
		if progress != nil {
			progress(s)
		}
	}

	// The temp file must not outlive the ingestion, whatever the outcome.
	defer func() {
		if err := os.Remove(req.Path); err != nil && !os.IsNotExist(err) {
			logger.Error("could not remove temp upload", "path", req.Path, "error", err)
		}
	}()

	log := logger.With("source", req.SourceName, "owner", req.OwnerID)

	step(jobmodel.IngestExtracting)
	text, err := extract.Text(req.Path)
	if err != nil {
		log.Error("extraction failed", "error", err)
		return res, err
	}

	step(jobmodel.IngestChunking)
	chunks := chunker.Split(text, config.ChunkSize, config.ChunkOverlap)
	res.ChunkCount = len(chunks)
	log.Debug("document chunked", "chunks", res.ChunkCount)

	for i, raw := range chunks {
		cleaned := chunker.Clean(raw)
		if len(cleaned) < config.MinChunkLen {
			// Near-empty chunks carry no retrievable signal.
			continue
		}

		step(jobmodel.IngestEmbedding)
		vector, embErr := embedder.EmbedDocument(ctx, cleaned)
		degraded := false
		if embErr != nil {
			log.Warn("embedding failed, storing fallback vector", "chunk", i+1, "error", embErr)
			metrics.CountEmbeddingFallback("ingest")
			vector = embedding.FallbackVector(embedder.Dimension())
			degraded = true
		}

		step(jobmodel.IngestPersisting)
		fragment := &ragmodel.Fragment{
			OwnerID:    req.OwnerID,
			SourceName: req.SourceName,
			Text:       cleaned,
			Vector:     vector,
			Degraded:   degraded,
		}
		if insErr := store.Insert(ctx, fragment); insErr != nil {
			log.Error("persisting fragment failed, skipping chunk", "chunk", i+1, "error", insErr)
			metrics.CountFragmentSkipped()
			continue
		}

		metrics.CountFragmentInserted()
		res.InsertedCount++
		if degraded {
			res.DegradedCount++
		}
	}

	if res.ChunkCount > 0 && res.InsertedCount == 0 {
		// Soft failure: the document was readable but nothing persisted.
		log.Warn("ingestion persisted no fragments", "chunks", res.ChunkCount)
	}

	log.Info("ingestion finished",
		"chunks", res.ChunkCount, "inserted", res.InsertedCount, "degraded", res.DegradedCount)
	return res, nil
}
