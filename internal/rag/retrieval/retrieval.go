// Package retrieval answers "what does this user's library say about X":
// it embeds the query, searches the fragment store and formats the hits
// into a context block for the completion call.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/internal/rag/embedding"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var logger = logx.NewLogger("retrieval")

// Block is the retrieved context for one chat turn. An empty Text means
// nothing relevant was found, which is a normal outcome, not an error.
type Block struct {
	Text     string
	Sources  []string
	Degraded bool
}

type Service struct {
	embedder embedding.Embedder
	store    vectorstore.FragmentStore
	topK     int
}

func New(embedder embedding.Embedder, store vectorstore.FragmentStore) *Service {
	return &Service{embedder: embedder, store: store, topK: config.RetrievalTopK}
}

// Context retrieves the fragments most similar to query within the
// owner's documents. A failed query embedding degrades to the fallback
// vector so the chat turn still gets best-effort results.
func (s *Service) Context(ctx context.Context, ownerID, query string) (Block, error) {
	var block Block

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.Warn("query embedding failed, searching with fallback vector", "owner", ownerID, "error", err)
		metrics.CountEmbeddingFallback("query")
		vector = embedding.FallbackVector(s.embedder.Dimension())
		block.Degraded = true
	}

	matches, err := s.store.Search(ctx, ownerID, vector, s.topK)
	if err != nil {
		return Block{}, fmt.Errorf("searching fragments: %w", err)
	}
	if len(matches) == 0 {
		return block, nil
	}

	excerpts := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, m := range matches {
		excerpts = append(excerpts, formatExcerpt(m))
		if !seen[m.Fragment.SourceName] {
			seen[m.Fragment.SourceName] = true
			block.Sources = append(block.Sources, m.Fragment.SourceName)
		}
	}
	block.Text = strings.Join(excerpts, "\n\n")

	logger.Debug("context assembled", "owner", ownerID, "matches", len(matches), "sources", len(block.Sources))
	return block, nil
}

func formatExcerpt(m vectorstore.Match) string {
	return fmt.Sprintf("-- EXCERPT FROM (%s):\n%q", m.Fragment.SourceName, m.Fragment.Text)
}
