// Package vectorstore persists document fragments with their vectors and
// answers nearest-neighbour queries by cosine similarity.
package vectorstore

import (
	"context"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
)

// Match is one search hit. Similarity is cosine similarity, i.e.
// 1 - cosine_distance(query, fragment).
type Match struct {
	Fragment   ragmodel.Fragment
	Similarity float64
}

// FragmentStore is the persistence contract for the ingestion pipeline and
// the retrieval service.
//
// Insert appends one immutable fragment, generating its id and timestamp.
// A vector whose dimension differs from the store's fixed dimension is
// rejected with *ragmodel.DimensionError and never written.
//
// Search returns the k fragments most similar to query, restricted to
// ownerID, ordered by descending similarity with ties broken by insertion
// order. k <= 0 yields an empty result, not an error.
type FragmentStore interface {
	Insert(ctx context.Context, f *ragmodel.Fragment) error
	Search(ctx context.Context, ownerID string, query []float32, k int) ([]Match, error)
}
