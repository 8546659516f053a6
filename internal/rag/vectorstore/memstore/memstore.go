// Package memstore is a brute-force in-memory fragment store. It backs
// tests and serves as the runtime fallback when no database backend is
// reachable at startup.
package memstore

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
)

type Store struct {
	mu        sync.RWMutex
	dimension int
	fragments []ragmodel.Fragment
}

func New(dimension int) *Store {
	return &Store{dimension: dimension}
}

func (s *Store) Insert(ctx context.Context, f *ragmodel.Fragment) error {
	if len(f.Vector) != s.dimension {
		return &ragmodel.DimensionError{Got: len(f.Vector), Want: s.dimension}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = uuid.New().String()
	f.CreatedAt = time.Now()
	stored := *f
	stored.Vector = append([]float32(nil), f.Vector...)
	s.fragments = append(s.fragments, stored)
	return nil
}

func (s *Store) Search(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error) {
	if k <= 0 {
		return []vectorstore.Match{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []vectorstore.Match
	for _, f := range s.fragments {
		if f.OwnerID != ownerID {
			continue
		}
		matches = append(matches, vectorstore.Match{
			Fragment:   f,
			Similarity: cosineSimilarity(query, f.Vector),
		})
	}

	// Stable sort keeps insertion order for equal similarities.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// Len reports the number of stored fragments, scoped to ownerID.
func (s *Store) Len(ownerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.fragments {
		if f.OwnerID == ownerID {
			n++
		}
	}
	return n
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
