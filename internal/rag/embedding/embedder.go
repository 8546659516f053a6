// Package embedding defines the capability boundary to the external
// embedding backend.
package embedding

import "context"

// Embedder turns text into a fixed-dimension vector. EmbedDocument is used
// by the ingestion pipeline and is paced against the backend's rate limit;
// EmbedQuery is the short synchronous path used at chat time.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// FallbackVector is the fixed low-magnitude placeholder stored when the
// real embedding call fails. Storing it keeps the fragment searchable
// instead of crashing the whole ingestion; callers count the substitution.
func FallbackVector(dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = 0.01
	}
	return v
}
