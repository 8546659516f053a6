package ragmodel

import "time"

// Fragment is one embedded slice of an uploaded document. Fragments are
// created by the ingestion pipeline and never mutated afterwards.
type Fragment struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	SourceName string    `json:"source_name"`
	Text       string    `json:"text"`
	Vector     []float32 `json:"-"`
	// Degraded marks fragments stored with the fallback vector so a
	// later sweep can re-embed them.
	Degraded  bool      `json:"degraded"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestResult summarizes one document ingestion. InsertedCount can be
// lower than ChunkCount when individual fragments failed to persist;
// DegradedCount counts fragments stored with the fallback vector.
type IngestResult struct {
	ChunkCount    int `json:"chunk_count"`
	InsertedCount int `json:"inserted_count"`
	DegradedCount int `json:"degraded_count"`
}
