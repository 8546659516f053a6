package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
)

const testDim = 8

type mockEmbedder struct {
	calls   int
	onEmbed func(call int, text string) ([]float32, error)
}

func (m *mockEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.onEmbed != nil {
		return m.onEmbed(m.calls, text)
	}
	return make([]float32, testDim), nil
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return m.EmbedDocument(ctx, text)
}

func (m *mockEmbedder) Dimension() int { return testDim }

type mockStore struct {
	mu       sync.Mutex
	calls    int
	inserted []ragmodel.Fragment
	onInsert func(call int, f *ragmodel.Fragment) error
}

func (m *mockStore) Insert(ctx context.Context, f *ragmodel.Fragment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.onInsert != nil {
		if err := m.onInsert(m.calls, f); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, *f)
	return nil
}

func (m *mockStore) Search(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error) {
	return nil, nil
}

func uploadFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_ThreeChunkDocument(t *testing.T) {
	path := uploadFile(t, strings.Repeat("a", 1200))
	emb := &mockEmbedder{}
	store := &mockStore{}

	res, err := Run(context.Background(), Request{Path: path, SourceName: "report.txt", OwnerID: "u1"}, emb, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChunkCount != 3 || res.InsertedCount != 3 || res.DegradedCount != 0 {
		t.Errorf("got chunks=%d inserted=%d degraded=%d, want 3/3/0",
			res.ChunkCount, res.InsertedCount, res.DegradedCount)
	}
	for i, f := range store.inserted {
		if f.OwnerID != "u1" || f.SourceName != "report.txt" {
			t.Errorf("fragment %d has wrong scope: %+v", i, f)
		}
	}
}

func TestRun_EmbeddingFailureDegradesNotDrops(t *testing.T) {
	path := uploadFile(t, strings.Repeat("a", 1200))
	emb := &mockEmbedder{
		onEmbed: func(call int, text string) ([]float32, error) {
			if call == 2 {
				return nil, errors.New("quota exhausted")
			}
			return make([]float32, testDim), nil
		},
	}
	store := &mockStore{}

	res, err := Run(context.Background(), Request{Path: path, SourceName: "r.txt", OwnerID: "u1"}, emb, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No chunk is silently dropped because embedding failed.
	if res.ChunkCount != 3 || res.InsertedCount != 3 || res.DegradedCount != 1 {
		t.Errorf("got chunks=%d inserted=%d degraded=%d, want 3/3/1",
			res.ChunkCount, res.InsertedCount, res.DegradedCount)
	}
	degraded := 0
	for _, f := range store.inserted {
		if len(f.Vector) != testDim {
			t.Errorf("stored vector dimension %d, want %d", len(f.Vector), testDim)
		}
		if f.Degraded {
			degraded++
			if f.Vector[0] != 0.01 {
				t.Errorf("degraded fragment should carry the fallback vector")
			}
		}
	}
	if degraded != 1 {
		t.Errorf("got %d degraded fragments, want 1", degraded)
	}
}

func TestRun_PersistenceFailureSkipsChunk(t *testing.T) {
	path := uploadFile(t, strings.Repeat("a", 1200))
	emb := &mockEmbedder{}
	store := &mockStore{
		onInsert: func(call int, f *ragmodel.Fragment) error {
			if call == 1 {
				return errors.New("disk full")
			}
			return nil
		},
	}

	res, err := Run(context.Background(), Request{Path: path, SourceName: "r.txt", OwnerID: "u1"}, emb, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChunkCount != 3 || res.InsertedCount != 2 {
		t.Errorf("got chunks=%d inserted=%d, want 3/2", res.ChunkCount, res.InsertedCount)
	}
}

func TestRun_AllPersistenceFailsIsSoftFailure(t *testing.T) {
	path := uploadFile(t, strings.Repeat("a", 1200))
	store := &mockStore{
		onInsert: func(call int, f *ragmodel.Fragment) error {
			return errors.New("storage offline")
		},
	}

	res, err := Run(context.Background(), Request{Path: path, SourceName: "r.txt", OwnerID: "u1"}, &mockEmbedder{}, store, nil)
	if err != nil {
		t.Fatalf("total persistence failure must not raise, got %v", err)
	}
	if res.ChunkCount != 3 || res.InsertedCount != 0 {
		t.Errorf("got chunks=%d inserted=%d, want 3/0", res.ChunkCount, res.InsertedCount)
	}
}

func TestRun_NearEmptyChunksAreFiltered(t *testing.T) {
	path := uploadFile(t, "  \n\t ok ")
	store := &mockStore{}

	res, err := Run(context.Background(), Request{Path: path, SourceName: "r.txt", OwnerID: "u1"}, &mockEmbedder{}, store, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InsertedCount != 0 {
		t.Errorf("cleaned chunk below minimum length must not be persisted")
	}
}

func TestRun_TempFileRemovedOnSuccess(t *testing.T) {
	path := uploadFile(t, strings.Repeat("a", 600))

	if _, err := Run(context.Background(), Request{Path: path, SourceName: "r.txt", OwnerID: "u1"}, &mockEmbedder{}, &mockStore{}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp upload still exists after successful ingestion")
	}
}

func TestRun_TempFileRemovedOnExtractionError(t *testing.T) {
	path := uploadFile(t, "   \n  ")

	_, err := Run(context.Background(), Request{Path: path, SourceName: "r.txt", OwnerID: "u1"}, &mockEmbedder{}, &mockStore{}, nil)
	var exErr *ragmodel.ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("want ExtractionError, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp upload still exists after extraction failure")
	}
}
