package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
)

const testDim = 4

type mockEmbedder struct {
	onEmbed func(text string) ([]float32, error)
}

func (m *mockEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return m.EmbedQuery(ctx, text)
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.onEmbed != nil {
		return m.onEmbed(text)
	}
	return make([]float32, testDim), nil
}

func (m *mockEmbedder) Dimension() int { return testDim }

type mockStore struct {
	lastQuery []float32
	lastOwner string
	lastK     int
	matches   []vectorstore.Match
	err       error
}

func (m *mockStore) Insert(ctx context.Context, f *ragmodel.Fragment) error { return nil }

func (m *mockStore) Search(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error) {
	m.lastOwner = ownerID
	m.lastQuery = query
	m.lastK = k
	return m.matches, m.err
}

func match(source, text string, similarity float64) vectorstore.Match {
	return vectorstore.Match{
		Fragment:   ragmodel.Fragment{SourceName: source, Text: text},
		Similarity: similarity,
	}
}

func TestContext_FormatsExcerptsInRankOrder(t *testing.T) {
	store := &mockStore{matches: []vectorstore.Match{
		match("report.pdf", "revenue grew in Q3", 0.95),
		match("report.pdf", "costs were flat", 0.80),
		match("notes.txt", "meeting on friday", 0.60),
	}}
	svc := New(&mockEmbedder{}, store)

	block, err := svc.Context(context.Background(), "u1", "how did revenue do?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block.Degraded {
		t.Error("healthy embedding must not mark the block degraded")
	}
	if store.lastOwner != "u1" || store.lastK != 3 {
		t.Errorf("search called with owner=%q k=%d, want u1/3", store.lastOwner, store.lastK)
	}

	first := strings.Index(block.Text, "revenue grew")
	second := strings.Index(block.Text, "costs were flat")
	third := strings.Index(block.Text, "meeting on friday")
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Errorf("excerpts out of rank order:\n%s", block.Text)
	}
	if !strings.Contains(block.Text, "EXCERPT FROM (report.pdf)") {
		t.Errorf("excerpts must be labeled with their source:\n%s", block.Text)
	}
	// Sources are deduplicated but keep first-seen order.
	if len(block.Sources) != 2 || block.Sources[0] != "report.pdf" || block.Sources[1] != "notes.txt" {
		t.Errorf("got sources %v", block.Sources)
	}
}

func TestContext_EmptyStoreIsNotAnError(t *testing.T) {
	svc := New(&mockEmbedder{}, &mockStore{})

	block, err := svc.Context(context.Background(), "u1", "anything")
	if err != nil {
		t.Fatalf("empty result must not raise, got %v", err)
	}
	if block.Text != "" || len(block.Sources) != 0 {
		t.Errorf("got non-empty block %+v", block)
	}
}

func TestContext_EmbeddingFailureUsesFallbackVector(t *testing.T) {
	store := &mockStore{matches: []vectorstore.Match{match("a.pdf", "something", 0.5)}}
	emb := &mockEmbedder{onEmbed: func(string) ([]float32, error) {
		return nil, errors.New("backend down")
	}}
	svc := New(emb, store)

	block, err := svc.Context(context.Background(), "u1", "question")
	if err != nil {
		t.Fatalf("degraded retrieval must not raise, got %v", err)
	}
	if !block.Degraded {
		t.Error("block should be marked degraded")
	}
	if len(store.lastQuery) != testDim {
		t.Fatalf("fallback query vector has dimension %d, want %d", len(store.lastQuery), testDim)
	}
	for i, v := range store.lastQuery {
		if v != 0.01 {
			t.Fatalf("fallback vector component %d is %f, want 0.01", i, v)
		}
	}
	if block.Text == "" {
		t.Error("search results should still be returned on the fallback path")
	}
}

func TestContext_SearchFailurePropagates(t *testing.T) {
	store := &mockStore{err: errors.New("store offline")}
	svc := New(&mockEmbedder{}, store)

	if _, err := svc.Context(context.Background(), "u1", "question"); err == nil {
		t.Fatal("store failure must propagate")
	}
}
