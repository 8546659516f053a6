package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
)

func vec(dim int, lead float32) []float32 {
	v := make([]float32, dim)
	v[0] = lead
	v[1] = 1 - lead
	return v
}

func TestInsert_RejectsDimensionMismatch(t *testing.T) {
	s := New(768)

	err := s.Insert(context.Background(), &ragmodel.Fragment{
		OwnerID: "u1",
		Text:    "short vector",
		Vector:  make([]float32, 5),
	})

	var dimErr *ragmodel.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("want DimensionError, got %v", err)
	}
	if s.Len("u1") != 0 {
		t.Errorf("mismatched fragment must never be written")
	}
}

func TestInsert_GeneratesIdAndTimestamp(t *testing.T) {
	s := New(4)
	f := &ragmodel.Fragment{OwnerID: "u1", Text: "some text", Vector: make([]float32, 4)}

	if err := s.Insert(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if f.ID == "" {
		t.Error("insert should generate an id")
	}
	if f.CreatedAt.IsZero() {
		t.Error("insert should stamp created at")
	}
}

func TestSearch_RankingOrder(t *testing.T) {
	s := New(4)
	ctx := context.Background()
	// Similarities to the query (1,0,0,0) are ordered 0.9 < 0.95 via the
	// leading component; highest must come back first.
	for _, f := range []struct {
		text string
		lead float32
	}{
		{"middling", 0.9},
		{"weak", 0.4},
		{"strongest", 0.95},
	} {
		if err := s.Insert(ctx, &ragmodel.Fragment{OwnerID: "u1", Text: f.text, Vector: vec(4, f.lead)}); err != nil {
			t.Fatal(err)
		}
	}

	query := []float32{1, 0, 0, 0}
	matches, err := s.Search(ctx, "u1", query, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Fragment.Text != "strongest" || matches[1].Fragment.Text != "middling" {
		t.Errorf("ranking order wrong: %q then %q", matches[0].Fragment.Text, matches[1].Fragment.Text)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Errorf("similarities not descending: %f then %f", matches[0].Similarity, matches[1].Similarity)
	}
}

func TestSearch_TieBrokenByInsertionOrder(t *testing.T) {
	s := New(4)
	ctx := context.Background()
	same := []float32{0, 1, 0, 0}
	for _, text := range []string{"first", "second", "third"} {
		if err := s.Insert(ctx, &ragmodel.Fragment{OwnerID: "u1", Text: text, Vector: append([]float32(nil), same...)}); err != nil {
			t.Fatal(err)
		}
	}

	matches, err := s.Search(ctx, "u1", same, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if matches[i].Fragment.Text != w {
			t.Errorf("position %d got %q, want %q", i, matches[i].Fragment.Text, w)
		}
	}
}

func TestSearch_OwnerScope(t *testing.T) {
	s := New(4)
	ctx := context.Background()
	s.Insert(ctx, &ragmodel.Fragment{OwnerID: "alice", Text: "alice doc", Vector: vec(4, 0.9)})
	s.Insert(ctx, &ragmodel.Fragment{OwnerID: "bob", Text: "bob doc", Vector: vec(4, 0.95)})

	matches, err := s.Search(ctx, "alice", []float32{1, 0, 0, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Fragment.OwnerID != "alice" {
		t.Errorf("a query must never return another user's fragments")
	}
}

func TestSearch_KZeroOrNegative(t *testing.T) {
	s := New(4)
	ctx := context.Background()
	s.Insert(ctx, &ragmodel.Fragment{OwnerID: "u1", Text: "anything", Vector: vec(4, 0.5)})

	for _, k := range []int{0, -3} {
		matches, err := s.Search(ctx, "u1", vec(4, 0.5), k)
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 0 {
			t.Errorf("k=%d: got %d matches, want 0", k, len(matches))
		}
	}
}

func TestSearch_EmptyStore(t *testing.T) {
	s := New(4)

	matches, err := s.Search(context.Background(), "nobody", vec(4, 0.5), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("empty store should return no matches, got %d", len(matches))
	}
}
