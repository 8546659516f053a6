package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"Empty", "", 0},
		{"Shorter_Than_Size", "short text", 1},
		{"Exactly_Size", strings.Repeat("x", 500), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, 500, 50)
			if len(got) != tt.want {
				t.Errorf("chunk count got %d, want %d", len(got), tt.want)
			}
			if tt.want == 1 && got[0] != tt.text {
				t.Errorf("single chunk should be the whole text")
			}
		})
	}
}

func TestSplit_ThreeChunksFrom1200Chars(t *testing.T) {
	text := strings.Repeat("a", 1200)

	got := Split(text, 500, 50)
	if len(got) != 3 {
		t.Fatalf("chunk count got %d, want 3", len(got))
	}
	if len(got[0]) != 500 || len(got[1]) != 500 || len(got[2]) != 300 {
		t.Errorf("chunk lengths got %d/%d/%d, want 500/500/300",
			len(got[0]), len(got[1]), len(got[2]))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	first := Split(text, 500, 50)
	for i := 0; i < 5; i++ {
		again := Split(text, 500, 50)
		if len(again) != len(first) {
			t.Fatalf("run %d: chunk count changed from %d to %d", i, len(first), len(again))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: chunk %d differs", i, j)
			}
		}
	}
}

func TestSplit_OverlapInvariant(t *testing.T) {
	texts := map[string]string{
		"Sentences":  strings.Repeat("Revenue grew by twelve percent in the third quarter. ", 30),
		"Paragraphs": strings.Repeat("First paragraph about the fiscal year results.\n\nSecond paragraph with more detail. ", 25),
		"NoBreaks":   strings.Repeat("b", 1700),
	}

	const overlap = 50
	for name, text := range texts {
		t.Run(name, func(t *testing.T) {
			chunks := Split(text, 500, overlap)
			if len(chunks) < 2 {
				t.Fatalf("expected multiple chunks, got %d", len(chunks))
			}
			for i := 0; i < len(chunks)-1; i++ {
				tail := chunks[i][len(chunks[i])-overlap:]
				head := chunks[i+1][:overlap]
				if tail != head {
					t.Errorf("chunks %d/%d overlap mismatch:\n tail %q\n head %q", i, i+1, tail, head)
				}
			}
		})
	}
}

func TestSplit_MultibyteRuneBoundaries(t *testing.T) {
	// No ASCII break characters at all, so every cut is a hard cut that
	// must still land on a rune boundary.
	text := strings.Repeat("日本語のテキストを分割する。", 60)

	const overlap = 50
	chunks := Split(text, 500, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	// The restart snaps back to a rune boundary, never into one, so the
	// shared span is overlap bytes wide give or take one rune.
	for i := 0; i < len(chunks)-1; i++ {
		if !sharesOverlap(chunks[i], chunks[i+1], overlap) {
			t.Errorf("chunks %d/%d do not share the overlap span", i, i+1)
		}
	}
}

func sharesOverlap(prev, next string, overlap int) bool {
	for k := overlap; k < overlap+utf8.UTFMax && k <= len(prev) && k <= len(next); k++ {
		if strings.HasSuffix(prev, next[:k]) {
			return true
		}
	}
	return false
}

func TestSplit_PrefersSentenceBoundary(t *testing.T) {
	// One long sentence ending inside the window back half, then more text.
	text := strings.Repeat("word ", 80) + "End of sentence. " + strings.Repeat("more text here ", 40)

	chunks := Split(text, 500, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], ". ") && !strings.HasSuffix(chunks[0], " ") {
		t.Errorf("first chunk should end on a boundary, got suffix %q", chunks[0][len(chunks[0])-10:])
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"Page_Break_Marker",
			"before ----------------Page (3) Break---------------- after",
			"before after",
		},
		{
			"Whitespace_Runs",
			"several\n\n  words\t\tspread   out",
			"several words spread out",
		},
		{
			"Trim",
			"   \n padded \n  ",
			"padded",
		},
		{
			"Whitespace_Only",
			"   \n  ",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean got %q, want %q", got, tt.want)
			}
		})
	}
}
