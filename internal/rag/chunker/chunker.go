package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Split cuts text into overlapping spans of at most size bytes.
// Consecutive spans share at least overlap bytes of source text so a
// fact straddling a boundary survives in at least one chunk. The cut point
// prefers a paragraph break, then a sentence break, then a word break
// inside the back half of the window, falling back to a hard cut. Cuts
// always land on rune boundaries, so multibyte text is never split
// mid-character.
//
// The same input and parameters always produce the same spans.
func Split(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			return chunks
		}
		end = runeStart(text, end)
		cut := breakPoint(text, start, end)
		chunks = append(chunks, text[start:cut])
		next := cut - overlap
		if next < 0 {
			next = 0
		}
		start = runeStart(text, next)
	}
}

// runeStart snaps i back to the nearest rune boundary so a window edge
// never splits a multibyte character.
func runeStart(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// breakPoint picks the cut for the window [start, end). Only the back half
// of the window is searched so chunks never shrink below half size.
func breakPoint(text string, start, end int) int {
	window := text[start:end]
	lo := len(window) / 2

	if i := strings.LastIndex(window[lo:], "\n\n"); i >= 0 {
		return start + lo + i + 2
	}
	best := -1
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.LastIndex(window[lo:], sep); i >= 0 && lo+i+len(sep) > best {
			best = lo + i + len(sep)
		}
	}
	if best >= 0 {
		return start + best
	}
	if i := strings.LastIndex(window[lo:], " "); i >= 0 {
		return start + lo + i + 1
	}
	return end
}

var (
	pageBreakPattern  = regexp.MustCompile(`-+Page \(\d+\) Break-+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean normalizes one chunk before embedding: page-break markers from the
// extractor are stripped, whitespace runs collapse to a single space, and
// the result is trimmed.
func Clean(chunk string) string {
	chunk = pageBreakPattern.ReplaceAllString(chunk, " ")
	chunk = whitespacePattern.ReplaceAllString(chunk, " ")
	return strings.TrimSpace(chunk)
}
