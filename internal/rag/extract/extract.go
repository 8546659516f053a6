// Package extract converts an uploaded document into a single plain-text
// stream. Page boundaries are kept as marker lines so the chunk cleaner
// can strip them later.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lu4p/cat"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
)

// pageBreakFormat matches the marker layout the chunker's cleaner strips.
const pageBreakFormat = "----------------Page (%d) Break----------------"

// Text extracts the plain text of the document at path. A document that
// cannot be parsed, or whose text layer is empty (a scanned image, for
// example), fails with *ragmodel.ExtractionError: terminal, never retried.
func Text(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return pdfText(path)
	case ".txt", ".docx", ".rtf", ".odt":
		return flatText(path)
	default:
		return "", &ragmodel.ExtractionError{Reason: "unsupported file type " + ext}
	}
}

// flatText handles formats without page structure, so no break markers.
func flatText(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", &ragmodel.ExtractionError{Reason: "could not read document", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ragmodel.ExtractionError{Reason: "document contains no text"}
	}
	return text, nil
}

func pageBreak(n int) string {
	return fmt.Sprintf(pageBreakFormat, n)
}
