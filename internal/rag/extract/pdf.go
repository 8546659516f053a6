package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var logger = logx.NewLogger("extract")

const pageExtractTimeout = 10 * time.Second

func pdfText(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", &ragmodel.ExtractionError{Reason: "could not open pdf", Err: err}
	}

	var sb strings.Builder
	textLen := 0
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := guardedPlainText(page)
		if err != nil {
			// A single broken page should not sink the document.
			logger.Warn("skipping unreadable page", "page", i, "error", err)
			continue
		}

		textLen += len(strings.TrimSpace(content))
		sb.WriteString(content)
		sb.WriteString("\n")
		sb.WriteString(pageBreak(i))
		sb.WriteString("\n")
	}

	if textLen == 0 {
		return "", &ragmodel.ExtractionError{Reason: "pdf has no text layer (scanned image?)"}
	}
	return sb.String(), nil
}

// guardedPlainText runs the page extraction in its own goroutine because
// dslipak/pdf can hang on malformed content streams.
func guardedPlainText(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
