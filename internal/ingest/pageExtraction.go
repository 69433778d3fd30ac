package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

type rawPage struct {
	Number  int
	Content string
}

type docType string

const (
	typePDF     docType = "PDF"
	typeText    docType = "TEXT"
	typeUnknown docType = "UNKNOWN"
)

func getDocType(path string) docType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return typePDF
	case ".txt", ".docx", ".rtf", ".odt":
		return typeText
	default:
		return typeUnknown
	}
}

// extractPDF pulls text page by page. A page that fails to parse is
// skipped with a warning - one corrupt page must not sink the whole
// document. Only a document with zero extractable pages is fatal.
func (p *Pipeline) extractPDF(path string) ([]rawPage, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			p.logger.Warn("Skipping page", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		pages = append(pages, rawPage{Number: i, Content: content})
	}
	return pages, nil
}

// File formats without page structure come back as a single page.
func extractPlaintext(path string) ([]rawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	return []rawPage{{Number: 1, Content: text}}, nil
}

// protectExtract runs the extraction on its own goroutine with a
// deadline - some malformed PDFs make the parser spin.
func protectExtract(page pdf.Page) (string, error) {
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
	case <-time.After(config.PageExtractBudget):
		return "", errors.New("page extraction timeout")
	}
}
