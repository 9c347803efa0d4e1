package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText marks documents with no extractable text, e.g. image-only
// PDFs. Callers degrade the feature instead of failing the whole action.
var ErrNoText = errors.New("no extractable text in document")

// TooManyPagesError is returned when a PDF exceeds the page limit.
type TooManyPagesError struct {
	Pages, Limit int
}

func (e *TooManyPagesError) Error() string {
	return fmt.Sprintf("PDF has %d pages, the limit is %d", e.Pages, e.Limit)
}

// ExtractPDF returns the concatenated per-page text, pages joined by blank
// lines. maxPages <= 0 disables the page limit.
func ExtractPDF(data []byte, maxPages int) (string, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := pdfReader.NumPage()
	if maxPages > 0 && numPages > maxPages {
		return "", &TooManyPagesError{Pages: numPages, Limit: maxPages}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	extracted := strings.Join(pages, "\n\n")
	if extracted == "" {
		return "", ErrNoText
	}

	return extracted, nil
}
