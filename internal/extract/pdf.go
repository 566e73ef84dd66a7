package extract

import (
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractPDF pulls the text layer out of a PDF page by page. Pages are
// joined with a single newline in document order; a page without
// extractable text contributes an empty string. Scanned PDFs therefore
// come back as an overall empty string rather than an error.
func extractPDF(content []byte) (string, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return "", newError(KindCorruptFile, "open pdf: %v", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			// Soft failure: an unreadable page is an empty page
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(pageText))
	}

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
