// Package extract converts uploaded document bytes into plain text.
//
// A fixed dispatch table maps the declared file extension to a
// format-specific extractor: PDF text layer, DOCX paragraph text, or OCR
// for raster images. Failures are always a typed *Error so callers can
// surface the kind to the end user; "no text found" is a valid success
// (empty string), not an error.
package extract

import "strings"

type extractFunc func(content []byte) (string, error)

// extractors maps normalized extensions to handlers. Built once; extending
// the recognized set is an explicit table edit here.
var extractors = map[string]extractFunc{
	"pdf":  extractPDF,
	"docx": extractDOCX,
	"doc":  extractDOCX,
	"png":  extractImage,
	"jpg":  extractImage,
	"jpeg": extractImage,
	"gif":  extractImage,
	"bmp":  extractImage,
	"tiff": extractImage,
}

// Recognized reports whether extension (with or without a leading dot,
// any case) has an extractor.
func Recognized(extension string) bool {
	_, ok := extractors[normalizeExt(extension)]
	return ok
}

// Extract dispatches content to the extractor for extension and returns the
// extracted plain text. Unrecognized extensions are rejected before any
// parsing of content. A document that parses cleanly but contains no
// extractable text (a scanned PDF without a text layer, for example) yields
// ("", nil) so downstream processing can still run and report it.
func Extract(content []byte, extension string) (string, error) {
	fn, ok := extractors[normalizeExt(extension)]
	if !ok {
		return "", newError(KindUnsupportedFormat, "unrecognized extension %q", extension)
	}
	return fn(content)
}

func normalizeExt(extension string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
}
