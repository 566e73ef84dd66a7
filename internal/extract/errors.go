package extract

import "fmt"

// ErrorKind classifies extraction failures so callers can report the cause
// to the end user instead of a generic message.
type ErrorKind string

const (
	// KindUnsupportedFormat means the extension is outside the recognized set.
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	// KindCorruptFile means the file bytes do not match the declared format.
	KindCorruptFile ErrorKind = "corrupt_file"
	// KindOCRUnavailable means the OCR engine is not installed or reachable
	// on the host. An environment defect, not a bad file.
	KindOCRUnavailable ErrorKind = "ocr_unavailable"
)

type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %s: %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
