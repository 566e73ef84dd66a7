package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecognized(t *testing.T) {
	for _, ext := range []string{"pdf", "docx", "doc", "png", "jpg", "jpeg", "gif", "bmp", "tiff"} {
		assert.True(t, Recognized(ext), ext)
	}

	// Normalization: leading dot, case, whitespace
	assert.True(t, Recognized(".PDF"))
	assert.True(t, Recognized(" docx "))

	assert.False(t, Recognized("txt"))
	assert.False(t, Recognized("exe"))
	assert.False(t, Recognized(""))
}

func TestExtractUnsupportedExtension(t *testing.T) {
	// Content is never inspected for an unrecognized extension; even bytes
	// that look like a valid PDF are rejected up front.
	_, err := Extract([]byte("%PDF-1.4 not actually parsed"), "txt")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindUnsupportedFormat, extractErr.Kind)
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf at all"), "pdf")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindCorruptFile, extractErr.Kind)
}

func TestExtractCorruptImage(t *testing.T) {
	_, err := Extract([]byte{0x00, 0x01, 0x02, 0x03}, "png")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindCorruptFile, extractErr.Kind)
}

// buildPDF assembles a minimal PDF from numbered objects, computing the
// xref table offsets so the file is structurally valid.
func buildPDF(t *testing.T, objects ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos)

	return buf.Bytes()
}

func TestExtractPDFTextLayer(t *testing.T) {
	stream := "BT /F1 24 Tf 72 720 Td (Hello PDF) Tj ET"
	content := buildPDF(t,
		"<</Type/Catalog/Pages 2 0 R>>",
		"<</Type/Pages/Kids[3 0 R]/Count 1>>",
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Contents 4 0 R/Resources<</Font<</F1 5 0 R>>>>>>",
		fmt.Sprintf("<</Length %d>>\nstream\n%s\nendstream", len(stream), stream),
		"<</Type/Font/Subtype/Type1/BaseFont/Helvetica>>",
	)

	text, err := Extract(content, "pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF")
}

func TestExtractScannedPDFYieldsEmptyText(t *testing.T) {
	// A structurally valid page without a text layer is a success carrying
	// no text, not an error; downstream query processing reports it.
	content := buildPDF(t,
		"<</Type/Catalog/Pages 2 0 R>>",
		"<</Type/Pages/Kids[3 0 R]/Count 1>>",
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>",
	)

	text, err := Extract(content, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestPoolRejectsUnsupportedBeforeDispatch(t *testing.T) {
	pool := NewPool(1, zap.NewNop())

	_, err := pool.Extract(context.Background(), []byte("data"), "xlsx")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindUnsupportedFormat, extractErr.Kind)
}

func TestPoolExtractsDocx(t *testing.T) {
	content := buildDocx(t, `<w:p><w:r><w:t>hello from the pool</w:t></w:r></w:p>`)
	pool := NewPool(2, zap.NewNop())

	text, err := pool.Extract(context.Background(), content, ".DOCX")
	require.NoError(t, err)
	assert.Equal(t, "hello from the pool", text)
}

// buildDocx assembles a minimal OOXML container with the given document body.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)

	_, err = f.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractDocxParagraphs(t *testing.T) {
	content := buildDocx(t, strings.Join([]string{
		`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>`,
		`<w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>`,
		`<w:p></w:p>`,
		`<w:p><w:r><w:t>Third</w:t></w:r></w:p>`,
	}, ""))

	text, err := Extract(content, "docx")
	require.NoError(t, err)

	// Paragraphs joined by newlines in document order; the empty paragraph
	// contributes nothing.
	assert.Equal(t, "First paragraph\nSecond paragraph\nThird", text)
}

func TestExtractDocxSkipsTables(t *testing.T) {
	content := buildDocx(t, strings.Join([]string{
		`<w:p><w:r><w:t>Before table</w:t></w:r></w:p>`,
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell text</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`,
		`<w:p><w:r><w:t>After table</w:t></w:r></w:p>`,
	}, ""))

	text, err := Extract(content, "docx")
	require.NoError(t, err)
	assert.Equal(t, "Before table\nAfter table", text)
	assert.NotContains(t, text, "cell text")
}

func TestExtractDocxTabsAndBreaks(t *testing.T) {
	content := buildDocx(t,
		`<w:p><w:r><w:t>left</w:t><w:tab/><w:t>right</w:t><w:br/><w:t>next line</w:t></w:r></w:p>`)

	text, err := Extract(content, "docx")
	require.NoError(t, err)
	assert.Equal(t, "left\tright\nnext line", text)
}

func TestExtractDocxEmptyDocument(t *testing.T) {
	content := buildDocx(t, "")

	text, err := Extract(content, "docx")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractDocxNotAZip(t *testing.T) {
	_, err := Extract([]byte("plain text pretending to be docx"), "docx")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindCorruptFile, extractErr.Kind)
}

func TestExtractDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("some/other/file.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<root/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Extract(buf.Bytes(), "docx")
	require.Error(t, err)

	var extractErr *Error
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, KindCorruptFile, extractErr.Kind)
}

func TestExtractLegacyDocDispatchesToDocx(t *testing.T) {
	// .doc shares the OOXML path; real pre-OOXML binaries report corrupt
	content := buildDocx(t, `<w:p><w:r><w:t>renamed docx</w:t></w:r></w:p>`)

	text, err := Extract(content, "doc")
	require.NoError(t, err)
	assert.Equal(t, "renamed docx", text)
}
