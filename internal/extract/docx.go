package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// extractDOCX reads paragraph text from word/document.xml inside the OOXML
// zip container, joined by newlines in document order. Tables and headers
// are skipped silently (best effort). Legacy .doc uploads are handled the
// same way; genuinely pre-OOXML binaries fail the zip open and report as
// corrupt.
func extractDOCX(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", newError(KindCorruptFile, "open docx container: %v", err)
	}

	var docXML io.ReadCloser
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			docXML, err = file.Open()
			if err != nil {
				return "", newError(KindCorruptFile, "open word/document.xml: %v", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", newError(KindCorruptFile, "zip archive has no word/document.xml")
	}
	defer docXML.Close()

	text, err := decodeDocumentXML(docXML)
	if err != nil {
		return "", newError(KindCorruptFile, "parse word/document.xml: %v", err)
	}
	return text, nil
}

// decodeDocumentXML walks the WordprocessingML token stream collecting run
// text per paragraph. Matching on Name.Local keeps this independent of the
// w: namespace prefix.
func decodeDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				// Tables are out of scope; skip the whole subtree
				if err := dec.Skip(); err != nil {
					return "", err
				}
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					if para := strings.TrimSpace(current.String()); para != "" {
						paragraphs = append(paragraphs, para)
					}
					inParagraph = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
