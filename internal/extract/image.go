package extract

import (
	"bytes"
	"image"

	// Decoders for the recognized raster formats. Registration is what
	// lets image.DecodeConfig validate the bytes before OCR runs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/otiai10/gosseract/v2"
)

// extractImage runs OCR over a raster image and returns the recognized text
// verbatim, with no post-OCR correction. The bytes are decode-checked first
// so a corrupt file is distinguished from a missing OCR engine: decode
// failures are the file's fault, tesseract failures are the host's.
func extractImage(content []byte) (string, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		return "", newError(KindCorruptFile, "decode image: %v", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(content); err != nil {
		return "", newError(KindOCRUnavailable, "tesseract rejected image: %v", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", newError(KindOCRUnavailable, "tesseract: %v", err)
	}

	return text, nil
}
