package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPart = "word/document.xml"

	// docxExpansionLimit bounds the decompressed body relative to the upload limit.
	docxExpansionLimit = 20
)

// extractDOCX walks the WordprocessingML body. Run text is joined with run
// tabs and breaks kept, and every paragraph ends with a newline. A body that
// decompresses to more than maxBodySize bytes is rejected as corrupted.
func extractDOCX(data []byte, maxBodySize int64) (*Result, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: %s not found", ErrCorruptedDocument, docxBodyPart)
	}

	if body.UncompressedSize64 > uint64(maxBodySize) {
		return nil, fmt.Errorf("%w: %s expands to %d bytes, limit %d", ErrCorruptedDocument, docxBodyPart, body.UncompressedSize64, maxBodySize)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
	}
	defer rc.Close()

	// Bounded independently of the size recorded in the header.
	limited := &io.LimitedReader{R: rc, N: maxBodySize + 1}
	text, err := docxText(limited)
	if limited.N <= 0 {
		return nil, fmt.Errorf("%w: %s expands beyond %d bytes", ErrCorruptedDocument, docxBodyPart, maxBodySize)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedDocument, err)
	}
	return &Result{Text: text, Method: MethodDOCX}, nil
}

func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inRun  bool
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
