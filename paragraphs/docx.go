/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package paragraphs

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// maxDocxBody caps the decompressed size of the document body, so a small
// archive cannot expand without bound.
var maxDocxBody int64 = 64 << 20

// docxText returns the raw text of every w:p element, separated by blank
// lines.
func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	f, err := archive.Open(docxBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	defer f.Close()

	var (
		paragraphs []string
		current    strings.Builder
		inRun      bool
		inText     bool
	)

	if info, err := f.Stat(); err == nil && info.Size() > maxDocxBody {
		return "", fmt.Errorf("%w: %s expands to %d bytes", ErrUnreadableDocument, docxBody, info.Size())
	}

	// The declared size can lie; the reader enforces the cap as well.
	body := &io.LimitedReader{R: f, N: maxDocxBody + 1}

	d := xml.NewDecoder(body)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			if body.N <= 0 {
				return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrUnreadableDocument, docxBody, maxDocxBody)
			}
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		if body.N <= 0 {
			return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrUnreadableDocument, docxBody, maxDocxBody)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				// w:tab also appears as a tab stop in paragraph properties.
				if inRun {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return strings.Join(paragraphs, "\n\n"), nil
}
