/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package paragraphs turns uploaded scripts into the ordered paragraph
// sequence shown on the prompters.
package paragraphs

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source names the decoder that produced a paragraph.
type Source string

const (
	SourceDocx Source = "docx"
	SourceRTF  Source = "rtf"
	SourceTxt  Source = "txt"
)

var ErrUnreadableDocument = errors.New("unreadable document")

type Meta struct {
	Source Source `json:"source"`
	Index  int    `json:"index"`
}

// Paragraph is one block of script text. Paragraphs are never modified
// once produced.
type Paragraph struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// Parse picks a decoder from the file extension. Anything that is not a
// .docx or .rtf file is read as text. Only a .docx archive that cannot be
// opened returns an error; every other input yields a, possibly empty,
// sequence.
func Parse(data []byte, filename string) ([]Paragraph, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		text, err := docxText(data)
		if err != nil {
			return nil, err
		}

		return split(text, SourceDocx), nil
	case ".rtf":
		return split(rtfText(decode(data)), SourceRTF), nil
	default:
		return split(decode(data), SourceTxt), nil
	}
}

// decode reads UTF-8, or UTF-16 when a byte order mark says so. Invalid
// sequences become U+FFFD.
func decode(data []byte) string {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}

	return string(out)
}

func split(text string, source Source) []Paragraph {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	paragraphs := []Paragraph{}
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		paragraphs = append(paragraphs, Paragraph{
			Text: part,
			Meta: Meta{Source: source, Index: len(paragraphs)},
		})
	}

	return paragraphs
}
