/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package paragraphs

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(ps []Paragraph) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Text)
	}
	return out
}

func TestParseText(t *testing.T) {
	ps, err := Parse([]byte("First line\ncontinues\n\n\n  Second  \n\n\n\nThird"), "script.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{"First line\ncontinues", "Second", "Third"}, texts(ps))
	for i, p := range ps {
		assert.Equal(t, SourceTxt, p.Meta.Source)
		assert.Equal(t, i, p.Meta.Index)
	}
}

func TestParseTextCRLF(t *testing.T) {
	ps, err := Parse([]byte("One\r\n\r\nTwo\r\n"), "SCRIPT.TXT")
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two"}, texts(ps))
}

func TestParseUnknownExtensionIsText(t *testing.T) {
	ps, err := Parse([]byte("Hello"), "notes")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, SourceTxt, ps[0].Meta.Source)
}

func TestParseInvalidUTF8(t *testing.T) {
	ps, err := Parse([]byte{'a', 0xff, 'b'}, "bad.txt")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "a\uFFFDb", ps[0].Text)
}

func TestParseUTF16WithBOM(t *testing.T) {
	// "Hi\n\nYo" in UTF-16LE with a byte order mark.
	data := []byte{0xff, 0xfe, 'H', 0, 'i', 0, '\n', 0, '\n', 0, 'Y', 0, 'o', 0}

	ps, err := Parse(data, "win.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi", "Yo"}, texts(ps))
}

func TestParseEmpty(t *testing.T) {
	ps, err := Parse(nil, "empty.txt")
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}

func TestParseRTF(t *testing.T) {
	doc := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}{\colortbl;\red0\green0\blue0;}
{\*\generator Writer;}\f0\pard Hello \b world\b0\par
Caf\'e9 \{ok\}\par
\u8220?quoted\u8221?\line end\par}`

	ps, err := Parse([]byte(doc), "script.rtf")
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello world", "Café {ok}", "“quoted”\nend"}, texts(ps))
	for _, p := range ps {
		assert.Equal(t, SourceRTF, p.Meta.Source)
	}
}

func TestParseRTFCodePage(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"windows-1252 quotes and dashes", `{\rtf1\ansi\ansicpg1252 \'93Hello\'94 \'96 caf\'e9}`, "\u201cHello\u201d \u2013 caf\u00e9"},
		{"default page", `{\rtf1\ansi \'93Hi\'94}`, "\u201cHi\u201d"},
		{"cyrillic", `{\rtf1\ansi\ansicpg1251 \'cf\'f0\'e8\'e2\'e5\'f2}`, "\u041f\u0440\u0438\u0432\u0435\u0442"},
		{"unsupported page falls back", `{\rtf1\ansi\ansicpg932 \'93x\'94}`, "\u201cx\u201d"},
		{"mac roman", `{\rtf1\mac \'d2x\'d3}`, "\u201cx\u201d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := Parse([]byte(tt.doc), "script.rtf")
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, texts(ps))
		})
	}
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docxBody)
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>`+
			`<w:r><w:t>Good </w:t></w:r><w:r><w:t>evening.</w:t></w:r></w:p>`+
			`<w:p></w:p>`+
			`<w:p><w:r><w:t>Col</w:t><w:tab/><w:t>umn</w:t><w:br/><w:t>next</w:t></w:r></w:p>`)

	ps, err := Parse(data, "Script.DOCX")
	require.NoError(t, err)

	assert.Equal(t, []string{"Good evening.", "Col\tumn\nnext"}, texts(ps))
	assert.Equal(t, SourceDocx, ps[1].Meta.Source)
	assert.Equal(t, 1, ps[1].Meta.Index)
}

func TestParseDocxUnreadable(t *testing.T) {
	_, err := Parse([]byte("not a zip"), "broken.docx")
	assert.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestParseDocxBodyTooLarge(t *testing.T) {
	limit := maxDocxBody
	maxDocxBody = 512
	t.Cleanup(func() { maxDocxBody = limit })

	data := buildDocx(t, `<w:p><w:r><w:t>`+strings.Repeat("a", 4096)+`</w:t></w:r></w:p>`)

	_, err := Parse(data, "bomb.docx")
	assert.ErrorIs(t, err, ErrUnreadableDocument)

	ps, err := Parse(buildDocx(t, `<w:p><w:r><w:t>small</w:t></w:r></w:p>`), "fine.docx")
	require.NoError(t, err)
	assert.Equal(t, []string{"small"}, texts(ps))
}
