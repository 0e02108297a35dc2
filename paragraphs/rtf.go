/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package paragraphs

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Groups opened by one of these control words hold document metadata
// rather than script text.
var rtfDestinations = map[string]bool{
	"colorschememapping": true,
	"colortbl":           true,
	"datastore":          true,
	"fonttbl":            true,
	"footer":             true,
	"generator":          true,
	"header":             true,
	"info":               true,
	"latentstyles":       true,
	"listoverridetable":  true,
	"listtable":          true,
	"pict":               true,
	"rsidtbl":            true,
	"stylesheet":         true,
	"themedata":          true,
	"xmlnsdecl":          true,
}

var rtfSymbols = map[string]string{
	"par":       "\n\n",
	"line":      "\n",
	"tab":       "\t",
	"emdash":    "—",
	"endash":    "–",
	"bullet":    "•",
	"lquote":    "‘",
	"rquote":    "’",
	"ldblquote": "“",
	"rdblquote": "”",
}

// Single-byte code pages a document may declare with \ansicpgN. \'hh
// escapes are decoded through the declared page; anything else falls back
// to Windows-1252, the RTF default.
var rtfCodePages = map[int]*charmap.Charmap{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
}

// rtfText strips control words and groups from an RTF document, keeping
// its visible text.
func rtfText(src string) string {
	var (
		out   strings.Builder
		stack []bool
		skip  bool
		// characters still to drop after a \uN escape
		pending int
	)
	cp := charmap.Windows1252

	emit := func(s string) {
		if skip {
			return
		}
		if pending > 0 {
			pending--
			return
		}
		out.WriteString(s)
	}

	for i := 0; i < len(src); i++ {
		c := src[i]

		switch c {
		case '{':
			stack = append(stack, skip)
		case '}':
			if n := len(stack); n > 0 {
				skip = stack[n-1]
				stack = stack[:n-1]
			}
		case '\r', '\n':
		case '\\':
			if i+1 >= len(src) {
				continue
			}
			i++
			c = src[i]

			switch {
			case c == '\\' || c == '{' || c == '}':
				emit(string(c))
			case c == '\'':
				if i+2 < len(src) {
					if b, err := strconv.ParseUint(src[i+1:i+3], 16, 8); err == nil {
						emit(string(cp.DecodeByte(byte(b))))
					}
					i += 2
				}
			case c == '*':
				skip = true
			case c == '~':
				emit(" ")
			case c == '_':
				emit("-")
			case c == '\r' || c == '\n':
				emit("\n\n")
			case isLetter(c):
				start := i
				for i < len(src) && isLetter(src[i]) {
					i++
				}
				word := src[start:i]

				paramStart := i
				if i < len(src) && src[i] == '-' {
					i++
				}
				for i < len(src) && src[i] >= '0' && src[i] <= '9' {
					i++
				}
				param := src[paramStart:i]

				// A single space delimits the control word and is not text.
				if i >= len(src) || src[i] != ' ' {
					i--
				}

				switch {
				case rtfDestinations[word]:
					skip = true
				case word == "ansicpg":
					if n, err := strconv.Atoi(param); err == nil && rtfCodePages[n] != nil {
						cp = rtfCodePages[n]
					}
				case word == "mac":
					cp = charmap.Macintosh
				case word == "pc":
					cp = charmap.CodePage437
				case word == "pca":
					cp = charmap.CodePage850
				case word == "u":
					n, err := strconv.Atoi(param)
					if err != nil {
						continue
					}
					if n < 0 {
						n += 65536
					}
					emit(string(rune(n)))
					if !skip {
						pending = 1
					}
				default:
					if s, ok := rtfSymbols[word]; ok {
						emit(s)
					}
				}
			}
		default:
			_, size := utf8.DecodeRuneInString(src[i:])
			emit(src[i : i+size])
			i += size - 1
		}
	}

	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
