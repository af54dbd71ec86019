package step

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// codePages maps the \P?\ directive letter to its ISO 8859 part.
var codePages = map[byte]*charmap.Charmap{
	'A': charmap.ISO8859_1,
	'B': charmap.ISO8859_2,
	'C': charmap.ISO8859_3,
	'D': charmap.ISO8859_4,
	'E': charmap.ISO8859_5,
	'F': charmap.ISO8859_6,
	'G': charmap.ISO8859_7,
	'H': charmap.ISO8859_8,
	'I': charmap.ISO8859_9,
}

var (
	utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf32BE = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
)

// DecodeString resolves the control directives of an exchange-file string
// body (quotes already stripped, doubled quotes already collapsed):
// \\, \S\c, \P?\, \X\hh, \X2\...\X0\ and \X4\...\X0\.
// Bytes outside directives are taken as UTF-8 when valid and as ISO 8859-1
// otherwise.
func DecodeString(raw []byte) (string, error) {
	if bytes.IndexByte(raw, '\\') < 0 {
		return plainText(raw), nil
	}

	var out strings.Builder
	var pending []byte
	page := charmap.ISO8859_1

	flush := func() {
		if len(pending) > 0 {
			out.WriteString(plainText(pending))
			pending = pending[:0]
		}
	}

	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			pending = append(pending, raw[i])
			i++
			continue
		}
		rest := raw[i:]
		switch {
		case bytes.HasPrefix(rest, []byte(`\\`)):
			pending = append(pending, '\\')
			i += 2
		case bytes.HasPrefix(rest, []byte(`\S\`)) && len(rest) >= 4:
			flush()
			r, err := decodeWith(page, []byte{rest[3] + 128})
			if err != nil {
				return "", err
			}
			out.WriteString(r)
			i += 4
		case len(rest) >= 4 && rest[1] == 'P' && rest[3] == '\\':
			cp, ok := codePages[rest[2]]
			if !ok {
				return "", fmt.Errorf("unknown code page directive %q", rest[:4])
			}
			flush()
			page = cp
			i += 4
		case bytes.HasPrefix(rest, []byte(`\X2\`)):
			flush()
			n, text, err := decodeWide(rest[4:], 4, utf16BE)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
			i += 4 + n
		case bytes.HasPrefix(rest, []byte(`\X4\`)):
			flush()
			n, text, err := decodeWide(rest[4:], 8, utf32BE)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
			i += 4 + n
		case bytes.HasPrefix(rest, []byte(`\X\`)) && len(rest) >= 5:
			b, err := hex.DecodeString(string(rest[3:5]))
			if err != nil {
				return "", fmt.Errorf("invalid \\X\\ directive: %w", err)
			}
			flush()
			r, err := decodeWith(charmap.ISO8859_1, b)
			if err != nil {
				return "", err
			}
			out.WriteString(r)
			i += 5
		default:
			// A lone backslash is kept literally; some exporters write paths unescaped.
			pending = append(pending, '\\')
			i++
		}
	}
	flush()
	return out.String(), nil
}

// decodeWide decodes hex groups of width digits up to the \X0\ terminator and
// returns the number of bytes consumed including the terminator.
func decodeWide(data []byte, width int, enc encoding.Encoding) (int, string, error) {
	end := bytes.Index(data, []byte(`\X0\`))
	if end < 0 {
		return 0, "", fmt.Errorf("unterminated wide-character directive")
	}
	digits := data[:end]
	if len(digits)%width != 0 {
		return 0, "", fmt.Errorf("wide-character directive has %d hex digits, want a multiple of %d", len(digits), width)
	}
	buf := make([]byte, hex.DecodedLen(len(digits)))
	if _, err := hex.Decode(buf, digits); err != nil {
		return 0, "", fmt.Errorf("invalid wide-character directive: %w", err)
	}
	text, err := enc.NewDecoder().Bytes(buf)
	if err != nil {
		return 0, "", err
	}
	return end + 4, string(text), nil
}

func decodeWith(cm *charmap.Charmap, b []byte) (string, error) {
	out, err := cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func plainText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := decodeWith(charmap.ISO8859_1, b)
	if err != nil {
		return string(b)
	}
	return s
}

// EncodeString produces a string body for writing: quotes are doubled,
// backslashes escaped, and every run of characters outside printable ASCII
// is written as \X2\...\X0\.
func EncodeString(s string) string {
	var out strings.Builder
	var wide []rune

	flushWide := func() {
		if len(wide) == 0 {
			return
		}
		encoded, err := utf16BE.NewEncoder().Bytes([]byte(string(wide)))
		if err == nil {
			out.WriteString(`\X2\`)
			out.WriteString(strings.ToUpper(hex.EncodeToString(encoded)))
			out.WriteString(`\X0\`)
		}
		wide = wide[:0]
	}

	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			wide = append(wide, r)
			continue
		}
		flushWide()
		switch r {
		case '\'':
			out.WriteString("''")
		case '\\':
			out.WriteString(`\\`)
		default:
			out.WriteRune(r)
		}
	}
	flushWide()
	return out.String()
}
