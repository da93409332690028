// Package textenc normalizes raw document bytes to UTF-8 before
// structure analysis. Candidate encodings are tried in a fixed order;
// the first one that decodes cleanly and yields a plausible ratio of
// printable characters wins.
package textenc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
)

// DecodeError is returned when no candidate encoding produced a
// plausible decoding of the input.
type DecodeError struct {
	Tried []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("undecodable content: tried %s", strings.Join(e.Tried, ", "))
}

// minPrintableRatio is the share of printable runes a decoding must
// yield to be accepted. Legacy East-Asian decoders map many invalid
// byte pairs to valid but obscure code points, so a clean transform
// alone is not proof of the right encoding.
const minPrintableRatio = 0.90

type candidate struct {
	name string
	enc  encoding.Encoding // nil means plain UTF-8
}

var candidates = []candidate{
	{"utf-8", nil},
	{"big5", traditionalchinese.Big5},
	{"gb18030", simplifiedchinese.GB18030},
	{"gbk", simplifiedchinese.GBK},
	{"utf-16le", xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM)},
	{"utf-16be", xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM)},
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Normalize decodes raw bytes to UTF-8, returning the decoded text and
// the name of the encoding that was used. Control characters other than
// newline, carriage return and tab are stripped from the result.
func Normalize(raw []byte) (string, string, error) {
	if len(raw) == 0 {
		return "", "utf-8", nil
	}

	// A byte order mark settles the question outright.
	if bytes.HasPrefix(raw, bomUTF8) {
		s := string(raw[len(bomUTF8):])
		if utf8.ValidString(s) {
			return sanitize(s), "utf-8", nil
		}
	}
	if bytes.HasPrefix(raw, bomUTF16LE) {
		if s, ok := decodeWith(xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM), raw); ok {
			return sanitize(s), "utf-16le", nil
		}
	}
	if bytes.HasPrefix(raw, bomUTF16BE) {
		if s, ok := decodeWith(xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM), raw); ok {
			return sanitize(s), "utf-16be", nil
		}
	}

	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tried = append(tried, c.name)

		if c.enc == nil {
			if utf8.Valid(raw) && plausible(string(raw)) {
				return sanitize(string(raw)), c.name, nil
			}
			continue
		}

		s, ok := decodeWith(c.enc, raw)
		if ok && plausible(s) {
			return sanitize(s), c.name, nil
		}
	}

	return "", "", &DecodeError{Tried: tried}
}

// decodeWith runs one decoder and reports whether the transform
// completed without any invalid-sequence replacement.
func decodeWith(enc encoding.Encoding, raw []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	s := string(out)
	// Decoders substitute U+FFFD for byte sequences they cannot map.
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	return s, true
}

// plausible checks that the decoded text is mostly printable.
func plausible(s string) bool {
	if s == "" {
		return false
	}
	total, printable := 0, 0
	for _, r := range s {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable)/float64(total) >= minPrintableRatio
}

// sanitize drops control characters except newline, CR and tab.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
