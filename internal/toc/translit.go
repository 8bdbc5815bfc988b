package toc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// translitTable covers Latin letters that have no canonical decomposition.
var translitTable = map[rune]string{
	'ß': "ss", 'ẞ': "SS",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O",
	'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D",
	'ł': "l", 'Ł': "L",
	'ŀ': "l", 'Ŀ': "L",
	'ħ': "h", 'Ħ': "H",
	'ı': "i",
	'ŧ': "t", 'Ŧ': "T",
	'þ': "th", 'Þ': "TH",
	'ĸ': "k",
	'ŋ': "n", 'Ŋ': "N",
}

// Transliterate folds accented Latin letters to their unaccented form.
// Runes outside the Latin blocks are left alone, so kana voicing marks and
// Hangul survive untouched.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := translitTable[r]; ok {
			b.WriteString(rep)
			continue
		}
		if !isLatinExtended(r) {
			b.WriteRune(r)
			continue
		}
		for _, d := range norm.NFD.String(string(r)) {
			if !unicode.Is(unicode.Mn, d) {
				b.WriteRune(d)
			}
		}
	}
	return b.String()
}

func isLatinExtended(r rune) bool {
	return (r >= 0x00C0 && r <= 0x024F) || (r >= 0x1E00 && r <= 0x1EFF)
}
