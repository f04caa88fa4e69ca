package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// romanRe matches II through IX after a space. A leading numeral ("VII Days")
// and the single letters I and X ("I Robot", "SPY x FAMILY") are left alone.
var romanRe = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanValues = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// titleReplacer turns symbols that carry meaning in titles into words or
// spaces before the remaining punctuation is dropped.
var titleReplacer = strings.NewReplacer(
	"&", " and ",
	"×", " x ",
	"-", " ",
	"~", " ",
	".", " ",
	"・", " ",
	"·", " ",
	"'", "",
	"’", "",
)

var leadingArticles = []string{"the ", "a ", "an "}

// latinMarks strips combining marks. It is only applied to Latin letters so
// kana voicing marks survive.
var latinMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeRomanNumerals rewrites the numerals II-IX as digits.
func NormalizeRomanNumerals(s string) string {
	return romanRe.ReplaceAllStringFunc(s, func(match string) string {
		if n, ok := romanValues[strings.ToLower(match[1:])]; ok {
			return " " + n
		}
		return match
	})
}

// CleanTitle reduces a title to a lowercase matching key. Full-width forms
// are folded, Latin diacritics and punctuation removed, roman numerals turned
// into digits and a leading article dropped from each colon-separated part.
func CleanTitle(title string) string {
	s := strings.ToLower(width.Fold.String(title))
	s = NormalizeRomanNumerals(s)
	s = foldLatin(s)
	s = titleReplacer.Replace(s)

	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(part)
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.Join(parts, " "))

	return strings.Join(strings.Fields(s), " ")
}

func foldLatin(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < unicode.MaxASCII || !unicode.Is(unicode.Latin, r) {
			b.WriteRune(r)
			continue
		}
		folded, _, _ := transform.String(latinMarks, string(r))
		b.WriteString(folded)
	}
	return b.String()
}

func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range leadingArticles {
		if rest, ok := strings.CutPrefix(s, art); ok {
			return rest
		}
	}
	return s
}
