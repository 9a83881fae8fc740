package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// genericSuffixes are trailing words that describe the kind of property
// rather than identify it. Longest first so "shopping centre" wins over "centre".
var genericSuffixes = []string{
	"designer outlet village",
	"shopping centre",
	"shopping center",
	"shopping park",
	"shopping mall",
	"retail park",
	"outlet centre",
	"outlet center",
	"outlet village",
	"designer outlet",
	"centre",
	"center",
	"mall",
}

var punctuation = strings.NewReplacer(
	"&", " and ",
	"'", "",
	"’", "",
)

// Clean folds a name to its comparable form: accents removed, lower case,
// "&" spelled out, punctuation replaced by spaces and whitespace collapsed.
func Clean(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	name = punctuation.Replace(strings.ToLower(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, name)

	return strings.Join(strings.Fields(name), " ")
}

// StripSuffix removes one trailing generic suffix from a cleaned name,
// unless nothing would be left.
func StripSuffix(name string) string {
	for _, s := range genericSuffixes {
		if strings.HasSuffix(name, " "+s) {
			return strings.TrimSpace(strings.TrimSuffix(name, s))
		}
	}
	return name
}

// NormalizeName cleans a property name and strips its generic suffix.
//
//	"The Trafford Centre"        -> "the trafford"
//	"Meadowhall Shopping Centre" -> "meadowhall"
//	"Fosse Park"                 -> "fosse park"
func NormalizeName(name string) string {
	return StripSuffix(Clean(name))
}
