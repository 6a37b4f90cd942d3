package expr

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s without regard to the process locale.
//
// The string is NFC-normalized first so that composed and decomposed forms of
// the same text fold to the same result. A new Caser is created per call
// because cases.Caser is not safe for concurrent use.
func Fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
