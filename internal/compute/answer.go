package compute

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer prepares learner input for comparison: NFKC normalization,
// surrounding-whitespace trim, and folding of every wave-dash/tilde/figure-dash
// variant to a plain ASCII tilde.
func NormalizeAnswer(s string) string {
	s = norm.NFKC.String(s)
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '〜', '～', '〰', '~':
			return '~'
		}
		if r >= 0x2012 && r <= 0x2015 { // figure dash through horizontal bar
			return '~'
		}
		return r
	}, s)
}

// CheckAnswer reports whether input matches expected after normalization.
// Exact comparison only; there is no partial credit.
func CheckAnswer(input, expected string) bool {
	return NormalizeAnswer(input) == NormalizeAnswer(expected)
}
