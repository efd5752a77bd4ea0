package directory

import "strings"

const flagBase = 0x1F1E6 // regional indicator A

// Flag renders an ISO2 code as its flag emoji.
func Flag(iso2 string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(iso2) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(flagBase + c - 'A')
	}
	return b.String()
}

// CodeFromFlag is the inverse of Flag; ok is false when the input is
// not a two-rune regional indicator sequence.
func CodeFromFlag(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) != 2 {
		return "", false
	}

	var b strings.Builder
	for _, r := range runes {
		if r < flagBase || r > flagBase+25 {
			return "", false
		}
		b.WriteRune(r - flagBase + 'A')
	}
	return b.String(), true
}
