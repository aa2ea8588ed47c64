// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"strings"
	"unicode"
)

// NormalizeTitle returns the canonical comparison form of a title:
// lowercased, punctuation stripped, whitespace runs collapsed to a
// single space, leading and trailing space trimmed. Only ASCII letters,
// digits, and spaces survive, so titles that differ in casing,
// punctuation, or spacing normalize identically. Normalizing an
// already-normalized string returns it unchanged.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
