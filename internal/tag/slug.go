package tag

import (
	"strings"
	"unicode"
)

// Slugify derives the URL-safe key for a tag name: lower-cased, with every
// run of non-alphanumeric characters collapsed into a single hyphen and no
// leading or trailing hyphen. The derivation is deterministic, so two names
// that normalize to the same slug collide.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}

	return b.String()
}
