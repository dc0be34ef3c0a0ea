package skilldoc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// SkillID derives a stable skill identifier: the slugged name followed by a
// four-digit hash of the source path and name. The same skill imported from
// the same document always gets the same ID.
func SkillID(name, sourcePath string) string {
	return fmt.Sprintf("%s_%s", Slug(name), hash4(sourcePath+name))
}

// Slug lower-cases s, strips diacritics and collapses every run of
// characters outside [a-z0-9] into a single underscore.
func Slug(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

// hash4 is a 31-multiplier rolling hash over UTF-16 code units, reduced to
// four decimal digits. Existing profile files carry IDs built this way.
func hash4(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	n := h % 10000
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%04d", n)
}
