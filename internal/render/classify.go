package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineKind is how a document line is laid out in the PDF.
type LineKind int

const (
	KindBody LineKind = iota
	KindHeading
	KindBullet
	KindBlank
	KindSeparator
)

func (k LineKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindBullet:
		return "bullet"
	case KindBlank:
		return "blank"
	case KindSeparator:
		return "separator"
	default:
		return "body"
	}
}

// DefaultHeadingMaxLength is the exclusive upper bound for heading lines.
const DefaultHeadingMaxLength = 60

var bulletPrefixes = []string{"•", "✓", "✔", "✗", "✘", "★", "·", "-", "*"}

// ClassifyLine decides the layout of one line. Headings are all-caps lines
// shorter than headingMax characters; separators are runs of '=' or '-'.
func ClassifyLine(line string, headingMax int) LineKind {
	if headingMax <= 0 {
		headingMax = DefaultHeadingMaxLength
	}
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return KindBlank
	case isSeparator(trimmed):
		return KindSeparator
	case hasBulletPrefix(trimmed):
		return KindBullet
	case utf8.RuneCountInString(trimmed) < headingMax && isAllCaps(trimmed):
		return KindHeading
	default:
		return KindBody
	}
}

func isSeparator(s string) bool {
	if len(s) < 3 {
		return false
	}
	return strings.Trim(s, "=") == "" || strings.Trim(s, "-") == ""
}

func hasBulletPrefix(s string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// bulletText strips the leading glyph so the renderer can draw its own.
func bulletText(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, p))
		}
	}
	return trimmed
}
