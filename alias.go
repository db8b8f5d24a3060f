package addrbook

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CheckName reports whether name can appear unquoted in an alias file and
// survive being typed at a prompt. ASCII characters must be alphanumeric or
// one of "-_+=."; wider characters must be alphanumeric.
func CheckName(name string) bool {
	for _, r := range name {
		if !nameRuneOK(r) {
			return false
		}
	}

	return name != ""
}

// FixName returns name with every unsafe character replaced by an
// underscore, suitable as a suggestion when CheckName rejects the input.
func FixName(name string) string {
	var b strings.Builder

	for _, r := range name {
		if nameRuneOK(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return b.String()
}

func nameRuneOK(r rune) bool {
	if r >= utf8.RuneSelf {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}

	return r == '-' || r == '_' || r == '+' || r == '=' || r == '.' ||
		('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// TagString renders the alias tags as the comma-joined form used in alias
// files and the %Y format directive.
func (a *Alias) TagString() string {
	return strings.Join(a.Tags, ",")
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empty entries.
func ParseTags(s string) []string {
	var tags []string

	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
