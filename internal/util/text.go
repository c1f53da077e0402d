// Package util provides common text helpers.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a name to a lowercase, hyphenated, ASCII-only slug.
// Accented letters keep their base letter.
//
//	"Paris Trip"          -> "paris-trip"
//	"Café de Flore 2024"  -> "cafe-de-flore-2024"
//	"São Paulo / Rio"     -> "sao-paulo-rio"
func Slugify(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CleanTag trims tag and applies NFC normalization, the form tags are
// stored and looked up in.
func CleanTag(tag string) string {
	return norm.NFC.String(strings.TrimSpace(tag))
}

// CleanTags trims each tag, drops empty ones and removes duplicates while
// keeping first-seen order. Tags are compared after NFC normalization so
// composed and decomposed spellings collapse to one tag. The result is never nil.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = CleanTag(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
