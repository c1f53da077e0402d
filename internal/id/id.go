// Package id generates album identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/tripframe/tripframe-server/internal/util"
)

const (
	// suffixAlphabet keeps album ids lowercase so they double as object key prefixes.
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 8

	fallbackSlug = "album"
	maxSlugLen   = 48
)

// AlbumID derives an album id from its name: the slugified name followed by
// a short random suffix, e.g. "paris-trip-k3x9q2ab". Names that slugify to
// nothing use "album" as the stem.
func AlbumID(name string) (string, error) {
	stem := util.Slugify(name)
	if len(stem) > maxSlugLen {
		stem = strings.TrimRight(stem[:maxSlugLen], "-")
	}
	if stem == "" {
		stem = fallbackSlug
	}

	suffix, err := gonanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		return "", fmt.Errorf("generate album id: %w", err)
	}
	return stem + "-" + suffix, nil
}
