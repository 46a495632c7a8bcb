package model

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// digestPrefixLen is the number of hex characters kept from a content
// digest. Ten characters are enough to tell two revisions of the same
// file apart in a human-readable report.
const digestPrefixLen = 10

// ChangeRecord describes one byte-level content divergence between the
// original and translated archives. It is a value object: built once by
// the content differ and read thereafter.
type ChangeRecord struct {
	// Path is the normalized archive path of the changed file.
	Path string `json:"path"`

	// OriginalSize is the byte length of the original side.
	OriginalSize int `json:"original_size"`

	// TranslatedSize is the byte length of the translated side.
	TranslatedSize int `json:"translated_size"`

	// OriginalDigest is a short hex digest prefix of the original bytes.
	OriginalDigest string `json:"original_digest"`

	// TranslatedDigest is a short hex digest prefix of the translated bytes.
	TranslatedDigest string `json:"translated_digest"`

	// Markup is true if the path is classified as a markup document
	// (.html or .xhtml). The mimetype entry is never markup.
	Markup bool `json:"markup"`
}

// String renders the record in the report's one-line format.
func (c ChangeRecord) String() string {
	return fmt.Sprintf("%s  (%d -> %d bytes)  %s -> %s",
		c.Path, c.OriginalSize, c.TranslatedSize, c.OriginalDigest, c.TranslatedDigest)
}

// ContentDigest returns the short hex digest prefix used in ChangeRecords.
// BLAKE3 is used for speed; the digest only needs to distinguish content
// revisions, not resist attack.
func ContentDigest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])[:digestPrefixLen]
}
