package diff

import (
	"bytes"
	"sort"
	"strings"

	"github.com/nao1215/epubdiff/internal/epub"
	"github.com/nao1215/epubdiff/internal/model"
)

// markupExtensions are the path suffixes classified as markup documents.
var markupExtensions = []string{".html", ".xhtml"}

// IsMarkupPath reports whether a path is classified as a markup document.
// The mimetype entry never is, whatever its name suggests.
func IsMarkupPath(p string) bool {
	if p == epub.MimetypePath {
		return false
	}
	lower := strings.ToLower(p)
	for _, ext := range markupExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DiffContents reads every path present in both archives and records a
// ChangeRecord for each byte-level divergence. The intersection is
// walked in sorted order so repeated runs produce identical reports.
//
// A path that cannot be read on either side is skipped: the file-set
// stage has already accounted for listing problems, and a read failure
// here has nothing further to say about content.
func DiffContents(original, translated *epub.Archive) []model.ChangeRecord {
	translatedSet := translated.FileSet()

	var common []string
	for _, p := range original.Files() {
		if _, ok := translatedSet[p]; ok {
			common = append(common, p)
		}
	}
	sort.Strings(common)

	var changes []model.ChangeRecord
	for _, p := range common {
		dataO, err := original.ReadBytes(p)
		if err != nil {
			continue
		}
		dataT, err := translated.ReadBytes(p)
		if err != nil {
			continue
		}
		if bytes.Equal(dataO, dataT) {
			continue
		}
		changes = append(changes, model.ChangeRecord{
			Path:             p,
			OriginalSize:     len(dataO),
			TranslatedSize:   len(dataT),
			OriginalDigest:   model.ContentDigest(dataO),
			TranslatedDigest: model.ContentDigest(dataT),
			Markup:           IsMarkupPath(p),
		})
	}
	return changes
}

// MarkupChanges filters the markup-classified records, capped at limit.
// These are the documents the markup validator inspects.
func MarkupChanges(changes []model.ChangeRecord, limit int) []model.ChangeRecord {
	var markup []model.ChangeRecord
	for _, c := range changes {
		if !c.Markup {
			continue
		}
		markup = append(markup, c)
		if len(markup) == limit {
			break
		}
	}
	return markup
}
