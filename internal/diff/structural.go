package diff

import (
	"sort"
	"strings"

	"github.com/nao1215/epubdiff/internal/epub"
	"github.com/nao1215/epubdiff/internal/model"
)

// FileSetDiff holds the two-directional set difference between the
// archives' file listings. Both slices are sorted for determinism.
type FileSetDiff struct {
	// MissingInTranslated lists paths only the original has.
	MissingInTranslated []string

	// ExtraInTranslated lists paths only the translated archive has.
	ExtraInTranslated []string
}

// DiffFileSets computes the set difference in both directions.
// Swapping the inputs yields mirrored missing/extra lists.
func DiffFileSets(original, translated map[string]struct{}) FileSetDiff {
	return FileSetDiff{
		MissingInTranslated: setDifference(original, translated),
		ExtraInTranslated:   setDifference(translated, original),
	}
}

// setDifference returns the sorted members of a that are not in b.
func setDifference(a, b map[string]struct{}) []string {
	var result []string
	for p := range a {
		if _, ok := b[p]; !ok {
			result = append(result, p)
		}
	}
	sort.Strings(result)
	return result
}

// CheckBootstrap runs the four independent mimetype invariant checks on
// one archive: the entry exists, its decoded content is exactly the EPUB
// MIME string, it is first in listing order, and it is stored without
// compression. All checks run even when earlier ones fail so that every
// violated invariant surfaces as its own finding.
func CheckBootstrap(a *epub.Archive) model.BootstrapStatus {
	status := model.BootstrapStatus{}

	entry, ok := a.Entry(epub.MimetypePath)
	if !ok {
		return status
	}
	status.Present = true
	status.First = entry.Index == 0
	status.Stored = entry.Stored

	if text, err := a.ReadText(epub.MimetypePath, "ascii"); err == nil {
		status.Content = strings.TrimSpace(text)
		status.ContentValid = status.Content == epub.MimetypeContent
	}
	return status
}

// BootstrapViolations renders the violated invariants of a status as
// finding messages. A fully conforming archive yields none.
func BootstrapViolations(status model.BootstrapStatus) []string {
	if !status.Present {
		return []string{"missing mimetype file"}
	}
	var violations []string
	if !status.ContentValid {
		violations = append(violations, "mimetype content invalid")
	}
	if !status.First {
		violations = append(violations, "mimetype is not the first entry")
	}
	if !status.Stored {
		violations = append(violations, "mimetype must be stored without compression")
	}
	return violations
}

// DiffManifests computes the set difference between two manifests,
// reusing the file-set policy on resolved resource paths.
func DiffManifests(original, translated *epub.Package) FileSetDiff {
	return DiffFileSets(original.ManifestSet(), translated.ManifestSet())
}

// DiffMediaTypes compares declared media types for every resource
// present in both manifests. The result is sorted by path.
func DiffMediaTypes(original, translated *epub.Package) []model.MediaTypeDiff {
	var diffs []model.MediaTypeDiff
	translatedSet := translated.ManifestSet()
	for _, p := range original.ManifestPaths {
		if _, ok := translatedSet[p]; !ok {
			continue
		}
		mtO := original.MediaTypes[p]
		mtT := translated.MediaTypes[p]
		if mtO != mtT {
			diffs = append(diffs, model.MediaTypeDiff{Path: p, Original: mtO, Translated: mtT})
		}
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return diffs
}

// DivergenceIndex returns the first position at which the two reading
// orders differ, scanning up to the shorter length. When one sequence is
// a non-strict prefix of the other (or they are equal) it returns
// model.NoDivergence; a pure length difference is reported separately.
func DivergenceIndex(original, translated []string) int {
	n := min(len(original), len(translated))
	for i := 0; i < n; i++ {
		if original[i] != translated[i] {
			return i
		}
	}
	return model.NoDivergence
}

// UnresolvedReferences returns the manifest paths that do not exist in
// the archive's own file set, sorted for determinism.
func UnresolvedReferences(manifestPaths []string, fileSet map[string]struct{}) []string {
	var unresolved []string
	for _, p := range manifestPaths {
		if _, ok := fileSet[p]; !ok {
			unresolved = append(unresolved, p)
		}
	}
	sort.Strings(unresolved)
	return unresolved
}
