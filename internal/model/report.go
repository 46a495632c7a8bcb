package model

import (
	"time"
)

// Side identifies which archive a finding or status refers to.
const (
	SideOriginal   = "original"
	SideTranslated = "translated"
)

// Finding represents a single divergence or invariant violation discovered
// during a comparison run.
type Finding struct {
	// Category is the comparison stage that produced the finding.
	Category Category `json:"category"`

	// CategoryText is the human-readable category name.
	CategoryText string `json:"category_text"`

	// Side is the archive the finding refers to (SideOriginal or
	// SideTranslated), or empty when it concerns both.
	Side string `json:"side,omitempty"`

	// Path is the archive path the finding refers to, if any.
	Path string `json:"path,omitempty"`

	// Message is the human-readable description of the finding.
	Message string `json:"message"`
}

// BootstrapStatus records the result of the four independent mimetype
// invariant checks for one archive. All fields are populated even when an
// earlier check fails, so each violation is reported separately.
type BootstrapStatus struct {
	// Present is true if the mimetype entry exists in the archive.
	Present bool `json:"present"`

	// Content is the decoded, trimmed content of the mimetype entry.
	Content string `json:"content,omitempty"`

	// ContentValid is true if Content equals "application/epub+zip" exactly.
	ContentValid bool `json:"content_valid"`

	// First is true if the entry is first in archive listing order.
	First bool `json:"first"`

	// Stored is true if the entry uses the uncompressed storage mode.
	Stored bool `json:"stored"`
}

// MediaTypeDiff records a resource declared with different media types in
// the two manifests.
type MediaTypeDiff struct {
	// Path is the resolved manifest resource path.
	Path string `json:"path"`

	// Original is the media type declared in the original manifest.
	Original string `json:"original"`

	// Translated is the media type declared in the translated manifest.
	Translated string `json:"translated"`
}

// NoDivergence is the sentinel reading-order divergence index reported when
// one spine is a non-strict prefix of the other or they are equal.
const NoDivergence = -1

// ComparisonReport is the result of comparing two EPUB archives.
// It is the sole mutable aggregate in a comparison run: pipeline steps
// append to it in sequence and it is never mutated after the run finishes.
//
// Design decision: We keep the structural data (file lists, spine lengths,
// change records) alongside the flat findings list rather than deriving one
// from the other because the text report needs the raw data for its
// informational lines, while the summary, JSON output, and history storage
// need the categorized findings.
type ComparisonReport struct {
	// === Inputs ===

	// OriginalPath is the location of the original archive.
	OriginalPath string `json:"original_path"`

	// TranslatedPath is the location of the translated archive.
	TranslatedPath string `json:"translated_path"`

	// DateCompared is when the comparison was performed.
	DateCompared time.Time `json:"date_compared"`

	// === File sets ===

	// OriginalFileCount is the number of non-directory entries in the
	// original archive.
	OriginalFileCount int `json:"original_file_count"`

	// TranslatedFileCount is the number of non-directory entries in the
	// translated archive.
	TranslatedFileCount int `json:"translated_file_count"`

	// MissingInTranslated lists paths present only in the original.
	MissingInTranslated []string `json:"missing_in_translated,omitempty"`

	// ExtraInTranslated lists paths present only in the translated archive.
	ExtraInTranslated []string `json:"extra_in_translated,omitempty"`

	// === Bootstrap ===

	// OriginalBootstrap is the mimetype invariant status of the original.
	OriginalBootstrap *BootstrapStatus `json:"original_bootstrap,omitempty"`

	// TranslatedBootstrap is the mimetype invariant status of the translated
	// archive.
	TranslatedBootstrap *BootstrapStatus `json:"translated_bootstrap,omitempty"`

	// === Package document ===

	// OriginalRootfile is the package document path resolved from the
	// original archive's container descriptor, empty if unresolved.
	OriginalRootfile string `json:"original_rootfile,omitempty"`

	// TranslatedRootfile is the package document path resolved from the
	// translated archive's container descriptor, empty if unresolved.
	TranslatedRootfile string `json:"translated_rootfile,omitempty"`

	// ManifestMissing lists manifest paths present only in the original.
	ManifestMissing []string `json:"manifest_missing,omitempty"`

	// ManifestExtra lists manifest paths present only in the translated
	// package document.
	ManifestExtra []string `json:"manifest_extra,omitempty"`

	// MediaTypeDiffs lists resources with differing declared media types.
	MediaTypeDiffs []MediaTypeDiff `json:"media_type_diffs,omitempty"`

	// SpineCompared is true if both package documents were parsed and the
	// reading orders were actually compared.
	SpineCompared bool `json:"spine_compared"`

	// OriginalSpineLen is the original reading-order length.
	OriginalSpineLen int `json:"original_spine_len"`

	// TranslatedSpineLen is the translated reading-order length.
	TranslatedSpineLen int `json:"translated_spine_len"`

	// SpineDivergence is the first index at which the reading orders
	// differ, or NoDivergence.
	SpineDivergence int `json:"spine_divergence"`

	// === Content ===

	// Changes lists byte-level divergences on shared paths, sorted by path.
	Changes []ChangeRecord `json:"changes,omitempty"`

	// === Findings ===

	// Findings contains every divergence and violation, in the order the
	// pipeline discovered them.
	Findings []Finding `json:"findings,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// categoryCounts tracks findings per category for the summary.
	categoryCounts [categoryCount]int

	// Error contains the fatal error that aborted the comparison, if any.
	// Only an unreadable archive is fatal; everything else is a finding.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewComparisonReport creates a report for the given archive pair.
func NewComparisonReport(originalPath, translatedPath string) *ComparisonReport {
	return &ComparisonReport{
		OriginalPath:    originalPath,
		TranslatedPath:  translatedPath,
		DateCompared:    time.Now(),
		SpineDivergence: NoDivergence,
	}
}

// AddFinding appends a finding and updates the per-category counters.
// The CategoryText field is filled in from the category.
func (r *ComparisonReport) AddFinding(f Finding) {
	f.CategoryText = f.Category.String()
	r.Findings = append(r.Findings, f)
	if int(f.Category) < categoryCount {
		r.categoryCounts[f.Category]++
	}
}

// CountByCategory returns the number of findings in the given category.
func (r *ComparisonReport) CountByCategory(c Category) int {
	if int(c) >= categoryCount {
		return 0
	}
	return r.categoryCounts[c]
}

// FindingsByCategory returns the findings of one category in discovery order.
func (r *ComparisonReport) FindingsByCategory(c Category) []Finding {
	var result []Finding
	for _, f := range r.Findings {
		if f.Category == c {
			result = append(result, f)
		}
	}
	return result
}

// TotalFindings returns the total number of findings.
func (r *ComparisonReport) TotalFindings() int {
	return len(r.Findings)
}

// HasFindings returns true if there are any findings.
func (r *ComparisonReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// StructureClean reports whether every category other than markup is free
// of findings. When true, remaining rendering failures in a third-party
// reader are most likely confined to markup content, and the summary says so.
func (r *ComparisonReport) StructureClean() bool {
	for _, c := range Categories() {
		if c == CategoryMarkup {
			continue
		}
		if r.categoryCounts[c] > 0 {
			return false
		}
	}
	return true
}

// RootfileMismatch reports whether the two archives resolve the package
// document to different paths, including the case where only one side
// resolves it at all.
func (r *ComparisonReport) RootfileMismatch() bool {
	return r.OriginalRootfile != r.TranslatedRootfile
}
