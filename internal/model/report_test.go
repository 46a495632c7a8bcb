package model

import (
	"testing"
)

// TestCategoryString tests the Category String method.
func TestCategoryString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category Category
		want     string
	}{
		{CategoryFileSet, "file set"},
		{CategoryBootstrap, "mimetype"},
		{CategoryRootfile, "rootfile"},
		{CategoryManifest, "manifest"},
		{CategoryMediaType, "media type"},
		{CategoryReadingOrder, "reading order"},
		{CategoryReference, "manifest reference"},
		{CategoryContent, "content"},
		{CategoryMarkup, "markup"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, expected %q", tt.category, got, tt.want)
		}
	}
}

// TestComparisonReportAddFinding tests finding accumulation and counting.
func TestComparisonReportAddFinding(t *testing.T) {
	t.Parallel()

	t.Run("counts findings per category", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.AddFinding(Finding{Category: CategoryFileSet, Message: "extra file"})
		r.AddFinding(Finding{Category: CategoryMarkup, Message: "bad markup"})
		r.AddFinding(Finding{Category: CategoryMarkup, Message: "more bad markup"})

		if got := r.CountByCategory(CategoryFileSet); got != 1 {
			t.Errorf("file set count = %d, expected 1", got)
		}
		if got := r.CountByCategory(CategoryMarkup); got != 2 {
			t.Errorf("markup count = %d, expected 2", got)
		}
		if got := r.TotalFindings(); got != 3 {
			t.Errorf("total = %d, expected 3", got)
		}
	})

	t.Run("fills in category text", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.AddFinding(Finding{Category: CategoryBootstrap, Message: "not stored"})

		if got := r.Findings[0].CategoryText; got != "mimetype" {
			t.Errorf("CategoryText = %q, expected %q", got, "mimetype")
		}
	})

	t.Run("filters by category", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.AddFinding(Finding{Category: CategoryManifest, Message: "manifest missing"})
		r.AddFinding(Finding{Category: CategoryContent, Message: "content changed"})

		got := r.FindingsByCategory(CategoryManifest)
		if len(got) != 1 || got[0].Message != "manifest missing" {
			t.Errorf("FindingsByCategory(CategoryManifest) = %v, expected one manifest finding", got)
		}
	})
}

// TestComparisonReportStructureClean tests the markup-only hint condition.
func TestComparisonReportStructureClean(t *testing.T) {
	t.Parallel()

	t.Run("clean report", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		if !r.StructureClean() {
			t.Error("empty report should be structurally clean")
		}
	})

	t.Run("markup findings do not break cleanliness", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.AddFinding(Finding{Category: CategoryMarkup, Message: "unescaped &"})
		if !r.StructureClean() {
			t.Error("markup-only findings should keep the structure clean")
		}
	})

	t.Run("structural findings break cleanliness", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.AddFinding(Finding{Category: CategoryReadingOrder, Message: "spine differs"})
		if r.StructureClean() {
			t.Error("reading-order finding should mark the structure dirty")
		}
	})
}

// TestRootfileMismatch tests rootfile path comparison.
func TestRootfileMismatch(t *testing.T) {
	t.Parallel()

	t.Run("both resolved to same path", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.OriginalRootfile = "content.opf"
		r.TranslatedRootfile = "content.opf"
		if r.RootfileMismatch() {
			t.Error("identical rootfile paths should not mismatch")
		}
	})

	t.Run("only one side resolved", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		r.OriginalRootfile = "content.opf"
		if !r.RootfileMismatch() {
			t.Error("one unresolved side should mismatch")
		}
	})

	t.Run("neither side resolved", func(t *testing.T) {
		t.Parallel()

		r := NewComparisonReport("a.epub", "b.epub")
		if r.RootfileMismatch() {
			t.Error("two unresolved sides compare equal")
		}
	})
}

// TestContentDigest tests the digest prefix helper.
func TestContentDigest(t *testing.T) {
	t.Parallel()

	t.Run("returns ten hex characters", func(t *testing.T) {
		t.Parallel()

		d := ContentDigest([]byte("Hello, World!"))
		if len(d) != 10 {
			t.Errorf("digest length = %d, expected 10", len(d))
		}
		for _, r := range d {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
				t.Errorf("digest %q contains non-hex character %q", d, r)
			}
		}
	})

	t.Run("differs for different content", func(t *testing.T) {
		t.Parallel()

		if ContentDigest([]byte("a")) == ContentDigest([]byte("b")) {
			t.Error("digests of different content should differ")
		}
	})

	t.Run("stable for equal content", func(t *testing.T) {
		t.Parallel()

		if ContentDigest([]byte("same")) != ContentDigest([]byte("same")) {
			t.Error("digests of equal content should match")
		}
	})
}

// TestChangeRecordString tests the report line format.
func TestChangeRecordString(t *testing.T) {
	t.Parallel()

	c := ChangeRecord{
		Path:             "text/ch1.xhtml",
		OriginalSize:     120,
		TranslatedSize:   140,
		OriginalDigest:   "aaaaaaaaaa",
		TranslatedDigest: "bbbbbbbbbb",
	}

	want := "text/ch1.xhtml  (120 -> 140 bytes)  aaaaaaaaaa -> bbbbbbbbbb"
	if got := c.String(); got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}
