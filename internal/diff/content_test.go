package diff

import (
	"testing"

	"github.com/nao1215/epubdiff/internal/model"
)

// TestIsMarkupPath tests markup classification.
func TestIsMarkupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"text/ch1.xhtml", true},
		{"text/ch1.html", true},
		{"TEXT/CH1.XHTML", true},
		{"style.css", false},
		{"img/cover.png", false},
		{"mimetype", false},
		{"content.opf", false},
	}

	for _, tt := range tests {
		if got := IsMarkupPath(tt.path); got != tt.want {
			t.Errorf("IsMarkupPath(%q) = %v, expected %v", tt.path, got, tt.want)
		}
	}
}

// TestDiffContents tests byte-level change detection on common paths.
func TestDiffContents(t *testing.T) {
	t.Parallel()

	t.Run("identical archives report zero changes", func(t *testing.T) {
		t.Parallel()

		entries := []testEntry{
			{name: "mimetype", data: "application/epub+zip", stored: true},
			{name: "ch1.xhtml", data: "<html/>"},
		}
		original := openTestArchive(t, entries)
		translated := openTestArchive(t, entries)

		if changes := DiffContents(original, translated); len(changes) != 0 {
			t.Errorf("changes = %v, expected none", changes)
		}
	})

	t.Run("changed file yields a complete record", func(t *testing.T) {
		t.Parallel()

		original := openTestArchive(t, []testEntry{
			{name: "ch1.xhtml", data: "<html>one</html>"},
		})
		translated := openTestArchive(t, []testEntry{
			{name: "ch1.xhtml", data: "<html>another</html>"},
		})

		changes := DiffContents(original, translated)
		if len(changes) != 1 {
			t.Fatalf("got %d changes, expected 1", len(changes))
		}

		c := changes[0]
		if c.Path != "ch1.xhtml" {
			t.Errorf("path = %q, expected ch1.xhtml", c.Path)
		}
		if c.OriginalSize != len("<html>one</html>") || c.TranslatedSize != len("<html>another</html>") {
			t.Errorf("sizes = %d/%d, expected %d/%d",
				c.OriginalSize, c.TranslatedSize, len("<html>one</html>"), len("<html>another</html>"))
		}
		if len(c.OriginalDigest) != 10 || len(c.TranslatedDigest) != 10 {
			t.Errorf("digest lengths = %d/%d, expected 10/10",
				len(c.OriginalDigest), len(c.TranslatedDigest))
		}
		if c.OriginalDigest == c.TranslatedDigest {
			t.Error("digests of different content should differ")
		}
		if !c.Markup {
			t.Error("ch1.xhtml should be classified as markup")
		}
	})

	t.Run("files on only one side are ignored", func(t *testing.T) {
		t.Parallel()

		original := openTestArchive(t, []testEntry{
			{name: "only-orig.css", data: "p{}"},
		})
		translated := openTestArchive(t, []testEntry{
			{name: "only-tran.css", data: "q{}"},
		})

		if changes := DiffContents(original, translated); len(changes) != 0 {
			t.Errorf("changes = %v, expected none for disjoint sets", changes)
		}
	})

	t.Run("changed mimetype is classified non-markup", func(t *testing.T) {
		t.Parallel()

		original := openTestArchive(t, []testEntry{
			{name: "mimetype", data: "application/epub+zip", stored: true},
		})
		translated := openTestArchive(t, []testEntry{
			{name: "mimetype", data: "application/zip", stored: true},
		})

		changes := DiffContents(original, translated)
		if len(changes) != 1 {
			t.Fatalf("got %d changes, expected 1", len(changes))
		}
		if changes[0].Markup {
			t.Error("mimetype change must not be classified as markup")
		}
	})
}

// TestMarkupChanges tests the markup filter and its cap.
func TestMarkupChanges(t *testing.T) {
	t.Parallel()

	changes := []model.ChangeRecord{
		{Path: "a.xhtml", Markup: true},
		{Path: "b.css", Markup: false},
		{Path: "c.xhtml", Markup: true},
		{Path: "d.xhtml", Markup: true},
	}

	got := MarkupChanges(changes, 2)
	if len(got) != 2 {
		t.Fatalf("got %d records, expected cap of 2", len(got))
	}
	if got[0].Path != "a.xhtml" || got[1].Path != "c.xhtml" {
		t.Errorf("got %v, expected the first two markup records", got)
	}
}
