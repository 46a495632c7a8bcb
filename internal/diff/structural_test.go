package diff

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/epubdiff/internal/epub"
	"github.com/nao1215/epubdiff/internal/model"
)

// testEntry describes one file to place in a test archive.
type testEntry struct {
	name   string
	data   string
	stored bool
}

// openTestArchive builds a zip from entries and opens it as an Archive.
func openTestArchive(t *testing.T, entries []testEntry) *epub.Archive {
	t.Helper()

	location := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(location)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		if e.stored {
			hdr.Method = zip.Store
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("create entry %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.data)); err != nil {
			t.Fatalf("write entry %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive file: %v", err)
	}

	a, err := epub.Open(location)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// set builds a string set from its arguments.
func set(paths ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// TestDiffFileSets tests two-directional file set comparison.
func TestDiffFileSets(t *testing.T) {
	t.Parallel()

	t.Run("extra file in translated", func(t *testing.T) {
		t.Parallel()

		original := set("mimetype", "META-INF/container.xml", "content.opf", "ch1.xhtml")
		translated := set("mimetype", "META-INF/container.xml", "content.opf", "ch1.xhtml", "ch2.xhtml")

		d := DiffFileSets(original, translated)
		if len(d.MissingInTranslated) != 0 {
			t.Errorf("missing = %v, expected none", d.MissingInTranslated)
		}
		if !slices.Equal(d.ExtraInTranslated, []string{"ch2.xhtml"}) {
			t.Errorf("extra = %v, expected [ch2.xhtml]", d.ExtraInTranslated)
		}
	})

	t.Run("symmetric under input swap", func(t *testing.T) {
		t.Parallel()

		a := set("one", "shared")
		b := set("two", "shared")

		forward := DiffFileSets(a, b)
		backward := DiffFileSets(b, a)

		if !slices.Equal(forward.MissingInTranslated, backward.ExtraInTranslated) {
			t.Errorf("forward missing %v should mirror backward extra %v",
				forward.MissingInTranslated, backward.ExtraInTranslated)
		}
		if !slices.Equal(forward.ExtraInTranslated, backward.MissingInTranslated) {
			t.Errorf("forward extra %v should mirror backward missing %v",
				forward.ExtraInTranslated, backward.MissingInTranslated)
		}
	})

	t.Run("results are sorted", func(t *testing.T) {
		t.Parallel()

		d := DiffFileSets(set("z.xhtml", "a.xhtml", "m.xhtml"), set())
		if !slices.IsSorted(d.MissingInTranslated) {
			t.Errorf("missing = %v, expected sorted order", d.MissingInTranslated)
		}
	})
}

// TestCheckBootstrap tests the four mimetype invariant checks.
func TestCheckBootstrap(t *testing.T) {
	t.Parallel()

	t.Run("conforming archive has zero violations", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: "mimetype", data: epub.MimetypeContent, stored: true},
			{name: "content.opf", data: "<package/>"},
		})

		status := CheckBootstrap(a)
		if violations := BootstrapViolations(status); len(violations) != 0 {
			t.Errorf("violations = %v, expected none", violations)
		}
	})

	t.Run("checks are independent", func(t *testing.T) {
		t.Parallel()

		// Correct content, first position, but compressed: exactly one
		// violation, not four.
		a := openTestArchive(t, []testEntry{
			{name: "mimetype", data: epub.MimetypeContent, stored: false},
			{name: "content.opf", data: "<package/>"},
		})

		violations := BootstrapViolations(CheckBootstrap(a))
		if len(violations) != 1 {
			t.Fatalf("violations = %v, expected exactly one", violations)
		}
		if violations[0] != "mimetype must be stored without compression" {
			t.Errorf("violation = %q, expected the storage-mode message", violations[0])
		}
	})

	t.Run("missing mimetype is a single violation", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: "content.opf", data: "<package/>"},
		})

		violations := BootstrapViolations(CheckBootstrap(a))
		if len(violations) != 1 || violations[0] != "missing mimetype file" {
			t.Errorf("violations = %v, expected only the missing-file message", violations)
		}
	})

	t.Run("wrong position and wrong content are both reported", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: "content.opf", data: "<package/>"},
			{name: "mimetype", data: "text/plain", stored: true},
		})

		violations := BootstrapViolations(CheckBootstrap(a))
		if len(violations) != 2 {
			t.Errorf("violations = %v, expected two", violations)
		}
	})
}

// TestDivergenceIndex tests reading-order comparison.
func TestDivergenceIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		original   []string
		translated []string
		want       int
	}{
		{"equal sequences", []string{"a", "b"}, []string{"a", "b"}, model.NoDivergence},
		{"first position differs", []string{"a", "b"}, []string{"x", "b"}, 0},
		{"middle position differs", []string{"a", "b", "c"}, []string{"a", "x", "c"}, 1},
		{"non-strict prefix", []string{"a", "b"}, []string{"a", "b", "c"}, model.NoDivergence},
		{"both empty", nil, nil, model.NoDivergence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DivergenceIndex(tt.original, tt.translated); got != tt.want {
				t.Errorf("got %d, expected %d", got, tt.want)
			}
		})
	}
}

// TestDiffMediaTypes tests media-type comparison on common resources.
func TestDiffMediaTypes(t *testing.T) {
	t.Parallel()

	original := &epub.Package{
		ManifestPaths: []string{"a.xhtml", "b.css", "only-orig.png"},
		MediaTypes: map[string]string{
			"a.xhtml": "application/xhtml+xml",
			"b.css":   "text/css",
		},
	}
	translated := &epub.Package{
		ManifestPaths: []string{"a.xhtml", "b.css"},
		MediaTypes: map[string]string{
			"a.xhtml": "text/html",
			"b.css":   "text/css",
		},
	}

	diffs := DiffMediaTypes(original, translated)
	if len(diffs) != 1 {
		t.Fatalf("diffs = %v, expected one", diffs)
	}
	want := model.MediaTypeDiff{Path: "a.xhtml", Original: "application/xhtml+xml", Translated: "text/html"}
	if diffs[0] != want {
		t.Errorf("got %+v, expected %+v", diffs[0], want)
	}
}

// TestUnresolvedReferences tests the manifest-to-archive existence check.
func TestUnresolvedReferences(t *testing.T) {
	t.Parallel()

	unresolved := UnresolvedReferences(
		[]string{"a.xhtml", "missing.png", "b.css"},
		set("a.xhtml", "b.css"),
	)
	if !slices.Equal(unresolved, []string{"missing.png"}) {
		t.Errorf("unresolved = %v, expected [missing.png]", unresolved)
	}
}
