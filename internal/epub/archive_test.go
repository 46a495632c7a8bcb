package epub

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEntry describes one file to place in a test archive.
type testEntry struct {
	name   string
	data   string
	stored bool
}

// writeTestArchive creates a zip file in a temp directory and returns its path.
func writeTestArchive(t *testing.T, entries []testEntry) string {
	t.Helper()

	location := filepath.Join(t.TempDir(), "test.epub")
	f, err := os.Create(location)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

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
		t.Fatalf("close archive: %v", err)
	}
	return location
}

// TestOpen tests archive opening and entry listing.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("excludes directory entries and normalizes names", func(t *testing.T) {
		t.Parallel()

		location := writeTestArchive(t, []testEntry{
			{name: "mimetype", data: MimetypeContent, stored: true},
			{name: "text/", data: ""},
			{name: "./text/ch1.xhtml", data: "<html/>"},
		})

		a, err := Open(location)
		if err != nil {
			t.Fatalf("Open() = %v, expected nil error", err)
		}
		defer a.Close()

		files := a.Files()
		if len(files) != 2 {
			t.Fatalf("got %d files, expected 2: %v", len(files), files)
		}
		for _, name := range files {
			if strings.HasPrefix(name, "./") || strings.Contains(name, "\\") {
				t.Errorf("listing contains unnormalized path %q", name)
			}
		}
		if files[0] != "mimetype" || files[1] != "text/ch1.xhtml" {
			t.Errorf("listing order = %v, expected [mimetype text/ch1.xhtml]", files)
		}
	})

	t.Run("records storage mode and listing index", func(t *testing.T) {
		t.Parallel()

		location := writeTestArchive(t, []testEntry{
			{name: "mimetype", data: MimetypeContent, stored: true},
			{name: "content.opf", data: "<package/>"},
		})

		a, err := Open(location)
		if err != nil {
			t.Fatalf("Open() = %v, expected nil error", err)
		}
		defer a.Close()

		e, ok := a.Entry("mimetype")
		if !ok {
			t.Fatal("mimetype entry not found")
		}
		if !e.Stored {
			t.Error("mimetype should be stored uncompressed")
		}
		if e.Index != 0 {
			t.Errorf("mimetype index = %d, expected 0", e.Index)
		}

		e, ok = a.Entry("content.opf")
		if !ok {
			t.Fatal("content.opf entry not found")
		}
		if e.Stored {
			t.Error("content.opf should be compressed")
		}
		if e.Index != 1 {
			t.Errorf("content.opf index = %d, expected 1", e.Index)
		}
	})

	t.Run("unreadable archive is fatal", func(t *testing.T) {
		t.Parallel()

		location := filepath.Join(t.TempDir(), "broken.epub")
		if err := os.WriteFile(location, []byte("not a zip"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := Open(location); err == nil {
			t.Error("Open() on a non-zip file should fail")
		}
	})
}

// TestArchiveRead tests content retrieval.
func TestArchiveRead(t *testing.T) {
	t.Parallel()

	t.Run("reads entry bytes", func(t *testing.T) {
		t.Parallel()

		location := writeTestArchive(t, []testEntry{
			{name: "content.opf", data: "<package/>"},
		})
		a, err := Open(location)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		data, err := a.ReadBytes("content.opf")
		if err != nil {
			t.Fatalf("ReadBytes() = %v, expected nil error", err)
		}
		if string(data) != "<package/>" {
			t.Errorf("got %q, expected %q", data, "<package/>")
		}
	})

	t.Run("missing entry is an error, not a panic", func(t *testing.T) {
		t.Parallel()

		location := writeTestArchive(t, []testEntry{
			{name: "mimetype", data: MimetypeContent, stored: true},
		})
		a, err := Open(location)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()

		if _, err := a.ReadBytes("absent.xhtml"); err == nil {
			t.Error("ReadBytes() on absent entry should fail")
		}
	})
}

// TestDecodeText tests declared-encoding decoding and its fallback.
func TestDecodeText(t *testing.T) {
	t.Parallel()

	t.Run("decodes declared encoding", func(t *testing.T) {
		t.Parallel()

		// "café" in ISO-8859-1.
		got := DecodeText([]byte{'c', 'a', 'f', 0xE9}, "iso-8859-1")
		if got != "café" {
			t.Errorf("got %q, expected %q", got, "café")
		}
	})

	t.Run("unknown encoding falls back to permissive utf-8", func(t *testing.T) {
		t.Parallel()

		got := DecodeText([]byte("plain"), "no-such-encoding")
		if got != "plain" {
			t.Errorf("got %q, expected %q", got, "plain")
		}
	})

	t.Run("invalid bytes become replacement characters", func(t *testing.T) {
		t.Parallel()

		got := DecodeText([]byte{0xFF, 0xFE, 'a'}, "")
		if !strings.Contains(got, "�") {
			t.Errorf("got %q, expected replacement characters", got)
		}
		if !strings.HasSuffix(got, "a") {
			t.Errorf("got %q, expected valid suffix to survive", got)
		}
	})
}

// TestNormalizePath tests path normalization.
func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"text/ch1.xhtml", "text/ch1.xhtml"},
		{"./text/ch1.xhtml", "text/ch1.xhtml"},
		{"text\\ch1.xhtml", "text/ch1.xhtml"},
		{"  mimetype  ", "mimetype"},
		{"a/./b/../c", "a/c"},
		{"", ""},
		{".", ""},
		{"/abs/path", "abs/path"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

// TestResolveRelative tests reference resolution against a document directory.
func TestResolveRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  string
		ref  string
		want string
	}{
		{"text/ch1.xhtml", "img/cover.png", "text/img/cover.png"},
		{"content.opf", "text/ch1.xhtml", "text/ch1.xhtml"},
		{"OEBPS/content.opf", "ch1.xhtml", "OEBPS/ch1.xhtml"},
		{"text/ch1.xhtml", "../style.css", "style.css"},
	}

	for _, tt := range tests {
		if got := ResolveRelative(tt.doc, tt.ref); got != tt.want {
			t.Errorf("ResolveRelative(%q, %q) = %q, expected %q", tt.doc, tt.ref, got, tt.want)
		}
	}
}
