package epub

import (
	"testing"
)

// openTestArchive builds and opens an archive, registering cleanup.
func openTestArchive(t *testing.T, entries []testEntry) *Archive {
	t.Helper()

	a, err := Open(writeTestArchive(t, entries))
	if err != nil {
		t.Fatalf("Open() = %v, expected nil error", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// TestResolveRootfile tests container descriptor resolution.
func TestResolveRootfile(t *testing.T) {
	t.Parallel()

	t.Run("namespaced descriptor", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: ContainerPath, data: `<?xml version="1.0"?>
<container xmlns="urn:oasis:names:tc:opendocument:xmlns:container" version="1.0">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`},
		})

		rootfile, ok := ResolveRootfile(a)
		if !ok {
			t.Fatal("ResolveRootfile() should succeed")
		}
		if rootfile != "OEBPS/content.opf" {
			t.Errorf("got %q, expected %q", rootfile, "OEBPS/content.opf")
		}
	})

	t.Run("bare descriptor without namespace", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: ContainerPath, data: `<container><rootfiles><rootfile full-path="content.opf"/></rootfiles></container>`},
		})

		rootfile, ok := ResolveRootfile(a)
		if !ok || rootfile != "content.opf" {
			t.Errorf("got (%q, %v), expected (content.opf, true)", rootfile, ok)
		}
	})

	t.Run("accepts the fullPath attribute spelling", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: ContainerPath, data: `<container><rootfiles><rootfile fullPath="content.opf"/></rootfiles></container>`},
		})

		rootfile, ok := ResolveRootfile(a)
		if !ok || rootfile != "content.opf" {
			t.Errorf("got (%q, %v), expected (content.opf, true)", rootfile, ok)
		}
	})

	t.Run("missing descriptor is not fatal", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: MimetypePath, data: MimetypeContent, stored: true},
		})

		if _, ok := ResolveRootfile(a); ok {
			t.Error("ResolveRootfile() without descriptor should report not found")
		}
	})

	t.Run("descriptor without rootfile declaration", func(t *testing.T) {
		t.Parallel()

		a := openTestArchive(t, []testEntry{
			{name: ContainerPath, data: `<container><rootfiles/></container>`},
		})

		if _, ok := ResolveRootfile(a); ok {
			t.Error("ResolveRootfile() without rootfile element should report not found")
		}
	})
}
