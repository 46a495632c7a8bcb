package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Well-known paths and values of the EPUB container format.
const (
	// MimetypePath is the fixed mimetype-declaration entry.
	MimetypePath = "mimetype"

	// MimetypeContent is the exact content the mimetype entry must carry.
	MimetypeContent = "application/epub+zip"

	// ContainerPath is the bootstrap descriptor that points at the
	// package document.
	ContainerPath = "META-INF/container.xml"
)

// Entry is one non-directory file in an archive.
type Entry struct {
	// Name is the normalized path of the entry.
	Name string

	// Index is the entry's position in overall archive listing order.
	// The mimetype invariant requires index zero.
	Index int

	// Stored is true when the entry uses the uncompressed storage mode.
	Stored bool

	file *zip.File
}

// Archive is a read-only view of one EPUB container. Entries are listed
// at open time and owned by the archive for the lifetime of one
// comparison run; two archives never share entries.
type Archive struct {
	path    string
	rc      *zip.ReadCloser
	entries []Entry
	index   map[string]int
}

// Open opens the archive at the given location and lists its entries.
// Directory entries are excluded and every name is normalized. An archive
// that cannot be opened is the only fatal condition in a comparison run.
func Open(location string) (*Archive, error) {
	rc, err := zip.OpenReader(location)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", location, err)
	}

	a := &Archive{
		path:  location,
		rc:    rc,
		index: make(map[string]int),
	}
	for _, f := range rc.File {
		if strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, "\\") {
			continue
		}
		name := NormalizePath(f.Name)
		if name == "" {
			continue
		}
		e := Entry{
			Name:   name,
			Index:  len(a.entries),
			Stored: f.Method == zip.Store,
			file:   f,
		}
		a.entries = append(a.entries, e)
		// First occurrence wins for duplicate names.
		if _, ok := a.index[name]; !ok {
			a.index[name] = e.Index
		}
	}
	return a, nil
}

// Close releases the underlying archive handle.
func (a *Archive) Close() error {
	return a.rc.Close()
}

// Path returns the archive location passed to Open.
func (a *Archive) Path() string {
	return a.path
}

// Files returns the normalized entry names in archive listing order.
func (a *Archive) Files() []string {
	names := make([]string, len(a.entries))
	for i, e := range a.entries {
		names[i] = e.Name
	}
	return names
}

// FileSet returns the entry names as a set for membership tests.
func (a *Archive) FileSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.entries))
	for _, e := range a.entries {
		set[e.Name] = struct{}{}
	}
	return set
}

// Has reports whether the archive contains an entry with the given
// normalized name.
func (a *Archive) Has(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Entry returns the entry with the given normalized name.
func (a *Archive) Entry(name string) (Entry, bool) {
	i, ok := a.index[name]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// ReadBytes returns the full content of the named entry. A missing entry
// is an error for the caller to surface as a finding, not a failure of
// the comparison.
func (a *Archive) ReadBytes(name string) ([]byte, error) {
	e, ok := a.Entry(name)
	if !ok {
		return nil, fmt.Errorf("entry %s not found in %s", name, a.path)
	}
	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}
	return data, nil
}

// ReadText returns the content of the named entry decoded with the given
// character encoding. Decoding never fails; see DecodeText.
func (a *Archive) ReadText(name, encodingName string) (string, error) {
	data, err := a.ReadBytes(name)
	if err != nil {
		return "", err
	}
	return DecodeText(data, encodingName), nil
}

// DecodeText decodes data using the named character encoding. An unknown
// encoding name or a decoder failure falls back to permissive UTF-8 with
// replacement characters, so the result is always valid UTF-8.
func DecodeText(data []byte, encodingName string) string {
	if encodingName != "" {
		if enc, err := htmlindex.Get(encodingName); err == nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(decoded)
			}
		}
	}
	return strings.ToValidUTF8(string(data), "�")
}

// NormalizePath converts an archive path to the canonical comparison
// form: forward slashes, trimmed whitespace, no redundant "./" segments.
func NormalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "/")
}

// ResolveRelative resolves a resource reference relative to the directory
// of the document it appears in. Both arguments are archive-internal
// paths; the result is normalized.
func ResolveRelative(docPath, ref string) string {
	return NormalizePath(path.Join(path.Dir(docPath), ref))
}
