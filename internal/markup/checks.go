package markup

import (
	"encoding/xml"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/nao1215/epubdiff/internal/epub"
)

// WellFormedCheck parses strict markup documents with an XML tokenizer.
// This is the only non-heuristic check: a document a strict reader cannot
// tokenize will not render at all.
type WellFormedCheck struct{}

// Name returns the check name.
func (c *WellFormedCheck) Name() string { return "well_formed" }

// Run tokenizes the document and reports the first syntax error.
// Entity expansion beyond the five predefined XML entities is disabled,
// matching what a strict non-DTD-aware reader resolves.
func (c *WellFormedCheck) Run(doc *Document) []string {
	if !doc.XHTML {
		return nil
	}

	decoder := xml.NewDecoder(strings.NewReader(doc.Text))
	decoder.Entity = map[string]string{}
	for {
		if _, err := decoder.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return []string{"not well-formed XML: " + err.Error()}
		}
	}
}

// NamespaceCheck requires an xmlns declaration on the root element of
// strict markup documents. Only the text preceding the first '>' is
// inspected, a cheap approximation of the root element's opening tag.
type NamespaceCheck struct{}

// Name returns the check name.
func (c *NamespaceCheck) Name() string { return "xmlns" }

// Run reports a strict document whose opening tag carries no namespace.
func (c *NamespaceCheck) Run(doc *Document) []string {
	if !doc.XHTML {
		return nil
	}
	lower := strings.ToLower(doc.Text)
	if !strings.Contains(lower, "<html") {
		return nil
	}
	head, _, _ := strings.Cut(lower, ">")
	if !strings.Contains(head, "xmlns=") {
		return []string{"missing xmlns on <html>"}
	}
	return nil
}

// entityRefPattern matches a valid character reference immediately after
// an ampersand: numeric, hexadecimal, or named with at least two
// characters.
var entityRefPattern = regexp.MustCompile(`^(?:#[0-9]+;|#x[0-9A-Fa-f]+;|[A-Za-z][A-Za-z0-9]+;)`)

// AmpersandCheck scans for ampersands that do not start a recognized
// character reference. One finding per document, not per occurrence;
// a translation that breaks escaping usually breaks it everywhere.
type AmpersandCheck struct{}

// Name returns the check name.
func (c *AmpersandCheck) Name() string { return "ampersand" }

// Run reports the document if any bare ampersand is found.
func (c *AmpersandCheck) Run(doc *Document) []string {
	rest := doc.Text
	for {
		i := strings.IndexByte(rest, '&')
		if i < 0 {
			return nil
		}
		if !entityRefPattern.MatchString(rest[i+1:]) {
			return []string{"unescaped & found"}
		}
		rest = rest[i+1:]
	}
}

// VoidElementCheck requires a void element (img, br, hr) to be
// self-closed in strict markup documents. Each element kind is a separate
// check so the violations toggle independently.
type VoidElementCheck struct {
	element string
	pattern *regexp.Regexp
}

// NewVoidElementCheck creates the check for one element kind.
func NewVoidElementCheck(element string) *VoidElementCheck {
	return &VoidElementCheck{
		element: element,
		pattern: regexp.MustCompile(`(?i)<` + element + `\b[^>]*>`),
	}
}

// Name returns the check name.
func (c *VoidElementCheck) Name() string { return "void_" + c.element }

// Run reports the document if any opening tag of the element kind is not
// immediately closed with a slash. One finding per element kind.
func (c *VoidElementCheck) Run(doc *Document) []string {
	if !doc.XHTML {
		return nil
	}
	for _, tag := range c.pattern.FindAllString(doc.Text, -1) {
		if !strings.HasSuffix(tag, "/>") {
			return []string{"xhtml <" + c.element + "> not self-closed"}
		}
	}
	return nil
}

// referencePattern matches src and href attribute values.
var referencePattern = regexp.MustCompile(`(?i)(?:src|href)=["']([^"']+)["']`)

// schemePattern matches absolute URIs with a scheme prefix.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// ReferenceCheck verifies that every relative src/href reference resolves
// to a file in the translated archive. Fragment-only references and
// absolute URIs are skipped; everything else is resolved against the
// document's own directory.
type ReferenceCheck struct{}

// Name returns the check name.
func (c *ReferenceCheck) Name() string { return "references" }

// Run reports each unresolved reference individually. A reference that
// appears multiple times in the document is reported once.
func (c *ReferenceCheck) Run(doc *Document) []string {
	var findings []string
	seen := make(map[string]struct{})
	for _, m := range referencePattern.FindAllStringSubmatch(doc.Text, -1) {
		ref := strings.TrimSpace(m[1])
		if ref == "" || strings.HasPrefix(ref, "#") || schemePattern.MatchString(ref) {
			continue
		}
		full := epub.ResolveRelative(doc.Path, ref)
		if _, ok := seen[full]; ok {
			continue
		}
		seen[full] = struct{}{}
		if _, ok := doc.Files[full]; !ok {
			findings = append(findings, "missing referenced resource: "+full)
		}
	}
	return findings
}

// TocCheck applies the table-of-contents naming convention: a document
// whose base filename starts with "toc" must carry a nav marker and a
// TOC epub:type or ARIA role somewhere in its text.
type TocCheck struct{}

// Name returns the check name.
func (c *TocCheck) Name() string { return "toc" }

// Run reports a toc-named document lacking the expected markers.
func (c *TocCheck) Run(doc *Document) []string {
	base := strings.ToLower(path.Base(doc.Path))
	if !strings.HasPrefix(base, "toc") {
		return nil
	}
	lower := strings.ToLower(doc.Text)
	if !strings.Contains(lower, "nav") ||
		(!strings.Contains(lower, `epub:type="toc"`) && !strings.Contains(lower, `role="doc-toc"`)) {
		return []string{`missing <nav epub:type="toc"> or role="doc-toc"`}
	}
	return nil
}
