package epub

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Package holds the structural data extracted from one OPF package
// document. All paths are resolved against the document's own directory
// at parse time and are stable thereafter.
type Package struct {
	// ManifestPaths lists every manifest resource path, in document order.
	ManifestPaths []string

	// MediaTypes maps a resource path to its declared media type.
	// Resources with no declared media type are absent from the map.
	MediaTypes map[string]string

	// Spine is the reading order: resource paths obtained by
	// dereferencing spine idrefs against the manifest. An idref with no
	// manifest entry is silently skipped, matching permissive real-world
	// packages.
	Spine []string
}

// ManifestSet returns the manifest paths as a set.
func (p *Package) ManifestSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.ManifestPaths))
	for _, path := range p.ManifestPaths {
		set[path] = struct{}{}
	}
	return set
}

// ParsePackage parses a package document. opfPath is the document's own
// archive path, used as the base directory for resolving relative hrefs.
//
// Elements are matched by local name. This covers documents with the OPF
// default namespace, a prefixed namespace, or no namespace at all; the
// namespace URI is whatever the root element declares, so no fixed-schema
// assumption is made. An unparsable document yields ok=false and the
// caller proceeds with empty structural data.
func ParsePackage(text, opfPath string) (pkg *Package, ok bool) {
	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, false
	}

	pkg = &Package{MediaTypes: make(map[string]string)}
	idToPath := make(map[string]string)

	for _, item := range xmlquery.Find(doc, "//*[local-name()='manifest']/*[local-name()='item']") {
		href := strings.TrimSpace(item.SelectAttr("href"))
		if href == "" {
			continue
		}
		full := ResolveRelative(opfPath, href)
		pkg.ManifestPaths = append(pkg.ManifestPaths, full)
		if mt := item.SelectAttr("media-type"); mt != "" {
			pkg.MediaTypes[full] = mt
		}
		if id := item.SelectAttr("id"); id != "" {
			idToPath[id] = full
		}
	}

	for _, ref := range xmlquery.Find(doc, "//*[local-name()='spine']/*[local-name()='itemref']") {
		if full, found := idToPath[ref.SelectAttr("idref")]; found {
			pkg.Spine = append(pkg.Spine, full)
		}
	}

	return pkg, true
}
