package epub

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// ResolveRootfile locates the package document path declared in the
// archive's container descriptor.
//
// The descriptor is matched by element local name, so documents with or
// without the OCF namespace (or with an arbitrary prefix) all resolve.
// Both historical spellings of the path attribute are accepted. An
// absent, unparsable, or empty descriptor yields ok=false; the caller
// records the absence and keeps comparing whatever else it can.
func ResolveRootfile(a *Archive) (rootfile string, ok bool) {
	text, err := a.ReadText(ContainerPath, "utf-8")
	if err != nil {
		return "", false
	}

	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return "", false
	}

	node := xmlquery.FindOne(doc, "//*[local-name()='rootfile']")
	if node == nil {
		return "", false
	}

	full := node.SelectAttr("full-path")
	if full == "" {
		full = node.SelectAttr("fullPath")
	}
	full = NormalizePath(full)
	if full == "" {
		return "", false
	}
	return full, true
}
