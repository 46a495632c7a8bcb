package model

// Category classifies a finding by the comparison stage that produced it.
// The summary section of the report restates which categories had findings,
// so every finding must carry one.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and counting. The String() method provides
// human-readable output when needed.
type Category int

const (
	// CategoryFileSet indicates files present on only one side of the
	// comparison (missing or extra in the translated archive).
	CategoryFileSet Category = iota

	// CategoryBootstrap indicates a violated mimetype invariant: the entry
	// is absent, has wrong content, is not the first archive entry, or is
	// stored with compression.
	CategoryBootstrap

	// CategoryRootfile indicates the two archives resolve the package
	// document to different paths, or only one of them resolves it at all.
	CategoryRootfile

	// CategoryManifest indicates manifest resource paths present in only
	// one package document.
	CategoryManifest

	// CategoryMediaType indicates a resource declared with different media
	// types in the two manifests.
	CategoryMediaType

	// CategoryReadingOrder indicates the spines differ in length or
	// diverge at some position.
	CategoryReadingOrder

	// CategoryReference indicates a manifest path that does not exist in
	// its own archive's file set.
	CategoryReference

	// CategoryContent indicates byte-level divergence on a shared
	// non-markup file. Markup changes are expected under translation and
	// are routed to the markup validator instead.
	CategoryContent

	// CategoryMarkup indicates a heuristic validation failure in changed
	// translated markup content.
	CategoryMarkup
)

// categoryCount is the number of defined categories. Used to size
// per-category counters.
const categoryCount = int(CategoryMarkup) + 1

// String returns a human-readable representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryFileSet:
		return "file set"
	case CategoryBootstrap:
		return "mimetype"
	case CategoryRootfile:
		return "rootfile"
	case CategoryManifest:
		return "manifest"
	case CategoryMediaType:
		return "media type"
	case CategoryReadingOrder:
		return "reading order"
	case CategoryReference:
		return "manifest reference"
	case CategoryContent:
		return "content"
	case CategoryMarkup:
		return "markup"
	default:
		return "unknown"
	}
}

// Categories returns all defined categories in report order.
func Categories() []Category {
	cats := make([]Category, 0, categoryCount)
	for i := 0; i < categoryCount; i++ {
		cats = append(cats, Category(i))
	}
	return cats
}
