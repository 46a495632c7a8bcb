package markup

// Document is one changed markup file from the translated archive,
// together with the context its checks need.
type Document struct {
	// Path is the document's normalized archive path.
	Path string

	// Text is the decoded document content.
	Text string

	// XHTML is true when the document is classified as the strict markup
	// variant (.xhtml). Some checks only apply to strict documents.
	XHTML bool

	// Files is the translated archive's file set, used to verify that
	// referenced resources exist.
	Files map[string]struct{}
}

// Check is a single heuristic applied to a document. Checks run
// independently: every registered check runs on every document, whatever
// the others found.
type Check interface {
	// Name returns the check's name for logging.
	Name() string

	// Run inspects the document and returns finding messages.
	Run(doc *Document) []string
}

// DefaultMaxFindings caps the findings collected across all validated
// documents in one run.
const DefaultMaxFindings = 50

// Validator coordinates the heuristic checks over changed translated
// markup documents.
type Validator struct {
	checks      []Check
	maxFindings int
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxFindings overrides the total findings cap.
func WithMaxFindings(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxFindings = n
		}
	}
}

// New creates a Validator with all built-in checks registered.
func New(opts ...Option) *Validator {
	v := &Validator{maxFindings: DefaultMaxFindings}
	for _, opt := range opts {
		opt(v)
	}

	v.Register(
		&WellFormedCheck{},
		&NamespaceCheck{},
		&AmpersandCheck{},
		NewVoidElementCheck("img"),
		NewVoidElementCheck("br"),
		NewVoidElementCheck("hr"),
		&ReferenceCheck{},
		&TocCheck{},
	)
	return v
}

// Register adds checks to the validator.
func (v *Validator) Register(checks ...Check) {
	v.checks = append(v.checks, checks...)
}

// Validate runs every check on one document. Findings are prefixed with
// the document path so they stay attributable once aggregated.
func (v *Validator) Validate(doc *Document) []string {
	var findings []string
	for _, check := range v.checks {
		for _, msg := range check.Run(doc) {
			findings = append(findings, doc.Path+": "+msg)
		}
	}
	return findings
}

// ValidateAll runs the checks over all documents, capping the combined
// findings at the configured maximum.
func (v *Validator) ValidateAll(docs []*Document) []string {
	var findings []string
	for _, doc := range docs {
		findings = append(findings, v.Validate(doc)...)
		if len(findings) >= v.maxFindings {
			return findings[:v.maxFindings]
		}
	}
	return findings
}
