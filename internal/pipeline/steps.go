package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/diff"
	"github.com/nao1215/epubdiff/internal/epub"
	"github.com/nao1215/epubdiff/internal/markup"
	"github.com/nao1215/epubdiff/internal/model"
)

// ResolveStep locates and parses the package document of each archive.
// It follows the container descriptor at the fixed META-INF path to the
// rootfile and parses it into structural data for the later steps.
//
// Design decision: Resolution runs first because the manifest step needs
// both parsed packages, but its failures are never fatal: a side with no
// descriptor, an unresolvable rootfile, or a rootfile missing from the
// archive simply yields a nil package and the structural and content
// steps still run on the raw file sets. An unparsable package document
// yields an empty (non-nil) package instead, so the manifest step still
// runs and reports nothing rather than being skipped.
type ResolveStep struct {
	// encoding is the character encoding assumed for text entries.
	encoding string

	// logger for structured logging.
	logger *slog.Logger
}

// NewResolveStep creates a package-document resolution step.
func NewResolveStep(cfg *config.Config, logger *slog.Logger) *ResolveStep {
	return &ResolveStep{encoding: cfg.Encoding, logger: logger}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve_package"
}

// Do executes the package-document resolution step.
func (s *ResolveStep) Do(_ context.Context, c *Comparison) error {
	c.Report.OriginalRootfile, c.OriginalPackage = s.resolve(c.Original, model.SideOriginal)
	c.Report.TranslatedRootfile, c.TranslatedPackage = s.resolve(c.Translated, model.SideTranslated)
	return nil
}

// resolve follows one archive's container descriptor to its package
// document. The returned package is nil when the descriptor chain is
// broken, and empty when the document exists but cannot be parsed.
func (s *ResolveStep) resolve(a *epub.Archive, side string) (string, *epub.Package) {
	if !a.Has(epub.ContainerPath) {
		s.logger.Debug("container descriptor missing", "side", side)
		return "", nil
	}

	rootfile, ok := epub.ResolveRootfile(a)
	if !ok {
		s.logger.Debug("rootfile not resolved from container", "side", side)
		return "", nil
	}
	if !a.Has(rootfile) {
		s.logger.Debug("rootfile not present in archive",
			"side", side,
			"rootfile", rootfile,
		)
		return rootfile, nil
	}

	text, err := a.ReadText(rootfile, s.encoding)
	if err != nil {
		s.logger.Debug("package document unreadable",
			"side", side,
			"rootfile", rootfile,
			"error", err,
		)
		return rootfile, nil
	}

	pkg, parsed := epub.ParsePackage(text, rootfile)
	if !parsed {
		s.logger.Debug("package document unparsable",
			"side", side,
			"rootfile", rootfile,
		)
		return rootfile, &epub.Package{MediaTypes: make(map[string]string)}
	}
	return rootfile, pkg
}

// FileSetStep compares the raw file listings of the two archives.
type FileSetStep struct{}

// NewFileSetStep creates a file-set comparison step.
func NewFileSetStep() *FileSetStep {
	return &FileSetStep{}
}

// Name returns the step name.
func (s *FileSetStep) Name() string {
	return "file_set"
}

// Do executes the file-set comparison step.
func (s *FileSetStep) Do(_ context.Context, c *Comparison) error {
	c.Report.OriginalFileCount = len(c.Original.Files())
	c.Report.TranslatedFileCount = len(c.Translated.Files())

	d := diff.DiffFileSets(c.Original.FileSet(), c.Translated.FileSet())
	c.Report.MissingInTranslated = d.MissingInTranslated
	c.Report.ExtraInTranslated = d.ExtraInTranslated

	if n := len(d.MissingInTranslated); n > 0 {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryFileSet,
			Side:     model.SideTranslated,
			Message:  fmt.Sprintf("%d file(s) missing in translated", n),
		})
	}
	if n := len(d.ExtraInTranslated); n > 0 {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryFileSet,
			Side:     model.SideTranslated,
			Message:  fmt.Sprintf("%d file(s) extra in translated", n),
		})
	}
	return nil
}

// BootstrapStep runs the mimetype bootstrap invariant checks on each
// archive independently: the entry exists, carries the exact MIME
// string, comes first in listing order, and is stored uncompressed.
// Every violated invariant is its own finding.
type BootstrapStep struct{}

// NewBootstrapStep creates a bootstrap invariant check step.
func NewBootstrapStep() *BootstrapStep {
	return &BootstrapStep{}
}

// Name returns the step name.
func (s *BootstrapStep) Name() string {
	return "bootstrap"
}

// Do executes the bootstrap invariant check step.
func (s *BootstrapStep) Do(_ context.Context, c *Comparison) error {
	statusO := diff.CheckBootstrap(c.Original)
	statusT := diff.CheckBootstrap(c.Translated)
	c.Report.OriginalBootstrap = &statusO
	c.Report.TranslatedBootstrap = &statusT

	for _, msg := range diff.BootstrapViolations(statusO) {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryBootstrap,
			Side:     model.SideOriginal,
			Path:     epub.MimetypePath,
			Message:  msg,
		})
	}
	for _, msg := range diff.BootstrapViolations(statusT) {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryBootstrap,
			Side:     model.SideTranslated,
			Path:     epub.MimetypePath,
			Message:  msg,
		})
	}
	return nil
}

// RootfileStep compares the resolved package document paths.
// A side that resolves no rootfile compares as the empty string, so a
// single resolved side still counts as a mismatch.
type RootfileStep struct{}

// NewRootfileStep creates a rootfile comparison step.
func NewRootfileStep() *RootfileStep {
	return &RootfileStep{}
}

// Name returns the step name.
func (s *RootfileStep) Name() string {
	return "rootfile"
}

// Do executes the rootfile comparison step.
func (s *RootfileStep) Do(_ context.Context, c *Comparison) error {
	if c.Report.RootfileMismatch() {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryRootfile,
			Message:  "package document path differs between original and translated",
		})
	}
	return nil
}

// ManifestStep compares the parsed package documents: manifest entry
// sets, declared media types, reading order, and whether every manifest
// entry resolves to a real archive file. It only runs when both sides
// produced a package; the raw file-set and content steps cover the
// degraded case.
type ManifestStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewManifestStep creates a manifest comparison step.
func NewManifestStep(logger *slog.Logger) *ManifestStep {
	return &ManifestStep{logger: logger}
}

// Name returns the step name.
func (s *ManifestStep) Name() string {
	return "manifest"
}

// Do executes the manifest comparison step.
func (s *ManifestStep) Do(_ context.Context, c *Comparison) error {
	if c.OriginalPackage == nil || c.TranslatedPackage == nil {
		s.logger.Debug("skipping manifest comparison, package document unavailable")
		return nil
	}

	d := diff.DiffManifests(c.OriginalPackage, c.TranslatedPackage)
	c.Report.ManifestMissing = d.MissingInTranslated
	c.Report.ManifestExtra = d.ExtraInTranslated
	if n := len(d.MissingInTranslated); n > 0 {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryManifest,
			Side:     model.SideTranslated,
			Message:  fmt.Sprintf("%d manifest entry(ies) missing in translated", n),
		})
	}
	if n := len(d.ExtraInTranslated); n > 0 {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryManifest,
			Side:     model.SideTranslated,
			Message:  fmt.Sprintf("%d manifest entry(ies) extra in translated", n),
		})
	}

	c.Report.MediaTypeDiffs = diff.DiffMediaTypes(c.OriginalPackage, c.TranslatedPackage)
	for _, mt := range c.Report.MediaTypeDiffs {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryMediaType,
			Path:     mt.Path,
			Message:  fmt.Sprintf("media type differs: %s vs %s", mt.Original, mt.Translated),
		})
	}

	c.Report.SpineCompared = true
	c.Report.OriginalSpineLen = len(c.OriginalPackage.Spine)
	c.Report.TranslatedSpineLen = len(c.TranslatedPackage.Spine)
	c.Report.SpineDivergence = diff.DivergenceIndex(c.OriginalPackage.Spine, c.TranslatedPackage.Spine)
	if c.Report.SpineDivergence != model.NoDivergence {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryReadingOrder,
			Message:  fmt.Sprintf("reading order diverges at index %d", c.Report.SpineDivergence),
		})
	}
	if c.Report.OriginalSpineLen != c.Report.TranslatedSpineLen {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryReadingOrder,
			Message: fmt.Sprintf("reading order length differs (%d vs %d)",
				c.Report.OriginalSpineLen, c.Report.TranslatedSpineLen),
		})
	}

	for _, p := range diff.UnresolvedReferences(c.OriginalPackage.ManifestPaths, c.Original.FileSet()) {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryReference,
			Side:     model.SideOriginal,
			Path:     p,
			Message:  "manifest references missing file",
		})
	}
	for _, p := range diff.UnresolvedReferences(c.TranslatedPackage.ManifestPaths, c.Translated.FileSet()) {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryReference,
			Side:     model.SideTranslated,
			Path:     p,
			Message:  "manifest references missing file",
		})
	}
	return nil
}

// ContentStep detects byte-level changes on paths present in both
// archives. Every change is recorded; only changes to non-markup files
// become content findings, because a translated book is expected to
// differ in its markup text and those documents get their own
// validation step instead.
type ContentStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewContentStep creates a content comparison step.
func NewContentStep(logger *slog.Logger) *ContentStep {
	return &ContentStep{logger: logger}
}

// Name returns the step name.
func (s *ContentStep) Name() string {
	return "content_diff"
}

// Do executes the content comparison step.
func (s *ContentStep) Do(_ context.Context, c *Comparison) error {
	c.Report.Changes = diff.DiffContents(c.Original, c.Translated)

	for _, change := range c.Report.Changes {
		if change.Markup {
			continue
		}
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryContent,
			Path:     change.Path,
			Message:  "content differs",
		})
	}

	s.logger.Debug("content comparison completed",
		"changed", len(c.Report.Changes),
	)
	return nil
}

// MarkupStep runs the heuristic markup checks on the translated side of
// changed markup documents. Inspection is sampled: at most maxDocuments
// documents are validated and the combined findings are capped, because
// markup damage introduced by a translation tool is systematic and a
// sample reads as well as the full set.
type MarkupStep struct {
	// validator runs the registered heuristic checks.
	validator *markup.Validator

	// maxDocuments caps how many changed documents are inspected.
	maxDocuments int

	// encoding is the character encoding assumed for document text.
	encoding string

	// logger for structured logging.
	logger *slog.Logger
}

// NewMarkupStep creates a markup validation step.
func NewMarkupStep(cfg *config.Config, logger *slog.Logger) *MarkupStep {
	return &MarkupStep{
		validator:    markup.New(markup.WithMaxFindings(cfg.MaxMarkupFindings)),
		maxDocuments: cfg.MaxMarkupDocuments,
		encoding:     cfg.Encoding,
		logger:       logger,
	}
}

// Name returns the step name.
func (s *MarkupStep) Name() string {
	return "markup_validate"
}

// Do executes the markup validation step.
func (s *MarkupStep) Do(_ context.Context, c *Comparison) error {
	changes := diff.MarkupChanges(c.Report.Changes, s.maxDocuments)
	if len(changes) == 0 {
		s.logger.Debug("skipping markup validation, no changed markup documents")
		return nil
	}

	files := c.Translated.FileSet()
	var docs []*markup.Document
	for _, change := range changes {
		text, err := c.Translated.ReadText(change.Path, s.encoding)
		if err != nil {
			s.logger.Debug("changed markup document unreadable",
				"path", change.Path,
				"error", err,
			)
			continue
		}
		docs = append(docs, &markup.Document{
			Path:  change.Path,
			Text:  text,
			XHTML: isXHTML(change.Path),
			Files: files,
		})
	}

	for _, msg := range s.validator.ValidateAll(docs) {
		c.Report.AddFinding(model.Finding{
			Category: model.CategoryMarkup,
			Message:  msg,
		})
	}

	s.logger.Debug("markup validation completed",
		"documents", len(docs),
		"findings", c.Report.CountByCategory(model.CategoryMarkup),
	)
	return nil
}

// isXHTML reports whether a path uses the strict markup extension.
func isXHTML(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".xhtml")
}

// DefaultPipeline creates a pipeline with all comparison steps in their
// canonical order.
//
// Design decision: We provide a default pipeline because:
// 1. Every caller wants the full comparison
// 2. Reduces boilerplate in the CLI
// 3. Ensures consistent section ordering in reports
func DefaultPipeline(cfg *config.Config, opts ...Option) *Pipeline {
	p := New(opts...)

	p.AddSteps(
		NewResolveStep(cfg, p.logger),
		NewFileSetStep(),
		NewBootstrapStep(),
		NewRootfileStep(),
		NewManifestStep(p.logger),
		NewContentStep(p.logger),
		NewMarkupStep(cfg, p.logger),
	)
	return p
}
