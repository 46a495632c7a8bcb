package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/epub"
	"github.com/nao1215/epubdiff/internal/model"
)

// Comparison carries the shared state of one comparison run.
// Steps read the archives and the parsed package documents from it and
// append their results to Report.
//
// Design decision: Steps receive this state struct rather than the
// report alone because later steps depend on what earlier steps parsed
// (the manifest step needs the package documents the resolve step
// produced). Passing the state explicitly keeps that dependency visible
// instead of hiding it in package-level variables.
type Comparison struct {
	// Original is the opened original archive.
	Original *epub.Archive

	// Translated is the opened translated archive.
	Translated *epub.Archive

	// OriginalPackage is the original's parsed package document, nil
	// when the container descriptor or the document itself is missing
	// or unparseable.
	OriginalPackage *epub.Package

	// TranslatedPackage is the translated archive's parsed package
	// document, nil under the same conditions.
	TranslatedPackage *epub.Package

	// Config holds the run configuration (display caps, encoding).
	Config *config.Config

	// Report accumulates everything the steps find.
	Report *model.ComparisonReport
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the
// accumulated comparison state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., optional steps)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the comparison
	// state to inspect and modify. Returns an error only on critical
	// failure; divergences are recorded as findings and return nil.
	Do(ctx context.Context, c *Comparison) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and their errors
// are recorded in the report, but subsequent steps still execute.
//
// Design decision: The default pipeline enables this because a
// diagnostic report with one stage missing is still more useful than
// no report: the remaining stages inspect independent aspects of the
// archive pair.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	// Set default logger if not provided
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because a single comparison is cheap and strictly sequential;
// cancellation between steps is granular enough.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in the report).
func (p *Pipeline) Execute(ctx context.Context, c *Comparison) error {
	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
			// Continue with execution
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"original", c.Report.OriginalPath,
			"translated", c.Report.TranslatedPath,
		)

		// Execute the step
		if err := step.Do(ctx, c); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)

			// Record the error in the report
			c.Report.Error = err
			c.Report.ErrorMessage = err.Error()

			// Stop or continue based on configuration
			if !p.continueOnError {
				return err
			}
		}

		// Track which steps were performed
		c.Report.PerformedSteps = append(c.Report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
