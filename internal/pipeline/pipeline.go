package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/richhaase/aifix/internal/cache"
	"github.com/richhaase/aifix/internal/classify"
	"github.com/richhaase/aifix/internal/domain"
	"github.com/richhaase/aifix/internal/patch"
	"github.com/richhaase/aifix/internal/provider"
	"github.com/richhaase/aifix/internal/strategy"
	"github.com/richhaase/aifix/internal/terminal"
)

// DefaultMaxIterations bounds the fix loop.
const DefaultMaxIterations = 3

// Linter aggregates findings from the enabled lint tools.
type Linter interface {
	Collect(ctx context.Context, tools, files []string) ([]domain.LintError, []error)
}

// Fixer produces a fix suggestion for one error.
type Fixer interface {
	Fix(ctx context.Context, req provider.Request) (*domain.FixSuggestion, error)
}

// Interactor presents a suggestion and returns the user's decision.
type Interactor interface {
	Review(e *domain.LintError, s *domain.FixSuggestion, diff string) (patch.Action, *domain.FixSuggestion, error)
}

// Options configures a run.
type Options struct {
	Tools []string
	Files []string

	// Auto applies prompt_fix suggestions without asking. never_fix
	// errors are still excluded.
	Auto bool
	// DryRun renders diffs without writing anything.
	DryRun bool
	// Explain logs each suggestion's explanation.
	Explain bool
	// SingleIssue forces one error per batch.
	SingleIssue bool

	MaxIterations int
	ContextLines  int
	BatchSizes    BatchSizes
}

// Pipeline is the iteration controller.
type Pipeline struct {
	linter     Linter
	fixer      Fixer
	interactor Interactor
	classifier *classify.Classifier
	resolver   *strategy.Resolver
	store      *cache.Store
	logger     *terminal.Logger
	opts       Options

	readFile func(string) ([]byte, error)
	applyFix func(*domain.LintError, *domain.FixSuggestion) error
}

// New assembles a pipeline.
func New(l Linter, f Fixer, i Interactor, c *classify.Classifier, r *strategy.Resolver, store *cache.Store, logger *terminal.Logger, opts Options) *Pipeline {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.BatchSizes == (BatchSizes{}) {
		opts.BatchSizes = DefaultBatchSizes()
	}
	return &Pipeline{
		linter:     l,
		fixer:      f,
		interactor: i,
		classifier: c,
		resolver:   r,
		store:      store,
		logger:     logger,
		opts:       opts,
		readFile:   os.ReadFile,
		applyFix:   patch.Apply,
	}
}

// Check aggregates findings without fixing anything.
func (p *Pipeline) Check(ctx context.Context) ([]domain.LintError, []error) {
	errs, diags := p.linter.Collect(ctx, p.opts.Tools, p.opts.Files)
	p.hydrate(errs)
	return errs, diags
}

// Run drives the fix loop to completion and finalizes a summary. The
// loop ends when the iteration budget is spent, a pass applies zero
// fixes, or the unresolved set stops changing.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	start := time.Now()
	summary := &domain.RunSummary{}
	defer func() { summary.Duration = time.Since(start) }()

	p.logf(terminal.StylePhase, "aggregating lint errors")
	current, diags := p.linter.Collect(ctx, p.opts.Tools, p.opts.Files)
	for _, d := range diags {
		p.logf(terminal.StyleWarning, "%v", d)
	}
	p.hydrate(current)
	summary.Found = len(current)
	if len(current) == 0 {
		p.logf(terminal.StyleSuccess, "no lint errors found")
		return summary, nil
	}
	p.logf(terminal.StyleInfo, "found %d %s", len(current),
		terminal.Pluralize(len(current), "error", "errors"))

	// Regressions keep their origin's urgency across iterations.
	origins := make(map[string]string)
	var prevSet map[string]bool
	quit := false
	canceled := false

	for iter := 1; iter <= p.opts.MaxIterations; iter++ {
		summary.Iterations = iter

		workable, skipped := p.splitByStrategy(current)
		if len(workable) == 0 {
			p.logf(terminal.StyleInfo, "%d remaining %s blocked by never_fix",
				skipped, terminal.Pluralize(skipped, "error", "errors"))
			break
		}

		batches := Partition(workable, p.classifier, p.opts.BatchSizes, p.opts.SingleIssue)
		p.logf(terminal.StylePhase, "fix pass %d: %d batches", iter, len(batches))

		applied := 0
		for _, batch := range batches {
			res := p.processBatch(ctx, batch, summary)
			applied += res.applied
			if len(res.touched) > 0 {
				p.validateBatch(ctx, current, res, origins)
			}
			if res.canceled {
				canceled = true
				break
			}
			if res.quit {
				quit = true
				break
			}
		}
		if canceled {
			summary.Interrupted = true
			break
		}
		if quit {
			// A quit ends the run but keeps the fixes applied so far;
			// re-lint so the final count reflects them.
			next, _ := p.linter.Collect(ctx, p.opts.Tools, p.opts.Files)
			current = next
			break
		}
		if p.opts.DryRun {
			// Nothing was written, so re-linting cannot converge.
			break
		}

		next, _ := p.linter.Collect(ctx, p.opts.Tools, p.opts.Files)
		p.hydrate(next)
		for i := range next {
			if origin, ok := origins[next[i].File+"\x00"+next[i].Signature()]; ok {
				next[i].OriginCategory = origin
			}
		}
		classify.SortErrors(next)

		set := signatureSet(next)
		identical := prevSet != nil && sameSignatureSet(set, prevSet)
		prevSet = set
		current = next

		if len(current) == 0 {
			break
		}
		if applied == 0 {
			p.logf(terminal.StyleInfo, "no fixes applied this pass, stopping")
			break
		}
		if identical {
			p.logf(terminal.StyleInfo, "unresolved errors unchanged since last pass, stopping")
			break
		}
	}

	if err := p.store.Flush(); err != nil {
		p.logf(terminal.StyleWarning, "%v", err)
	}

	if p.opts.DryRun {
		// Nothing was written; dry-run reports would-fix counts and
		// finalizes clean.
		summary.Unresolved = 0
	} else {
		summary.Unresolved = len(current)
	}
	return summary, nil
}

// splitByStrategy separates fixable errors from never_fix ones, which
// are excluded from every downstream stage and counted unresolved.
func (p *Pipeline) splitByStrategy(errs []domain.LintError) (workable []domain.LintError, skipped int) {
	for _, e := range errs {
		if p.resolver.Resolve(&e) == domain.StrategyNeverFix {
			skipped++
			continue
		}
		workable = append(workable, e)
	}
	return workable, skipped
}

type batchResult struct {
	applied int
	// quit is a user cancellation; canceled is a context cancellation.
	// Both stop the run, but only canceled marks it interrupted.
	quit     bool
	canceled bool
	touched  []string
	tools    []string
}

// processBatch drives one batch through suggestion, decision, and
// application. Items are independent: a failure leaves its error
// unresolved without aborting the batch.
func (p *Pipeline) processBatch(ctx context.Context, batch Batch, summary *domain.RunSummary) batchResult {
	var res batchResult
	touched := make(map[string]bool)
	tools := make(map[string]bool)

	for _, e := range batch.Errors {
		if ctx.Err() != nil {
			res.canceled = true
			break
		}

		suggestion, err := p.suggest(ctx, e, batch)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				res.canceled = true
				break
			}
			summary.Failed++
			p.logf(terminal.StyleWarning, "no fix for %s: %v", e.String(), err)
			continue
		}
		if p.opts.Explain && suggestion.Explanation != "" {
			p.logf(terminal.StyleInfo, "%s: %s", e.LocationKey(), suggestion.Explanation)
		}

		content, err := p.readFile(e.File)
		if err != nil {
			summary.Failed++
			p.logf(terminal.StyleWarning, "reading %s: %v", e.File, err)
			continue
		}
		updated, err := patch.Render(string(content), &e, suggestion)
		if err != nil {
			summary.Failed++
			p.logf(terminal.StyleWarning, "%v", err)
			continue
		}
		diff := patch.Unified(string(content), updated, e.File)

		if p.opts.DryRun {
			summary.WouldFix++
			p.logf(terminal.StyleInfo, "would fix %s", e.String())
			fmt.Fprint(os.Stdout, patch.Colorize(diff))
			continue
		}

		auto := p.opts.Auto || p.resolver.Resolve(&e) == domain.StrategyAutoFix
		if !auto {
			action, edited, reviewErr := p.interactor.Review(&e, suggestion, diff)
			if reviewErr != nil {
				summary.Failed++
				continue
			}
			switch action {
			case patch.ActionQuit:
				summary.Skipped++
				res.quit = true
				p.recordTouched(&res, touched, tools)
				return res
			case patch.ActionSkip:
				summary.Skipped++
				continue
			}
			suggestion = edited
		}

		if err := p.applyFix(&e, suggestion); err != nil {
			summary.Failed++
			p.logf(terminal.StyleWarning, "%v", err)
			continue
		}
		summary.Fixed++
		res.applied++
		touched[e.File] = true
		tools[e.Tool] = true
		p.store.Put(e.Signature(), *suggestion)
		p.logf(terminal.StyleSuccess, "fixed %s", e.String())
	}

	p.recordTouched(&res, touched, tools)
	return res
}

func (p *Pipeline) recordTouched(res *batchResult, touched, tools map[string]bool) {
	for f := range touched {
		res.touched = append(res.touched, f)
	}
	for tool := range tools {
		res.tools = append(res.tools, tool)
	}
}

// suggest consults the cache before the provider chain.
func (p *Pipeline) suggest(ctx context.Context, e domain.LintError, batch Batch) (*domain.FixSuggestion, error) {
	if cached, ok := p.store.Get(e.Signature()); ok {
		p.logf(terminal.StyleDim, "cache hit for %s", e.LocationKey())
		return &cached, nil
	}

	content, _ := p.readFile(e.File)
	req := provider.Request{
		Target:      e,
		Batch:       batch.Errors,
		FileContent: string(content),
		Excerpt:     e.Context,
		Complexity:  batch.Complexity,
	}
	return p.fixer.Fix(ctx, req)
}

// validateBatch re-lints the files a batch touched and classifies the
// delta against every error known before the pass, not just the
// batch's own: a pre-existing error in a touched file is StillPresent,
// not a regression. Regressions are recorded so the next pass treats
// them with at least the origin's urgency.
func (p *Pipeline) validateBatch(ctx context.Context, known []domain.LintError, res batchResult, origins map[string]string) {
	if p.opts.DryRun || len(res.touched) == 0 {
		return
	}

	after, _ := p.linter.Collect(ctx, res.tools, res.touched)
	p.hydrate(after)

	touchedSet := make(map[string]bool, len(res.touched))
	for _, f := range res.touched {
		touchedSet[f] = true
	}
	toolSet := make(map[string]bool, len(res.tools))
	for _, tool := range res.tools {
		toolSet[tool] = true
	}

	// The re-lint covers (tools x touched files); scope the pre-fix
	// set the same way so the comparison is like for like.
	var before []domain.LintError
	for _, e := range known {
		if touchedSet[e.File] && toolSet[e.Tool] {
			before = append(before, e)
		}
	}

	delta := ComputeDelta(before, after)
	for _, e := range delta.Introduced {
		origins[e.File+"\x00"+e.Signature()] = e.OriginCategory
		p.logf(terminal.StyleWarning, "fix introduced new error: %s", e.String())
	}
	p.logf(terminal.StyleDim, "validated %d %s: %d resolved, %d still present, %d introduced",
		len(res.touched), terminal.Pluralize(len(res.touched), "file", "files"),
		len(delta.Resolved), len(delta.StillPresent), len(delta.Introduced))
}

// hydrate fills each error's context excerpt from its file.
func (p *Pipeline) hydrate(errs []domain.LintError) {
	contents := make(map[string]string)
	for i := range errs {
		e := &errs[i]
		if e.Context != "" {
			continue
		}
		content, ok := contents[e.File]
		if !ok {
			data, err := p.readFile(e.File)
			if err != nil {
				continue
			}
			content = string(data)
			contents[e.File] = content
		}
		e.Context, e.ContextStart = patch.ExtractContext(content, e.Line, p.opts.ContextLines)
	}
}

func (p *Pipeline) logf(style terminal.Style, format string, args ...any) {
	if p.logger != nil {
		p.logger.Logf(style, format, args...)
	}
}
