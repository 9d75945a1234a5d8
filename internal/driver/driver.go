package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"extlint/internal/diag"
	"extlint/internal/engine"
	"extlint/internal/fix"
	"extlint/internal/observ"
	"extlint/internal/parser"
	"extlint/internal/project"
	"extlint/internal/rules"
	"extlint/internal/source"
	"extlint/internal/symbols"
)

// defaultBagCap bounds per-file diagnostics when the caller does not.
const defaultBagCap = 512

// EventKind identifies a progress notification.
type EventKind uint8

const (
	// EventFileStart fires when a worker picks up a file.
	EventFileStart EventKind = iota
	// EventFileDone fires when a file's analysis finished.
	EventFileDone
)

// Event is one progress notification. Callbacks may run from several
// workers; the driver serializes delivery.
type Event struct {
	Kind     EventKind
	Path     string
	Index    int // position in the batch, 0-based
	Total    int
	Findings int  // EventFileDone only
	Cached   bool // EventFileDone only
}

// Options configures a batch run.
type Options struct {
	Settings project.Settings

	// Registry defaults to the builtin rule set when nil.
	Registry *rules.Registry

	// Cache may be nil to disable result caching.
	Cache *Cache

	// FixOptions scopes the fix pass when Settings.Mode is ModeFix.
	FixOptions fix.Options

	// MaxDiagnostics caps each file's bag; <= 0 picks a default.
	MaxDiagnostics int

	// BaseDir anchors relative path formatting; empty means cwd.
	BaseDir string

	Timer    *observ.Timer
	Progress func(Event)
}

// FileResult is the outcome for one file in the batch.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Bag         *diag.Bag
	ParseFailed bool
	FromCache   bool
	LoadFailed  bool
}

// Result is the outcome of a whole run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult

	// Fix is set when a fix pass ran, even if it applied nothing.
	Fix *fix.Result
}

// Merged returns every file's diagnostics in one sorted bag.
func (r *Result) Merged() *diag.Bag {
	merged := diag.NewBag(0)
	for _, fr := range r.Files {
		merged.Merge(fr.Bag)
	}
	merged.Sort()
	return merged
}

// Run analyzes the files named by args (files or directories). One file
// failing to load or parse degrades that file's result, not the batch;
// only a rule invariant violation aborts the run.
func Run(ctx context.Context, args []string, opts Options) (*Result, error) {
	registry := opts.Registry
	if registry == nil {
		var err error
		registry, err = rules.Builtin()
		if err != nil {
			return nil, err
		}
	}
	active := registry.Enabled(opts.Settings.Categories)
	fingerprint := rules.FingerprintOf(active)

	bagCap := opts.MaxDiagnostics
	if bagCap <= 0 {
		bagCap = defaultBagCap
	}

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	collectPhase := timer.Begin("collect")
	paths, err := CollectFiles(args)
	timer.End(collectPhase, fmt.Sprintf("%d files", len(paths)))
	if err != nil {
		return nil, err
	}

	fs := source.NewFileSetWithBase(opts.BaseDir)
	result := &Result{
		FileSet: fs,
		Files:   make([]FileResult, len(paths)),
	}

	// Preload runs serially: the FileSet is not safe for concurrent Add.
	loadPhase := timer.Begin("load")
	for i, path := range paths {
		fr := &result.Files[i]
		fr.Path = path
		fr.Bag = diag.NewBag(bagCap)

		id, err := fs.Load(path)
		if err != nil {
			// Keep a placeholder so the diagnostic formats with the path.
			id = fs.AddVirtual(path, nil)
			fr.LoadFailed = true
			fr.Bag.Add(diag.NewError(diag.IOLoadFileError,
				source.Span{File: id},
				fmt.Sprintf("cannot read %s: %v", path, err)))
		}
		fr.FileID = id
	}
	timer.End(loadPhase, "")

	var progressMu sync.Mutex
	notify := func(ev Event) {
		if opts.Progress == nil {
			return
		}
		progressMu.Lock()
		opts.Progress(ev)
		progressMu.Unlock()
	}

	analyzePhase := timer.Begin("analyze")
	g, gctx := errgroup.WithContext(ctx)
	if len(paths) > 0 {
		g.SetLimit(min(max(opts.Settings.MaxWorkers, 1), len(paths)))
	}

	for i := range result.Files {
		i := i
		fr := &result.Files[i]
		if fr.LoadFailed {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			notify(Event{Kind: EventFileStart, Path: fr.Path, Index: i, Total: len(paths)})

			file := fs.Get(fr.FileID)
			if err := analyzeFile(file, fr, active, fingerprint, opts); err != nil {
				return err
			}

			notify(Event{
				Kind: EventFileDone, Path: fr.Path, Index: i, Total: len(paths),
				Findings: fr.Bag.Len(), Cached: fr.FromCache,
			})
			return nil
		})
	}
	err = g.Wait()
	timer.End(analyzePhase, "")
	if err != nil {
		return result, err
	}

	if opts.Settings.Mode == project.ModeFix {
		fixPhase := timer.Begin("fix")
		fixResult, err := fix.Apply(fs, result.Merged().Items(), opts.FixOptions)
		timer.End(fixPhase, "")
		result.Fix = fixResult
		if err != nil && !errors.Is(err, fix.ErrNoFixes) {
			return result, err
		}
	}

	return result, nil
}

// analyzeFile fills fr.Bag for one loaded file, consulting the cache first.
func analyzeFile(file *source.File, fr *FileResult, active []rules.Rule, fingerprint string, opts Options) error {
	if items, ok, err := opts.Cache.Get(file, fingerprint); err == nil && ok {
		for _, d := range items {
			fr.Bag.Add(d)
		}
		fr.Bag.Sort()
		fr.FromCache = true
		return nil
	}

	root, err := parser.Parse(file, diag.BagReporter{Bag: fr.Bag})
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		fr.ParseFailed = true
		fr.Bag.Sort()
		return nil
	}
	if err != nil {
		return err
	}

	table := symbols.Build(root, opts.Settings.ExtraSymbols)
	symbols.Annotate(root, table)

	ctx := &rules.Context{File: file, Table: table}
	if err := engine.Evaluate(ctx, root, active, fr.Bag); err != nil {
		return err
	}

	// A saturated bag may have dropped findings; do not cache it.
	if fr.Bag.Len() < fr.Bag.Cap() {
		if err := opts.Cache.Put(file, fingerprint, fr.Bag.Items()); err != nil {
			return nil // cache write failures never fail the run
		}
	}
	return nil
}
