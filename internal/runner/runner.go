// Package runner orchestrates analysis across files: discovery, parsing,
// suppression scanning, and parallel engine runs. The engine itself is
// pure; everything that touches the filesystem lives here.
package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/framelint/framelint/pkg/dataflow"
	"github.com/framelint/framelint/pkg/lint"
	"github.com/framelint/framelint/pkg/parser"
)

// Options configures a Runner.
type Options struct {
	// Jobs caps concurrent file analyses; 0 means one per file.
	Jobs int
	// Timeout bounds each file's analysis; 0 means no bound. An exceeded
	// bound surfaces as lint.ErrIncomplete on that file's result.
	Timeout time.Duration
	// Config controls enabled rules and severities. Nil enables all.
	Config *lint.Config
	// Table overrides the classification table. Nil uses the default.
	Table *dataflow.Table
	// Logger receives progress events. Nil discards them.
	Logger *slog.Logger
}

// FileResult holds the outcome for one analyzed file. Err is set for a
// malformed tree (fatal for that file only) or an abandoned analysis;
// the other files are unaffected.
type FileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Err         error
}

// Runner analyzes files with a shared engine. Each file gets its own
// parser and tracker, so LintFiles may fan out freely.
type Runner struct {
	engine *lint.Engine
	opts   Options
	logger *slog.Logger
}

// New creates a runner over the given catalog.
func New(catalog lint.Catalog, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		engine: lint.NewEngine(catalog, opts.Config, opts.Table),
		opts:   opts,
		logger: logger,
	}
}

// Discover expands the given paths into the Python files beneath them,
// sorted for deterministic output.
func Discover(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != p {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), ".py") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// LintFiles analyzes the given files, independent files in parallel.
// Per-file failures land in the corresponding FileResult; the returned
// error is reserved for cancellation of the whole batch.
func (r *Runner) LintFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if r.opts.Jobs > 0 {
		g.SetLimit(r.opts.Jobs)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = r.lintFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", lint.ErrIncomplete, err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// LintFile analyzes a single file synchronously.
func (r *Runner) LintFile(ctx context.Context, path string) FileResult {
	return r.lintFile(ctx, path)
}

func (r *Runner) lintFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	tree, err := parser.New().Parse(ctx, src)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	sup := parser.ScanSuppressions(src)
	diags, err := r.engine.Run(ctx, tree, sup.Suppresses)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}

	r.logger.Debug("analyzed file",
		"path", path,
		"findings", len(diags),
		"elapsed", time.Since(start).Round(time.Microsecond))
	return FileResult{Path: path, Diagnostics: diags}
}
