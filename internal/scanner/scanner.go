// Package scanner walks a source tree and feeds candidate files to the
// detector registry. Traversal is sequential and deterministic; per-file
// detection fans out over a bounded worker group.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/indaco/devflake/internal/core"
	"github.com/indaco/devflake/internal/detect"
)

// Scope selects how far the scan reaches.
type Scope string

const (
	// ScopeRoot inspects only the files directly in the root directory.
	ScopeRoot Scope = "root"

	// ScopeRecursive descends into subdirectories.
	ScopeRecursive Scope = "recursive"
)

// ParseScope validates a scope flag value.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeRoot, ScopeRecursive:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid scope %q (expected %q or %q)", s, ScopeRoot, ScopeRecursive)
}

// defaultExcludes are directory names never descended into. They cover VCS
// metadata, dependency caches, and build output.
var defaultExcludes = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	".devflake":    {},
	"node_modules": {},
	"vendor":       {},
	"target":       {},
	"dist":         {},
	"build":        {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
}

// detectWorkers bounds the per-file detection fan-out.
const detectWorkers = 8

// Options controls a single scan.
type Options struct {
	Scope    Scope
	Excludes []string // extra directory patterns, matched against names
	MaxDepth int      // 0 means core.MaxScanDepth
}

// Result is the outcome of a scan: every signal found plus non-fatal
// warnings encountered along the way.
type Result struct {
	Signals  []detect.Signal
	Warnings []Warning
}

// Scanner walks trees. Safe for reuse across scans.
type Scanner struct {
	fsys     core.FileSystem
	registry *detect.Registry
}

// New creates a Scanner over the given filesystem and detector registry.
func New(fsys core.FileSystem, registry *detect.Registry) *Scanner {
	return &Scanner{fsys: fsys, registry: registry}
}

// Scan inspects root according to opts. A missing or unreadable root is a
// *ScanError; everything below the root degrades to warnings.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	if opts.Scope == "" {
		opts.Scope = ScopeRoot
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = core.MaxScanDepth
	}

	info, err := s.fsys.Stat(ctx, root)
	if err != nil {
		return nil, &ScanError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Path: root, Err: errNotADirectory}
	}

	var (
		mu       sync.Mutex
		signals  []detect.Signal
		warnings []Warning
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detectWorkers)

	inspect := func(rel string) {
		g.Go(func() error {
			sigs, warns := s.registry.Inspect(gctx, s.fsys, root, rel)
			mu.Lock()
			defer mu.Unlock()
			signals = append(signals, sigs...)
			for _, w := range warns {
				warnings = append(warnings, Warning{Path: rel, Err: w})
			}
			return nil
		})
	}

	addWarning := func(rel string, err error) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, Warning{Path: rel, Err: err})
	}

	var walk func(rel string, depth int) error
	walk = func(rel string, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := s.fsys.ReadDir(ctx, filepath.Join(root, rel))
		if err != nil {
			if rel == "" {
				return &ScanError{Path: root, Err: err}
			}
			addWarning(rel, err)
			return nil
		}

		for _, entry := range entries {
			name := entry.Name()
			childRel := name
			if rel != "" {
				childRel = filepath.Join(rel, name)
			}

			// Symlinks are never followed: a link can point outside
			// the root or form a cycle.
			if entry.Type()&fs.ModeSymlink != 0 {
				continue
			}

			if entry.IsDir() {
				if opts.Scope != ScopeRecursive || depth+1 > opts.MaxDepth {
					continue
				}
				if excluded(name, opts.Excludes) {
					continue
				}
				if err := walk(childRel, depth+1); err != nil {
					return err
				}
				continue
			}

			if s.registry.Recognizes(name) {
				inspect(childRel)
			}
		}
		return nil
	}

	if err := walk("", 0); err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortSignals(signals)
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Path < warnings[j].Path })

	return &Result{Signals: signals, Warnings: warnings}, nil
}

// excluded reports whether a directory name is skipped, either by the
// built-in list or a configured pattern.
func excluded(name string, patterns []string) bool {
	if _, ok := defaultExcludes[name]; ok {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// sortSignals gives the result a stable order regardless of detection
// completion order.
func sortSignals(signals []detect.Signal) {
	sort.Slice(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		return a.Weight > b.Weight
	})
}
