package detect

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/indaco/devflake/internal/core"
)

// Detector recognizes marker files for one language and extracts signals
// from their content. Extract receives the file's root-relative path (used
// as the signal source) and its content; content is nil for files the
// registry recognizes by extension only.
type Detector interface {
	Language() string
	Recognizes(name string) bool
	Extract(path string, data []byte) ([]Signal, error)
}

// Registry holds the active detectors. Construct one explicitly; there is
// no package-level registration.
type Registry struct {
	detectors []Detector
}

// NewRegistry creates a registry over the given detectors.
func NewRegistry(detectors ...Detector) *Registry {
	return &Registry{detectors: detectors}
}

// DefaultRegistry returns a registry with all built-in detectors.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewGoDetector(),
		NewJavaScriptDetector(),
		NewPythonDetector(),
		NewRustDetector(),
	)
}

// Recognizes reports whether any detector is interested in the file name.
func (r *Registry) Recognizes(name string) bool {
	for _, d := range r.detectors {
		if d.Recognizes(name) {
			return true
		}
	}
	return false
}

// Inspect runs every interested detector against the file at rel (relative
// to root). File content is read once, and only for files whose content can
// carry a version. Parse failures come back as warnings alongside whatever
// signals the other detectors produced.
func (r *Registry) Inspect(ctx context.Context, fsys core.FileSystem, root, rel string) ([]Signal, []error) {
	name := filepath.Base(rel)

	var interested []Detector
	for _, d := range r.detectors {
		if d.Recognizes(name) {
			interested = append(interested, d)
		}
	}
	if len(interested) == 0 {
		return nil, nil
	}

	var data []byte
	if needsContent(name) {
		var err error
		data, err = fsys.ReadFile(ctx, filepath.Join(root, rel))
		if err != nil {
			return nil, []error{fmt.Errorf("failed to read %s: %w", rel, err)}
		}
	}

	source := filepath.ToSlash(rel)

	var (
		signals  []Signal
		warnings []error
	)
	for _, d := range interested {
		sigs, err := d.Extract(source, data)
		if err != nil {
			warnings = append(warnings, err)
		}
		signals = append(signals, sigs...)
	}
	return signals, warnings
}

// contentMarkers lists file names whose content carries version or package
// manager information. Everything else is matched on name alone.
var contentMarkers = map[string]struct{}{
	"go.mod":              {},
	".go-version":         {},
	"Cargo.toml":          {},
	"rust-toolchain":      {},
	"rust-toolchain.toml": {},
	"pyproject.toml":      {},
	".python-version":     {},
	"Pipfile":             {},
	"Pipfile.lock":        {},
	"poetry.lock":         {},
	"uv.lock":             {},
	"setup.py":            {},
	"package.json":        {},
	"package-lock.json":   {},
	"pnpm-lock.yaml":      {},
	".nvmrc":              {},
	".node-version":       {},
	".bun-version":        {},
}

func needsContent(name string) bool {
	if _, ok := contentMarkers[name]; ok {
		return true
	}
	// Extensionless files are shebang candidates.
	return !strings.Contains(name, ".")
}
