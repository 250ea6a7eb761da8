// Package detect implements the per-ecosystem detectors that turn marker
// files into version signals. Detectors are pure functions of file content;
// all filesystem access happens in the registry so detectors stay trivial
// to test.
package detect

import "github.com/indaco/devflake/internal/semver"

// Supported language identifiers, in canonical lowercase form.
const (
	LangGo         = "go"
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangRust       = "rust"
)

// Weight ranks how authoritative a signal's source is. Higher wins during
// resolution.
type Weight int

const (
	// WeightHeuristic covers source-file extensions and shebangs.
	WeightHeuristic Weight = 1

	// WeightManifest covers declared requirements in manifests and
	// version files.
	WeightManifest Weight = 2

	// WeightLockfile covers requirements recorded by a package manager.
	WeightLockfile Weight = 3
)

func (w Weight) String() string {
	switch w {
	case WeightLockfile:
		return "lockfile"
	case WeightManifest:
		return "manifest"
	case WeightHeuristic:
		return "heuristic"
	default:
		return "unknown"
	}
}

// Signal is a single piece of evidence that a language is present. A nil
// Requirement means the source attests presence without pinning a version.
// Manager, when set, names the package manager the source implies.
type Signal struct {
	Language    string
	Source      string
	Weight      Weight
	Requirement *semver.Requirement
	Manager     string
}
