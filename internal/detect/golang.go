package detect

import (
	"strings"

	"github.com/indaco/devflake/internal/semver"
)

// GoDetector recognizes Go toolchain markers: go.mod, .go-version, go.work,
// go.sum, and .go source files.
type GoDetector struct{}

func NewGoDetector() *GoDetector { return &GoDetector{} }

func (d *GoDetector) Language() string { return LangGo }

func (d *GoDetector) Recognizes(name string) bool {
	switch name {
	case "go.mod", ".go-version", "go.work", "go.sum":
		return true
	}
	return strings.HasSuffix(name, ".go")
}

func (d *GoDetector) Extract(path string, data []byte) ([]Signal, error) {
	name := baseName(path)

	switch name {
	case "go.mod":
		return d.extractGoMod(path, data)
	case ".go-version":
		return extractVersionFile(LangGo, path, WeightManifest, data)
	case "go.work":
		return []Signal{{Language: LangGo, Source: path, Weight: WeightManifest}}, nil
	case "go.sum":
		return []Signal{{Language: LangGo, Source: path, Weight: WeightLockfile}}, nil
	}
	return []Signal{{Language: LangGo, Source: path, Weight: WeightHeuristic}}, nil
}

// extractGoMod pulls the version from the go directive. A module file
// without one still attests presence.
func (d *GoDetector) extractGoMod(path string, data []byte) ([]Signal, error) {
	for _, line := range strings.Split(string(data), "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "go ")
		if !ok {
			continue
		}
		req, err := semver.Parse(rest)
		if err != nil {
			return []Signal{{Language: LangGo, Source: path, Weight: WeightManifest}},
				&ParseError{Path: path, Err: err}
		}
		return []Signal{{Language: LangGo, Source: path, Weight: WeightManifest, Requirement: &req}}, nil
	}
	return []Signal{{Language: LangGo, Source: path, Weight: WeightManifest}}, nil
}
