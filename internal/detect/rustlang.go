package detect

import (
	"strings"

	"github.com/indaco/devflake/internal/semver"
	"github.com/pelletier/go-toml/v2"
)

// RustDetector recognizes Rust toolchain markers: Cargo.toml, the
// rust-toolchain file pair, Cargo.lock, and .rs source files.
type RustDetector struct{}

func NewRustDetector() *RustDetector { return &RustDetector{} }

func (d *RustDetector) Language() string { return LangRust }

func (d *RustDetector) Recognizes(name string) bool {
	switch name {
	case "Cargo.toml", "rust-toolchain", "rust-toolchain.toml", "Cargo.lock":
		return true
	}
	return strings.HasSuffix(name, ".rs")
}

func (d *RustDetector) Extract(path string, data []byte) ([]Signal, error) {
	switch baseName(path) {
	case "Cargo.toml":
		return d.extractCargoManifest(path, data)
	case "rust-toolchain":
		return d.extractToolchainChannel(path, strings.TrimSpace(string(data)))
	case "rust-toolchain.toml":
		return d.extractToolchainFile(path, data)
	case "Cargo.lock":
		return []Signal{{Language: LangRust, Source: path, Weight: WeightLockfile}}, nil
	}
	return []Signal{{Language: LangRust, Source: path, Weight: WeightHeuristic}}, nil
}

func (d *RustDetector) extractCargoManifest(path string, data []byte) ([]Signal, error) {
	var manifest struct {
		Package struct {
			RustVersion string `toml:"rust-version"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	presence := Signal{Language: LangRust, Source: path, Weight: WeightManifest}
	if manifest.Package.RustVersion == "" {
		return []Signal{presence}, nil
	}

	req, err := semver.ParseExpr(manifest.Package.RustVersion)
	if err != nil {
		return []Signal{presence}, &ParseError{Path: path, Err: err}
	}
	presence.Requirement = &req
	return []Signal{presence}, nil
}

func (d *RustDetector) extractToolchainFile(path string, data []byte) ([]Signal, error) {
	var toolchain struct {
		Toolchain struct {
			Channel string `toml:"channel"`
		} `toml:"toolchain"`
	}
	if err := toml.Unmarshal(data, &toolchain); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return d.extractToolchainChannel(path, toolchain.Toolchain.Channel)
}

// extractToolchainChannel handles both pinned versions ("1.75.0") and named
// channels ("stable", "nightly-2024-05-01"). Named channels attest presence
// without pinning a version.
func (d *RustDetector) extractToolchainChannel(path, channel string) ([]Signal, error) {
	presence := Signal{Language: LangRust, Source: path, Weight: WeightManifest}
	if channel == "" || isNamedChannel(channel) {
		return []Signal{presence}, nil
	}

	req, err := semver.Parse(channel)
	if err != nil {
		return []Signal{presence}, &ParseError{Path: path, Err: err}
	}
	presence.Requirement = &req
	return []Signal{presence}, nil
}

func isNamedChannel(channel string) bool {
	for _, name := range []string{"stable", "beta", "nightly"} {
		if channel == name || strings.HasPrefix(channel, name+"-") {
			return true
		}
	}
	return false
}
