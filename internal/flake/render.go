package flake

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/indaco/devflake/internal/resolve"
)

// StateDirName is the hidden directory holding everything but flake.nix.
const StateDirName = ".devflake"

// DefaultChannel is the nixpkgs branch used when none is configured.
const DefaultChannel = "nixos-unstable"

// File is one generated file, with Path relative to the state directory.
type File struct {
	Path    string
	Content []byte
}

// Artifacts is the fully rendered descriptor set.
type Artifacts struct {
	FlakeNix []byte
	Files    []File // devShell.nix, per-language packages.nix, overlay
}

// DescriptorHash is the content hash of the top-level descriptor.
func (a *Artifacts) DescriptorHash() string {
	return HashBytes(a.FlakeNix)
}

// HashBytes hashes file content the same way the state store records it.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Options tunes rendering.
type Options struct {
	Channel string // nixpkgs branch, DefaultChannel when empty
}

// Render produces the descriptor for the given entries. Conflicting
// entries are skipped; callers decide whether a conflict aborts the run.
// Output depends only on the entries, never on clock or map order.
func Render(entries []resolve.Entry, opts Options) *Artifacts {
	if opts.Channel == "" {
		opts.Channel = DefaultChannel
	}

	var active []resolve.Entry
	have := make(map[string]bool)
	for _, e := range entries {
		if e.Conflict {
			continue
		}
		if _, known := languageDirs[e.Language]; !known {
			continue
		}
		active = append(active, e)
		have[e.Language] = true
	}

	needGo := have["go"]
	needNode := have["javascript"]
	needPython := have["python"]
	needRust := have["rust"]

	a := &Artifacts{
		FlakeNix: []byte(renderFlakeNix(needGo, needPython, needNode, needRust, opts.Channel)),
	}
	a.Files = append(a.Files, File{Path: "devShell.nix", Content: []byte(renderDevShell())})

	for _, e := range active {
		var content string
		switch e.Language {
		case "go":
			content = renderGoPackages(e)
		case "javascript":
			content = renderNodePackages(e)
		case "python":
			content = renderPythonPackages(e)
		case "rust":
			content = renderRustPackages(e)
		}
		a.Files = append(a.Files, File{
			Path:    languageDirs[e.Language] + "/packages.nix",
			Content: []byte(content),
		})
	}

	if needRust {
		a.Files = append(a.Files, File{Path: "rust/overlay.nix", Content: []byte(renderRustOverlay())})
	}

	return a
}

func renderFlakeNix(needGo, needPython, needNode, needRust bool, channel string) string {
	var sb strings.Builder

	sb.WriteString("# Generated by devflake\n")
	sb.WriteString("#\n")
	sb.WriteString("# This flake uses a multi-file structure:\n")
	sb.WriteString("#   " + StateDirName + "/devShell.nix              - Development shell\n")
	sb.WriteString("#   " + StateDirName + "/{language}/packages.nix   - Language toolchains and tools\n")
	sb.WriteString("#\n")
	sb.WriteString("{\n")
	sb.WriteString("  description = \"Generated by devflake (devShells.default)\";\n\n")

	sb.WriteString("  inputs = {\n")
	fmt.Fprintf(&sb, "    nixpkgs.url = \"github:NixOS/nixpkgs/%s\";\n", EscapeString(channel))
	sb.WriteString("    flake-utils.url = \"github:numtide/flake-utils\";\n")
	if needRust {
		sb.WriteString("    rust-overlay = {\n")
		sb.WriteString("      url = \"github:oxalica/rust-overlay\";\n")
		sb.WriteString("      inputs.nixpkgs.follows = \"nixpkgs\";\n")
		sb.WriteString("    };\n")
	}
	sb.WriteString("  };\n\n")

	sb.WriteString("  outputs = { self, nixpkgs, flake-utils")
	if needRust {
		sb.WriteString(", rust-overlay")
	}
	sb.WriteString(" }:\n")
	sb.WriteString("    flake-utils.lib.eachDefaultSystem (system:\n")
	sb.WriteString("      let\n")

	if needRust {
		sb.WriteString("        overlays = [ (import ./" + StateDirName + "/rust/overlay.nix { inherit rust-overlay; }) ];\n")
		sb.WriteString("        pkgs = import nixpkgs { inherit system overlays; };\n")
	} else {
		sb.WriteString("        pkgs = import nixpkgs { inherit system; };\n")
	}
	sb.WriteString("        lib = pkgs.lib;\n\n")

	if needGo {
		sb.WriteString("        golangPackages = import ./" + StateDirName + "/golang/packages.nix { inherit pkgs lib; };\n")
	}
	if needPython {
		sb.WriteString("        pythonPackages = import ./" + StateDirName + "/python/packages.nix { inherit pkgs lib; };\n")
	}
	if needNode {
		sb.WriteString("        nodejsPackages = import ./" + StateDirName + "/nodejs/packages.nix { inherit pkgs lib; };\n")
	}
	if needRust {
		sb.WriteString("        rustPackages = import ./" + StateDirName + "/rust/packages.nix { inherit pkgs lib; };\n")
	}
	if needGo || needPython || needNode || needRust {
		sb.WriteString("\n")
	}

	sb.WriteString("        devPackages = []")
	for _, src := range activeSources(needGo, needPython, needNode, needRust, ".packages") {
		sb.WriteString("\n          ++ " + src)
	}
	sb.WriteString(";\n\n")

	sb.WriteString("        notices = []")
	for _, src := range activeSources(needGo, needPython, needNode, needRust, ".notices") {
		sb.WriteString("\n          ++ " + src)
	}
	sb.WriteString(";\n\n")

	sb.WriteString("      in\n")
	sb.WriteString("      {\n")

	sb.WriteString("        devShells.default = import ./" + StateDirName + "/devShell.nix {\n")
	sb.WriteString("          inherit pkgs lib devPackages notices;\n")
	if needGo {
		sb.WriteString("          go = golangPackages.go or null;\n")
		sb.WriteString("          goAttr = golangPackages.goAttr or null;\n")
		sb.WriteString("          wantGoAttr = golangPackages.wantGoAttr or null;\n")
	}
	if needPython {
		sb.WriteString("          python = pythonPackages.python or null;\n")
		sb.WriteString("          pythonAttr = pythonPackages.pythonAttr or null;\n")
		sb.WriteString("          wantPythonAttr = pythonPackages.wantPythonAttr or null;\n")
	}
	if needNode {
		sb.WriteString("          node = nodejsPackages.node or null;\n")
		sb.WriteString("          nodeAttr = nodejsPackages.nodeAttr or null;\n")
		sb.WriteString("          wantNodeAttr = nodejsPackages.wantNodeAttr or null;\n")
	}
	if needRust {
		sb.WriteString("          rustToolchain = rustPackages.rustToolchain or null;\n")
	}
	sb.WriteString("        };\n")

	sb.WriteString("      });\n")
	sb.WriteString("}\n")

	return sb.String()
}

func activeSources(needGo, needPython, needNode, needRust bool, suffix string) []string {
	var out []string
	if needGo {
		out = append(out, "golangPackages"+suffix)
	}
	if needPython {
		out = append(out, "pythonPackages"+suffix)
	}
	if needNode {
		out = append(out, "nodejsPackages"+suffix)
	}
	if needRust {
		out = append(out, "rustPackages"+suffix)
	}
	return out
}

func renderDevShell() string {
	var sb strings.Builder

	sb.WriteString(fileHeader("Development shell configuration"))
	sb.WriteString("{ pkgs, lib, devPackages, notices ? []\n, go ? null, goAttr ? null, wantGoAttr ? null\n, python ? null, pythonAttr ? null, wantPythonAttr ? null\n, node ? null, nodeAttr ? null, wantNodeAttr ? null\n, rustToolchain ? null\n}:\n\n")
	sb.WriteString("pkgs.mkShell {\n")
	sb.WriteString("  packages = devPackages;\n\n")
	sb.WriteString("  shellHook = ''\n")
	sb.WriteString("    echo \"devflake: generated devShell (best-effort)\"\n\n")
	sb.WriteString("    ${lib.optionalString (go != null) ''\n      echo \"devflake: Go attr: ${goAttr} (requested ${wantGoAttr})\"\n      if [ \"${goAttr}\" != \"${wantGoAttr}\" ]; then\n        echo \"devflake: NOTE: ${wantGoAttr} not found; using ${goAttr}\"\n      fi\n    ''}\n\n")
	sb.WriteString("    ${lib.optionalString (python != null) ''\n      echo \"devflake: Python attr: ${pythonAttr} (requested ${wantPythonAttr})\"\n      if [ \"${pythonAttr}\" != \"${wantPythonAttr}\" ]; then\n        echo \"devflake: NOTE: ${wantPythonAttr} not found; using ${pythonAttr}\"\n      fi\n    ''}\n\n")
	sb.WriteString("    ${lib.optionalString (node != null) ''\n      echo \"devflake: Node attr: ${nodeAttr} (requested ${wantNodeAttr})\"\n      if [ \"${nodeAttr}\" != \"${wantNodeAttr}\" ]; then\n        echo \"devflake: NOTE: ${wantNodeAttr} not found; using ${nodeAttr}\"\n      fi\n    ''}\n\n")
	sb.WriteString("    ${lib.optionalString (rustToolchain != null) ''\n      echo \"devflake: Rust toolchain enabled (rust-overlay)\"\n    ''}\n\n")
	sb.WriteString("    ${lib.concatMapStringsSep \"\\n\" (msg: \"echo ${lib.escapeShellArg msg}\") notices}\n")
	sb.WriteString("  '';\n")
	sb.WriteString("}\n")

	return sb.String()
}
