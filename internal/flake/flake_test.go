package flake

import (
	"bytes"
	"strings"
	"testing"

	"github.com/indaco/devflake/internal/detect"
	"github.com/indaco/devflake/internal/resolve"
	"github.com/indaco/devflake/internal/semver"
)

func req(t *testing.T, s string) *semver.Requirement {
	t.Helper()
	r, err := semver.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", s, err)
	}
	return &r
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello world", want: "hello world"},
		{name: "quotes", input: `hello "world"`, want: `hello \"world\"`},
		{name: "interpolation", input: "${foo}", want: `\${foo}`},
		{name: "bare dollar untouched", input: "$foo", want: "$foo"},
		{name: "backslashes", input: `C:\path\to\file`, want: `C:\\path\\to\\file`},
		{name: "newlines", input: "line1\nline2\r\nline3", want: `line1\nline2\r\nline3`},
		{name: "tab", input: "a\tb", want: `a\tb`},
		{name: "trailing dollar", input: "cost$", want: "cost$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeString(tt.input); got != tt.want {
				t.Errorf("EscapeString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAttrInference(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*semver.Requirement) string
		in   string
		want string
	}{
		{name: "go major minor", fn: goAttrFromRequirement, in: "1.22.1", want: "go_1_22"},
		{name: "go partial", fn: goAttrFromRequirement, in: "1.21", want: "go_1_21"},
		{name: "go major only", fn: goAttrFromRequirement, in: "1", want: ""},
		{name: "python", fn: pythonAttrFromRequirement, in: ">=3.11", want: "python311"},
		{name: "python wildcard", fn: pythonAttrFromRequirement, in: "*", want: ""},
		{name: "node major", fn: nodeAttrFromRequirement, in: "18", want: "nodejs_18"},
		{name: "node caret", fn: nodeAttrFromRequirement, in: "^20.10.0", want: "nodejs_20"},
		{name: "node upper bound only", fn: nodeAttrFromRequirement, in: "<21", want: ""},
		{name: "rust full triple", fn: rustVersionFromRequirement, in: "1.75.0", want: "1.75.0"},
		{name: "rust partial", fn: rustVersionFromRequirement, in: ">=1.70", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(req(t, tt.in)); got != tt.want {
				t.Errorf("attr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := goAttrFromRequirement(nil); got != "" {
		t.Errorf("attr(nil) = %q, want empty", got)
	}
}

func TestRenderGoPackages(t *testing.T) {
	out := renderGoPackages(resolve.Entry{
		Language:    detect.LangGo,
		Requirement: req(t, "1.22.1"),
		Source:      "go.mod",
	})

	for _, want := range []string{
		`wantGoAttr = "go_1_22";`,
		`goAttr = if builtins.hasAttr wantGoAttr pkgs then wantGoAttr else "go";`,
		"pkgs.gopls",
		"Go: requested 1.22.1 (from go.mod) -> want go_1_22",
		"patch may differ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGoPackagesUnversioned(t *testing.T) {
	out := renderGoPackages(resolve.Entry{Language: detect.LangGo})
	if !strings.Contains(out, `wantGoAttr = "go";`) {
		t.Errorf("unversioned entry should fall back to go:\n%s", out)
	}
	if !strings.Contains(out, "notices = [];") {
		t.Errorf("unversioned entry should carry no notices:\n%s", out)
	}
}

func TestRenderNodePackagesWithManagers(t *testing.T) {
	out := renderNodePackages(resolve.Entry{
		Language:    detect.LangJavaScript,
		Requirement: req(t, ">=18"),
		Source:      "package.json",
		Managers:    []string{"npm", "pnpm"},
	})

	if !strings.Contains(out, `wantNodeAttr = "nodejs_18";`) {
		t.Errorf("output missing node attr:\n%s", out)
	}
	if !strings.Contains(out, "pkgs.nodePackages.pnpm") {
		t.Errorf("pnpm manager should be installed:\n%s", out)
	}
	// npm comes bundled with the node package.
	if strings.Contains(out, "\"npm\"") {
		t.Errorf("npm should not appear as a separate package:\n%s", out)
	}
}

func TestRenderPythonPackagesWithManagers(t *testing.T) {
	out := renderPythonPackages(resolve.Entry{
		Language:    detect.LangPython,
		Requirement: req(t, ">=3.11"),
		Source:      "pyproject.toml",
		Managers:    []string{"uv"},
	})

	for _, want := range []string{
		`wantPythonAttr = "python311";`,
		`uv = if builtins.hasAttr "uv" pkgs then pkgs.uv else null;`,
		"lib.optional (uv != null) uv",
		"lib.optional (pyright != null) pyright",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRustPackages(t *testing.T) {
	out := renderRustPackages(resolve.Entry{
		Language:    detect.LangRust,
		Requirement: req(t, "1.75.0"),
		Source:      "rust-toolchain.toml",
	})
	for _, want := range []string{
		`wantRustVersion = "1.75.0";`,
		"pkgs.rust-bin.stable.${wantRustVersion}.default",
		`extensions = [ "rust-src" "rust-analyzer" ];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	loose := renderRustPackages(resolve.Entry{
		Language:    detect.LangRust,
		Requirement: req(t, ">=1.70"),
		Source:      "Cargo.toml",
	})
	if !strings.Contains(loose, "rust-bin.stable.latest.default") {
		t.Errorf("partial requirement should fall back to latest:\n%s", loose)
	}
	if !strings.Contains(loose, "not exact pin") {
		t.Errorf("fallback should be noticed:\n%s", loose)
	}
}

func TestRenderArtifacts(t *testing.T) {
	entries := []resolve.Entry{
		{Language: detect.LangJavaScript, Requirement: req(t, "18.0.0"), Source: ".nvmrc"},
		{Language: detect.LangRust, Requirement: req(t, ">=1.70"), Source: "Cargo.toml"},
	}

	a := Render(entries, Options{})

	flake := string(a.FlakeNix)
	for _, want := range []string{
		"github:NixOS/nixpkgs/nixos-unstable",
		"github:oxalica/rust-overlay",
		StateDirName + "/nodejs/packages.nix",
		StateDirName + "/rust/packages.nix",
		"devShells.default = import " + StateDirName + "/devShell.nix",
	} {
		if !strings.Contains(flake, want) {
			t.Errorf("flake.nix missing %q:\n%s", want, flake)
		}
	}
	if strings.Contains(flake, "golangPackages") {
		t.Errorf("flake.nix references undetected go:\n%s", flake)
	}

	paths := make(map[string]bool)
	for _, f := range a.Files {
		paths[f.Path] = true
	}
	for _, want := range []string{"devShell.nix", "nodejs/packages.nix", "rust/packages.nix", "rust/overlay.nix"} {
		if !paths[want] {
			t.Errorf("missing generated file %q (have %v)", want, paths)
		}
	}
}

func TestRenderWithoutRustHasNoOverlay(t *testing.T) {
	a := Render([]resolve.Entry{
		{Language: detect.LangGo, Requirement: req(t, "1.22"), Source: "go.mod"},
	}, Options{})

	if strings.Contains(string(a.FlakeNix), "rust-overlay") {
		t.Error("flake.nix should not mention rust-overlay without rust")
	}
	for _, f := range a.Files {
		if f.Path == "rust/overlay.nix" {
			t.Error("overlay file generated without rust")
		}
	}
}

func TestRenderIsByteStable(t *testing.T) {
	entries := []resolve.Entry{
		{Language: detect.LangGo, Requirement: req(t, "1.22"), Source: "go.mod", Managers: nil},
		{Language: detect.LangPython, Requirement: req(t, ">=3.11"), Source: "pyproject.toml", Managers: []string{"uv"}},
	}

	a := Render(entries, Options{Channel: "nixos-24.05"})
	b := Render(entries, Options{Channel: "nixos-24.05"})

	if !bytes.Equal(a.FlakeNix, b.FlakeNix) {
		t.Error("flake.nix differs across identical renders")
	}
	if a.DescriptorHash() != b.DescriptorHash() {
		t.Error("descriptor hash differs across identical renders")
	}
	if len(a.Files) != len(b.Files) {
		t.Fatalf("file count differs: %d vs %d", len(a.Files), len(b.Files))
	}
	for i := range a.Files {
		if a.Files[i].Path != b.Files[i].Path || !bytes.Equal(a.Files[i].Content, b.Files[i].Content) {
			t.Errorf("file %q differs across identical renders", a.Files[i].Path)
		}
	}
	if !strings.Contains(string(a.FlakeNix), "github:NixOS/nixpkgs/nixos-24.05") {
		t.Error("configured channel not applied")
	}
}

func TestRenderSkipsConflicts(t *testing.T) {
	a := Render([]resolve.Entry{
		{Language: detect.LangGo, Requirement: req(t, "1.22"), Source: "go.mod"},
		{Language: detect.LangPython, Conflict: true},
	}, Options{})

	for _, f := range a.Files {
		if strings.HasPrefix(f.Path, "python/") {
			t.Error("conflicting entry must not be rendered")
		}
	}
}
