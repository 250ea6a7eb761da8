package flake

import (
	"fmt"
	"strings"

	"github.com/indaco/devflake/internal/resolve"
	"github.com/indaco/devflake/internal/semver"
)

// languageDirs maps language identifiers to their directory under the
// state dir.
var languageDirs = map[string]string{
	"go":         "golang",
	"javascript": "nodejs",
	"python":     "python",
	"rust":       "rust",
}

func requested(e resolve.Entry) string {
	return fmt.Sprintf("%s (from %s)", e.Requirement, e.Source)
}

func versionNotice(langName string, e resolve.Entry, selectedAttr, fallback, note string) string {
	if e.Requirement == nil {
		return ""
	}
	selected := selectedAttr
	if selected == "" {
		selected = fallback
	}
	msg := fmt.Sprintf("%s: requested %s -> want %s", langName, requested(e), selected)
	if note != "" {
		msg += " " + note
	}
	return msg
}

func goNotice(e resolve.Entry, wantAttr string) string {
	note := ""
	if e.Requirement != nil && e.Requirement.Patch >= 0 {
		note = "note: nixpkgs provides Go by major/minor (patch may differ)"
	}
	return versionNotice("Go", e, wantAttr, "go (unversioned; go_* not inferred)", note)
}

func pythonNotice(e resolve.Entry, wantAttr string) string {
	note := ""
	if e.Requirement != nil && (e.Requirement.Patch >= 0 || e.Requirement.Constraint != semver.ConstraintExact) {
		note = "note: nixpkgs provides Python by major/minor (patch may differ)"
	}
	return versionNotice("Python", e, wantAttr, "python3 (unversioned; pythonXY not inferred)", note)
}

func nodeNotice(e resolve.Entry, wantAttr string) string {
	note := ""
	if e.Requirement != nil && (e.Requirement.Minor >= 0 || e.Requirement.Patch >= 0) {
		note = "note: nixpkgs provides Node.js by major (minor/patch may differ)"
	}
	return versionNotice("Node", e, wantAttr, "nodejs (unversioned; nodejs_* not inferred)", note)
}

func rustNotice(e resolve.Entry, wantVersion string) string {
	if wantVersion != "" {
		return fmt.Sprintf("Rust: requested %s -> try rust-bin.stable.%s (fallback latest)",
			requested(e), wantVersion)
	}
	if e.Requirement != nil {
		return fmt.Sprintf("Rust: detected %s -> using rust-bin.stable.latest (not exact pin)",
			requested(e))
	}
	return ""
}

func renderGoPackages(e resolve.Entry) string {
	wantAttr := goAttrFromRequirement(e.Requirement)
	notice := goNotice(e, wantAttr)
	if wantAttr == "" {
		wantAttr = "go"
	}

	var sb strings.Builder
	sb.WriteString(fileHeader("Go toolchain and development tools"))
	sb.WriteString("{ pkgs, lib }:\n\n")
	sb.WriteString("let\n")
	writeStringBinding(&sb, "  ", "wantGoAttr", wantAttr)
	writeAttrFallback(&sb, "  ", "goAttr", "wantGoAttr", "pkgs", "go")
	sb.WriteString("  go = pkgs.${goAttr};\n\n")
	writeNoticeList(&sb, "  ", notice)
	sb.WriteString("in\n{\n")
	sb.WriteString("  inherit go goAttr wantGoAttr notices;\n\n")
	sb.WriteString("  packages = [\n")
	sb.WriteString("    go\n")
	sb.WriteString("    pkgs.gopls\n")
	sb.WriteString("  ];\n")
	sb.WriteString("}\n")
	return sb.String()
}

func renderPythonPackages(e resolve.Entry) string {
	wantAttr := pythonAttrFromRequirement(e.Requirement)
	notice := pythonNotice(e, wantAttr)
	if wantAttr == "" {
		wantAttr = "python3"
	}

	managers := managerSet(e.Managers, "poetry", "uv", "pdm", "pipenv")

	var sb strings.Builder
	sb.WriteString(fileHeader("Python toolchain and development tools"))
	sb.WriteString("{ pkgs, lib }:\n\n")
	sb.WriteString("let\n")
	writeStringBinding(&sb, "  ", "wantPythonAttr", wantAttr)
	writeAttrFallback(&sb, "  ", "pythonAttr", "wantPythonAttr", "pkgs", "python3")
	sb.WriteString("  python = pkgs.${pythonAttr};\n")
	sb.WriteString("  wantPythonPackagesAttr = \"${pythonAttr}Packages\";\n")
	sb.WriteString("  pythonPackages = if builtins.hasAttr wantPythonPackagesAttr pkgs then pkgs.${wantPythonPackagesAttr} else pkgs.python3Packages;\n\n")

	for _, mgr := range managers {
		fmt.Fprintf(&sb, "  %s = if builtins.hasAttr \"%s\" pkgs then pkgs.%s else null;\n", mgr, mgr, mgr)
	}

	sb.WriteString("  pyright = if builtins.hasAttr \"pyright\" pkgs then pkgs.pyright\n    else if builtins.hasAttr \"pyright\" pkgs.nodePackages then pkgs.nodePackages.pyright\n    else null;\n\n")
	writeNoticeList(&sb, "  ", notice)
	sb.WriteString("in\n{\n")
	sb.WriteString("  inherit python pythonPackages pythonAttr wantPythonAttr notices;\n\n")
	sb.WriteString("  packages = [ python ]")
	for _, mgr := range managers {
		fmt.Fprintf(&sb, "\n    ++ lib.optional (%s != null) %s", mgr, mgr)
	}
	sb.WriteString("\n    ++ lib.optional (pyright != null) pyright")
	sb.WriteString(";\n")
	sb.WriteString("}\n")
	return sb.String()
}

func renderNodePackages(e resolve.Entry) string {
	wantAttr := nodeAttrFromRequirement(e.Requirement)
	notice := nodeNotice(e, wantAttr)
	if wantAttr == "" {
		wantAttr = "nodejs"
	}

	// npm ships with the node package itself.
	managers := managerSet(e.Managers, "pnpm", "yarn", "bun", "deno")

	var sb strings.Builder
	sb.WriteString(fileHeader("Node.js toolchain and development tools"))
	sb.WriteString("{ pkgs, lib }:\n\n")
	sb.WriteString("let\n")
	writeStringBinding(&sb, "  ", "wantNodeAttr", wantAttr)
	writeAttrFallback(&sb, "  ", "nodeAttr", "wantNodeAttr", "pkgs", "nodejs")
	sb.WriteString("  node = pkgs.${nodeAttr};\n\n")

	for _, mgr := range managers {
		if mgr == "pnpm" {
			sb.WriteString("  pnpm = if builtins.hasAttr \"pnpm\" pkgs.nodePackages then pkgs.nodePackages.pnpm else null;\n")
			continue
		}
		fmt.Fprintf(&sb, "  %s = if builtins.hasAttr \"%s\" pkgs then pkgs.%s else null;\n", mgr, mgr, mgr)
	}

	sb.WriteString("\n")
	writeNoticeList(&sb, "  ", notice)
	sb.WriteString("in\n{\n")
	sb.WriteString("  inherit node nodeAttr wantNodeAttr notices;\n\n")
	sb.WriteString("  packages =\n")
	sb.WriteString("    [\n")
	sb.WriteString("      node\n")
	sb.WriteString("      pkgs.nodePackages.typescript\n")
	sb.WriteString("      pkgs.nodePackages.typescript-language-server\n")
	sb.WriteString("    ]")
	for _, mgr := range managers {
		fmt.Fprintf(&sb, "\n    ++ lib.optional (%s != null) %s", mgr, mgr)
	}
	sb.WriteString(";\n")
	sb.WriteString("}\n")
	return sb.String()
}

func renderRustPackages(e resolve.Entry) string {
	wantVersion := rustVersionFromRequirement(e.Requirement)
	notice := rustNotice(e, wantVersion)

	var sb strings.Builder
	sb.WriteString(fileHeader("Rust toolchain and development tools"))
	sb.WriteString("{ pkgs, lib }:\n\n")
	sb.WriteString("let\n")
	if wantVersion != "" {
		writeStringBinding(&sb, "  ", "wantRustVersion", wantVersion)
		sb.WriteString("  rustToolchainBase = if builtins.hasAttr wantRustVersion pkgs.rust-bin.stable\n    then pkgs.rust-bin.stable.${wantRustVersion}.default\n    else pkgs.rust-bin.stable.latest.default;\n")
	} else {
		sb.WriteString("  rustToolchainBase = pkgs.rust-bin.stable.latest.default;\n")
	}
	sb.WriteString("\n")
	sb.WriteString("  rustToolchain = rustToolchainBase.override {\n")
	sb.WriteString("    extensions = [ \"rust-src\" \"rust-analyzer\" ];\n")
	sb.WriteString("  };\n\n")
	writeNoticeList(&sb, "  ", notice)
	sb.WriteString("in\n{\n")
	sb.WriteString("  inherit rustToolchain notices;\n\n")
	sb.WriteString("  packages = [ rustToolchain ];\n")
	sb.WriteString("}\n")
	return sb.String()
}

func renderRustOverlay() string {
	return fileHeader("Rust overlay (oxalica/rust-overlay)") +
		"{ rust-overlay }: import rust-overlay\n"
}

// managerSet filters detected managers down to the ones this fragment can
// install, preserving the allowed order.
func managerSet(detected []string, allowed ...string) []string {
	present := make(map[string]bool, len(detected))
	for _, m := range detected {
		present[m] = true
	}
	var out []string
	for _, m := range allowed {
		if present[m] {
			out = append(out, m)
		}
	}
	return out
}
