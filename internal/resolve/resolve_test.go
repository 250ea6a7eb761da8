package resolve

import (
	"testing"

	"github.com/indaco/devflake/internal/detect"
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

func TestResolveLockfileBeatsManifest(t *testing.T) {
	signals := []detect.Signal{
		{Language: detect.LangJavaScript, Source: "package.json", Weight: detect.WeightManifest, Requirement: req(t, "^20.0.0")},
		{Language: detect.LangJavaScript, Source: "package-lock.json", Weight: detect.WeightLockfile, Requirement: req(t, "20.11.1")},
	}

	entries, conflicts := New(nil).Resolve(signals)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Requirement == nil || e.Requirement.String() != "20.11.1" {
		t.Errorf("requirement = %v, want 20.11.1", e.Requirement)
	}
	if e.Origin != detect.WeightLockfile {
		t.Errorf("origin = %v, want lockfile", e.Origin)
	}
}

func TestResolveNarrowsOverlappingRequirements(t *testing.T) {
	signals := []detect.Signal{
		{Language: detect.LangJavaScript, Source: "package.json", Weight: detect.WeightManifest, Requirement: req(t, "^18.0.0")},
		{Language: detect.LangJavaScript, Source: ".nvmrc", Weight: detect.WeightManifest, Requirement: req(t, "18.17.0")},
	}

	entries, conflicts := New(nil).Resolve(signals)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	e := entries[0]
	if e.Requirement == nil || e.Requirement.String() != "18.17.0" {
		t.Errorf("requirement = %v, want the narrower 18.17.0", e.Requirement)
	}
	if e.Source != ".nvmrc" {
		t.Errorf("source = %q, want .nvmrc", e.Source)
	}
}

func TestResolveEqualPrecedenceConflict(t *testing.T) {
	signals := []detect.Signal{
		{Language: detect.LangPython, Source: ".python-version", Weight: detect.WeightManifest, Requirement: req(t, "3.11.0")},
		{Language: detect.LangPython, Source: "pyproject.toml", Weight: detect.WeightManifest, Requirement: req(t, "3.12.0")},
	}

	entries, conflicts := New(nil).Resolve(signals)
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %v, want exactly one", conflicts)
	}
	if conflicts[0].Language != detect.LangPython {
		t.Errorf("conflict language = %q", conflicts[0].Language)
	}

	e := entries[0]
	if !e.Conflict {
		t.Error("entry should be flagged as conflicting")
	}
	if e.Requirement != nil {
		t.Errorf("conflicting entry should carry no requirement, got %v", e.Requirement)
	}
}

func TestResolveHigherTierShadowsLowerConflict(t *testing.T) {
	// The manifest pair disagrees, but the lockfile tier wins before the
	// manifest tier is ever compared.
	signals := []detect.Signal{
		{Language: detect.LangPython, Source: "uv.lock", Weight: detect.WeightLockfile, Requirement: req(t, ">=3.12")},
		{Language: detect.LangPython, Source: ".python-version", Weight: detect.WeightManifest, Requirement: req(t, "3.11.0")},
		{Language: detect.LangPython, Source: "pyproject.toml", Weight: detect.WeightManifest, Requirement: req(t, "3.12.0")},
	}

	entries, conflicts := New(nil).Resolve(signals)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	if e := entries[0]; e.Requirement == nil || e.Requirement.String() != ">=3.12" {
		t.Errorf("requirement = %v, want >=3.12", e.Requirement)
	}
}

func TestResolveUnspecified(t *testing.T) {
	signals := []detect.Signal{
		{Language: detect.LangRust, Source: "Cargo.toml", Weight: detect.WeightManifest},
		{Language: detect.LangRust, Source: "Cargo.lock", Weight: detect.WeightLockfile},
		{Language: detect.LangRust, Source: "src/main.rs", Weight: detect.WeightHeuristic},
	}

	entries, conflicts := New(nil).Resolve(signals)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	e := entries[0]
	if e.Requirement != nil {
		t.Errorf("requirement = %v, want nil (unspecified)", e.Requirement)
	}
	if len(e.Sources) != 3 {
		t.Errorf("sources = %v, want all three", e.Sources)
	}
}

func TestResolveSortsLanguages(t *testing.T) {
	signals := []detect.Signal{
		{Language: detect.LangRust, Source: "Cargo.toml", Weight: detect.WeightManifest, Requirement: req(t, ">=1.70")},
		{Language: detect.LangJavaScript, Source: ".nvmrc", Weight: detect.WeightManifest, Requirement: req(t, "18.0.0")},
	}

	entries, _ := New(nil).Resolve(signals)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Language != detect.LangJavaScript || entries[1].Language != detect.LangRust {
		t.Errorf("order = [%s %s], want [javascript rust]", entries[0].Language, entries[1].Language)
	}
}

func TestResolveManagerPrecedence(t *testing.T) {
	signals := []detect.Signal{
		{Language: detect.LangJavaScript, Source: "package.json", Weight: detect.WeightManifest, Manager: "pnpm"},
		{Language: detect.LangJavaScript, Source: "package-lock.json", Weight: detect.WeightLockfile, Manager: "npm"},
	}

	entries, _ := New(nil).Resolve(signals)
	e := entries[0]
	if len(e.Managers) != 1 || e.Managers[0] != "pnpm" {
		t.Errorf("managers = %v, want [pnpm] (declared manager wins)", e.Managers)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{name: "empty uses default", input: nil},
		{name: "full reorder", input: []string{"manifest", "lockfile", "heuristic"}},
		{name: "unknown tier", input: []string{"lockfile", "manifest", "vibes"}, wantErr: true},
		{name: "duplicate tier", input: []string{"lockfile", "lockfile", "manifest"}, wantErr: true},
		{name: "incomplete", input: []string{"lockfile"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := ParsePrecedence(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", order)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(order) != 3 {
				t.Errorf("order = %v, want all three tiers", order)
			}
		})
	}
}
