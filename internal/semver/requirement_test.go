package semver

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Requirement
		wantErr bool
	}{
		{
			name:  "exact full version",
			input: "1.21.3",
			want:  Requirement{Constraint: ConstraintExact, Major: 1, Minor: 21, Patch: 3},
		},
		{
			name:  "exact partial version",
			input: "1.21",
			want:  Requirement{Constraint: ConstraintExact, Major: 1, Minor: 21, Patch: -1},
		},
		{
			name:  "major only",
			input: "18",
			want:  Requirement{Constraint: ConstraintExact, Major: 18, Minor: -1, Patch: -1},
		},
		{
			name:  "greater or equal",
			input: ">=3.11",
			want:  Requirement{Constraint: ConstraintGreaterOrEqual, Major: 3, Minor: 11, Patch: -1},
		},
		{
			name:  "greater or equal with space",
			input: ">= 3.11",
			want:  Requirement{Constraint: ConstraintGreaterOrEqual, Major: 3, Minor: 11, Patch: -1},
		},
		{
			name:  "caret",
			input: "^18.0.0",
			want:  Requirement{Constraint: ConstraintCaret, Major: 18, Minor: 0, Patch: 0},
		},
		{
			name:  "tilde",
			input: "~1.2.3",
			want:  Requirement{Constraint: ConstraintTilde, Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:  "less than",
			input: "<4",
			want:  Requirement{Constraint: ConstraintLessThan, Major: 4, Minor: -1, Patch: -1},
		},
		{
			name:  "wildcard",
			input: "*",
			want:  Requirement{Constraint: ConstraintWildcard, Major: -1, Minor: -1, Patch: -1},
		},
		{
			name:  "wildcard minor",
			input: "1.x",
			want:  Requirement{Constraint: ConstraintExact, Major: 1, Minor: -1, Patch: -1},
		},
		{
			name:  "wildcard patch",
			input: "1.2.*",
			want:  Requirement{Constraint: ConstraintExact, Major: 1, Minor: 2, Patch: -1},
		},
		{
			name:  "leading v",
			input: "v20.11.0",
			want:  Requirement{Constraint: ConstraintExact, Major: 20, Minor: 11, Patch: 0},
		},
		{
			name:  "python prefix",
			input: "python-3.12.1",
			want:  Requirement{Constraint: ConstraintExact, Major: 3, Minor: 12, Patch: 1},
		},
		{
			name:  "pre-release",
			input: "1.0.0-rc.1",
			want:  Requirement{Constraint: ConstraintExact, Major: 1, Minor: 0, Patch: 0, PreRelease: "rc.1"},
		},
		{
			name:  "build metadata",
			input: "1.0.0+build.5",
			want:  Requirement{Constraint: ConstraintExact, Major: 1, Minor: 0, Patch: 0, Build: "build.5"},
		},
		{
			name:  "explicit equals",
			input: "=3.11.0",
			want:  Requirement{Constraint: ConstraintExact, Major: 3, Minor: 11, Patch: 0},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "operator without version", input: ">=", wantErr: true},
		{name: "not a version", input: "latest", wantErr: true},
		{name: "too many components", input: "1.2.3.4", wantErr: true},
		{name: "negative component", input: "1.-2", wantErr: true},
		{name: "oversized input", input: ">=" + strings.Repeat("1", maxRequirementLength), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "single requirement", input: ">=18", want: ">=18"},
		{name: "alternatives pick highest", input: "^14.0.0 || ^16.0.0 || ^18.0.0", want: "^18.0.0"},
		{name: "alternatives unordered", input: "^18.0.0 || ^16.0.0", want: "^18.0.0"},
		{name: "skips unparseable alternative", input: "garbage || 20.1.0", want: "20.1.0"},
		{name: "all alternatives unparseable", input: "foo || bar", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpr(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseExpr(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExpr(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseExpr(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestRequirementString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact full", input: "1.21.3", want: "1.21.3"},
		{name: "exact partial keeps shape", input: "1.21", want: "1.21"},
		{name: "operator retained", input: ">=3.11", want: ">=3.11"},
		{name: "caret retained", input: "^18.0.0", want: "^18.0.0"},
		{name: "wildcard", input: "*", want: "*"},
		{name: "v prefix dropped", input: "v20.11.0", want: "20.11.0"},
		{name: "pre-release retained", input: "1.0.0-beta.2", want: "1.0.0-beta.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got := r.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveVersion(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		major  int
		minor  int
		patch  int
		wantOK bool
	}{
		{name: "exact", input: "1.21.3", major: 1, minor: 21, patch: 3, wantOK: true},
		{name: "partial", input: "3.11", major: 3, minor: 11, patch: -1, wantOK: true},
		{name: "greater or equal anchors on bound", input: ">=18.0.0", major: 18, minor: 0, patch: 0, wantOK: true},
		{name: "caret anchors on bound", input: "^1.75.0", major: 1, minor: 75, patch: 0, wantOK: true},
		{name: "wildcard has no anchor", input: "*", wantOK: false},
		{name: "upper bound only has no anchor", input: "<4", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			major, minor, patch, ok := r.EffectiveVersion()
			if ok != tt.wantOK {
				t.Fatalf("EffectiveVersion() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if major != tt.major || minor != tt.minor || patch != tt.patch {
				t.Errorf("EffectiveVersion() = %d.%d.%d, want %d.%d.%d",
					major, minor, patch, tt.major, tt.minor, tt.patch)
			}
		})
	}
}
