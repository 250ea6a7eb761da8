// Package semver provides the version-requirement model used by the
// detection engine: parsing of constraint expressions found in manifests
// and lockfiles, canonical formatting, and overlap/narrowing logic for
// merging requirements that target the same language.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Constraint identifies the comparison operator of a requirement.
type Constraint string

const (
	// ConstraintExact matches a single version (optionally partial, e.g. "1.2").
	ConstraintExact Constraint = "="

	// ConstraintGreaterOrEqual matches the given version and anything above.
	ConstraintGreaterOrEqual Constraint = ">="

	// ConstraintLessOrEqual matches the given version and anything below.
	ConstraintLessOrEqual Constraint = "<="

	// ConstraintGreaterThan matches anything strictly above the given version.
	ConstraintGreaterThan Constraint = ">"

	// ConstraintLessThan matches anything strictly below the given version.
	ConstraintLessThan Constraint = "<"

	// ConstraintCaret matches the given version up to the next major
	// (next minor when major is 0, npm-style).
	ConstraintCaret Constraint = "^"

	// ConstraintTilde matches the given version up to the next minor.
	ConstraintTilde Constraint = "~"

	// ConstraintWildcard matches any version.
	ConstraintWildcard Constraint = "*"
)

// Requirement is a parsed version requirement. Minor and Patch are -1 when
// the source expression omitted them ("1.21" has Patch == -1).
type Requirement struct {
	Constraint Constraint
	Major      int
	Minor      int
	Patch      int
	PreRelease string
	Build      string
}

// errInvalidRequirement is returned when an expression cannot be parsed.
var errInvalidRequirement = errors.New("invalid version requirement")

// maxRequirementLength bounds input size before parsing.
const maxRequirementLength = 128

// constraintPrefixes maps textual operators to constraints, longest first so
// ">=" is tried before ">".
var constraintPrefixes = []struct {
	prefix string
	c      Constraint
}{
	{">=", ConstraintGreaterOrEqual},
	{"<=", ConstraintLessOrEqual},
	{">", ConstraintGreaterThan},
	{"<", ConstraintLessThan},
	{"^", ConstraintCaret},
	{"~", ConstraintTilde},
	{"=", ConstraintExact},
}

// Parse parses a single version requirement such as "1.21", ">=3.11",
// "^18.0.0", or "*". A leading "v" and the "python-"/"node-" prefixes some
// version files carry are stripped.
func Parse(s string) (Requirement, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Requirement{}, fmt.Errorf("%w: empty expression", errInvalidRequirement)
	}
	if len(trimmed) > maxRequirementLength {
		return Requirement{}, fmt.Errorf("%w: expression exceeds maximum length of %d", errInvalidRequirement, maxRequirementLength)
	}

	if trimmed == "*" {
		return Requirement{Constraint: ConstraintWildcard, Major: -1, Minor: -1, Patch: -1}, nil
	}

	constraint := ConstraintExact
	for _, cp := range constraintPrefixes {
		if rest, ok := strings.CutPrefix(trimmed, cp.prefix); ok {
			constraint = cp.c
			trimmed = strings.TrimSpace(rest)
			break
		}
	}

	trimmed = strings.TrimPrefix(trimmed, "v")
	trimmed = strings.TrimPrefix(trimmed, "python-")
	trimmed = strings.TrimPrefix(trimmed, "node-")

	if trimmed == "" {
		return Requirement{}, fmt.Errorf("%w: missing version after operator", errInvalidRequirement)
	}

	r := Requirement{Constraint: constraint, Minor: -1, Patch: -1}

	// Split off build metadata, then pre-release.
	if base, build, ok := strings.Cut(trimmed, "+"); ok {
		r.Build = build
		trimmed = base
	}
	if base, pre, ok := strings.Cut(trimmed, "-"); ok {
		r.PreRelease = pre
		trimmed = base
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) > 3 {
		return Requirement{}, fmt.Errorf("%w: too many version components in %q", errInvalidRequirement, s)
	}

	major, err := parseComponent(parts[0])
	if err != nil {
		return Requirement{}, fmt.Errorf("%w: invalid major in %q", errInvalidRequirement, s)
	}
	r.Major = major

	if len(parts) > 1 {
		// An "x" component ("1.x") means the rest is unconstrained.
		if isWildcardComponent(parts[1]) {
			return r, nil
		}
		minor, err := parseComponent(parts[1])
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: invalid minor in %q", errInvalidRequirement, s)
		}
		r.Minor = minor
	}

	if len(parts) > 2 {
		if isWildcardComponent(parts[2]) {
			return r, nil
		}
		patch, err := parseComponent(parts[2])
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: invalid patch in %q", errInvalidRequirement, s)
		}
		r.Patch = patch
	}

	return r, nil
}

// ParseExpr parses a requirement expression that may contain "||"
// alternatives (package.json engines style). Following the upstream
// behavior, the highest alternative wins.
func ParseExpr(s string) (Requirement, error) {
	if !strings.Contains(s, "||") {
		return Parse(s)
	}

	var (
		best  Requirement
		found bool
	)
	for _, alt := range strings.Split(s, "||") {
		r, err := Parse(strings.TrimSpace(alt))
		if err != nil {
			continue
		}
		if !found || compareTriple(r.triple(), best.triple()) > 0 {
			best = r
			found = true
		}
	}
	if !found {
		return Requirement{}, fmt.Errorf("%w: no parseable alternative in %q", errInvalidRequirement, s)
	}
	return best, nil
}

// String renders the requirement in canonical form: the operator (omitted
// for exact requirements), then only the version components that were
// present in the source.
func (r Requirement) String() string {
	if r.Constraint == ConstraintWildcard {
		return "*"
	}

	var sb strings.Builder
	if r.Constraint != ConstraintExact {
		sb.WriteString(string(r.Constraint))
	}
	sb.WriteString(strconv.Itoa(r.Major))
	if r.Minor >= 0 {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(r.Minor))
		if r.Patch >= 0 {
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(r.Patch))
		}
	}
	if r.PreRelease != "" {
		sb.WriteByte('-')
		sb.WriteString(r.PreRelease)
	}
	if r.Build != "" {
		sb.WriteByte('+')
		sb.WriteString(r.Build)
	}
	return sb.String()
}

// EffectiveVersion returns the version the requirement is anchored on (its
// lower bound), suitable for toolchain attribute inference. ok is false for
// wildcard and upper-bound-only requirements, which carry no usable anchor.
func (r Requirement) EffectiveVersion() (major, minor, patch int, ok bool) {
	switch r.Constraint {
	case ConstraintWildcard, ConstraintLessThan, ConstraintLessOrEqual:
		return 0, 0, 0, false
	}
	return r.Major, r.Minor, r.Patch, true
}

func parseComponent(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid component %q", s)
	}
	return n, nil
}

func isWildcardComponent(s string) bool {
	return s == "*" || s == "x" || s == "X"
}

// triple returns the version components with absent ones as zero, for
// ordering purposes.
func (r Requirement) triple() [3]int {
	return [3]int{max(r.Major, 0), max(r.Minor, 0), max(r.Patch, 0)}
}

func compareTriple(a, b [3]int) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
