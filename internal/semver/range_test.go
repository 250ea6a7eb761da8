package semver

import "testing"

func mustParse(t *testing.T, s string) Requirement {
	t.Helper()
	r, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", s, err)
	}
	return r
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "identical exact", a: "1.21.0", b: "1.21.0", want: true},
		{name: "distinct exact", a: "1.21.0", b: "1.22.0", want: false},
		{name: "partial exact covers patch range", a: "1.21", b: "1.21.5", want: true},
		{name: "exact inside caret", a: "18.2.0", b: "^18.0.0", want: true},
		{name: "exact above caret", a: "19.0.0", b: "^18.0.0", want: false},
		{name: "caret zero major stays in minor", a: "^0.5.0", b: "0.6.1", want: false},
		{name: "tilde stays in minor", a: "~1.2.0", b: "1.3.0", want: false},
		{name: "ranges meeting at bound", a: ">=3.11", b: "<=3.11", want: true},
		{name: "ranges disjoint at bound", a: ">3.11.0", b: "<3.11.0", want: false},
		{name: "wildcard overlaps everything", a: "*", b: "2.0.0", want: true},
		{name: "open ranges overlap", a: ">=1.21", b: ">=1.22", want: true},
		{name: "lower and upper bound overlap", a: ">=3.9", b: "<3.13", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			if got := Overlaps(a, b); got != tt.want {
				t.Errorf("Overlaps(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(b, a); got != tt.want {
				t.Errorf("Overlaps(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestNarrower(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{name: "exact narrower than caret", a: "18.2.0", b: "^18.0.0", want: "18.2.0"},
		{name: "order does not matter", a: "^18.0.0", b: "18.2.0", want: "18.2.0"},
		{name: "tilde narrower than caret", a: "^1.2.0", b: "~1.2.0", want: "~1.2.0"},
		{name: "full exact narrower than partial", a: "1.21", b: "1.21.5", want: "1.21.5"},
		{name: "anything narrower than wildcard", a: "*", b: ">=3.11", want: ">=3.11"},
		{name: "overlapping open ranges keep higher bound", a: ">=1.21", b: ">=1.22", want: ">=1.22"},
		{name: "identical requirements", a: ">=18", b: ">=18", want: ">=18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			if got := Narrower(a, b); got.String() != tt.want {
				t.Errorf("Narrower(%q, %q) = %q, want %q", tt.a, tt.b, got.String(), tt.want)
			}
		})
	}
}
