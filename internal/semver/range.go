package semver

// The overlap and narrowing logic models every requirement as a half-open
// interval over version triples. Partial versions widen the interval: an
// exact "1.2" covers [1.2.0, 1.3.0).

// boundless marks an interval with no upper bound.
const boundless = 1 << 30

type interval struct {
	lo    [3]int
	loInc bool
	hi    [3]int
	hiInc bool
}

// toInterval converts a requirement into its covered version interval.
func (r Requirement) toInterval() interval {
	anchor := r.triple()
	unbounded := interval{lo: [3]int{0, 0, 0}, loInc: true, hi: [3]int{boundless, 0, 0}, hiInc: false}

	switch r.Constraint {
	case ConstraintWildcard:
		return unbounded

	case ConstraintExact:
		// A partial exact version covers the whole omitted suffix.
		switch {
		case r.Minor < 0:
			return interval{lo: anchor, loInc: true, hi: [3]int{r.Major + 1, 0, 0}, hiInc: false}
		case r.Patch < 0:
			return interval{lo: anchor, loInc: true, hi: [3]int{r.Major, r.Minor + 1, 0}, hiInc: false}
		default:
			return interval{lo: anchor, loInc: true, hi: anchor, hiInc: true}
		}

	case ConstraintGreaterOrEqual:
		return interval{lo: anchor, loInc: true, hi: unbounded.hi, hiInc: false}

	case ConstraintGreaterThan:
		return interval{lo: anchor, loInc: false, hi: unbounded.hi, hiInc: false}

	case ConstraintLessOrEqual:
		return interval{lo: unbounded.lo, loInc: true, hi: anchor, hiInc: true}

	case ConstraintLessThan:
		return interval{lo: unbounded.lo, loInc: true, hi: anchor, hiInc: false}

	case ConstraintCaret:
		hi := [3]int{r.Major + 1, 0, 0}
		if r.Major == 0 && r.Minor >= 0 {
			hi = [3]int{0, r.Minor + 1, 0}
		}
		return interval{lo: anchor, loInc: true, hi: hi, hiInc: false}

	case ConstraintTilde:
		hi := [3]int{r.Major + 1, 0, 0}
		if r.Minor >= 0 {
			hi = [3]int{r.Major, r.Minor + 1, 0}
		}
		return interval{lo: anchor, loInc: true, hi: hi, hiInc: false}
	}

	return unbounded
}

// intersects reports whether two intervals share at least one version.
func (a interval) intersects(b interval) bool {
	lo, loInc := a.lo, a.loInc
	if c := compareTriple(b.lo, lo); c > 0 || (c == 0 && !b.loInc) {
		lo, loInc = b.lo, b.loInc
	}
	hi, hiInc := a.hi, a.hiInc
	if c := compareTriple(b.hi, hi); c < 0 || (c == 0 && !b.hiInc) {
		hi, hiInc = b.hi, b.hiInc
	}

	switch c := compareTriple(lo, hi); {
	case c < 0:
		return true
	case c == 0:
		return loInc && hiInc
	default:
		return false
	}
}

// contains reports whether b lies entirely within a.
func (a interval) contains(b interval) bool {
	if c := compareTriple(a.lo, b.lo); c > 0 || (c == 0 && !a.loInc && b.loInc) {
		return false
	}
	if c := compareTriple(a.hi, b.hi); c < 0 || (c == 0 && !a.hiInc && b.hiInc) {
		return false
	}
	return true
}

// Overlaps reports whether two requirements can be satisfied by a single
// version.
func Overlaps(a, b Requirement) bool {
	return a.toInterval().intersects(b.toInterval())
}

// Narrower returns the stricter of two overlapping requirements. When one
// requirement's range is a subset of the other's, the subset wins; when the
// ranges merely overlap, the one with the higher lower bound is kept. Call
// Overlaps first: the result is meaningless for disjoint requirements.
func Narrower(a, b Requirement) Requirement {
	ia, ib := a.toInterval(), b.toInterval()

	switch {
	case ib.contains(ia) && !ia.contains(ib):
		return a
	case ia.contains(ib) && !ib.contains(ia):
		return b
	}

	if c := compareTriple(ib.lo, ia.lo); c > 0 {
		return b
	}
	return a
}
