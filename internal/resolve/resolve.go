// Package resolve merges detection signals into one entry per language.
// Signals are grouped by language, the highest-precedence tier that carries
// a version wins, and requirements inside that tier are narrowed against
// each other. Non-overlapping requirements of equal precedence are a
// conflict.
package resolve

import (
	"fmt"
	"sort"

	"github.com/indaco/devflake/internal/detect"
	"github.com/indaco/devflake/internal/semver"
)

// Entry is the resolved requirement for one detected language. A nil
// Requirement means the language is present with no version pinned
// anywhere. Conflict entries also carry a nil Requirement.
type Entry struct {
	Language    string
	Requirement *semver.Requirement
	Source      string        // file the winning requirement came from
	Origin      detect.Weight // tier of the winning requirement
	Sources     []string      // every file that contributed evidence
	Managers    []string
	Conflict    bool
}

// DefaultPrecedence orders tiers from most to least authoritative.
var DefaultPrecedence = []detect.Weight{
	detect.WeightLockfile,
	detect.WeightManifest,
	detect.WeightHeuristic,
}

// ParsePrecedence turns configured tier names into a precedence order.
// All three tiers must appear exactly once.
func ParsePrecedence(names []string) ([]detect.Weight, error) {
	if len(names) == 0 {
		return DefaultPrecedence, nil
	}

	byName := map[string]detect.Weight{
		"lockfile":  detect.WeightLockfile,
		"manifest":  detect.WeightManifest,
		"heuristic": detect.WeightHeuristic,
	}

	order := make([]detect.Weight, 0, len(names))
	seen := make(map[detect.Weight]bool)
	for _, name := range names {
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown precedence tier %q", name)
		}
		if seen[w] {
			return nil, fmt.Errorf("duplicate precedence tier %q", name)
		}
		seen[w] = true
		order = append(order, w)
	}
	if len(order) != len(byName) {
		return nil, fmt.Errorf("precedence must list all tiers (lockfile, manifest, heuristic)")
	}
	return order, nil
}

// Resolver folds signals into entries under a configured precedence order.
type Resolver struct {
	precedence []detect.Weight
}

// New creates a Resolver. A nil or empty precedence falls back to
// DefaultPrecedence.
func New(precedence []detect.Weight) *Resolver {
	if len(precedence) == 0 {
		precedence = DefaultPrecedence
	}
	return &Resolver{precedence: precedence}
}

// Resolve produces one entry per detected language, sorted by language
// name. Conflicts are reported alongside: the affected entry stays in the
// result, flagged, with no requirement.
func (r *Resolver) Resolve(signals []detect.Signal) ([]Entry, []*ConflictError) {
	byLang := make(map[string][]detect.Signal)
	for _, sig := range signals {
		byLang[sig.Language] = append(byLang[sig.Language], sig)
	}

	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var (
		entries   []Entry
		conflicts []*ConflictError
	)
	for _, lang := range langs {
		entry, conflict := r.resolveLanguage(lang, byLang[lang])
		entries = append(entries, entry)
		if conflict != nil {
			conflicts = append(conflicts, conflict)
		}
	}
	return entries, conflicts
}

func (r *Resolver) resolveLanguage(lang string, signals []detect.Signal) (Entry, *ConflictError) {
	entry := Entry{
		Language: lang,
		Sources:  collectSources(signals),
		Managers: collectManagers(signals),
	}

	for _, tier := range r.precedence {
		var versioned []detect.Signal
		for _, sig := range signals {
			if sig.Weight == tier && sig.Requirement != nil {
				versioned = append(versioned, sig)
			}
		}
		if len(versioned) == 0 {
			continue
		}

		winner := versioned[0]
		req := *winner.Requirement
		for _, sig := range versioned[1:] {
			next := *sig.Requirement
			if !semver.Overlaps(req, next) {
				entry.Conflict = true
				return entry, &ConflictError{
					Language: lang,
					First:    winner,
					Second:   sig,
				}
			}
			if narrowed := semver.Narrower(req, next); narrowed != req {
				req = narrowed
				winner = sig
			}
		}

		entry.Requirement = &req
		entry.Source = winner.Source
		entry.Origin = tier
		return entry, nil
	}

	return entry, nil
}

func collectSources(signals []detect.Signal) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sig := range signals {
		if !seen[sig.Source] {
			seen[sig.Source] = true
			out = append(out, sig.Source)
		}
	}
	sort.Strings(out)
	return out
}

// collectManagers keeps the package managers from the first tier that
// names any. An explicit packageManager declaration in a manifest beats
// whatever the lockfile kind implies.
func collectManagers(signals []detect.Signal) []string {
	order := []detect.Weight{detect.WeightManifest, detect.WeightLockfile, detect.WeightHeuristic}
	for _, tier := range order {
		seen := make(map[string]bool)
		var out []string
		for _, sig := range signals {
			if sig.Weight == tier && sig.Manager != "" && !seen[sig.Manager] {
				seen[sig.Manager] = true
				out = append(out, sig.Manager)
			}
		}
		if len(out) > 0 {
			sort.Strings(out)
			return out
		}
	}
	return nil
}
