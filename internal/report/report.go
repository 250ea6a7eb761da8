// Package report builds the detection report: the resolved entries in a
// deterministic, hashable shape shared by the CLI output and the state
// store.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/indaco/devflake/internal/resolve"
)

// UnspecifiedVersion is the version string for a language detected without
// any pinned requirement.
const UnspecifiedVersion = "unspecified"

// Report is the stable outcome of detect and the input to generate.
// Entries are sorted by language name.
type Report struct {
	Entries  []Entry  `json:"entries"`
	Warnings []string `json:"warnings,omitempty"`
}

// Entry mirrors a resolved language in report form.
type Entry struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Origin   string   `json:"origin,omitempty"`
	Source   string   `json:"source,omitempty"`
	Sources  []string `json:"sources,omitempty"`
	Managers []string `json:"managers,omitempty"`
	Conflict bool     `json:"conflict,omitempty"`
}

// Build converts resolved entries and scan warnings into a Report. Input
// order does not matter; the result is sorted.
func Build(entries []resolve.Entry, warnings []string) *Report {
	r := &Report{Entries: []Entry{}}
	for _, e := range entries {
		version := UnspecifiedVersion
		origin := ""
		if e.Requirement != nil {
			version = e.Requirement.String()
			origin = e.Origin.String()
		}
		r.Entries = append(r.Entries, Entry{
			Language: e.Language,
			Version:  version,
			Origin:   origin,
			Source:   e.Source,
			Sources:  e.Sources,
			Managers: e.Managers,
			Conflict: e.Conflict,
		})
	}
	sort.Slice(r.Entries, func(i, j int) bool { return r.Entries[i].Language < r.Entries[j].Language })

	r.Warnings = append(r.Warnings, warnings...)
	sort.Strings(r.Warnings)
	return r
}

// Languages returns the sorted language names.
func (r *Report) Languages() []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Language)
	}
	return out
}

// Versions returns the version strings parallel to Languages.
func (r *Report) Versions() []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Version)
	}
	return out
}

// HasConflict reports whether any entry is flagged.
func (r *Report) HasConflict() bool {
	for _, e := range r.Entries {
		if e.Conflict {
			return true
		}
	}
	return false
}

// jsonModel is the external JSON shape: the parallel languages and
// versions arrays first, then the per-entry detail.
type jsonModel struct {
	Languages []string `json:"languages"`
	Versions  []string `json:"versions"`
	Entries   []Entry  `json:"entries"`
	Warnings  []string `json:"warnings,omitempty"`
}

// JSON renders the report for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(jsonModel{
		Languages: r.Languages(),
		Versions:  r.Versions(),
		Entries:   r.Entries,
		Warnings:  r.Warnings,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// Hash is the canonical content hash of the resolved entries. Warnings are
// excluded: they describe the scan, not the outcome, and must not force a
// regeneration.
func (r *Report) Hash() (string, error) {
	data, err := json.Marshal(jsonModel{
		Languages: r.Languages(),
		Versions:  r.Versions(),
		Entries:   r.Entries,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode report for hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
