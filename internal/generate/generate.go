// Package generate orchestrates the full pipeline: scan, resolve, report,
// idempotence check against prior state, render, and atomic write of the
// descriptor set.
package generate

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/indaco/devflake/internal/core"
	"github.com/indaco/devflake/internal/detect"
	"github.com/indaco/devflake/internal/flake"
	"github.com/indaco/devflake/internal/report"
	"github.com/indaco/devflake/internal/resolve"
	"github.com/indaco/devflake/internal/scanner"
	"github.com/indaco/devflake/internal/state"
)

// DescriptorName is the generated descriptor at the target root.
const DescriptorName = "flake.nix"

// ErrAborted is returned when the user declines to overwrite an edited
// descriptor.
var ErrAborted = errors.New("generation aborted")

// Service runs detection and generation against one filesystem.
type Service struct {
	fsys     core.FileSystem
	scanner  *scanner.Scanner
	resolver *resolve.Resolver
	channel  string
}

// NewService wires a Service. A nil registry gets the built-in detectors; a
// nil precedence gets the default tier order; an empty channel gets the
// default nixpkgs branch.
func NewService(fsys core.FileSystem, registry *detect.Registry, precedence []detect.Weight, channel string) *Service {
	if registry == nil {
		registry = detect.DefaultRegistry()
	}
	return &Service{
		fsys:     fsys,
		scanner:  scanner.New(fsys, registry),
		resolver: resolve.New(precedence),
		channel:  channel,
	}
}

// Detect runs scan plus resolve and builds the report. Conflicts do not
// fail detection; they are returned alongside for the caller to surface.
func (s *Service) Detect(ctx context.Context, root string, opts scanner.Options) (*report.Report, []*resolve.ConflictError, error) {
	res, err := s.scanner.Scan(ctx, root, opts)
	if err != nil {
		return nil, nil, err
	}

	entries, conflicts := s.resolver.Resolve(res.Signals)

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.Error())
	}
	return report.Build(entries, warnings), conflicts, nil
}

// Options controls one Generate run.
type Options struct {
	Scan scanner.Options

	// ConfirmOverwrite is consulted when the on-disk descriptor no longer
	// matches the recorded hash, meaning someone edited it. A nil func
	// proceeds without asking.
	ConfirmOverwrite func(ctx context.Context) (bool, error)
}

// Outcome describes what Generate did.
type Outcome struct {
	Report       *report.Report
	Skipped      bool     // artifacts already up to date, nothing written
	Written      []string // paths written, relative to root
	StateWarning string   // set when prior state existed but was unusable
}

// Generate runs the full pipeline. A resolution conflict is fatal and
// aborts before any artifact is touched. When the prior state, the report
// hash, and the on-disk descriptor all agree, nothing is written.
func (s *Service) Generate(ctx context.Context, root string, opts Options) (*Outcome, error) {
	res, err := s.scanner.Scan(ctx, root, opts.Scan)
	if err != nil {
		return nil, err
	}

	entries, conflicts := s.resolver.Resolve(res.Signals)
	if len(conflicts) > 0 {
		return nil, conflicts[0]
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.Error())
	}
	rep := report.Build(entries, warnings)
	reportHash, err := rep.Hash()
	if err != nil {
		return nil, &GenerationError{Path: root, Err: err}
	}

	outcome := &Outcome{Report: rep}

	store := state.NewStore(s.fsys, root)
	prior, rawState, stateErr := store.Load(ctx)
	if stateErr != nil {
		// Unusable state is treated as no prior state: regenerate.
		outcome.StateWarning = stateErr.Error()
		rawState = nil
	}

	descriptorPath := filepath.Join(root, DescriptorName)
	onDisk, readErr := s.fsys.ReadFile(ctx, descriptorPath)
	descriptorExists := readErr == nil
	if readErr != nil && !errors.Is(readErr, fs.ErrNotExist) {
		return nil, &GenerationError{Path: descriptorPath, Err: readErr}
	}

	if prior != nil && descriptorExists {
		onDiskHash := flake.HashBytes(onDisk)
		if prior.ReportHash == reportHash && prior.DescriptorHash == onDiskHash {
			outcome.Skipped = true
			return outcome, nil
		}
		if prior.DescriptorHash != onDiskHash && opts.ConfirmOverwrite != nil {
			ok, err := opts.ConfirmOverwrite(ctx)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrAborted
			}
		}
	}

	artifacts := flake.Render(entries, flake.Options{Channel: s.channel})

	written, err := s.write(ctx, root, artifacts)
	if err != nil {
		return nil, err
	}
	outcome.Written = written

	newState := state.State{
		SchemaVersion:  state.SchemaVersion,
		ReportHash:     reportHash,
		DescriptorHash: artifacts.DescriptorHash(),
	}
	if err := store.Save(ctx, rawState, newState); err != nil {
		return nil, &GenerationError{Path: store.Path(), Err: err}
	}
	outcome.Written = append(outcome.Written, filepath.Join(flake.StateDirName, state.FileName))

	return outcome, nil
}

// write lands the state-dir files first and the top-level descriptor last,
// each atomically.
func (s *Service) write(ctx context.Context, root string, artifacts *flake.Artifacts) ([]string, error) {
	var written []string

	for _, f := range artifacts.Files {
		path := filepath.Join(root, flake.StateDirName, f.Path)
		if err := s.fsys.MkdirAll(ctx, filepath.Dir(path), core.PermDir); err != nil {
			return nil, &GenerationError{Path: path, Err: err}
		}
		if err := core.WriteFileAtomic(ctx, s.fsys, path, f.Content, core.PermOwnerRW); err != nil {
			return nil, &GenerationError{Path: path, Err: err}
		}
		written = append(written, filepath.Join(flake.StateDirName, f.Path))
	}

	descriptorPath := filepath.Join(root, DescriptorName)
	if err := core.WriteFileAtomic(ctx, s.fsys, descriptorPath, artifacts.FlakeNix, core.PermOwnerRW); err != nil {
		return nil, &GenerationError{Path: descriptorPath, Err: err}
	}
	written = append(written, DescriptorName)

	return written, nil
}
