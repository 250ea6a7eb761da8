// Package state persists the generation record under the state directory.
// The record ties a descriptor on disk to the detection report that
// produced it, which is what makes regeneration idempotent.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/indaco/devflake/internal/core"
	"github.com/indaco/devflake/internal/flake"
)

// SchemaVersion is bumped when the state file shape changes.
const SchemaVersion = 1

// FileName is the state file inside the state directory.
const FileName = "state.json"

// State is the persisted generation record.
type State struct {
	SchemaVersion  int    `json:"schema_version"`
	ReportHash     string `json:"report_hash"`
	DescriptorHash string `json:"descriptor_hash"`
}

// StateError reports a state file that exists but cannot be trusted.
// Callers treat it as "no prior state" and regenerate from scratch.
type StateError struct {
	Path string
	Err  error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("unusable state file %s: %v", e.Path, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

var (
	errSchemaMismatch = errors.New("unsupported schema version")
	errMissingHashes  = errors.New("missing report or descriptor hash")
)

// Store reads and writes the state file for one target root.
type Store struct {
	fsys core.FileSystem
	dir  string
}

// NewStore creates a Store rooted at target's state directory.
func NewStore(fsys core.FileSystem, root string) *Store {
	return &Store{fsys: fsys, dir: filepath.Join(root, flake.StateDirName)}
}

// Dir returns the state directory path.
func (s *Store) Dir() string { return s.dir }

// Path returns the state file path.
func (s *Store) Path() string { return filepath.Join(s.dir, FileName) }

// Load reads the prior state. A missing file is not an error: it returns
// (nil, nil, nil). A file that exists but is corrupt or from an unknown
// schema returns a *StateError; raw carries the original bytes so unknown
// fields survive the next Save.
func (s *Store) Load(ctx context.Context) (st *State, raw []byte, err error) {
	path := s.Path()
	data, err := s.fsys.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, &StateError{Path: path, Err: err}
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, data, &StateError{Path: path, Err: err}
	}
	if loaded.SchemaVersion != SchemaVersion {
		return nil, data, &StateError{Path: path, Err: fmt.Errorf("%w: %d", errSchemaMismatch, loaded.SchemaVersion)}
	}
	if loaded.ReportHash == "" || loaded.DescriptorHash == "" {
		return nil, data, &StateError{Path: path, Err: errMissingHashes}
	}
	return &loaded, data, nil
}

// Save writes the state atomically. When prior bytes are valid JSON the
// known fields are set in place, so any extra fields another tool or a
// future version put there are preserved.
func (s *Store) Save(ctx context.Context, prior []byte, st State) error {
	data, err := s.encode(prior, st)
	if err != nil {
		return err
	}

	if err := s.fsys.MkdirAll(ctx, s.dir, core.PermDir); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", s.dir, err)
	}
	if err := core.WriteFileAtomic(ctx, s.fsys, s.Path(), data, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func (s *Store) encode(prior []byte, st State) ([]byte, error) {
	if len(prior) == 0 || !gjson.ValidBytes(prior) {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return append(data, '\n'), nil
	}

	data := prior
	var err error
	for _, field := range []struct {
		path  string
		value any
	}{
		{"schema_version", st.SchemaVersion},
		{"report_hash", st.ReportHash},
		{"descriptor_hash", st.DescriptorHash},
	} {
		data, err = sjson.SetBytes(data, field.path, field.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
	}
	return data, nil
}
