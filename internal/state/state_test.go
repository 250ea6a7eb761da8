package state

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/indaco/devflake/internal/core"
)

func TestLoadMissingIsNotAnError(t *testing.T) {
	store := NewStore(core.NewMockFileSystem(), "/repo")

	st, raw, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if st != nil || raw != nil {
		t.Errorf("expected empty result, got st=%v raw=%q", st, raw)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	fsys := core.NewMockFileSystem()
	store := NewStore(fsys, "/repo")
	ctx := context.Background()

	want := State{SchemaVersion: SchemaVersion, ReportHash: "abc", DescriptorHash: "def"}
	if err := store.Save(ctx, nil, want); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	st, raw, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if st == nil || *st != want {
		t.Errorf("loaded state = %+v, want %+v", st, want)
	}
	if len(raw) == 0 {
		t.Error("expected raw bytes from a loaded state")
	}
}

func TestSavePreservesUnknownFields(t *testing.T) {
	fsys := core.NewMockFileSystem()
	store := NewStore(fsys, "/repo")
	ctx := context.Background()

	prior := []byte(`{"schema_version": 1, "report_hash": "old", "descriptor_hash": "old", "custom_note": "keep me"}`)
	err := store.Save(ctx, prior, State{SchemaVersion: SchemaVersion, ReportHash: "new", DescriptorHash: "new"})
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	data, err := fsys.ReadFile(ctx, store.Path())
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"custom_note"`) || !strings.Contains(out, "keep me") {
		t.Errorf("unknown field dropped:\n%s", out)
	}
	if !strings.Contains(out, `"report_hash":"new"`) && !strings.Contains(out, `"report_hash": "new"`) {
		t.Errorf("report hash not updated:\n%s", out)
	}
}

func TestLoadCorruptState(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{"},
		{name: "unknown schema", content: `{"schema_version": 99, "report_hash": "a", "descriptor_hash": "b"}`},
		{name: "missing hashes", content: `{"schema_version": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := core.NewMockFileSystem()
			store := NewStore(fsys, "/repo")
			fsys.SetFile(store.Path(), []byte(tt.content))

			st, _, err := store.Load(context.Background())
			var se *StateError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StateError, got %v", err)
			}
			if st != nil {
				t.Errorf("corrupt state should not decode, got %+v", st)
			}
		})
	}
}

func TestLoadReadFailure(t *testing.T) {
	fsys := core.NewMockFileSystem()
	store := NewStore(fsys, "/repo")
	fsys.SetFile(store.Path(), []byte(`{}`))
	fsys.ReadErr = errors.New("I/O error")

	_, _, err := store.Load(context.Background())
	var se *StateError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StateError, got %v", err)
	}
}

func TestSaveWriteFailure(t *testing.T) {
	fsys := core.NewMockFileSystem()
	fsys.WriteErr = errors.New("disk full")
	store := NewStore(fsys, "/repo")

	err := store.Save(context.Background(), nil, State{SchemaVersion: SchemaVersion, ReportHash: "a", DescriptorHash: "b"})
	if err == nil {
		t.Fatal("expected error when write fails")
	}
}
