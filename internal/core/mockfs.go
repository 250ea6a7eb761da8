package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests. Error fields, when
// set, are returned by the corresponding operation so tests can simulate
// filesystem failures.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	links map[string]string // symlink path -> target

	ReadErr   error
	WriteErr  error
	StatErr   error
	ReadDirEr error
	RenameErr error

	// ReadDirErrs fails ReadDir for specific cleaned paths only.
	ReadDirErrs map[string]error
}

// NewMockFileSystem creates an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		links: make(map[string]string),
	}
}

// SetFile stores file contents at the given path.
func (m *MockFileSystem) SetFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = data
}

// SetSymlink records a symlink from path to target.
func (m *MockFileSystem) SetSymlink(path, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[filepath.Clean(path)] = target
}

// Files returns a sorted list of all file paths currently stored.
func (m *MockFileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (m *MockFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *MockFileSystem) WriteFile(ctx context.Context, path string, data []byte, _ fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.SetFile(path, data)
	return nil
}

func (m *MockFileSystem) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	clean := filepath.Clean(path)
	if data, ok := m.files[clean]; ok {
		return mockFileInfo{name: filepath.Base(clean), size: int64(len(data))}, nil
	}
	if m.isDirLocked(clean) {
		return mockFileInfo{name: filepath.Base(clean), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) Lstat(ctx context.Context, path string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	clean := filepath.Clean(path)
	if _, ok := m.links[clean]; ok {
		m.mu.RUnlock()
		return mockFileInfo{name: filepath.Base(clean), mode: fs.ModeSymlink}, nil
	}
	m.mu.RUnlock()
	return m.Stat(ctx, path)
}

func (m *MockFileSystem) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadDirEr != nil {
		return nil, m.ReadDirEr
	}
	clean := filepath.Clean(path)
	if err, ok := m.ReadDirErrs[clean]; ok {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var entries []fs.DirEntry

	add := func(child string, isDir bool, mode fs.FileMode) {
		if seen[child] {
			return
		}
		seen[child] = true
		entries = append(entries, mockDirEntry{name: child, dir: isDir, mode: mode})
	}

	collect := func(paths map[string]struct{}, mode fs.FileMode) {
		for p := range paths {
			rel, err := filepath.Rel(clean, p)
			if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
				continue
			}
			parts := strings.Split(rel, string(os.PathSeparator))
			add(parts[0], len(parts) > 1, mode)
		}
	}

	fileSet := make(map[string]struct{}, len(m.files))
	for p := range m.files {
		fileSet[p] = struct{}{}
	}
	linkSet := make(map[string]struct{}, len(m.links))
	for p := range m.links {
		linkSet[p] = struct{}{}
	}
	collect(fileSet, 0)
	collect(linkSet, fs.ModeSymlink)

	if len(entries) == 0 && !m.isDirLocked(clean) {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MockFileSystem) MkdirAll(ctx context.Context, _ string, _ fs.FileMode) error {
	return ctx.Err()
}

func (m *MockFileSystem) Rename(ctx context.Context, oldpath, newpath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.RenameErr != nil {
		return m.RenameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	oldClean := filepath.Clean(oldpath)
	newClean := filepath.Clean(newpath)
	if data, ok := m.files[oldClean]; ok {
		delete(m.files, oldClean)
		m.files[newClean] = data
		return nil
	}
	// Directory rename: move every file under the old prefix.
	prefix := oldClean + string(os.PathSeparator)
	moved := false
	for p, data := range m.files {
		if strings.HasPrefix(p, prefix) {
			delete(m.files, p)
			m.files[filepath.Join(newClean, strings.TrimPrefix(p, prefix))] = data
			moved = true
		}
	}
	if !moved {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	return nil
}

func (m *MockFileSystem) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.Clean(path))
	return nil
}

func (m *MockFileSystem) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clean := filepath.Clean(path)
	delete(m.files, clean)
	prefix := clean + string(os.PathSeparator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	return nil
}

// isDirLocked reports whether any stored file lives under path.
// Callers must hold m.mu.
func (m *MockFileSystem) isDirLocked(path string) bool {
	prefix := path + string(os.PathSeparator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	for p := range m.links {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

type mockFileInfo struct {
	name string
	size int64
	dir  bool
	mode fs.FileMode
}

func (fi mockFileInfo) Name() string { return fi.name }
func (fi mockFileInfo) Size() int64  { return fi.size }
func (fi mockFileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | PermDir
	}
	return fi.mode | PermOwnerRW
}
func (fi mockFileInfo) ModTime() time.Time { return time.Time{} }
func (fi mockFileInfo) IsDir() bool        { return fi.dir }
func (fi mockFileInfo) Sys() any           { return nil }

type mockDirEntry struct {
	name string
	dir  bool
	mode fs.FileMode
}

func (e mockDirEntry) Name() string      { return e.name }
func (e mockDirEntry) IsDir() bool       { return e.dir }
func (e mockDirEntry) Type() fs.FileMode { return e.mode }
func (e mockDirEntry) Info() (fs.FileInfo, error) {
	return mockFileInfo{name: e.name, dir: e.dir, mode: e.mode}, nil
}
