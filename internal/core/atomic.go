package core

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
)

// WriteFileAtomic writes data to path by first writing a temporary file in
// the same directory and then renaming it into place. The rename is the
// commit point: a crash mid-write leaves either the old contents or the new,
// never a torn file. The temporary file is removed on failure.
func WriteFileAtomic(ctx context.Context, fsys FileSystem, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp")

	if err := fsys.WriteFile(ctx, tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write temporary file %q: %w", tmp, err)
	}

	if err := fsys.Rename(ctx, tmp, path); err != nil {
		_ = fsys.Remove(ctx, tmp)
		return fmt.Errorf("failed to rename %q to %q: %w", tmp, path, err)
	}

	return nil
}
