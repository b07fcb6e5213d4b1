package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// TempFilePrefix is the prefix used for temporary atomic write files.
// Files carrying it are never treated as slots or inbox payloads.
const TempFilePrefix = "quotebook-tmp-"

// writeFileAtomic replaces filename with data in one rename, so readers
// observe either the previous slot value or the new one, never a mix.
// The parent directory is synced afterwards so the rename itself survives
// a crash.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	f, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp slot in %s: %w", dir, err)
	}

	renamed := false
	defer func() {
		if !renamed {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(perm); err != nil && runtime.GOOS != "windows" {
		return fmt.Errorf("chmod temp slot: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write temp slot: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync temp slot: %w", err)
	}
	// Closing twice on the failure path only returns os.ErrClosed.
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp slot: %w", err)
	}
	if err := os.Rename(f.Name(), filename); err != nil {
		return fmt.Errorf("replace %s: %w", filename, err)
	}
	renamed = true

	syncDir(dir)
	return nil
}

// syncDir flushes a directory entry. Best effort: not every platform
// supports fsync on directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}
