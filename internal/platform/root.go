package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// DataDirName is the conventional data directory of a project.
const DataDirName = ".quotebook"

// ErrRootNotFound is returned by FindRoot when no indicator exists up to the filesystem root.
var ErrRootNotFound = errors.New("root not found")

// FindRoot walks upwards from startDir looking for a quotebook root.
// Indicators are a .quotebook directory or a quotebook.yaml file.
// It returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, DataDirName) || hasFile(dir, "quotebook.yaml") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

// DefaultDataDir returns <root>/.quotebook for the root enclosing startDir,
// or ./.quotebook when there is none.
func DefaultDataDir(startDir string) string {
	root, err := FindRoot(startDir)
	if err != nil {
		return filepath.Join(startDir, DataDirName)
	}
	return filepath.Join(root, DataDirName)
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
