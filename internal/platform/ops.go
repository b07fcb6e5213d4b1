package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/quotebook/pkg/adapters/fs"
	"github.com/aretw0/quotebook/pkg/adapters/memory"
	"github.com/aretw0/quotebook/pkg/adapters/sqlite"
	"github.com/aretw0/quotebook/pkg/core"
)

// SQLiteFile is the database file name used by the sqlite adapter inside the data directory.
const SQLiteFile = "quotebook.db"

// Init prepares the slot backend selected by the options and runs its
// initialization. The uri is adapter-specific: the data directory for "fs"
// and "sqlite", ignored for "memory".
func Init(uri string, opts ...Option) (core.Slots, error) {
	return initSlots(uri, applyOptions(opts))
}

func initSlots(uri string, o *options) (core.Slots, error) {
	if o.slots != nil {
		return o.slots, nil
	}

	var slots core.Slots
	switch o.adapter {
	case "fs":
		slots = fs.NewSlots(fsConfig(uri, o))
	case "sqlite":
		// The directory follows the file adapter rules, read-only included.
		dir := fsConfig(uri, o)
		if err := fs.NewSlots(dir).Initialize(context.Background()); err != nil {
			return nil, err
		}
		db, err := sqlite.Open(sqlite.Config{
			Path:     filepath.Join(dir.Path, SQLiteFile),
			ReadOnly: dir.ReadOnly,
		})
		if err != nil {
			return nil, err
		}
		slots = db
	case "memory":
		slots = memory.NewSlots()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := slots.Initialize(context.Background()); err != nil {
		closeSlots(slots)
		return nil, err
	}
	return slots, nil
}

// fsConfig resolves the file adapter settings, dev safety included.
func fsConfig(path string, o *options) fs.Config {
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)

	return fs.Config{
		Path:      resolvePath(path, o),
		MustExist: mustExist,
		ReadOnly:  readOnly,
		Logger:    o.logger,
	}
}

func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe.
	bypassSafety := readOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if o.logger != nil && IsDevRun() {
		switch {
		case readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if o.logger != nil && useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}
