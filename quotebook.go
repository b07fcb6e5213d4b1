package quotebook

import (
	"log/slog"
	"time"

	"github.com/aretw0/quotebook/internal/platform"
	"github.com/aretw0/quotebook/pkg/core"
	"github.com/aretw0/quotebook/pkg/engine"
	"github.com/aretw0/quotebook/pkg/remote"
)

// --- Types ---

// Record is a single quote.
type Record = core.Record

// Runtime bundles a service, its sync engine and their backend.
type Runtime = platform.Runtime

// --- Configuration ---

// Option defines a functional option for configuring quotebook.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the slot backend by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSlots injects a custom slot backend.
func WithSlots(slots core.Slots) Option {
	return platform.WithSlots(slots)
}

// WithNotifier receives the user-facing messages.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithOnIndex is called with the category index after every save.
func WithOnIndex(fn core.IndexListener) Option {
	return platform.WithOnIndex(fn)
}

// WithForceTemp forces the data directory into the dev sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist fails instead of creating a missing data directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the store without ever writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithRemote points the sync engine at a remote collection URL.
func WithRemote(url string) Option {
	return platform.WithRemote(url)
}

// WithRemoteSchema sets the field mapping of the remote.
func WithRemoteSchema(s remote.Schema) Option {
	return platform.WithRemoteSchema(s)
}

// WithPushURL sends pushes to a different endpoint than fetches.
func WithPushURL(url string) Option {
	return platform.WithPushURL(url)
}

// WithRemoteTimeout bounds each HTTP request.
func WithRemoteTimeout(d time.Duration) Option {
	return platform.WithRemoteTimeout(d)
}

// WithRemoteClient injects the transport used by the engine.
func WithRemoteClient(r engine.Remote) Option {
	return platform.WithRemoteClient(r)
}

// WithSyncOnStart runs one sync cycle as soon as the engine starts.
func WithSyncOnStart(enabled bool) Option {
	return platform.WithSyncOnStart(enabled)
}

// WithInterval sets the sync cadence.
func WithInterval(d time.Duration) Option {
	return platform.WithInterval(d)
}

// WithPushOnAdd pushes each added record right away.
func WithPushOnAdd(enabled bool) Option {
	return platform.WithPushOnAdd(enabled)
}

// --- Factory ---

// New opens the store at path and returns a bootstrapped service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open builds a service and its sync engine. The engine is not started.
func Open(path string, opts ...Option) (*Runtime, error) {
	return platform.Open(path, opts...)
}

// NewEngine wraps an existing service in a sync engine.
func NewEngine(svc *core.Service, opts ...Option) (*engine.Engine, error) {
	return platform.NewEngine(svc, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding .quotebook or quotebook.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
