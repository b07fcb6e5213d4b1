package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/quotebook/pkg/core"
	"github.com/aretw0/quotebook/pkg/engine"
	"github.com/aretw0/quotebook/pkg/remote"
)

// options holds the internal configuration for a quotebook runtime.
type options struct {
	slots    core.Slots
	session  core.Slots
	remote   engine.Remote
	logger   *slog.Logger
	adapter  string
	notifier core.Notifier
	onIndex  core.IndexListener
	config   map[string]interface{}
}

// Option defines a functional option for configuring quotebook.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the slot backend by name: "fs" (default), "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSlots injects a slot backend (e.g. a mock). The adapter setting is ignored.
func WithSlots(slots core.Slots) Option {
	return func(o *options) {
		o.slots = slots
	}
}

// WithSession sets the backend of the session slot (last drawn quote).
// Defaults to the data slots.
func WithSession(slots core.Slots) Option {
	return func(o *options) {
		o.session = slots
	}
}

// WithNotifier receives the user-facing messages ("Quote added successfully!", ...).
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithOnIndex is called with the category index after every successful save.
func WithOnIndex(fn core.IndexListener) Option {
	return func(o *options) {
		o.onIndex = fn
	}
}

// WithForceTemp forces the data directory into the dev sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist fails instead of creating a missing data directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Saves return core.ErrReadOnly.
// 2. The data directory is never created.
// 3. Dev safety is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) the data directory is re-rooted into a temporary
// directory so a development run never touches real data.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithRemote points the sync engine at a remote collection URL.
func WithRemote(url string) Option {
	return func(o *options) {
		o.config["remote_url"] = url
	}
}

// WithPushURL sends pushes to a different endpoint than fetches.
func WithPushURL(url string) Option {
	return func(o *options) {
		o.config["push_url"] = url
	}
}

// WithRemoteSchema sets the field mapping of the remote. Defaults to remote.PresetNative.
func WithRemoteSchema(s remote.Schema) Option {
	return func(o *options) {
		o.config["remote_schema"] = s
	}
}

// WithRemoteTimeout bounds each HTTP request.
func WithRemoteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["remote_timeout"] = d
	}
}

// WithRemoteClient injects the transport used by the engine. WithRemote is ignored.
func WithRemoteClient(r engine.Remote) Option {
	return func(o *options) {
		o.remote = r
	}
}

// WithInterval sets the sync cadence. Negative disables the timer.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.config["interval"] = d
	}
}

// WithPushOnAdd pushes each added record right away.
func WithPushOnAdd(enabled bool) Option {
	return func(o *options) {
		o.config["push_on_add"] = enabled
	}
}

// WithSyncOnStart runs one sync cycle as soon as the engine starts.
func WithSyncOnStart(enabled bool) Option {
	return func(o *options) {
		o.config["sync_on_start"] = enabled
	}
}
