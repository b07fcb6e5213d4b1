package platform

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/quotebook/pkg/codec"
	"github.com/aretw0/quotebook/pkg/core"
	"github.com/aretw0/quotebook/pkg/engine"
	"github.com/aretw0/quotebook/pkg/remote"
	"github.com/aretw0/quotebook/pkg/store"
)

// New opens the store at uri and returns a bootstrapped service with the
// JSON and YAML codecs registered.
//
//	svc, err := platform.New("./data", platform.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := applyOptions(opts)
	slots, err := initSlots(uri, o)
	if err != nil {
		return nil, err
	}
	svc, err := newService(slots, o)
	if err != nil {
		closeSlots(slots)
		return nil, err
	}
	return svc, nil
}

func newService(slots core.Slots, o *options) (*core.Service, error) {
	session := o.session
	if session == nil {
		session = slots
	} else if err := session.Initialize(context.Background()); err != nil {
		return nil, err
	}

	svc := core.NewService(store.New(slots, session), core.ServiceConfig{
		Logger:   o.logger,
		Notifier: o.notifier,
		OnIndex:  o.onIndex,
	})
	codec.Register(svc)

	if err := svc.Bootstrap(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// NewEngine wraps svc in a sync engine configured by the options.
// Without WithRemote or WithRemoteClient the engine runs without a remote.
func NewEngine(svc *core.Service, opts ...Option) (*engine.Engine, error) {
	return newEngine(svc, applyOptions(opts))
}

func newEngine(svc *core.Service, o *options) (*engine.Engine, error) {
	rem, err := remoteFor(o)
	if err != nil {
		return nil, err
	}

	interval, _ := o.config["interval"].(time.Duration)
	pushOnAdd, _ := o.config["push_on_add"].(bool)
	syncOnStart, _ := o.config["sync_on_start"].(bool)

	return engine.New(svc, rem, engine.Config{
		Interval:    interval,
		PushOnAdd:   pushOnAdd,
		SyncOnStart: syncOnStart,
		Logger:      o.logger,
	}), nil
}

func remoteFor(o *options) (engine.Remote, error) {
	if o.remote != nil {
		return o.remote, nil
	}
	url, _ := o.config["remote_url"].(string)
	if url == "" {
		return nil, nil
	}

	schema, ok := o.config["remote_schema"].(remote.Schema)
	if !ok {
		schema = remote.PresetNative
	}
	pushURL, _ := o.config["push_url"].(string)
	timeout, _ := o.config["remote_timeout"].(time.Duration)

	client, err := remote.NewClient(remote.Config{
		URL:     url,
		PushURL: pushURL,
		Schema:  schema,
		Timeout: timeout,
		Logger:  o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return client, nil
}

// Runtime bundles a service, its engine and the backend they share.
type Runtime struct {
	Service *core.Service
	Engine  *engine.Engine
	slots   core.Slots
}

// Open builds a complete runtime. The engine is not started; run
// Runtime.Engine.Run and call Close once it has returned.
func Open(uri string, opts ...Option) (*Runtime, error) {
	o := applyOptions(opts)
	slots, err := initSlots(uri, o)
	if err != nil {
		return nil, err
	}

	svc, err := newService(slots, o)
	if err != nil {
		closeSlots(slots)
		return nil, err
	}
	eng, err := newEngine(svc, o)
	if err != nil {
		closeSlots(slots)
		return nil, err
	}
	return &Runtime{Service: svc, Engine: eng, slots: slots}, nil
}

// Slots returns the backend of the runtime.
func (r *Runtime) Slots() core.Slots {
	return r.slots
}

// Close releases the backend (the SQLite handle, for instance).
func (r *Runtime) Close() error {
	return closeSlots(r.slots)
}

func closeSlots(slots core.Slots) error {
	if c, ok := slots.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
