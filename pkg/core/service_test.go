package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quotebook/pkg/codec"
	"github.com/aretw0/quotebook/pkg/core"
)

// MockStore implements core.Store in memory and counts writes.
type MockStore struct {
	records []core.Record
	present bool
	loadErr error
	saveErr error
	filter  string
	last    *core.Record
	saves   int

	outbox    []core.Record
	outboxErr error
}

func (m *MockStore) Load(ctx context.Context) ([]core.Record, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	return append([]core.Record(nil), m.records...), m.present, nil
}

func (m *MockStore) Save(ctx context.Context, records []core.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records = append([]core.Record(nil), records...)
	m.present = true
	return nil
}

func (m *MockStore) LoadFilter(ctx context.Context) (string, bool, error) {
	return m.filter, m.filter != "", nil
}

func (m *MockStore) SaveFilter(ctx context.Context, value string) error {
	m.filter = value
	return nil
}

func (m *MockStore) SaveLast(ctx context.Context, r core.Record) error {
	m.last = &r
	return nil
}

func (m *MockStore) LoadOutbox(ctx context.Context) ([]core.Record, error) {
	return append([]core.Record(nil), m.outbox...), nil
}

func (m *MockStore) SaveOutbox(ctx context.Context, records []core.Record) error {
	if m.outboxErr != nil {
		return m.outboxErr
	}
	m.outbox = append([]core.Record(nil), records...)
	return nil
}

type notifications []string

func (n *notifications) Notify(msg string) { *n = append(*n, msg) }

func newService(t *testing.T, st *MockStore) (*core.Service, *notifications, *[][]string) {
	t.Helper()
	notes := &notifications{}
	var indexes [][]string
	var svc *core.Service
	svc = core.NewService(st, core.ServiceConfig{
		Notifier: notes,
		OnIndex: func(categories []string) {
			// The index refresh must observe an already persisted collection.
			assert.Equal(t, svc.Len(), len(st.records), "index refreshed before save")
			indexes = append(indexes, categories)
		},
	})
	codec.Register(svc)
	return svc, notes, &indexes
}

func TestService_BootstrapEmptyStore(t *testing.T) {
	st := &MockStore{}
	svc, _, indexes := newService(t, st)

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, 3, svc.Len())
	assert.Equal(t, 1, st.saves, "defaults must be persisted on first run")
	assert.Equal(t, core.DefaultRecords(), st.records)
	assert.Equal(t, core.FilterAll, svc.Filter())
	assert.Equal(t, [][]string{{"Motivation", "Humor", "Inspiration"}}, *indexes)
}

func TestService_BootstrapExistingStore(t *testing.T) {
	st := &MockStore{
		records: []core.Record{{Text: "A", Category: "X"}},
		present: true,
		filter:  "X",
	}
	svc, _, _ := newService(t, st)

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, 1, svc.Len())
	assert.Equal(t, 0, st.saves)
	assert.Equal(t, "X", svc.Filter())
}

func TestService_BootstrapCorruptStore(t *testing.T) {
	st := &MockStore{loadErr: core.ErrCorruptData}
	svc, _, _ := newService(t, st)

	require.NoError(t, svc.Bootstrap(context.Background()))

	assert.Equal(t, 3, svc.Len())
	assert.Equal(t, 1, st.saves, "defaults must overwrite the corrupt slot")
}

func TestService_BootstrapIOError(t *testing.T) {
	st := &MockStore{loadErr: errors.New("disk on fire")}
	svc, _, _ := newService(t, st)

	assert.Error(t, svc.Bootstrap(context.Background()))
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	st := &MockStore{}
	svc, notes, indexes := newService(t, st)
	require.NoError(t, svc.Bootstrap(ctx))

	r, err := svc.Add(ctx, "  Ship it.  ", " Tech ")
	require.NoError(t, err)
	assert.Equal(t, core.Record{Text: "Ship it.", Category: "Tech"}, r)
	assert.Equal(t, 4, svc.Len())
	assert.Equal(t, 2, st.saves)
	assert.Equal(t, []string{"Quote added successfully!"}, []string(*notes))
	assert.Equal(t, []string{"Motivation", "Humor", "Inspiration", "Tech"}, (*indexes)[len(*indexes)-1])

	t.Run("Category Listed Once", func(t *testing.T) {
		_, err := svc.Add(ctx, "Another", "Tech")
		require.NoError(t, err)

		count := 0
		for _, c := range svc.Categories() {
			if c == "Tech" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("Validation Leaves State Untouched", func(t *testing.T) {
		before, saves := svc.Len(), st.saves
		_, err := svc.Add(ctx, "   ", "Tech")
		assert.ErrorIs(t, err, core.ErrValidation)
		assert.Equal(t, before, svc.Len())
		assert.Equal(t, saves, st.saves)
	})

	t.Run("Duplicates Accepted", func(t *testing.T) {
		before := svc.Len()
		_, err := svc.Add(ctx, "Ship it.", "Tech")
		require.NoError(t, err)
		assert.Equal(t, before+1, svc.Len())
	})
}

func TestService_MergeFromRemote(t *testing.T) {
	ctx := context.Background()
	st := &MockStore{records: []core.Record{{Text: "A", Category: "X"}}, present: true}
	svc, notes, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(ctx))

	res, err := svc.Merge(ctx, core.SourceRemote, []core.Record{
		{Text: "A", Category: "X"},
		{Text: "B", Category: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, svc.Len())
	assert.Equal(t, []core.Record{{Text: "A", Category: "X"}, {Text: "B", Category: "Y"}}, st.records)
	assert.Equal(t, []string{"1 new quote(s) synced from server"}, []string(*notes))

	saves := st.saves
	res, err = svc.Merge(ctx, core.SourceRemote, []core.Record{{Text: "B", Category: "Y"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, saves, st.saves, "a merge that adds nothing must not write")
	assert.Len(t, *notes, 1, "a merge that adds nothing must not notify")
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	st := &MockStore{}
	svc, notes, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(ctx))

	t.Run("Rejects Non-Array", func(t *testing.T) {
		_, err := svc.Import(ctx, codec.FormatJSON, []byte(`{"not":"an array"}`))
		assert.ErrorIs(t, err, core.ErrFormat)
		assert.Equal(t, 3, svc.Len())
	})

	t.Run("Rejects Blank Items", func(t *testing.T) {
		_, err := svc.Import(ctx, codec.FormatJSON, []byte(`[{"text":"ok","category":"X"},{"text":" ","category":"X"}]`))
		assert.ErrorIs(t, err, core.ErrFormat)
		assert.Equal(t, 3, svc.Len(), "nothing is merged when one item is invalid")
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := svc.Import(ctx, "xml", []byte(`<quotes/>`))
		assert.ErrorIs(t, err, core.ErrFormat)
	})

	t.Run("Merges Novel Items", func(t *testing.T) {
		payload := []byte(`[{"text":"Stay hungry, stay foolish.","category":"Inspiration"},{"text":"New","category":"Tech"}]`)
		res, err := svc.Import(ctx, codec.FormatJSON, payload)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Added)
		assert.Equal(t, 4, svc.Len())
		assert.Contains(t, *notes, "1 quote(s) imported successfully")

		res, err = svc.Import(ctx, codec.FormatJSON, payload)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Added)
	})
}

func TestService_Export(t *testing.T) {
	st := &MockStore{records: []core.Record{{Text: "A", Category: "X"}}, present: true}
	svc, _, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(context.Background()))

	data, err := svc.Export(codec.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"A","category":"X"}]`, string(data))
	assert.Contains(t, string(data), "\n  ", "export is pretty-printed")
}

func TestService_RandomAndFilter(t *testing.T) {
	ctx := context.Background()
	st := &MockStore{}
	svc, _, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(ctx))

	require.NoError(t, svc.SetFilter(ctx, "Humor"))
	assert.Equal(t, "Humor", st.filter)

	r, ok := svc.Random(ctx, "")
	require.True(t, ok)
	assert.Equal(t, "Humor", r.Category, "empty filter falls back to the selected one")
	require.NotNil(t, st.last)
	assert.Equal(t, r, *st.last)

	_, ok = svc.Random(ctx, "Nope")
	assert.False(t, ok)

	require.NoError(t, svc.SetFilter(ctx, ""))
	assert.Equal(t, core.FilterAll, svc.Filter())
}

func TestService_SaveFailure(t *testing.T) {
	ctx := context.Background()
	st := &MockStore{records: core.DefaultRecords(), present: true}
	svc, _, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(ctx))

	st.saveErr = errors.New("disk full")
	_, err := svc.Add(ctx, "A", "X")
	assert.Error(t, err)
	assert.Equal(t, 3, svc.Len(), "a record that could not be saved must not stay in the collection")
	assert.Equal(t, 0, svc.PendingLen())

	_, err = svc.Merge(ctx, core.SourceRemote, []core.Record{{Text: "R", Category: "Remote"}})
	assert.Error(t, err)
	assert.Equal(t, 3, svc.Len())
	assert.NotContains(t, svc.Categories(), "Remote")

	// Neither the shutdown save nor a retried add resurrect the failed record.
	st.saveErr = nil
	require.NoError(t, svc.Close(ctx))
	assert.Equal(t, core.DefaultRecords(), st.records)

	_, err = svc.Add(ctx, "A", "X")
	require.NoError(t, err)
	assert.Len(t, svc.Records("X"), 1)
}

func TestService_Outbox(t *testing.T) {
	ctx := context.Background()
	queued := core.Record{Text: "Queued", Category: "Earlier"}
	st := &MockStore{records: core.DefaultRecords(), present: true, outbox: []core.Record{queued}}
	svc, _, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(ctx))
	assert.Equal(t, 1, svc.PendingLen(), "outbox restored from the store")

	r, err := svc.Add(ctx, "Fresh", "Now")
	require.NoError(t, err)
	assert.Equal(t, []core.Record{queued, r}, st.outbox)

	t.Run("Take Clears Slot", func(t *testing.T) {
		batch, err := svc.TakePending(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.Record{queued, r}, batch)
		assert.Empty(t, st.outbox)
		assert.Equal(t, 0, svc.PendingLen())

		batch, err = svc.TakePending(ctx)
		require.NoError(t, err)
		assert.Nil(t, batch)
	})

	t.Run("Failed Clear Keeps Records Queued", func(t *testing.T) {
		_, err := svc.Add(ctx, "Again", "Now")
		require.NoError(t, err)

		st.outboxErr = errors.New("disk full")
		_, err = svc.TakePending(ctx)
		assert.Error(t, err)
		assert.Equal(t, 1, svc.PendingLen())
	})
}

func TestService_State(t *testing.T) {
	st := &MockStore{}
	svc, _, _ := newService(t, st)
	require.NoError(t, svc.Bootstrap(context.Background()))

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, 3, state.Records)
	assert.Equal(t, []string{"json", "yaml"}, state.Codecs)
	assert.Equal(t, "store", state.StoreType)
}
