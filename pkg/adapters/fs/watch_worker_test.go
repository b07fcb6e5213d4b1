package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *importRecorder) fn(ctx context.Context, path string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	return nil
}

func (r *importRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startInbox(t *testing.T, cfg InboxConfig, rec *importRecorder) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewInbox(cfg, rec.fn).Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("inbox did not stop")
		}
	})
	return cancel
}

func TestInbox_ImportsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`x`), 0644))

	rec := &importRecorder{}
	startInbox(t, InboxConfig{Dir: dir}, rec)

	assert.Eventually(t, func() bool {
		return len(rec.seen()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a.json"}, rec.seen())
}

func TestInbox_ImportsNewFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &importRecorder{}
	startInbox(t, InboxConfig{Dir: dir, Debounce: 20 * time.Millisecond}, rec)

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.yaml"), []byte(`[]`), 0644))

	assert.Eventually(t, func() bool {
		for _, p := range rec.seen() {
			if p == "b.json" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	for _, p := range rec.seen() {
		assert.NotEqual(t, "ignored.yaml", p)
	}
}

func TestInbox_InvalidPattern(t *testing.T) {
	err := NewInbox(InboxConfig{Dir: t.TempDir(), Pattern: "[unclosed"}, (&importRecorder{}).fn).Run(context.Background())
	assert.Error(t, err)
}

func TestInbox_Matches(t *testing.T) {
	dir := t.TempDir()
	w := NewInbox(InboxConfig{Dir: dir, Pattern: "*.json"}, nil)

	assert.True(t, w.matches(filepath.Join(dir, "quotes.json")))
	assert.False(t, w.matches(filepath.Join(dir, "quotes.yaml")))
	assert.False(t, w.matches(filepath.Join(dir, TempFilePrefix+"123.json")))
	assert.False(t, w.matches(filepath.Join(dir, ".hidden.json")))
}
