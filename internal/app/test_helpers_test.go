package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/iwgo/internal/world/socketworld"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// fakeMirror records emitted events instead of talking to a server.
type fakeMirror struct {
	mu     sync.Mutex
	events int
	voxels int
	closed bool
}

func (m *fakeMirror) Emit(_ string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events++
	if batch, ok := payload.([]socketworld.VoxelMessage); ok {
		m.voxels += len(batch)
	}
	return nil
}

func (m *fakeMirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// writeTemplates writes name → content pairs into a fresh directory.
func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// setupAppTest creates an App writing results to a buffer.
func setupAppTest(t *testing.T, cfg Config) (*App, *bytes.Buffer, *SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &SafeBuffer{}
	a, err := NewApp(out, logs, config)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("IWGO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func useMirror(a *App, m *fakeMirror) {
	a.dial = func(context.Context, string, string) (mirror, error) { return m, nil }
}
