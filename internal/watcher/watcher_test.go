package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tequmsa/ankhaten/internal/registry"
)

func writeManifest(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	path := filepath.Join(dir, "components.yaml")
	writeManifest(t, path, "components:\n  - {id: A_001, kind: yaml}\n")

	reg := registry.New()
	reg.Add(registry.Component{UID: "A_001", Kind: "yaml", Config: map[string]any{}})

	var reloads atomic.Int32
	w, err := New(dir, reg,
		WithDebounce(20*time.Millisecond),
		WithReloadHook(func(int) { reloads.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// --- Act ---
	writeManifest(t, path, "components:\n  - {id: A_001, kind: yaml}\n  - {id: A_002, kind: http}\n")

	// --- Assert ---
	require.Eventually(t, func() bool {
		return reg.Count() == 2
	}, 5*time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestWatcher_KeepsOldSetOnParseFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "components.yaml")
	writeManifest(t, path, "components:\n  - {id: A_001, kind: yaml}\n")

	reg := registry.New()
	reg.Add(registry.Component{UID: "A_001", Kind: "yaml", Config: map[string]any{}})

	w, err := New(dir, reg, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	writeManifest(t, path, "components:\n  - {kind: yaml}\n")

	// The broken manifest must never evict the live components.
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, reg.Count())
	_, ok := reg.Get("A_001")
	require.True(t, ok)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "components.yaml"), "components:\n  - {id: A_001, kind: yaml}\n")

	reg := registry.New()
	var reloads atomic.Int32
	w, err := New(dir, reg,
		WithDebounce(20*time.Millisecond),
		WithReloadHook(func(int) { reloads.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644))

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(0), reloads.Load())
}

func TestWatcher_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"), registry.New())
	require.Error(t, err)
}
