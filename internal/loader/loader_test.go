package loader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tequmsa/ankhaten/internal/registry"
)

func TestYAML_Build(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: lattice\nnodes:\n  - alpha\n  - beta\n"), 0o644))
	comp := registry.Component{UID: "Y_001", Kind: "yaml", Config: map[string]any{"path": path}}

	// --- Act ---
	res, err := NewYAML().Build(context.Background(), comp)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "Y_001", res.UID)
	require.Equal(t, path, res.Source)
	data, ok := res.Data.(map[string]any)
	require.True(t, ok, "yaml documents decode to maps")
	require.Equal(t, "lattice", data["name"])
	require.Len(t, data["nodes"], 2)
}

func TestYAML_BuildErrors(t *testing.T) {
	t.Parallel()

	l := NewYAML()

	_, err := l.Build(context.Background(), registry.Component{UID: "Y_002", Config: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "'path'")

	_, err = l.Build(context.Background(), registry.Component{
		UID:    "Y_003",
		Config: map[string]any{"path": filepath.Join(t.TempDir(), "nope.yaml")},
	})
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nodes: [alpha, beta\n"), 0o644))
	_, err = l.Build(context.Background(), registry.Component{UID: "Y_004", Config: map[string]any{"path": bad}})
	require.Error(t, err)
}

func TestFactory_Build(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	set := NewFactorySet()
	set.Register("echo", func(_ context.Context, args map[string]any) (any, error) {
		return args["value"], nil
	})
	set.Register("fail", func(context.Context, map[string]any) (any, error) {
		return nil, fmt.Errorf("constructor exploded")
	})
	l := NewFactory(set)

	// --- Act / Assert ---
	res, err := l.Build(context.Background(), registry.Component{
		UID:    "F_001",
		Config: map[string]any{"factory": "echo", "args": map[string]any{"value": 42.0}},
	})
	require.NoError(t, err)
	require.Equal(t, 42.0, res.Data)
	require.Equal(t, "echo", res.Source)

	_, err = l.Build(context.Background(), registry.Component{UID: "F_002", Config: map[string]any{"factory": "fail"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "constructor exploded")

	_, err = l.Build(context.Background(), registry.Component{UID: "F_003", Config: map[string]any{"factory": "missing"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown factory")

	_, err = l.Build(context.Background(), registry.Component{UID: "F_004", Config: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "'factory'")
}

func TestFactorySet_DuplicatePanics(t *testing.T) {
	t.Parallel()

	set := NewFactorySet()
	set.Register("dup", func(context.Context, map[string]any) (any, error) { return nil, nil })
	require.Panics(t, func() {
		set.Register("dup", func(context.Context, map[string]any) (any, error) { return nil, nil })
	})
	require.Equal(t, []string{"dup"}, set.Names())
}

func TestHTTP_BuildJSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token-1", r.Header.Get("X-Auth"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "coherent", "nodes": 3}`)
	}))
	defer srv.Close()

	comp := registry.Component{UID: "H_001", Kind: "http", Config: map[string]any{
		"url":     srv.URL,
		"headers": map[string]any{"X-Auth": "token-1"},
	}}

	// --- Act ---
	res, err := NewHTTP().Build(context.Background(), comp)

	// --- Assert ---
	require.NoError(t, err)
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "coherent", data["status"])
	require.Equal(t, 3.0, data["nodes"])
}

func TestHTTP_BuildNonJSONFallsBackToString(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "plain text payload")
	}))
	defer srv.Close()

	res, err := NewHTTP().Build(context.Background(), registry.Component{
		UID:    "H_002",
		Config: map[string]any{"url": srv.URL},
	})
	require.NoError(t, err)
	require.Equal(t, "plain text payload", res.Data)
}

func TestHTTP_BuildErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewHTTP()

	_, err := l.Build(context.Background(), registry.Component{UID: "H_003", Config: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "'url'")

	_, err = l.Build(context.Background(), registry.Component{UID: "H_004", Config: map[string]any{"url": srv.URL}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestSocketIO_ConfigErrors(t *testing.T) {
	t.Parallel()

	l := NewSocketIO()

	_, err := l.Build(context.Background(), registry.Component{UID: "S_001", Config: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "'url'")

	_, err = l.Build(context.Background(), registry.Component{
		UID:    "S_002",
		Config: map[string]any{"url": "ws://localhost:9"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "'on_event'")
}

func TestConfDuration(t *testing.T) {
	t.Parallel()

	d, err := confDuration(map[string]any{"timeout": "2s"}, "timeout", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, d)

	d, err = confDuration(map[string]any{"timeout": 30.0}, "timeout", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, d)

	d, err = confDuration(map[string]any{}, "timeout", time.Minute)
	require.NoError(t, err)
	require.Equal(t, time.Minute, d)

	_, err = confDuration(map[string]any{"timeout": "soon"}, "timeout", time.Minute)
	require.Error(t, err)
}
