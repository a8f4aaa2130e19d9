package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeFile(t, t.TempDir(), "components.yaml", `
components:
  - id: ATEN_CORE_001
    kind: yaml
    config:
      path: docs/core.yaml
  - id: ATEN_HTTP_001
    kind: http
    config:
      url: https://example.com/status
      timeout: 5s
`)

	// --- Act ---
	m, err := Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, m.Components, 2)
	require.Equal(t, "ATEN_CORE_001", m.Components[0].UID)
	require.Equal(t, "yaml", m.Components[0].Kind)
	require.Equal(t, "docs/core.yaml", m.Components[0].Config["path"])
	require.Equal(t, "5s", m.Components[1].Config["timeout"])
}

func TestLoad_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "components.json", `{
  "components": [
    {"id": "ATEN_J_001", "kind": "factory", "config": {"factory": "streams"}}
  ]
}`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, m.Components, 1)
	require.Equal(t, "factory", m.Components[0].Kind)
	require.Equal(t, "streams", m.Components[0].Config["factory"])
}

func TestLoad_HCL(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "components.hcl", `
component "ATEN_H_001" {
  kind = "yaml"
  path = "docs/core.yaml"
}

component "ATEN_H_002" {
  kind    = "http"
  url     = "https://example.com/status"
  headers = {
    X-Auth = "token-1"
  }
  retries = 3
  secure  = true
}
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, m.Components, 2)

	first := m.Components[0]
	require.Equal(t, "ATEN_H_001", first.UID)
	require.Equal(t, map[string]any{"path": "docs/core.yaml"}, first.Config)

	second := m.Components[1]
	require.Equal(t, "http", second.Kind)
	require.Equal(t, 3.0, second.Config["retries"])
	require.Equal(t, true, second.Config["secure"])
	headers, ok := second.Config["headers"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "token-1", headers["X-Auth"])
}

func TestLoad_ComponentWithoutConfigGetsEmptyMap(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "bare.yaml", `
components:
  - id: ATEN_BARE_001
    kind: factory
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, m.Components[0].Config)
	require.Empty(t, m.Components[0].Config)
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "broken.yaml", `
components:
  - kind: yaml
  - id: ATEN_NOKIND_001
  - id: ATEN_DUP_001
    kind: yaml
  - id: ATEN_DUP_001
    kind: http
`)

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "has no id")
	require.Contains(t, err.Error(), "ATEN_NOKIND_001")
	require.Contains(t, err.Error(), "declared more than once")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "manifest.toml", "components = []")

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported manifest extension")
}

func TestLoadDir_MergesFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "components:\n  - {id: A_001, kind: yaml, config: {path: a.yaml}}\n")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "b.json", `{"components": [{"id": "B_001", "kind": "factory", "config": {"factory": "f"}}]}`)

	// --- Act ---
	m, err := LoadDir(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, m.Components, 2)
	require.Len(t, m.Paths, 2)
}

func TestLoadDir_DuplicateAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "components:\n  - {id: DUP_001, kind: yaml}\n")
	writeFile(t, dir, "b.yaml", "components:\n  - {id: DUP_001, kind: http}\n")

	_, err := LoadDir(context.Background(), dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate component id 'DUP_001'")
}

func TestLoadDir_Empty(t *testing.T) {
	t.Parallel()

	m, err := LoadDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.Empty(t, m.Components)
}

func TestLoadPath_DispatchesFileOrDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, dir, "a.yaml", "components:\n  - {id: A_001, kind: yaml}\n")

	fromFile, err := LoadPath(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, fromFile.Components, 1)

	fromDir, err := LoadPath(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, fromDir.Components, 1)

	_, err = LoadPath(context.Background(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
