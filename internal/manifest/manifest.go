package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/fsutil"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// Extensions lists the manifest file extensions Load understands.
var Extensions = []string{".yaml", ".yml", ".json", ".hcl"}

// Manifest is the parsed content of one or more manifest files.
type Manifest struct {
	// Paths holds the source files the components came from, in load order.
	Paths []string

	// Components holds the declared components in file order.
	Components []registry.Component
}

// manifestFile mirrors the document layout of YAML and JSON manifests.
type manifestFile struct {
	Components []manifestEntry `yaml:"components" json:"components"`
}

type manifestEntry struct {
	ID     string         `yaml:"id" json:"id"`
	Kind   string         `yaml:"kind" json:"kind"`
	Config map[string]any `yaml:"config" json:"config"`
}

// Load parses a single manifest file, dispatching on its extension.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading manifest file.", "path", path)

	var (
		comps []registry.Component
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		comps, err = loadYAML(path)
	case ".json":
		comps, err = loadJSON(path)
	case ".hcl":
		comps, err = loadHCL(path)
	default:
		return nil, fmt.Errorf("unsupported manifest extension for %s", path)
	}
	if err != nil {
		return nil, err
	}

	if err := validate(path, comps); err != nil {
		return nil, err
	}

	logger.Debug("Manifest file loaded.", "path", path, "components", len(comps))
	return &Manifest{Paths: []string{path}, Components: comps}, nil
}

// LoadPath parses a manifest file, or every manifest file under a directory.
func LoadPath(ctx context.Context, path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest path %s: %w", path, err)
	}
	if !info.IsDir() {
		return Load(ctx, path)
	}
	return LoadDir(ctx, path)
}

// LoadDir recursively parses every manifest file under root and merges the
// results. A component id declared in two files is an error.
func LoadDir(ctx context.Context, root string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(root, Extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to find manifest files in %s: %w", root, err)
	}
	if len(files) == 0 {
		logger.Warn("No manifest files found in path, returning empty manifest.", "path", root)
		return &Manifest{}, nil
	}

	merged := &Manifest{}
	seen := make(map[string]string)
	for _, file := range files {
		m, err := Load(ctx, file)
		if err != nil {
			return nil, err
		}
		for _, c := range m.Components {
			if prev, dup := seen[c.UID]; dup {
				return nil, fmt.Errorf("duplicate component id '%s' in %s (already declared in %s)", c.UID, file, prev)
			}
			seen[c.UID] = file
		}
		merged.Paths = append(merged.Paths, file)
		merged.Components = append(merged.Components, m.Components...)
	}
	return merged, nil
}

func loadYAML(path string) ([]registry.Component, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var doc manifestFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return toComponents(doc), nil
}

func loadJSON(path string) ([]registry.Component, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var doc manifestFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return toComponents(doc), nil
}

func toComponents(doc manifestFile) []registry.Component {
	comps := make([]registry.Component, 0, len(doc.Components))
	for _, row := range doc.Components {
		cfg := row.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		comps = append(comps, registry.Component{UID: row.ID, Kind: row.Kind, Config: cfg})
	}
	return comps
}

// validate rejects rows a loader could never materialize.
func validate(path string, comps []registry.Component) error {
	var problems []string
	seen := make(map[string]bool)
	for i, c := range comps {
		if c.UID == "" {
			problems = append(problems, fmt.Sprintf("component #%d has no id", i+1))
			continue
		}
		if c.Kind == "" {
			problems = append(problems, fmt.Sprintf("component '%s' has no kind", c.UID))
		}
		if seen[c.UID] {
			problems = append(problems, fmt.Sprintf("component id '%s' declared more than once", c.UID))
		}
		seen[c.UID] = true
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid manifest %s:\n- %s", path, strings.Join(problems, "\n- "))
	}
	return nil
}
