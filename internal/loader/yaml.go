package loader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// YAML materializes components from local YAML documents. Config:
//
//	path: path to the document, absolute or relative to the working directory.
type YAML struct{}

// NewYAML creates the yaml loader.
func NewYAML() *YAML { return &YAML{} }

// Kind implements registry.Loader.
func (l *YAML) Kind() string { return "yaml" }

// Build implements registry.Loader.
func (l *YAML) Build(ctx context.Context, c registry.Component) (*registry.Result, error) {
	logger := ctxlog.FromContext(ctx)

	path := confString(c.Config, "path", "")
	if path == "" {
		return nil, fmt.Errorf("component %s: yaml loader requires a 'path' setting", c.UID)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("component %s: failed to read %s: %w", c.UID, path, err)
	}

	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("component %s: failed to parse %s: %w", c.UID, path, err)
	}

	logger.Debug("YAML component materialized.", "uid", c.UID, "path", path)
	return &registry.Result{UID: c.UID, Kind: l.Kind(), Source: path, Data: data}, nil
}
