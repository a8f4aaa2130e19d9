// Package manifest discovers and parses component manifests. A manifest
// declares components as (id, kind, config) rows; YAML, JSON and HCL
// dialects all decode into the same registry.Component shape.
package manifest
