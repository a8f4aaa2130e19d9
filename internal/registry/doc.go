// Package registry provides the central "glue" of the engine.
//
// The Registry stores the components declared by manifests and the loader
// bindings that know how to materialize each component kind. During
// application startup the registry is populated from the manifest model and
// then validated, so a manifest that references an unbound kind fails fast
// instead of erroring at materialization time.
package registry
