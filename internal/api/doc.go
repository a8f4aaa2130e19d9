// Package api exposes the registry, metrics and self-improvement loop over
// a small REST surface.
package api
