// Package loader provides the built-in component loaders: yaml (local
// documents), factory (registered Go constructors), http (remote JSON) and
// socketio (event round-trips against a Socket.IO endpoint).
//
// Loaders are bound to the registry by kind; each one reads its settings
// from the component's configuration map and returns either a materialized
// result or an error. Error-shaped payloads are never produced.
package loader
