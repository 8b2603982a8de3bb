// Package cfg builds and renders declarative constructor-wiring
// configuration.
//
// The pipeline has four cooperating pieces:
//
//   - Builder walks a class's required constructor parameters recursively and
//     extends a Config with one entry per discovered class (dependency graph
//     construction).
//   - Merger ensures every discovered class is assigned the generic factory
//     inside the service-registration section.
//   - Serializer renders a (possibly nested) Config as deterministic Go
//     literal source, with class names emitted as symbolic
//     cfg.Type[pkg.T]() references rather than brittle strings.
//   - Emitter wraps serialized text in a generated-file template with
//     provenance metadata and gofmt-formats it.
//
// Class knowledge comes from an Introspector. Two implementations ship here:
// TypeRegistry (reflection over constructors registered at runtime) and
// SourceIntrospector (static go/parser analysis of a module tree); tests can
// use the map-backed StaticIntrospector. An optional Container collaborator
// answers "is this class already registered as a service".
//
// Config values are ordered, copy-on-write mappings: every operation takes a
// configuration and returns a new logical version, so the whole pipeline is
// a pure, synchronous transformation with no shared state.
package cfg
