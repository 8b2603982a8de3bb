// Package wiregen generates declarative constructor-wiring configuration for
// dependency injection containers.
//
// Given a target class (a named Go type with a New<Type> constructor, or a
// constructor registered at runtime), wiregen walks the constructor's required
// parameters recursively and produces a configuration mapping of "which class
// needs which other classes". That mapping, together with any pre-existing
// configuration, is rendered back out as a deterministic, generated Go source
// document whose class references are symbolic (they break at compile time
// when a type is renamed or moved).
//
// The repository is organized as:
//
//   - cfg: configuration model, type introspection, graph builder, factory
//     merger, serializer and document emitter
//   - factory: the generic runtime factory that constructs any class whose
//     dependency list is declared in configuration
//   - cmd/wiregen: the command-line generator (scan -> build -> merge -> emit)
//   - examples/*: runnable end-to-end examples
//
// Wiring stays explicit and data-driven: the library never mutates a
// configuration in place, never performs injection behind your back, and the
// generated document is plain reviewable source.
package wiregen
