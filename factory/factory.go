// Package factory provides the generic runtime factory: it can construct any
// class whose constructor dependencies are declared in wiring configuration,
// by resolving each declared dependency from a container.
package factory

import (
	"strconv"

	"github.com/sghaida/wiregen/cfg"
)

// Container resolves constructed services by class name.
type Container interface {
	Has(name cfg.ClassName) bool
	Get(name cfg.ClassName) (any, error)
}

// Class is the class name of ConfigFactory. It keys the dependency section of
// a wiring configuration and is the factory identifier the merger assigns per
// class.
var Class = cfg.Type[ConfigFactory]()

// Known resolves the factory's own class name. Combine it with the
// application's introspector (cfg.Resolvers) when emitting, so the dependency
// section key and factory assignments render symbolically.
var Known cfg.Resolver = cfg.StaticIntrospector{Class: cfg.StaticType{}}

// MissingServiceError is returned when a container has no service under the
// requested class name.
type MissingServiceError struct{ Class cfg.ClassName }

// Error implements the error interface.
func (e MissingServiceError) Error() string {
	// Example: factory: service "svc.DB" missing
	return "factory: service " + strconv.Quote(string(e.Class)) + " missing"
}

// NotDeclaredError is returned when a class has no dependency list in the
// wiring configuration.
type NotDeclaredError struct{ Class cfg.ClassName }

// Error implements the error interface.
func (e NotDeclaredError) Error() string {
	return "factory: class " + strconv.Quote(string(e.Class)) + " has no declared dependency list"
}

// BadDeclarationError is returned when a class's configuration entry is not a
// dependency list.
type BadDeclarationError struct {
	Class   cfg.ClassName
	GotType string
}

// Error implements the error interface.
func (e BadDeclarationError) Error() string {
	return "factory: declaration for " + strconv.Quote(string(e.Class)) + " is not a list (got " + e.GotType + ")"
}

// WrongTypeError is returned by CreateAs when the constructed value is not
// the requested type.
type WrongTypeError struct {
	Class   cfg.ClassName
	GotType string
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	return "factory: class " + strconv.Quote(string(e.Class)) + " constructed wrong type (" + e.GotType + ")"
}

// ConfigFactory constructs classes from a generated wiring document.
//
// The wiring Map is the value returned by a generated DependencyConfig(); its
// dependency section (keyed by Class) maps each class name to the ordered
// List of its required dependencies. Construction itself is delegated to a
// TypeRegistry holding the actual constructor functions.
type ConfigFactory struct {
	reg  *cfg.TypeRegistry
	deps cfg.Map
}

// New returns a factory over the registry and wiring document.
func New(reg *cfg.TypeRegistry, wiring cfg.Map) *ConfigFactory {
	f := &ConfigFactory{reg: reg, deps: cfg.Map{}}
	if section, ok := wiring[Class].(cfg.Map); ok {
		f.deps = section
	}
	return f
}

// Create constructs name by resolving each of its declared dependencies from
// ctn, in declared order, and invoking the registered constructor.
func (f *ConfigFactory) Create(ctn Container, name cfg.ClassName) (any, error) {
	list, err := f.declaration(name)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(list))
	for _, dep := range list {
		v, err := ctn.Get(depName(dep))
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return f.reg.NewValue(name, args...)
}

// Build constructs name like Create, but falls back to recursively building
// any declared dependency the container does not hold. The dependency graph
// produced by the builder is acyclic, so the recursion terminates.
func (f *ConfigFactory) Build(ctn Container, name cfg.ClassName) (any, error) {
	list, err := f.declaration(name)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(list))
	for _, dep := range list {
		dn := depName(dep)
		if ctn != nil && ctn.Has(dn) {
			v, err := ctn.Get(dn)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			continue
		}
		v, err := f.Build(ctn, dn)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return f.reg.NewValue(name, args...)
}

func (f *ConfigFactory) declaration(name cfg.ClassName) (cfg.List, error) {
	raw, ok := f.deps[name]
	if !ok {
		return nil, NotDeclaredError{Class: name}
	}
	list, ok := raw.(cfg.List)
	if !ok {
		return nil, BadDeclarationError{Class: name, GotType: typeName(raw)}
	}
	return list, nil
}

func depName(dep any) cfg.ClassName {
	switch d := dep.(type) {
	case cfg.ClassName:
		return d
	case string:
		return cfg.ClassName(d)
	default:
		return ""
	}
}

// CreateAs constructs name via f.Build and returns it typed as T.
func CreateAs[T any](f *ConfigFactory, ctn Container, name cfg.ClassName) (T, error) {
	var zero T
	v, err := f.Build(ctn, name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, WrongTypeError{Class: name, GotType: typeName(v)}
	}
	return t, nil
}
