package factory

import (
	"fmt"
	"reflect"

	"github.com/sghaida/wiregen/cfg"
)

// MapContainer is a simple in-memory container keyed by class name.
//
// It is intentionally:
// - read-mostly (Provide at composition time, Get afterwards)
// - side effect free
// - free of construction logic (pair it with ConfigFactory for that)
type MapContainer struct {
	items map[cfg.ClassName]any
}

// NewMapContainer returns an empty container.
func NewMapContainer() *MapContainer {
	return &MapContainer{items: map[cfg.ClassName]any{}}
}

// Provide stores a value under a class name and returns the container for
// chaining.
func (c *MapContainer) Provide(name cfg.ClassName, val any) *MapContainer {
	c.items[name] = val
	return c
}

// Has implements Container.
func (c *MapContainer) Has(name cfg.ClassName) bool {
	_, ok := c.items[name]
	return ok
}

// Get implements Container; missing names return a MissingServiceError.
func (c *MapContainer) Get(name cfg.ClassName) (any, error) {
	v, ok := c.items[name]
	if !ok {
		return nil, MissingServiceError{Class: name}
	}
	return v, nil
}

// MustGet returns the value or panics with a helpful message.
// Useful in examples/tests where missing services should fail fast.
func (c *MapContainer) MustGet(name cfg.ClassName) any {
	v, ok := c.items[name]
	if !ok {
		panic(fmt.Errorf("factory: container missing class %q", name))
	}
	return v
}

// typeName renders the reflect type string of a value for error reporting.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
