package cfg

import (
	"reflect"
	"strings"
)

// ClassName is the canonical, fully qualified name of a class: the type's
// import path followed by its bare type name, e.g.
//
//	"github.com/acme/app/svc.UserService"
//
// Pointer-ness is intentionally not part of the name: whether a class is
// constructed as a value or behind a pointer is a detail owned by its
// constructor, not by the wiring graph. Type[T] and Type[*T] therefore
// produce the same ClassName.
type ClassName string

// Type returns the ClassName of T.
//
// Because the type is spelled symbolically, renaming or moving T breaks the
// reference at compile time — the property that makes generated wiring
// documents safe against refactors.
func Type[T any]() ClassName {
	return nameOf(reflect.TypeOf((*T)(nil)).Elem())
}

// nameOf derives the canonical class name of a reflect type, unwrapping
// pointers first. Types without an import path (builtins, composites) fall
// back to their reflect string form.
func nameOf(t reflect.Type) ClassName {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return ClassName(t.String())
	}
	return ClassName(t.PkgPath() + "." + t.Name())
}

// TypeRef is the structural form of a ClassName: the import path and the bare
// type name, split apart for rendering symbolic references.
type TypeRef struct {
	PkgPath string
	Name    string
}

// Ref splits the class name into its import path and bare type name.
//
// ok is false for names that do not carry an import path (builtins such as
// "int", or free-form strings that merely look like identifiers).
func (n ClassName) Ref() (TypeRef, bool) {
	s := string(n)
	slash := strings.LastIndexByte(s, '/')
	dot := strings.IndexByte(s[slash+1:], '.')
	if dot < 0 {
		return TypeRef{}, false
	}
	dot += slash + 1
	pkg, name := s[:dot], s[dot+1:]
	if pkg == "" || name == "" || strings.ContainsAny(name, "./") {
		return TypeRef{}, false
	}
	return TypeRef{PkgPath: pkg, Name: name}, true
}

// List is an ordered, key-less configuration section, such as a class's
// dependency sequence.
type List []any

// Map is the runtime-literal form of a configuration, used by emitted wiring
// documents. Keys are ClassName or string; values are scalars, ClassName,
// List or nested Map.
type Map map[any]any

// Config is an insertion-ordered configuration mapping.
//
// Keys are strings or ClassNames and are matched by their text, so a section
// loaded from a YAML file (string keys) and one built programmatically
// (ClassName keys) address the same entries.
//
// Config is copy-on-write: Set returns a new logical version and never
// mutates the receiver, so recursive transformations compose by plain value
// threading.
type Config struct {
	entries []entry
}

type entry struct {
	key any
	val any
}

// New returns an empty configuration.
func New() *Config { return &Config{} }

// keyText normalizes a key to its textual identity.
func keyText(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case ClassName:
		return string(k)
	default:
		return ""
	}
}

// Len returns the number of entries.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Has reports whether a key is present.
func (c *Config) Has(key any) bool {
	_, ok := c.Get(key)
	return ok
}

// Get returns the value stored under key, matching by key text.
func (c *Config) Get(key any) (any, bool) {
	if c == nil {
		return nil, false
	}
	want := keyText(key)
	for _, e := range c.entries {
		if keyText(e.key) == want {
			return e.val, true
		}
	}
	return nil, false
}

// Section returns the nested configuration stored under key, or ok=false when
// the key is absent or holds a non-mapping value.
func (c *Config) Section(key any) (*Config, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	sec, ok := v.(*Config)
	return sec, ok
}

// Keys returns the keys in insertion order.
func (c *Config) Keys() []any {
	if c == nil {
		return nil
	}
	keys := make([]any, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.key
	}
	return keys
}

// Set returns a new configuration with key bound to val.
//
// An existing entry (matched by key text) keeps its position; its key is
// replaced by the one supplied, so a string key can be upgraded to a
// ClassName. A new key is appended. The receiver is never modified.
func (c *Config) Set(key, val any) *Config {
	cp := c.clone()
	want := keyText(key)
	for i, e := range cp.entries {
		if keyText(e.key) == want {
			cp.entries[i] = entry{key: key, val: val}
			return cp
		}
	}
	cp.entries = append(cp.entries, entry{key: key, val: val})
	return cp
}

// Delete returns a new configuration without key (matched by key text). The
// receiver is never modified; deleting an absent key returns the receiver.
func (c *Config) Delete(key any) *Config {
	if c == nil || !c.Has(key) {
		return c
	}
	want := keyText(key)
	cp := &Config{entries: make([]entry, 0, len(c.entries)-1)}
	for _, e := range c.entries {
		if keyText(e.key) == want {
			continue
		}
		cp.entries = append(cp.entries, e)
	}
	return cp
}

// clone returns a shallow copy with its own entry slice. Values are shared;
// nested configurations are themselves copy-on-write, so sharing is safe.
func (c *Config) clone() *Config {
	cp := &Config{}
	if c != nil && len(c.entries) > 0 {
		cp.entries = make([]entry, len(c.entries))
		copy(cp.entries, c.entries)
	}
	return cp
}

// ToMap converts the configuration to its runtime-literal Map form,
// recursively converting nested configurations. Key order is lost; Map is
// meant for lookup, not for serialization.
func (c *Config) ToMap() Map {
	m := make(Map, c.Len())
	if c == nil {
		return m
	}
	for _, e := range c.entries {
		if nested, ok := e.val.(*Config); ok {
			m[e.key] = nested.ToMap()
			continue
		}
		m[e.key] = e.val
	}
	return m
}
