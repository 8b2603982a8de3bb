package cfg

import (
	"errors"
	"reflect"
	"strconv"
)

// Param describes a single declared constructor parameter.
type Param struct {
	// Name is the parameter's declared name ("arg<N>" when unknown).
	Name string

	// Optional marks parameters a caller may omit (variadic in Go).
	Optional bool

	// Builtin is true when the declared type is a primitive or other
	// non-class type (int, string, slices, maps, funcs, ...).
	Builtin bool

	// Type is the parameter's class name, empty when the parameter has no
	// resolvable class or interface type.
	Type ClassName
}

// Required reports whether the parameter must be supplied.
func (p Param) Required() bool { return !p.Optional }

// Introspector exposes constructor requirements per class. It is the
// type-introspection collaborator of the graph builder and serializer.
type Introspector interface {
	Resolver

	// Constructor returns the declared constructor parameters for name, in
	// declaration order. ok is false when the class has no constructor.
	Constructor(name ClassName) ([]Param, bool)
}

// Resolver answers whether a name refers to a known, loadable class.
type Resolver interface {
	Resolvable(name ClassName) bool
}

// Container is the service-registry collaborator: it reports whether a class
// is already registered as a service. It is only ever queried, never mutated.
type Container interface {
	Has(name ClassName) bool
}

// ContainerFunc adapts a plain function to the Container interface.
type ContainerFunc func(ClassName) bool

// Has implements Container.
func (f ContainerFunc) Has(name ClassName) bool { return f(name) }

// Resolvers combines resolvers: a name resolves when any constituent resolves
// it. Nil entries are ignored. Useful when serializing a configuration whose
// class names span several sources (a scanned module plus the factory's own
// package, say).
func Resolvers(rs ...Resolver) Resolver {
	return multiResolver(rs)
}

type multiResolver []Resolver

// Resolvable implements Resolver.
func (m multiResolver) Resolvable(name ClassName) bool {
	for _, r := range m {
		if r != nil && r.Resolvable(name) {
			return true
		}
	}
	return false
}

var (
	// ErrNotAFunc is returned when a registered constructor is not a function.
	ErrNotAFunc = errors.New("wiregen: constructor is not a function")

	// ErrNoResult is returned when a registered constructor returns nothing.
	ErrNoResult = errors.New("wiregen: constructor returns no value")

	// ErrCtorMismatch is returned when a constructor's first result is not
	// the type it was registered for.
	ErrCtorMismatch = errors.New("wiregen: constructor does not construct the registered type")
)

// UnknownClassError is returned when a class name is not registered.
type UnknownClassError struct{ Class ClassName }

// Error implements the error interface.
func (e UnknownClassError) Error() string {
	return "wiregen: unknown class " + strconv.Quote(string(e.Class))
}

// ArgError is returned when a constructor is invoked with too few arguments
// or with an argument of the wrong type.
type ArgError struct {
	Class ClassName
	Index int
	Want  string
	Got   string
}

// Error implements the error interface.
func (e ArgError) Error() string {
	return "wiregen: bad argument " + strconv.Itoa(e.Index) + " for " +
		strconv.Quote(string(e.Class)) + ": want " + e.Want + ", got " + e.Got
}

type ctorInfo struct {
	fn     reflect.Value
	params []Param
}

// TypeRegistry is a reflection-backed Introspector over constructors
// registered at runtime. It also doubles as the instantiation backend used by
// the generic factory.
type TypeRegistry struct {
	ctors map[ClassName]ctorInfo
	types map[ClassName]reflect.Type
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		ctors: map[ClassName]ctorInfo{},
		types: map[ClassName]reflect.Type{},
	}
}

// RegisterType records T as a known, loadable class with no constructor
// (invokable) and returns its class name.
func RegisterType[T any](r *TypeRegistry) ClassName {
	t := reflect.TypeOf((*T)(nil)).Elem()
	name := nameOf(t)
	r.types[name] = t
	return name
}

// RegisterCtor records fn as the constructor of T and returns T's class name.
//
// fn must be a function whose first result is exactly T; it may additionally
// return an error as its last result. paramNames optionally name fn's
// parameters — reflection cannot recover declared names, so unsupplied ones
// are synthesized as arg0..argN. A variadic trailing parameter is optional.
func RegisterCtor[T any](r *TypeRegistry, fn any, paramNames ...string) (ClassName, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return "", ErrNotAFunc
	}
	ft := v.Type()
	if ft.NumOut() == 0 {
		return "", ErrNoResult
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	if ft.Out(0) != want {
		return "", ErrCtorMismatch
	}

	params := make([]Param, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		p := Param{Name: "arg" + strconv.Itoa(i)}
		if i < len(paramNames) && paramNames[i] != "" {
			p.Name = paramNames[i]
		}
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			p.Optional = true
			in = in.Elem()
		}
		base := in
		for base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base.PkgPath() == "" {
			p.Builtin = true
		} else {
			p.Type = nameOf(in)
		}
		params = append(params, p)
	}

	name := nameOf(want)
	r.ctors[name] = ctorInfo{fn: v, params: params}
	r.types[name] = want
	return name, nil
}

// Resolvable implements Resolver.
func (r *TypeRegistry) Resolvable(name ClassName) bool {
	_, ok := r.types[name]
	return ok
}

// Constructor implements Introspector.
func (r *TypeRegistry) Constructor(name ClassName) ([]Param, bool) {
	ci, ok := r.ctors[name]
	if !ok {
		return nil, false
	}
	return append([]Param(nil), ci.params...), true
}

// Classes returns every registered class name, unordered.
func (r *TypeRegistry) Classes() []ClassName {
	out := make([]ClassName, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	return out
}

// NewValue constructs an instance of name.
//
// With a registered constructor, args are passed through positionally; a
// trailing error result, when non-nil, is returned as-is. A class registered
// without a constructor yields its zero value (a pointer to a zero struct for
// struct types), matching the invokable contract.
func (r *TypeRegistry) NewValue(name ClassName, args ...any) (any, error) {
	ci, ok := r.ctors[name]
	if !ok {
		t, ok := r.types[name]
		if !ok {
			return nil, UnknownClassError{Class: name}
		}
		if t.Kind() == reflect.Struct {
			return reflect.New(t).Interface(), nil
		}
		return reflect.Zero(t).Interface(), nil
	}

	ft := ci.fn.Type()
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	if len(args) < fixed {
		return nil, ArgError{
			Class: name,
			Index: len(args),
			Want:  strconv.Itoa(fixed) + " arguments",
			Got:   strconv.Itoa(len(args)) + " arguments",
		}
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = ft.In(i)
		} else if ft.IsVariadic() {
			want = ft.In(fixed).Elem()
		} else {
			return nil, ArgError{Class: name, Index: i, Want: "no more arguments", Got: gotTypeOf(arg)}
		}
		av := reflect.ValueOf(arg)
		if arg == nil {
			av = reflect.Zero(want)
		} else if !av.Type().AssignableTo(want) {
			return nil, ArgError{Class: name, Index: i, Want: want.String(), Got: gotTypeOf(arg)}
		}
		in = append(in, av)
	}

	out := ci.fn.Call(in)
	if n := len(out); n > 1 && ft.Out(n-1) == errType {
		if errVal := out[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	return out[0].Interface(), nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// StaticType describes one class known to a StaticIntrospector.
type StaticType struct {
	// HasCtor marks classes with a declared constructor; Params applies only
	// when it is set.
	HasCtor bool
	Params  []Param
}

// StaticIntrospector is a fixed, map-backed Introspector. It is handy in
// tests and anywhere constructor shapes are described as data rather than
// discovered.
type StaticIntrospector map[ClassName]StaticType

// Resolvable implements Resolver.
func (s StaticIntrospector) Resolvable(name ClassName) bool {
	_, ok := s[name]
	return ok
}

// Constructor implements Introspector.
func (s StaticIntrospector) Constructor(name ClassName) ([]Param, bool) {
	st, ok := s[name]
	if !ok || !st.HasCtor {
		return nil, false
	}
	return st.Params, true
}
