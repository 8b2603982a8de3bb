package cfg

// Builder constructs the declarative dependency graph for a class by walking
// its required constructor parameters recursively.
//
// Discovered entries are written into the nested mapping stored under the
// Factory key: one entry per class, keyed by class name, holding the ordered
// List of its required dependencies' class names. An empty List means the
// class is invokable.
type Builder struct {
	// Types answers "does this class exist" and "what does its constructor
	// require".
	Types Introspector

	// Container, when set, is consulted before failing on a class with an
	// unresolvable required parameter: a class already registered as a
	// service is treated as externally satisfied.
	Container Container

	// Factory is the class name of the generic factory; it keys the
	// dependency section of the configuration.
	Factory ClassName
}

// NewBuilder returns a Builder over the given introspector, recording entries
// under the factory class's section.
func NewBuilder(types Introspector, factory ClassName) *Builder {
	return &Builder{Types: types, Factory: factory}
}

// Build returns a new configuration extended with dependency entries for name
// and every class reachable from it through required constructor parameters.
//
// A class with no constructor, or whose constructor has no required
// parameters, is recorded as invokable (empty List). A required parameter
// without a resolvable class type makes the whole class unresolvable: with
// ignoreUnresolved the configuration is returned exactly as it was passed
// into that class's invocation (the branch is dropped); otherwise, a class
// the Container already knows is skipped silently; otherwise Build fails with
// an UnresolvedParamError naming the parameter.
//
// conf is never mutated; a nil conf starts from an empty configuration. The
// target class itself must be resolvable, otherwise Build fails with an
// UnknownClassError.
func (b *Builder) Build(conf *Config, name ClassName, ignoreUnresolved bool) (*Config, error) {
	if b.Types == nil || !b.Types.Resolvable(name) {
		return nil, UnknownClassError{Class: name}
	}
	if conf == nil {
		conf = New()
	}
	return b.build(conf, name, ignoreUnresolved, map[ClassName]bool{}, nil)
}

func (b *Builder) build(
	conf *Config,
	name ClassName,
	ignoreUnresolved bool,
	resolving map[ClassName]bool,
	chain []ClassName,
) (*Config, error) {
	if resolving[name] {
		cycle := make([]ClassName, 0, len(chain)+1)
		cycle = append(append(cycle, chain...), name)
		return nil, CycleError{Class: name, Chain: cycle}
	}
	resolving[name] = true
	defer delete(resolving, name)
	chain = append(chain, name)

	params, hasCtor := b.Types.Constructor(name)
	var required []Param
	for _, p := range params {
		if p.Required() {
			required = append(required, p)
		}
	}
	if !hasCtor || len(required) == 0 {
		return b.setEntry(conf, name, List{}), nil
	}

	// input is what this invocation received; it is handed back untouched
	// when the class turns out to be unresolvable-but-ignorable or already
	// registered as a service.
	input := conf

	args := make(List, 0, len(required))
	for _, p := range required {
		if p.Type == "" || p.Builtin {
			if ignoreUnresolved {
				return input, nil
			}
			if b.Container != nil && b.Container.Has(name) {
				return input, nil
			}
			return nil, UnresolvedParamError{Class: name, Param: p.Name}
		}

		args = append(args, p.Type)
		if !b.Types.Resolvable(p.Type) {
			// Recorded but not recursed into: the hint names a class nothing
			// can load, and its own wiring is somebody else's problem.
			continue
		}
		next, err := b.build(conf, p.Type, ignoreUnresolved, resolving, chain)
		if err != nil {
			return nil, err
		}
		conf = next
	}

	return b.setEntry(conf, name, args), nil
}

// setEntry binds name to deps inside the factory section, creating the
// section when absent and overwriting any earlier entry for the same class.
func (b *Builder) setEntry(conf *Config, name ClassName, deps List) *Config {
	section, ok := conf.Section(b.Factory)
	if !ok {
		section = New()
	}
	return conf.Set(b.Factory, section.Set(name, deps))
}
