package cfg

const (
	// ServiceManagerKey is the default service-registration section key.
	ServiceManagerKey = "service_manager"

	// DependenciesKey is the alternate registration section key used by hosts
	// that keep service registrations under "dependencies".
	DependenciesKey = "dependencies"

	// FactoriesKey names the sub-mapping from class name to factory inside
	// the service-registration section.
	FactoriesKey = "factories"
)

// Merger assigns the generic factory to discovered classes inside the
// service-registration section of a configuration.
type Merger struct {
	// Factory is the class name of the generic factory: it keys the
	// dependency section and is the value assigned per class.
	Factory ClassName

	// Section is the service-registration section key; empty means
	// ServiceManagerKey.
	Section string
}

// NewMerger returns a Merger writing into the default registration section.
func NewMerger(factory ClassName) *Merger {
	return &Merger{Factory: factory, Section: ServiceManagerKey}
}

func (m *Merger) sectionKey() string {
	if m.Section == "" {
		return ServiceManagerKey
	}
	return m.Section
}

// MergeOne returns a new configuration whose factories mapping assigns the
// generic factory to name. A pre-existing assignment for name, whatever
// factory it names, is left untouched, so MergeOne is idempotent and never
// overwrites caller wiring.
func (m *Merger) MergeOne(conf *Config, name ClassName) *Config {
	if conf == nil {
		conf = New()
	}
	reg, ok := conf.Section(m.sectionKey())
	if !ok {
		reg = New()
	}
	factories, ok := reg.Section(FactoriesKey)
	if !ok {
		factories = New()
	}
	if factories.Has(name) {
		return conf
	}
	factories = factories.Set(name, m.Factory)
	return conf.Set(m.sectionKey(), reg.Set(FactoriesKey, factories))
}

// MergeAll applies MergeOne to every class in the dependency section, in
// stored order. A missing dependency section leaves the configuration
// unchanged (nothing was discovered, nothing to register). A dependency
// section that exists but is not a mapping fails with a NotMappingError
// reporting the type actually found.
func (m *Merger) MergeAll(conf *Config) (*Config, error) {
	if conf == nil {
		conf = New()
	}
	raw, ok := conf.Get(m.Factory)
	if !ok {
		return conf, nil
	}
	section, ok := raw.(*Config)
	if !ok {
		return nil, NotMappingError{Key: string(m.Factory), GotType: gotTypeOf(raw)}
	}
	for _, key := range section.Keys() {
		switch k := key.(type) {
		case ClassName:
			conf = m.MergeOne(conf, k)
		case string:
			conf = m.MergeOne(conf, ClassName(k))
		}
	}
	return conf, nil
}
