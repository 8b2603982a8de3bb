package cfg

import (
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// PackagePath is the import path of this package; emitted documents reference
// it for the Map, List and Type forms.
const PackagePath = "github.com/sghaida/wiregen/cfg"

// ImportSpec models one Go import required by serialized output: an optional
// alias and the import path.
type ImportSpec struct {
	Alias string
	Path  string
}

// Serializer renders a configuration as deterministic, re-parseable Go
// literal source.
//
// Mappings render as cfg.Map composite literals and Lists as cfg.List, each
// entry on its own line; keys and string values that name a loadable class
// render as symbolic cfg.Type[pkg.T]() references instead of quoted strings,
// so the generated document keeps compiling — or stops compiling loudly —
// across renames. The imports needed by those references are collected as a
// side product and exposed via Imports.
type Serializer struct {
	types   Resolver
	aliases map[string]string // import path -> assigned alias
	used    map[string]bool   // alias -> taken
}

// NewSerializer returns a Serializer resolving class names through types,
// which may be nil when no symbolic references are expected.
func NewSerializer(types Resolver) *Serializer {
	return &Serializer{
		types:   types,
		aliases: map[string]string{PackagePath: "cfg"},
		used:    map[string]bool{"cfg": true},
	}
}

// Serialize renders v at the given indentation level (entries are indented
// level*4 spaces; the closing brace sits at (level-1)*4). Levels below 1 are
// treated as 1.
func (s *Serializer) Serialize(v any, level int) (string, error) {
	if level < 1 {
		level = 1
	}
	var sb strings.Builder
	if err := s.writeValue(&sb, v, level); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Imports returns the imports accumulated by previous Serialize calls,
// deduplicated and sorted by path. The cfg package itself is not included;
// the emitter adds it alongside its own template needs.
func (s *Serializer) Imports() []ImportSpec {
	out := make([]ImportSpec, 0, len(s.aliases))
	for p, alias := range s.aliases {
		if p == PackagePath {
			continue
		}
		spec := ImportSpec{Path: p}
		if alias != path.Base(p) {
			spec.Alias = alias
		}
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (s *Serializer) writeValue(sb *strings.Builder, v any, level int) error {
	switch val := v.(type) {
	case *Config:
		if val.Len() == 0 {
			sb.WriteString("cfg.Map{}")
			return nil
		}
		sb.WriteString("cfg.Map{\n")
		for _, key := range val.Keys() {
			indent(sb, level)
			s.writeKey(sb, key)
			sb.WriteString(": ")
			entry, _ := val.Get(key)
			if err := s.writeValue(sb, entry, level+1); err != nil {
				return err
			}
			sb.WriteString(",\n")
		}
		indent(sb, level-1)
		sb.WriteString("}")
		return nil

	case List:
		if len(val) == 0 {
			sb.WriteString("cfg.List{}")
			return nil
		}
		sb.WriteString("cfg.List{\n")
		for _, item := range val {
			indent(sb, level)
			if err := s.writeValue(sb, item, level+1); err != nil {
				return err
			}
			sb.WriteString(",\n")
		}
		indent(sb, level-1)
		sb.WriteString("}")
		return nil

	case ClassName:
		sb.WriteString(s.classOrString(string(val)))
		return nil

	case string:
		sb.WriteString(s.classOrString(val))
		return nil

	case bool:
		sb.WriteString(strconv.FormatBool(val))
		return nil

	case nil:
		sb.WriteString("nil")
		return nil

	default:
		return s.writeNumber(sb, v)
	}
}

// writeKey renders a mapping key: class names become symbolic references,
// everything else a quoted string.
func (s *Serializer) writeKey(sb *strings.Builder, key any) {
	sb.WriteString(s.classOrString(keyText(key)))
}

// classOrString renders text as a symbolic class reference when it names a
// loadable class, and as a quoted string literal otherwise.
func (s *Serializer) classOrString(text string) string {
	name := ClassName(text)
	if s.types != nil && s.types.Resolvable(name) {
		if ref, ok := name.Ref(); ok {
			return "cfg.Type[" + s.aliasFor(ref.PkgPath) + "." + ref.Name + "]()"
		}
	}
	return strconv.Quote(text)
}

// aliasFor returns the import alias assigned to pkgPath, assigning one on
// first use. Aliases derive from the path base and get a numeric suffix on
// collision; assignment order follows render order, so output is
// deterministic for a given configuration.
func (s *Serializer) aliasFor(pkgPath string) string {
	if alias, ok := s.aliases[pkgPath]; ok {
		return alias
	}
	base := path.Base(pkgPath)
	alias := base
	for n := 2; s.used[alias]; n++ {
		alias = base + strconv.Itoa(n)
	}
	s.aliases[pkgPath] = alias
	s.used[alias] = true
	return alias
}

func (s *Serializer) writeNumber(sb *strings.Builder, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sb.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		sb.WriteString(floatLiteral(rv.Float(), 32))
	case reflect.Float64:
		sb.WriteString(floatLiteral(rv.Float(), 64))
	default:
		return UnsupportedValueError{GotType: gotTypeOf(v)}
	}
	return nil
}

// floatLiteral formats f so that re-parsing yields a float again: integral
// values keep an explicit ".0" instead of collapsing to an int literal.
func floatLiteral(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
		s += ".0"
	}
	return s
}

func indent(sb *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		sb.WriteString("    ")
	}
}
