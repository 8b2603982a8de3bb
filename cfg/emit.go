package cfg

import (
	"go/format"
	"sort"
	"strings"
	"text/template"
	"time"
)

// timestampLayout is the provenance timestamp format of emitted documents.
const timestampLayout = "2006-01-02 15:04:05"

// Emitter wraps serialized configuration in a fixed generated-file template
// with provenance metadata, and gofmt-formats the result.
type Emitter struct {
	// Package is the package clause of the generated file; empty means
	// "wiring".
	Package string

	// Types resolves class names to symbolic references during
	// serialization.
	Types Resolver

	// Now supplies the generation timestamp; nil means time.Now. Tests pin it
	// for byte-identical output.
	Now func() time.Time
}

// NewEmitter returns an Emitter producing a file in package pkg.
func NewEmitter(pkg string, types Resolver) *Emitter {
	return &Emitter{Package: pkg, Types: types}
}

type documentData struct {
	Timestamp string
	Package   string
	Imports   []ImportSpec
	Body      string
}

var documentTemplate = template.Must(template.New("wiring").Parse(`// Code generated by wiregen; DO NOT EDIT.
// Generated at {{.Timestamp}}.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// DependencyConfig returns the generated constructor wiring.
func DependencyConfig() cfg.Map {
	return {{.Body}}
}
`))

// Emit serializes conf at the top indentation level and wraps it in the
// generated-document template. The returned source is gofmt-formatted; when
// formatting fails the raw source is returned together with the error so
// callers can still inspect what was produced.
func (e *Emitter) Emit(conf *Config) ([]byte, error) {
	ser := NewSerializer(e.Types)
	body, err := ser.Serialize(conf, 1)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	pkg := e.Package
	if pkg == "" {
		pkg = "wiring"
	}

	imports := ser.Imports()
	imports = ensureImport(imports, ImportSpec{Path: PackagePath})
	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	data := documentData{
		Timestamp: now().Format(timestampLayout),
		Package:   pkg,
		Imports:   imports,
		Body:      body,
	}

	var sb strings.Builder
	if err := documentTemplate.Execute(&sb, data); err != nil {
		return nil, err
	}
	src := []byte(sb.String())

	formatted, err := format.Source(src)
	if err != nil {
		return src, err
	}
	return formatted, nil
}

// ensureImport appends required unless its path is already present; an
// existing entry keeps its alias as-is.
func ensureImport(imports []ImportSpec, required ImportSpec) []ImportSpec {
	for _, existing := range imports {
		if existing.Path == required.Path {
			return imports
		}
	}
	return append(imports, required)
}
