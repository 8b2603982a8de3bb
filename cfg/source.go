package cfg

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SourceIntrospector resolves classes by statically analysing the Go sources
// of a module tree, without compiling or loading anything.
//
// A class is a struct or interface type declared anywhere under the scanned
// root; its class name is the declaring package's import path plus the type
// name. A free function New<Type> in the same package whose first result is
// <Type> or *<Type> is that class's constructor. Parameter types resolve
// through the declaring file's import table; predeclared identifiers and
// non-named types (slices, maps, funcs, channels) are builtins; a variadic
// trailing parameter is optional.
type SourceIntrospector struct {
	modPath string
	types   map[ClassName]bool
	ctors   map[ClassName][]Param
}

type parsedFile struct {
	file    *ast.File
	pkgPath string
}

// NewSourceIntrospector scans the module tree rooted at root. Test files,
// generated files (.gen.go, _gen.go), vendor, testdata and dot/underscore
// directories are skipped, mirroring what the generators feed on.
func NewSourceIntrospector(root string) (*SourceIntrospector, error) {
	modRoot, modPath, err := findModule(root)
	if err != nil {
		return nil, err
	}

	s := &SourceIntrospector{
		modPath: modPath,
		types:   map[ClassName]bool{},
		ctors:   map[ClassName][]Param{},
	}

	fset := token.NewFileSet()
	var files []parsedFile

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !includeFile(d.Name()) {
			return nil
		}
		pkgPath, perr := moduleImportPathForDir(modRoot, modPath, filepath.Dir(p))
		if perr != nil {
			return perr
		}
		f, perr := parser.ParseFile(fset, p, nil, parser.SkipObjectResolution)
		if perr != nil {
			// Best effort: one broken file should not sink the scan.
			return nil
		}
		files = append(files, parsedFile{file: f, pkgPath: pkgPath})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// First pass: index declared struct/interface types so constructor
	// detection and local-identifier resolution can see the whole tree.
	for _, pf := range files {
		for _, decl := range pf.file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				switch ts.Type.(type) {
				case *ast.StructType, *ast.InterfaceType:
					s.types[ClassName(pf.pkgPath+"."+ts.Name.Name)] = true
				}
			}
		}
	}

	// Second pass: constructors.
	for _, pf := range files {
		imports := fileImports(pf.file)
		for _, decl := range pf.file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || fd.Name == nil {
				continue
			}
			typeName, ok := strings.CutPrefix(fd.Name.Name, "New")
			if !ok || typeName == "" {
				continue
			}
			className := ClassName(pf.pkgPath + "." + typeName)
			if !s.types[className] {
				continue
			}
			if !constructs(fd.Type.Results, typeName) {
				continue
			}
			s.ctors[className] = s.paramsOf(fd.Type.Params, pf.pkgPath, imports)
		}
	}

	return s, nil
}

// Resolvable implements Resolver.
func (s *SourceIntrospector) Resolvable(name ClassName) bool {
	return s.types[name]
}

// Constructor implements Introspector.
func (s *SourceIntrospector) Constructor(name ClassName) ([]Param, bool) {
	params, ok := s.ctors[name]
	if !ok {
		return nil, false
	}
	return append([]Param(nil), params...), true
}

// Classes returns every discovered class name, sorted.
func (s *SourceIntrospector) Classes() []ClassName {
	out := make([]ClassName, 0, len(s.types))
	for name := range s.types {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ModulePath returns the module path the scan resolved from go.mod.
func (s *SourceIntrospector) ModulePath() string { return s.modPath }

// paramsOf expands a parameter field list, including grouped names like
// (a, b *DB), into Params in declaration order.
func (s *SourceIntrospector) paramsOf(fields *ast.FieldList, pkgPath string, imports map[string]string) []Param {
	if fields == nil {
		return nil
	}
	var out []Param
	idx := 0
	for _, field := range fields.List {
		typeExpr := field.Type
		optional := false
		if ell, ok := typeExpr.(*ast.Ellipsis); ok {
			typeExpr = ell.Elt
			optional = true
		}
		typ, builtin := s.typeOfExpr(typeExpr, pkgPath, imports)

		names := field.Names
		if len(names) == 0 {
			out = append(out, Param{
				Name:     "arg" + strconv.Itoa(idx),
				Optional: optional,
				Builtin:  builtin,
				Type:     typ,
			})
			idx++
			continue
		}
		for _, n := range names {
			out = append(out, Param{
				Name:     n.Name,
				Optional: optional,
				Builtin:  builtin,
				Type:     typ,
			})
			idx++
		}
	}
	return out
}

// typeOfExpr resolves a parameter type expression to a class name. The
// builtin result covers predeclared identifiers and every non-named form; a
// selector through an unknown qualifier also ends up builtin (no resolvable
// type, same outcome).
func (s *SourceIntrospector) typeOfExpr(expr ast.Expr, pkgPath string, imports map[string]string) (ClassName, bool) {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return s.typeOfExpr(t.X, pkgPath, imports)
	case *ast.ParenExpr:
		return s.typeOfExpr(t.X, pkgPath, imports)
	case *ast.Ident:
		if predeclared[t.Name] {
			return "", true
		}
		return ClassName(pkgPath + "." + t.Name), false
	case *ast.SelectorExpr:
		qual, ok := t.X.(*ast.Ident)
		if !ok || t.Sel == nil {
			return "", true
		}
		if p, ok := imports[qual.Name]; ok {
			return ClassName(p + "." + t.Sel.Name), false
		}
		return "", true
	default:
		return "", true
	}
}

// constructs reports whether a result list's first result is the bare or
// pointered local type name.
func constructs(results *ast.FieldList, typeName string) bool {
	if results == nil || len(results.List) == 0 {
		return false
	}
	expr := results.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == typeName
}

// fileImports builds a file's import table: identifier -> import path.
// Dot and blank imports are skipped; unnamed imports use the path base.
func fileImports(f *ast.File) map[string]string {
	out := make(map[string]string, len(f.Imports))
	for _, imp := range f.Imports {
		p := strings.Trim(imp.Path.Value, `"`)
		name := ""
		if imp.Name != nil {
			name = imp.Name.Name
		}
		switch name {
		case ".", "_":
			continue
		case "":
			name = p[strings.LastIndexByte(p, '/')+1:]
		}
		out[name] = p
	}
	return out
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

func includeFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, ".gen.go") &&
		!strings.HasSuffix(name, "_gen.go")
}

// predeclared holds Go's predeclared type identifiers; parameters declared
// with them have no class to resolve.
var predeclared = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// findModule walks upward from startDir to the nearest go.mod and returns the
// module root directory and module path.
func findModule(startDir string) (modRoot string, modPath string, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", err
	}
	for {
		gomod := filepath.Join(dir, "go.mod")
		if b, rerr := os.ReadFile(gomod); rerr == nil {
			for _, line := range strings.Split(string(b), "\n") {
				line = strings.TrimSpace(line)
				if rest, ok := strings.CutPrefix(line, "module "); ok {
					mod := strings.TrimSpace(rest)
					if mod == "" {
						return "", "", errors.New("wiregen: go.mod has empty module path at " + filepath.ToSlash(gomod))
					}
					return dir, mod, nil
				}
			}
			return "", "", errors.New("wiregen: go.mod missing module directive at " + filepath.ToSlash(gomod))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errors.New("wiregen: no go.mod found above " + filepath.ToSlash(startDir))
		}
		dir = parent
	}
}

// moduleImportPathForDir computes the import path of the package living in
// dir within the module rooted at modRoot.
func moduleImportPathForDir(modRoot, modPath, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(modRoot, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		return modPath, nil
	case rel == ".." || strings.HasPrefix(rel, "../"):
		return "", errors.New("wiregen: directory outside module root: " + filepath.ToSlash(abs))
	default:
		return modPath + "/" + rel, nil
	}
}
