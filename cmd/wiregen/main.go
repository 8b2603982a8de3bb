// cmd/wiregen/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sghaida/wiregen/cfg"
	"github.com/sghaida/wiregen/factory"
)

// This binary generates declarative constructor-wiring configuration.
//
// It statically scans a Go module tree, walks the required constructor
// parameters of a target class recursively, merges the result into an
// optional pre-existing wiring config, assigns the generic factory to every
// discovered class, and emits the whole configuration as a generated Go
// source document.
//
// Key behaviors:
// - Scans sources with go/parser (no compilation; _test.go and generated files are skipped)
// - Reads/writes the wiring config as order-preserving YAML
// - Emits class references symbolically (cfg.Type[pkg.T]()) so renames fail at compile time
// - Writes output atomically (temp file + rename) to avoid partial writes

// run executes the generator logic and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("wiregen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	dir := flags.String("dir", ".", "root of the Go module tree to scan")
	class := flags.String("class", "", "fully qualified class name (importpath.Type)")
	configPath := flags.String("config", "", "existing wiring config (YAML), optional")
	outPath := flags.String("out", "", "output .gen.go file path")
	pkgName := flags.String("pkg", "wiring", "package name of the generated file")
	section := flags.String("section", cfg.ServiceManagerKey, "service-registration section key")
	merge := flags.Bool("merge", true, "assign the generic factory to every discovered class")
	ignoreUnresolved := flags.Bool("ignore-unresolved", false, "silently drop classes with unresolvable constructor parameters")
	saveConfig := flags.String("save-config", "", "write the updated wiring config (YAML) to this path, optional")
	verbose := flags.Bool("v", false, "verbose diagnostics")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*class) == "" || strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: wiregen -class <importpath.Type> -out <file.gen.go> [-dir <root>] [-config <wiring.yaml>]")
		return 2
	}

	log := zap.NewNop().Sugar()
	if *verbose {
		logger, err := newVerboseLogger()
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "wiregen:", err)
			return 1
		}
		defer func() { _ = logger.Sync() }()
		log = logger.Sugar()
	}

	types, err := cfg.NewSourceIntrospector(*dir)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "wiregen:", err)
		return 1
	}
	log.Infow("scanned sources", "dir", *dir, "module", types.ModulePath(), "classes", len(types.Classes()))

	conf := cfg.New()
	if strings.TrimSpace(*configPath) != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "wiregen:", err)
			return 1
		}
		if conf, err = cfg.LoadYAML(data); err != nil {
			_, _ = fmt.Fprintln(stderr, "wiregen:", err)
			return 1
		}
		log.Infow("loaded existing config", "path", *configPath, "entries", conf.Len())
	}

	builder := cfg.NewBuilder(types, factory.Class)
	conf, err = builder.Build(conf, cfg.ClassName(*class), *ignoreUnresolved)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "wiregen:", err)
		return 1
	}
	log.Infow("built dependency graph", "class", *class)

	if *merge {
		merger := cfg.NewMerger(factory.Class)
		merger.Section = *section
		if conf, err = merger.MergeAll(conf); err != nil {
			_, _ = fmt.Fprintln(stderr, "wiregen:", err)
			return 1
		}
		log.Infow("merged factory mappings", "section", *section)
	}

	emitter := cfg.NewEmitter(*pkgName, cfg.Resolvers(types, factory.Known))
	src, err := emitter.Emit(conf)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "wiregen:", err)
		return 1
	}
	if err := writeFileAtomic(filepath.Clean(*outPath), src, 0o644); err != nil {
		_, _ = fmt.Fprintln(stderr, "wiregen:", err)
		return 1
	}
	log.Infow("wrote wiring document", "out", *outPath, "bytes", len(src))

	if strings.TrimSpace(*saveConfig) != "" {
		data, err := cfg.SaveYAML(conf)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "wiregen:", err)
			return 1
		}
		if err := writeFileAtomic(filepath.Clean(*saveConfig), data, 0o644); err != nil {
			_, _ = fmt.Fprintln(stderr, "wiregen:", err)
			return 1
		}
		log.Infow("saved updated config", "path", *saveConfig)
	}

	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// newVerboseLogger is a seam so tests can swap the logger construction.
var newVerboseLogger = func() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes a file atomically.
//
// It writes to a temporary file in the same directory and then renames it
// over the target path, ensuring readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return err
	}
	return nil
}
