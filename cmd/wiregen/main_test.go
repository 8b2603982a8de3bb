package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sghaida/wiregen/cfg"
)

//
// -----------------------------------------------------------------------------
// run(): argument handling
// -----------------------------------------------------------------------------

// Covers the usage exits: missing -class, missing -out, undefined flag.
func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"missing out", []string{"-class", "example.com/app.Greeter"}},
		{"missing class", []string{"-out", "wiring.gen.go"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			assert.Equal(t, 2, run(tc.args, &stderr))
			assert.NotEmpty(t, stderr.String())
		})
	}
}

//
// -----------------------------------------------------------------------------
// run(): generation
// -----------------------------------------------------------------------------

// Covers the end-to-end happy path: scan, build, merge, emit, write.
func TestRun_GeneratesDocument(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	out := filepath.Join(t.TempDir(), "wiring.gen.go")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", out,
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	doc := readFileString(t, out)
	assert.Contains(t, doc, "// Code generated by wiregen; DO NOT EDIT.")
	assert.Contains(t, doc, "package wiring")
	assert.Contains(t, doc, `"example.com/app"`)
	assert.Contains(t, doc, "func DependencyConfig() cfg.Map {")
	assert.Contains(t, doc, "cfg.Type[app.Greeter]():")
	assert.Contains(t, doc, "cfg.Type[app.Logger]()")
	assert.Contains(t, doc, `"service_manager"`)
	assert.Contains(t, doc, `"factories"`)
}

// Covers -pkg and -section pass-through.
func TestRun_CustomPackageAndSection(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	out := filepath.Join(t.TempDir(), "wiring.gen.go")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", out,
		"-pkg", "deps",
		"-section", cfg.DependenciesKey,
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	doc := readFileString(t, out)
	assert.Contains(t, doc, "package deps")
	assert.Contains(t, doc, `"dependencies"`)
	assert.NotContains(t, doc, `"service_manager"`)
}

// Covers -merge=false: the dependency section is emitted without factory
// registrations.
func TestRun_MergeDisabled(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	out := filepath.Join(t.TempDir(), "wiring.gen.go")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", out,
		"-merge=false",
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	doc := readFileString(t, out)
	assert.Contains(t, doc, "cfg.Type[app.Greeter]():")
	assert.NotContains(t, doc, `"factories"`)
}

// Covers -config: pre-existing wiring survives into the document.
func TestRun_LoadsExistingConfig(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	dir := t.TempDir()
	configPath := writeTempFile(t, dir, "wiring.yaml", "debug: true\n", 0o644)
	out := filepath.Join(dir, "wiring.gen.go")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-config", configPath,
		"-out", out,
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	doc := readFileString(t, out)
	assert.Contains(t, doc, `"debug":`)
	assert.Contains(t, doc, "cfg.Type[app.Greeter]():")
}

// Covers -save-config: the updated wiring round-trips through YAML.
func TestRun_SavesConfig(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "wiring.gen.go")
	saved := filepath.Join(dir, "wiring.yaml")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", out,
		"-save-config", saved,
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	conf, err := cfg.LoadYAML([]byte(readFileString(t, saved)))
	require.NoError(t, err)
	_, ok := conf.Section(cfg.ServiceManagerKey)
	assert.True(t, ok)
}

// Covers -ignore-unresolved: a class with a builtin-typed constructor
// parameter fails by default and is dropped silently with the flag.
func TestRun_IgnoreUnresolved(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "wiring.gen.go")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.DB",
		"-out", out,
	}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "dsn")

	stderr.Reset()
	code = run([]string{
		"-dir", root,
		"-class", "example.com/app.DB",
		"-out", out,
		"-ignore-unresolved",
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	assert.Contains(t, readFileString(t, out), "return cfg.Map{}")
}

//
// -----------------------------------------------------------------------------
// run(): failure exits
// -----------------------------------------------------------------------------

// Covers scan failure: a directory with no go.mod anywhere above it.
func TestRun_BadScanRoot(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", t.TempDir(),
		"-class", "example.com/app.Greeter",
		"-out", filepath.Join(t.TempDir(), "wiring.gen.go"),
	}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "go.mod")
}

// Covers an unknown target class.
func TestRun_UnknownClass(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Nope",
		"-out", filepath.Join(t.TempDir(), "wiring.gen.go"),
	}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown class")
}

// Covers config read and parse failures.
func TestRun_BadConfig(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "wiring.gen.go")

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-config", filepath.Join(dir, "missing.yaml"),
		"-out", out,
	}, &stderr)
	assert.Equal(t, 1, code)

	badYAML := writeTempFile(t, dir, "bad.yaml", "a: [1, 2\n", 0o644)
	stderr.Reset()
	code = run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-config", badYAML,
		"-out", out,
	}, &stderr)
	assert.Equal(t, 1, code)
}

// Covers output write failure: the target directory does not exist, so the
// temp file cannot be created.
func TestRun_WriteFailure(t *testing.T) {
	t.Parallel()

	root := writeFixtureModule(t)

	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", filepath.Join(t.TempDir(), "no-such-dir", "wiring.gen.go"),
	}, &stderr)

	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr.String())
}

//
// -----------------------------------------------------------------------------
// run(): verbose logging seam
// -----------------------------------------------------------------------------

// Covers -v with both logger construction outcomes.
func TestRun_VerboseLoggerSeam(t *testing.T) {
	// NOT parallel: mutates the global logger seam.

	original := newVerboseLogger
	t.Cleanup(func() { newVerboseLogger = original })

	root := writeFixtureModule(t)
	out := filepath.Join(t.TempDir(), "wiring.gen.go")

	newVerboseLogger = func() (*zap.Logger, error) { return zap.NewNop(), nil }
	var stderr bytes.Buffer
	code := run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", out,
		"-v",
	}, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	newVerboseLogger = func() (*zap.Logger, error) { return nil, errors.New("logger init failed") }
	stderr.Reset()
	code = run([]string{
		"-dir", root,
		"-class", "example.com/app.Greeter",
		"-out", out,
		"-v",
	}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "logger init failed")
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic()
// -----------------------------------------------------------------------------

// Covers every writeFileAtomic error branch, including deferred cleanup:
// - createTempFile failure
// - Write failure triggers Close + deferred remove
// - Close failure triggers deferred remove
// - chmod failure triggers deferred remove
// - rename failure triggers deferred remove
func TestWriteFileAtomic_AllErrorBranches(t *testing.T) {
	// NOT parallel: mutates global seams.

	type seamOverrides struct {
		createTemp func(dir, pattern string) (tempFile, error)
		removeTmp  func(path string) error
		chmodTmp   func(path string, mode os.FileMode) error
		renameTmp  func(oldpath, newpath string) error
	}

	testCases := []struct {
		name                 string
		seams                seamOverrides
		expectedErrSubstring string
		expectedRemoveCount  int
	}{
		{
			name: "create temp error",
			seams: seamOverrides{
				createTemp: func(dir, pattern string) (tempFile, error) {
					return nil, errors.New("create temp failed")
				},
			},
			expectedErrSubstring: "create temp failed",
			expectedRemoveCount:  0,
		},
		{
			name: "write error closes and removes temp via deferred cleanup",
			seams: seamOverrides{
				createTemp: func(dir, pattern string) (tempFile, error) {
					return &fakeTempFile{
						fileName: filepath.Join(dir, "tmpfile"),
						writeErr: errors.New("write failed"),
					}, nil
				},
				removeTmp: func(path string) error { return nil },
			},
			expectedErrSubstring: "write failed",
			expectedRemoveCount:  1,
		},
		{
			name: "close error removes temp via deferred cleanup",
			seams: seamOverrides{
				createTemp: func(dir, pattern string) (tempFile, error) {
					return &fakeTempFile{
						fileName: filepath.Join(dir, "tmpfile"),
						closeErr: errors.New("close failed"),
					}, nil
				},
				removeTmp: func(path string) error { return nil },
			},
			expectedErrSubstring: "close failed",
			expectedRemoveCount:  1,
		},
		{
			name: "chmod error removes temp via deferred cleanup",
			seams: seamOverrides{
				createTemp: func(dir, pattern string) (tempFile, error) {
					return &fakeTempFile{fileName: filepath.Join(dir, "tmpfile")}, nil
				},
				chmodTmp:  func(path string, mode os.FileMode) error { return errors.New("chmod failed") },
				removeTmp: func(path string) error { return nil },
			},
			expectedErrSubstring: "chmod failed",
			expectedRemoveCount:  1,
		},
		{
			name: "rename error removes temp via deferred cleanup",
			seams: seamOverrides{
				createTemp: func(dir, pattern string) (tempFile, error) {
					return &fakeTempFile{fileName: filepath.Join(dir, "tmpfile")}, nil
				},
				chmodTmp:  func(path string, mode os.FileMode) error { return nil },
				renameTmp: func(oldpath, newpath string) error { return errors.New("rename failed") },
				removeTmp: func(path string) error { return nil },
			},
			expectedErrSubstring: "rename failed",
			expectedRemoveCount:  1,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			originalCreate, originalRemove, originalChmod, originalRename := snapWriteSeams(t)
			t.Cleanup(func() {
				createTempFile = originalCreate
				removeFile = originalRemove
				chmodFile = originalChmod
				renameFile = originalRename
			})

			var removedTempPaths []string

			setWriteSeams(
				t,
				tc.seams.createTemp,
				func(path string) error {
					removedTempPaths = append(removedTempPaths, path)
					if tc.seams.removeTmp != nil {
						return tc.seams.removeTmp(path)
					}
					return nil
				},
				func(path string, mode os.FileMode) error {
					if tc.seams.chmodTmp != nil {
						return tc.seams.chmodTmp(path, mode)
					}
					return nil
				},
				func(oldpath, newpath string) error {
					if tc.seams.renameTmp != nil {
						return tc.seams.renameTmp(oldpath, newpath)
					}
					return nil
				},
			)

			err := writeFileAtomic(filepath.Join(t.TempDir(), "out.go"), []byte("x"), 0o644)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErrSubstring)
			assert.Len(t, removedTempPaths, tc.expectedRemoveCount)
		})
	}
}

// Covers the success path of writeFileAtomic:
// - createTempFile ok
// - Write ok
// - Close ok
// - chmod ok
// - rename ok
func TestWriteFileAtomic_Success(t *testing.T) {
	// NOT parallel: uses real filesystem but does not mutate seams.
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "final.go")

	require.NoError(t, writeFileAtomic(outputPath, []byte("hello"), 0o644))

	contents, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(contents))
}
