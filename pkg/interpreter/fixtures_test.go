package interpreter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/driver"
)

type fixtureManifest struct {
	Description  string `yaml:"description"`
	Entry        string `yaml:"entry"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	Expect       struct {
		Stdout []string `yaml:"stdout"`
		Errors []string `yaml:"errors"`
	} `yaml:"expect"`
}

func TestFixtures(t *testing.T) {
	root := filepath.Join("testdata", "fixtures")
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	ran := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		ran++
		t.Run(entry.Name(), func(t *testing.T) {
			runFixture(t, dir)
		})
	}
	if ran == 0 {
		t.Fatalf("no fixtures found under %s", root)
	}
}

func runFixture(t *testing.T, dir string) {
	t.Helper()
	manifest := readManifest(t, dir)
	entry := manifest.Entry
	if entry == "" {
		entry = "source.ling"
	}
	path := filepath.Join(dir, entry)
	prog := readProgram(t, path)

	var stdout bytes.Buffer
	interp := New(Options{Stdout: &stdout, MaxCallDepth: manifest.MaxCallDepth, Path: path})
	_, err := interp.EvaluateProgram(prog)

	if len(manifest.Expect.Errors) > 0 {
		if err == nil {
			t.Fatalf("fixture %s expected evaluation error", dir)
		}
		msg := DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err))
		for _, want := range manifest.Expect.Errors {
			if !strings.Contains(msg, want) {
				t.Fatalf("fixture %s expected error containing %q, got %s", dir, want, msg)
			}
		}
	} else if err != nil {
		t.Fatalf("fixture %s evaluation error: %v", dir, err)
	}

	if manifest.Expect.Stdout != nil {
		assertLines(t, interp.Output(), manifest.Expect.Stdout...)
		want := ""
		if len(manifest.Expect.Stdout) > 0 {
			want = strings.Join(manifest.Expect.Stdout, "\n") + "\n"
		}
		if stdout.String() != want {
			t.Fatalf("fixture %s stdout %q, want %q", dir, stdout.String(), want)
		}
	}
}

func readManifest(t *testing.T, dir string) fixtureManifest {
	t.Helper()
	path := filepath.Join(dir, "manifest.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fixtureManifest{}
		}
		t.Fatalf("read manifest %s: %v", path, err)
	}
	var manifest fixtureManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("parse manifest %s: %v", path, err)
	}
	return manifest
}

// readProgram loads a fixture entry through the driver loader, which parses
// .ling sources and decodes .json trees.
func readProgram(t *testing.T, path string) *ast.Program {
	t.Helper()
	prog, err := driver.NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("load program %s: %v", path, err)
	}
	return prog.AST
}
