package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"linger/interpreter-go/pkg/ast"
	"linger/interpreter-go/pkg/parser"
)

// Program is a loaded program tree with where it came from.
type Program struct {
	AST  *ast.Program
	Path string
	// Commit is the pinned git commit when the program came from a git source.
	Commit string
}

// Loader reads program files. Git-backed manifests are checked out through
// Fetcher, created on first use when nil.
type Loader struct {
	Fetcher *GitFetcher
}

// NewLoader constructs a loader that fetches git sources with fetcher.
func NewLoader(fetcher *GitFetcher) *Loader {
	return &Loader{Fetcher: fetcher}
}

// Load reads a .ling source file and parses it, or a .json tree and decodes it.
func (l *Loader) Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		prog, err := ast.DecodeProgram(data)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", path, err)
		}
		return &Program{AST: prog, Path: path}, nil
	case ".ling", "":
		prog, err := parser.ParseFile(path, string(data))
		if err != nil {
			return nil, &ParserDiagnosticError{Diagnostic: ParserDiagnosticFromError(path, err), Err: err}
		}
		return &Program{AST: prog, Path: path}, nil
	default:
		return nil, fmt.Errorf("loader: %s: unsupported file type %q", path, filepath.Ext(path))
	}
}

// LoadTarget resolves target against the manifest, fetching the git source
// first when the manifest declares one.
func (l *Loader) LoadTarget(manifest *Manifest, target *Target) (*Program, error) {
	if manifest == nil || target == nil {
		return nil, fmt.Errorf("loader: missing manifest or target")
	}
	root := manifest.Dir()
	commit := ""
	if manifest.Source != nil {
		fetcher := l.Fetcher
		if fetcher == nil {
			var err error
			fetcher, err = NewGitFetcher()
			if err != nil {
				return nil, err
			}
			l.Fetcher = fetcher
		}
		dir, hash, err := fetcher.Checkout(manifest.Source)
		if err != nil {
			return nil, err
		}
		root, commit = dir, hash
	}
	path := target.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, filepath.FromSlash(path))
	}
	prog, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	prog.Commit = commit
	return prog, nil
}
