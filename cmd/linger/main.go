package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"linger/interpreter-go/pkg/driver"
	"linger/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "linger 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "check":
		return runCheck(args[1:])
	default:
		return runEntry(args)
	}
}

type runOptions struct {
	maxDepth int
	entries  []string
}

// parseRunArgs accepts --max-depth N and --max-depth=N anywhere in args.
func parseRunArgs(args []string) (runOptions, error) {
	var opts runOptions
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		value := ""
		switch {
		case arg == "--max-depth":
			if idx+1 >= len(args) {
				return opts, fmt.Errorf("--max-depth requires a value")
			}
			idx++
			value = args[idx]
		case strings.HasPrefix(arg, "--max-depth="):
			value = strings.TrimPrefix(arg, "--max-depth=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown flag %s", arg)
		default:
			opts.entries = append(opts.entries, arg)
			continue
		}
		depth, err := strconv.Atoi(value)
		if err != nil || depth <= 0 {
			return opts, fmt.Errorf("--max-depth expects a positive integer, got %q", value)
		}
		opts.maxDepth = depth
	}
	return opts, nil
}

func runEntry(args []string) int {
	opts, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(opts.entries) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(opts.entries[1:], " "))
		return 1
	}

	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, errManifestNotFound) {
		if len(opts.entries) == 1 && looksLikePathCandidate(opts.entries[0]) {
			fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return 1
		}
		manifest = nil
	}
	loader := driver.NewLoader(nil)

	if len(opts.entries) == 0 {
		if manifest == nil {
			fmt.Fprintf(os.Stderr, "linger run requires a target or source file (%s not found)\n", driver.ManifestFileName)
			return 1
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
		return executeTarget(loader, manifest, target, opts.maxDepth)
	}

	candidate := opts.entries[0]
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok {
			return executeTarget(loader, manifest, target, opts.maxDepth)
		}
	}

	// A manifest next to the file still supplies its settings.
	fileManifest, err := loadManifestFrom(candidate)
	switch {
	case err == nil:
		manifest = fileManifest
	case errors.Is(err, errManifestNotFound):
		manifest = nil
	default:
		fmt.Fprintf(os.Stderr, "warning: unable to load manifest for %s (%v); running without it\n", candidate, err)
		manifest = nil
	}

	program, err := loader.Load(candidate)
	if err != nil {
		return reportLoadError(err)
	}
	return executeProgram(program, resolveMaxDepth(opts.maxDepth, manifest))
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.ContainsAny(arg, "/\\") || strings.Contains(arg, string(os.PathSeparator)) {
		return true
	}
	switch filepath.Ext(arg) {
	case ".ling", ".json":
		return true
	}
	if _, err := os.Stat(arg); err == nil {
		return true
	}
	return false
}

func executeTarget(loader *driver.Loader, manifest *driver.Manifest, target *driver.Target, flagDepth int) int {
	program, err := loader.LoadTarget(manifest, target)
	if err != nil {
		return reportLoadError(err)
	}
	return executeProgram(program, resolveMaxDepth(flagDepth, manifest))
}

func resolveMaxDepth(flagDepth int, manifest *driver.Manifest) int {
	if flagDepth > 0 {
		return flagDepth
	}
	if manifest != nil && manifest.Settings.MaxCallDepth > 0 {
		return manifest.Settings.MaxCallDepth
	}
	return interpreter.DefaultMaxCallDepth
}

func executeProgram(program *driver.Program, maxDepth int) int {
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	interp := interpreter.New(interpreter.Options{
		Stdout:       out,
		MaxCallDepth: maxDepth,
		Path:         program.Path,
	})
	if _, err := interp.EvaluateProgram(program.AST); err != nil {
		if flushErr := out.Flush(); flushErr != nil {
			fmt.Fprintf(os.Stderr, "failed to write output: %v\n", flushErr)
		}
		fmt.Fprintln(os.Stderr, interpreter.DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err)))
		return 1
	}
	if err := out.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "linger check requires exactly one source file")
		return 1
	}
	path := args[0]
	program, err := driver.NewLoader(nil).Load(path)
	if err != nil {
		return reportLoadError(err)
	}
	if err := interpreter.ValidateProgram(program.AST); err != nil {
		diag := interpreter.New(interpreter.Options{Path: path}).BuildRuntimeDiagnostic(err)
		if location := driver.FormatDiagnosticLocation(diag.Location); location != "" {
			fmt.Fprintf(os.Stderr, "check: %s %s\n", location, diag.Message)
		} else {
			fmt.Fprintf(os.Stderr, "check: %s %s\n", path, diag.Message)
		}
		return 1
	}
	fmt.Fprintf(os.Stdout, "ok: %s (%d procedures)\n", path, len(program.AST.Procedures))
	return 0
}

func reportLoadError(err error) int {
	var diagErr *driver.ParserDiagnosticError
	if errors.As(err, &diagErr) {
		fmt.Fprintln(os.Stderr, driver.DescribeParserDiagnostic(diagErr.Diagnostic))
		return 1
	}
	fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
	return 1
}

var errManifestNotFound = errors.New(driver.ManifestFileName + " not found")

// loadManifestFrom finds and loads the manifest governing start, which may be
// a directory or a file inside the project.
func loadManifestFrom(start string) (*driver.Manifest, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	if info, statErr := os.Stat(absStart); statErr == nil && !info.IsDir() {
		absStart = filepath.Dir(absStart)
	}
	manifestPath, err := driver.FindManifest(absStart)
	if err != nil {
		return nil, errManifestNotFound
	}
	return driver.LoadManifest(manifestPath)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  linger run [--max-depth N] [target]")
	fmt.Fprintln(os.Stderr, "  linger run [--max-depth N] <file.ling|file.json>")
	fmt.Fprintln(os.Stderr, "  linger <file.ling|file.json>")
	fmt.Fprintln(os.Stderr, "  linger check <file.ling|file.json>")
	fmt.Fprintln(os.Stderr, "  linger --version")
}
