package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file looked up by FindManifest.
const ManifestFileName = "linger.yml"

// Manifest represents the parsed contents of linger.yml.
type Manifest struct {
	Path        string
	Name        string
	Main        string
	Targets     map[string]*Target
	TargetOrder []string
	Settings    Settings
	Source      *SourceSpec
}

// Target names one runnable program file. Path is relative to the manifest
// directory, or to the checkout root when the manifest has a git source.
type Target struct {
	Name string
	Path string
}

// Settings tune evaluation for every target of the manifest.
type Settings struct {
	MaxCallDepth int
}

// SourceSpec points at a git repository holding the program files. At most
// one of Rev, Tag, and Branch may be set; none selects the remote HEAD.
type SourceSpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var ErrNoTarget = errors.New("manifest: no main or targets defined")

type manifestFile struct {
	Name     string          `yaml:"name"`
	Main     string          `yaml:"main"`
	Targets  yaml.Node       `yaml:"targets"`
	Settings *settingsFile   `yaml:"settings"`
	Source   *sourceSpecFile `yaml:"source"`
}

type settingsFile struct {
	MaxCallDepth *int `yaml:"max_call_depth"`
}

type sourceSpecFile struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
}

// LoadManifest parses linger.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest, issues := raw.toManifest(absPath)
	issues = append(issues, manifest.validate()...)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return manifest, nil
}

// toManifest converts the raw document. Targets are read from the mapping
// node directly so their declaration order survives.
func (raw *manifestFile) toManifest(path string) (*Manifest, []string) {
	m := &Manifest{
		Path:    path,
		Name:    strings.TrimSpace(raw.Name),
		Main:    strings.TrimSpace(raw.Main),
		Targets: make(map[string]*Target),
	}
	var issues []string
	switch raw.Targets.Kind {
	case 0:
	case yaml.MappingNode:
		content := raw.Targets.Content
		for idx := 0; idx+1 < len(content); idx += 2 {
			key, value := content[idx], content[idx+1]
			if value.Kind != yaml.ScalarNode {
				issues = append(issues, fmt.Sprintf("targets.%s must be a file path", key.Value))
				continue
			}
			name := strings.TrimSpace(key.Value)
			if _, dup := m.Targets[name]; dup {
				issues = append(issues, fmt.Sprintf("target %q defined more than once", name))
				continue
			}
			m.Targets[name] = &Target{Name: name, Path: strings.TrimSpace(value.Value)}
			m.TargetOrder = append(m.TargetOrder, name)
		}
	default:
		issues = append(issues, fmt.Sprintf("targets must be a mapping (line %d)", raw.Targets.Line))
	}
	if raw.Settings != nil && raw.Settings.MaxCallDepth != nil {
		m.Settings.MaxCallDepth = *raw.Settings.MaxCallDepth
	}
	if raw.Source != nil {
		m.Source = &SourceSpec{
			Git:    strings.TrimSpace(raw.Source.Git),
			Rev:    strings.TrimSpace(raw.Source.Rev),
			Tag:    strings.TrimSpace(raw.Source.Tag),
			Branch: strings.TrimSpace(raw.Source.Branch),
		}
	}
	return m, issues
}

func (m *Manifest) validate() []string {
	var issues []string
	if m.Name == "" {
		issues = append(issues, "name must be provided")
	}
	if m.Main == "" && len(m.TargetOrder) == 0 {
		issues = append(issues, "main or at least one target must be provided")
	}
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		if name == "" {
			issues = append(issues, "targets must not use empty keys")
			continue
		}
		if target.Path == "" {
			issues = append(issues, fmt.Sprintf("target %q requires a file path", name))
		} else if !isProgramFile(target.Path) {
			issues = append(issues, fmt.Sprintf("target %q must point at a .ling or .json file", name))
		}
	}
	if m.Main != "" && !isProgramFile(m.Main) {
		issues = append(issues, "main must point at a .ling or .json file")
	}
	if m.Settings.MaxCallDepth < 0 {
		issues = append(issues, "settings.max_call_depth must not be negative")
	}
	if m.Source != nil {
		issues = append(issues, m.Source.validate()...)
	}
	return issues
}

func (s *SourceSpec) validate() []string {
	var issues []string
	if s.Git == "" {
		issues = append(issues, "source.git must be provided")
	}
	selectors := 0
	for _, v := range []string{s.Rev, s.Tag, s.Branch} {
		if v != "" {
			selectors++
		}
	}
	if selectors > 1 {
		issues = append(issues, "source may set only one of rev, tag, or branch")
	}
	return issues
}

func isProgramFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".ling" || ext == ".json"
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// DefaultTarget returns main when set, otherwise the first declared target.
func (m *Manifest) DefaultTarget() (*Target, error) {
	if m == nil {
		return nil, ErrNoTarget
	}
	if m.Main != "" {
		return &Target{Name: "main", Path: m.Main}, nil
	}
	if len(m.TargetOrder) > 0 {
		return m.Targets[m.TargetOrder[0]], nil
	}
	return nil, ErrNoTarget
}

// FindTarget looks up a target by name. "main" selects the main entry when no
// target of that name is declared.
func (m *Manifest) FindTarget(name string) (*Target, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.Targets[name]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(key, name) {
			return m.Targets[key], true
		}
	}
	if name == "main" && m.Main != "" {
		return &Target{Name: "main", Path: m.Main}, true
	}
	return nil, false
}

// FindManifest walks upward from start looking for linger.yml.
func FindManifest(start string) (string, error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("manifest: %s not found from %s", ManifestFileName, start)
		}
		dir = parent
	}
}
