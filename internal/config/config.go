// internal/config/config.go
//
// This package handles projects.yml and the tool settings for a packaging run.
// The file is a mapping of project name to definition; the order of the keys
// is the order the batch processes projects in.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is read from the working directory when no path is given.
	DefaultConfigFile = "projects.yml"

	// DefaultOutputDir receives the instructions PDF and both archives.
	DefaultOutputDir = "student_projects"
)

// DefaultExclusions are deleted from every student tree in addition to a
// project's private_files.
var DefaultExclusions = []string{"bin", "libs", "extras.json", "tests.py", "out", "*.iml", ".idea"}

// ProjectConfig models one entry in projects.yml.
type ProjectConfig struct {
	Name         string   `yaml:"-"`
	Directory    string   `yaml:"directory"`
	PrivateFiles []string `yaml:"private_files,omitempty"`
}

// Exclusions returns the default exclusion patterns followed by the project's
// private files. The result is a fresh slice.
func (pc ProjectConfig) Exclusions() []string {
	out := make([]string, 0, len(DefaultExclusions)+len(pc.PrivateFiles))
	out = append(out, DefaultExclusions...)
	out = append(out, pc.PrivateFiles...)
	return out
}

// Tools names the external programs the pipeline shells out to.
type Tools struct {
	Zip      string
	Unzip    string
	Latex    string
	Document string
}

// DefaultTools returns the stock archiver and document compiler settings.
func DefaultTools() Tools {
	return Tools{
		Zip:      "zip",
		Unzip:    "unzip",
		Latex:    "pdflatex",
		Document: "project.tex",
	}
}

// Normalized fills blank tool names from the defaults.
func (t Tools) Normalized() Tools {
	def := DefaultTools()
	if strings.TrimSpace(t.Zip) == "" {
		t.Zip = def.Zip
	}
	if strings.TrimSpace(t.Unzip) == "" {
		t.Unzip = def.Unzip
	}
	if strings.TrimSpace(t.Latex) == "" {
		t.Latex = def.Latex
	}
	if strings.TrimSpace(t.Document) == "" {
		t.Document = def.Document
	}
	return t
}

// Config holds the runtime configuration for a packaging run.
type Config struct {
	// Path is the projects.yml file the projects were read from
	Path string

	// OutputDir is where finished artifacts land
	OutputDir string

	Tools    Tools
	Projects []ProjectConfig
}

// Load reads and validates a projects file. Relative project directories are
// resolved against the directory holding the file.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s not found", path)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	projects, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	base := filepath.Dir(abs)
	for i := range projects {
		projects[i].normalize(base)
	}
	if err := validateProjects(projects); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &Config{
		Path:      abs,
		OutputDir: DefaultOutputDir,
		Tools:     DefaultTools(),
		Projects:  projects,
	}, nil
}

// Parse decodes the projects mapping while keeping the key order of the file.
func Parse(data []byte) ([]ProjectConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of project names, got %s", nodeKind(root))
	}
	projects := make([]ProjectConfig, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var pc ProjectConfig
		if err := value.Decode(&pc); err != nil {
			return nil, fmt.Errorf("project %s: %w", key.Value, err)
		}
		pc.Name = key.Value
		projects = append(projects, pc)
	}
	return projects, nil
}

// Select returns the named projects in config order. An empty list selects
// every project.
func (c *Config) Select(names []string) ([]ProjectConfig, error) {
	if len(names) == 0 {
		return append([]ProjectConfig{}, c.Projects...), nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.TrimSpace(name)] = true
	}
	var out []ProjectConfig
	for _, pc := range c.Projects {
		if wanted[pc.Name] {
			out = append(out, pc)
			delete(wanted, pc.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for name := range wanted {
			missing = append(missing, name)
		}
		return nil, fmt.Errorf("config: unknown project(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Project looks up a single project by name.
func (c *Config) Project(name string) (ProjectConfig, bool) {
	for _, pc := range c.Projects {
		if pc.Name == name {
			return pc, true
		}
	}
	return ProjectConfig{}, false
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Name = strings.TrimSpace(pc.Name)
	pc.Directory = resolvePath(base, pc.Directory)
	for i, pattern := range pc.PrivateFiles {
		pc.PrivateFiles[i] = strings.TrimSpace(pattern)
	}
}

func (pc ProjectConfig) validate() error {
	if pc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if pc.Directory == "" {
		return fmt.Errorf("directory is required")
	}
	for i, pattern := range pc.PrivateFiles {
		if pattern == "" {
			return fmt.Errorf("private_files[%d] is empty", i)
		}
	}
	return nil
}

func validateProjects(projects []ProjectConfig) error {
	seen := map[string]bool{}
	for i, pc := range projects {
		if err := pc.validate(); err != nil {
			return fmt.Errorf("projects[%d]: %w", i, err)
		}
		if seen[pc.Name] {
			return fmt.Errorf("project %s is defined more than once", pc.Name)
		}
		seen[pc.Name] = true
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
