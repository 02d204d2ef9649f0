// Package config reads a project's simple.yaml manifest: its root
// directory, entry file, import search paths, and reserved-module
// capability overrides. It gives the CLI's "project-root search" and
// "import-path disambiguation" surfaces a concrete, testable home
// without pulling them into the validated core contract.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/goccy/go-yaml"
)

// Manifest is the decoded form of simple.yaml.
type Manifest struct {
	Root         string          `yaml:"root"`
	Entry        string          `yaml:"entry"`
	SearchPaths  []string        `yaml:"searchPaths"`
	Capabilities map[string]bool `yaml:"capabilities"`
}

// Load reads and parses the manifest at path. Root and Entry default
// to path's directory and "main.simple" when absent.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if m.Root == "" {
		m.Root = dir
	} else if !filepath.IsAbs(m.Root) {
		m.Root = filepath.Join(dir, m.Root)
	}
	if m.Entry == "" {
		m.Entry = "main.simple"
	}

	return &m, nil
}

// EntryPath returns the manifest's entry file resolved against its root.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(m.Root, m.Entry)
}

// ApplyCapabilities layers the manifest's capability overrides onto
// base (the set resolve.Resolve derived from the program's imports),
// returning a new map. An override can only narrow a capability that
// resolution already granted; it can never grant one resolution did
// not see an import for.
func (m *Manifest) ApplyCapabilities(base map[reserved.Module]bool) map[reserved.Module]bool {
	out := make(map[reserved.Module]bool, len(base))
	for mod, granted := range base {
		out[mod] = granted
	}
	for name, allowed := range m.Capabilities {
		mod := reserved.Module(name)
		if _, touched := out[mod]; touched && !allowed {
			out[mod] = false
		}
	}
	return out
}
