// Package modules implements the Module & Binding Loader (spec §4.3):
// resolution of a dotted import path to a built-in module, a source
// file evaluated from a configured search path, or an external
// native/managed binding described by an export manifest.
package modules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExportRecord is one exported symbol of a manifest-described package
// (spec §4.3/§6 "Export manifest format").
type ExportRecord struct {
	Name        string `yaml:"name"`
	Signature   string `yaml:"signature,omitempty"`
	ManagedName string `yaml:"managedClass,omitempty"`
}

// Manifest describes a foreign package the source search path did not
// resolve: its target runtimes and, per runtime, where the backing
// library lives and which symbols it exports.
type Manifest struct {
	Package   string         `yaml:"package"`
	Runtimes  []string       `yaml:"runtimes"`
	NativeLib string         `yaml:"nativeLib,omitempty"`
	ManagedLib string        `yaml:"managedLib,omitempty"`
	Exports   []ExportRecord `yaml:"exports"`
}

func (m *Manifest) hasRuntime(name string) bool {
	for _, r := range m.Runtimes {
		if r == name {
			return true
		}
	}
	return false
}

// loadManifestFile reads and parses a manifest.yaml describing a
// foreign package (spec §6 "Export manifest format").
func loadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
