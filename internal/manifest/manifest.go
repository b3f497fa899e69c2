// Package manifest reads and writes cppgen.yaml, the per-project file that
// supplies defaults for the cppgen CLI: where the serialized descriptor set
// lives, where artifacts go, and which generator parameters apply.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultName is the manifest file name looked up in the working directory.
const DefaultName = "cppgen.yaml"

// Manifest is the on-disk configuration of one project.
type Manifest struct {
	// DescriptorSet is the path to a serialized FileDescriptorSet, as
	// written by protoc --descriptor_set_out.
	DescriptorSet string `yaml:"descriptor_set"`
	// Out is the output root artifacts are written under.
	Out string `yaml:"out"`
	// Parameter is the generator parameter string applied to every unit.
	Parameter string `yaml:"parameter,omitempty"`
	// Files narrows generation to the named schema units. Empty means every
	// unit in the descriptor set.
	Files []string `yaml:"files,omitempty"`
}

// Load reads the manifest at path. A missing file is not an error: callers
// get (nil, nil) and fall back to flags. Unknown fields are rejected so
// typos surface instead of silently applying defaults.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}

// Save writes m to path. Errors if the file already exists; an existing
// manifest is never silently replaced.
func Save(path string, m *Manifest) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("manifest %q already exists", path)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
