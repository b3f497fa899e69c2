// Package sink provides the artifact namespaces generation requests write
// into: a directory tree, an in-memory store for tests and dry runs, and a
// plugin-protocol response builder.
package sink

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Dir writes artifacts as files under Root, creating directories as needed.
type Dir struct {
	Root string
}

// Open creates the file for name under the root. Names that escape the root
// are rejected.
func (d *Dir) Open(name string) (io.WriteCloser, error) {
	clean := path.Clean(name)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return nil, fmt.Errorf("artifact name %q escapes the output root", name)
	}
	full := filepath.Join(d.Root, filepath.FromSlash(clean))
	if dir := filepath.Dir(full); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create artifact directory: %w", err)
		}
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	return f, nil
}

// Memory holds artifacts in memory, in open order.
type Memory struct {
	artifacts []*MemoryArtifact
	index     map[string]*MemoryArtifact
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{index: make(map[string]*MemoryArtifact)}
}

// Open starts a new artifact. Reopening a name is an error: each artifact is
// written exactly once.
func (m *Memory) Open(name string) (io.WriteCloser, error) {
	if _, ok := m.index[name]; ok {
		return nil, fmt.Errorf("artifact %q opened twice", name)
	}
	a := &MemoryArtifact{name: name}
	m.artifacts = append(m.artifacts, a)
	m.index[name] = a
	return a, nil
}

// Names returns the artifact names in open order.
func (m *Memory) Names() []string {
	names := make([]string, len(m.artifacts))
	for i, a := range m.artifacts {
		names[i] = a.name
	}
	return names
}

// Get returns the artifact with the given name, or nil.
func (m *Memory) Get(name string) *MemoryArtifact {
	return m.index[name]
}

// Len returns the number of opened artifacts.
func (m *Memory) Len() int { return len(m.artifacts) }

// MemoryArtifact is one artifact held by a Memory sink.
type MemoryArtifact struct {
	name   string
	buf    bytes.Buffer
	closed bool
}

// Name returns the artifact name.
func (a *MemoryArtifact) Name() string { return a.name }

// Bytes returns the artifact contents written so far.
func (a *MemoryArtifact) Bytes() []byte { return a.buf.Bytes() }

// String returns the artifact contents written so far.
func (a *MemoryArtifact) String() string { return a.buf.String() }

// Closed reports whether the artifact stream has been closed.
func (a *MemoryArtifact) Closed() bool { return a.closed }

func (a *MemoryArtifact) Write(p []byte) (int, error) {
	if a.closed {
		return 0, fmt.Errorf("write to closed artifact %q", a.name)
	}
	return a.buf.Write(p)
}

func (a *MemoryArtifact) Close() error {
	a.closed = true
	return nil
}

// SortedNames returns the artifact names sorted lexically, for listings that
// should not depend on plan order.
func (m *Memory) SortedNames() []string {
	names := m.Names()
	sort.Strings(names)
	return names
}
