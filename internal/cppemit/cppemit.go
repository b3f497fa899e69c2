// Package cppemit emits C++ scaffolding for a schema unit described by a
// FileDescriptorProto: include graph, namespace blocks, forward
// declarations, descriptor-table and per-element sections. Full message
// bodies are a separate concern layered on top of this skeleton.
package cppemit

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"cppgen/internal/options"
	"cppgen/internal/plan"
)

// FileDescriptorProto field numbers used to build annotation paths.
const (
	fieldMessageType = 4
	fieldExtension   = 7
	// DescriptorProto.nested_type
	fieldNestedType = 3
)

// Emitter produces the artifacts of one schema unit. It satisfies the
// generate.Emitter contract.
type Emitter struct {
	file *descriptorpb.FileDescriptorProto
	cfg  options.Config
	vars map[string]string

	base      string
	tableName string
	split     bool

	messages   []message
	extensions []extension
}

// message is one message element, in depth-first declaration order: a
// message precedes its nested messages.
type message struct {
	fullName string
	cppName  string
	path     []int32
}

// extension is one file-scope extension element in declaration order.
type extension struct {
	fullName string
	cppName  string
	number   int32
}

// New builds an emitter for file under the resolved configuration.
func New(file *descriptorpb.FileDescriptorProto, cfg options.Config) *Emitter {
	e := &Emitter{
		file:      file,
		cfg:       cfg,
		vars:      options.CommonVars(cfg),
		base:      plan.BaseName(file.GetName()),
		tableName: "descriptor_table_" + mangleFileName(file.GetName()),
	}
	e.split = cfg.LiteImplicitWeakFields &&
		cfg.EffectiveOptimize(DeclaredOptimize(file)) == options.OptimizeLite
	e.collect()
	return e
}

// DeclaredOptimize maps the unit's own optimize_for declaration to the front
// end's profile enum. Units without a declaration default to speed.
func DeclaredOptimize(file *descriptorpb.FileDescriptorProto) options.OptimizeMode {
	switch file.GetOptions().GetOptimizeFor() {
	case descriptorpb.FileOptions_CODE_SIZE:
		return options.OptimizeCodeSize
	case descriptorpb.FileOptions_LITE_RUNTIME:
		return options.OptimizeLite
	default:
		return options.OptimizeSpeed
	}
}

// MessageCount returns the number of message elements, nested ones included.
func (e *Emitter) MessageCount() int { return len(e.messages) }

// ExtensionCount returns the number of file-scope extension elements.
func (e *Emitter) ExtensionCount() int { return len(e.extensions) }

func (e *Emitter) collect() {
	pkg := e.file.GetPackage()
	var walk func(parentFull, parentCpp string, base []int32, msgs []*descriptorpb.DescriptorProto)
	walk = func(parentFull, parentCpp string, base []int32, msgs []*descriptorpb.DescriptorProto) {
		for i, m := range msgs {
			full := m.GetName()
			if parentFull != "" {
				full = parentFull + "." + m.GetName()
			}
			cpp := m.GetName()
			if parentCpp != "" {
				cpp = parentCpp + "_" + m.GetName()
			}
			path := make([]int32, len(base)+1)
			copy(path, base)
			path[len(base)] = int32(i)
			e.messages = append(e.messages, message{fullName: full, cppName: cpp, path: path})
			if len(m.GetNestedType()) > 0 {
				nestedBase := make([]int32, len(path)+1)
				copy(nestedBase, path)
				nestedBase[len(path)] = fieldNestedType
				walk(full, cpp, nestedBase, m.GetNestedType())
			}
		}
	}
	walk(pkg, "", []int32{fieldMessageType}, e.file.GetMessageType())

	for _, ext := range e.file.GetExtension() {
		full := ext.GetName()
		if pkg != "" {
			full = pkg + "." + ext.GetName()
		}
		e.extensions = append(e.extensions, extension{
			fullName: full,
			cppName:  pascalCase(ext.GetName()),
			number:   ext.GetNumber(),
		})
	}
}

func (e *Emitter) namespaceParts() []string {
	pkg := e.file.GetPackage()
	if pkg == "" {
		return nil
	}
	return strings.Split(pkg, ".")
}

// headerGuard builds the include-guard macro for an artifact name.
func headerGuard(artifact string) string {
	var b strings.Builder
	for _, c := range []byte(artifact) {
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// mangleFileName lowers a schema file name into an identifier fragment:
// alphanumerics are kept lowercase, every other byte becomes _XX hex, so
// "news/article.proto" yields "news_2farticle_2eproto".
func mangleFileName(name string) string {
	var b strings.Builder
	for _, c := range []byte(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c - 'A' + 'a')
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

func pascalCase(s string) string {
	var b strings.Builder
	up := true
	for _, c := range []byte(s) {
		if c == '_' {
			up = true
			continue
		}
		if up && c >= 'a' && c <= 'z' {
			c = c - 'a' + 'A'
		}
		up = false
		b.WriteByte(c)
	}
	return b.String()
}
