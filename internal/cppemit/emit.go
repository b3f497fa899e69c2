package cppemit

import (
	"fmt"
	"io"
	"strings"

	"cppgen/internal/annotate"
	"cppgen/internal/plan"
)

// Each emit operation assembles its whole artifact in one builder and
// flushes it with a single write, so annotation offsets are just builder
// positions.

// EmitPrimaryHeader writes <base>.pb.h. When the forward-declaration header
// is enabled the primary header reduces to an include of it; otherwise it
// carries the full header body.
func (e *Emitter) EmitPrimaryHeader(w io.Writer, ann *annotate.Collector, metaName string) error {
	var b strings.Builder
	e.banner(&b)
	guard := headerGuard(plan.PrimaryHeaderName(e.base))
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	e.annotationPragma(&b, metaName)

	if e.cfg.ProtoH {
		fmt.Fprintf(&b, "#include %q\n", plan.SecondaryHeaderName(e.base))
	} else {
		e.headerBody(&b, ann)
	}

	fmt.Fprintf(&b, "\n#endif  // %s\n", guard)
	return flush(w, &b)
}

// EmitSecondaryHeader writes <base>.proto.h, the full header body behind its
// own guard.
func (e *Emitter) EmitSecondaryHeader(w io.Writer, ann *annotate.Collector, metaName string) error {
	var b strings.Builder
	e.banner(&b)
	guard := headerGuard(plan.SecondaryHeaderName(e.base))
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	e.annotationPragma(&b, metaName)
	e.headerBody(&b, ann)
	fmt.Fprintf(&b, "\n#endif  // %s\n", guard)
	return flush(w, &b)
}

// EmitGlobalSource writes <base>.pb.cc: the descriptor table, enum and
// service sections, and, outside split mode, the per-element sections too.
func (e *Emitter) EmitGlobalSource(w io.Writer) error {
	var b strings.Builder
	e.banner(&b)
	fmt.Fprintf(&b, "#include %q\n\n", plan.PrimaryHeaderName(e.base))
	e.runtimeInclude(&b, "port_def.inc")
	b.WriteString("\n")
	e.openNamespace(&b)

	b.WriteString(e.vars["hrule_thick"])
	fmt.Fprintf(&b, "// descriptor table for %s\n\n", e.file.GetName())
	fmt.Fprintf(&b, "const %s::DescriptorTable %s = {};\n", e.vars["pbi"], e.tableName)

	for _, en := range e.file.GetEnumType() {
		b.WriteString("\n")
		b.WriteString(e.vars["hrule_thin"])
		fmt.Fprintf(&b, "// enum %s\n\n", e.scopedName(en.GetName()))
		fmt.Fprintf(&b, "bool %s_IsValid(int value) {\n", en.GetName())
		fmt.Fprintf(&b, "  return %s::ValidateEnum(value, %s_internal_data_);\n", e.vars["pbi"], en.GetName())
		b.WriteString("}\n")
	}

	for _, svc := range e.file.GetService() {
		b.WriteString("\n")
		b.WriteString(e.vars["hrule_thin"])
		fmt.Fprintf(&b, "// service %s: generic services are not emitted\n", e.scopedName(svc.GetName()))
	}

	if !e.split {
		for _, m := range e.messages {
			e.messageSection(&b, m)
		}
		for i := range e.extensions {
			e.extensionSection(&b, i)
		}
	}

	e.closeNamespace(&b)
	b.WriteString("\n")
	e.runtimeInclude(&b, "port_undef.inc")
	return flush(w, &b)
}

// EmitMessageSource writes the numbered artifact covering the message at
// index in declaration order.
func (e *Emitter) EmitMessageSource(w io.Writer, index int) error {
	if index < 0 || index >= len(e.messages) {
		return fmt.Errorf("message index %d out of range [0,%d)", index, len(e.messages))
	}
	m := e.messages[index]

	var b strings.Builder
	e.banner(&b)
	fmt.Fprintf(&b, "#include %q\n\n", plan.PrimaryHeaderName(e.base))
	e.runtimeInclude(&b, "port_def.inc")
	if e.cfg.LiteImplicitWeakFields {
		fmt.Fprintf(&b, "\n// implicit weak section for %s\n", m.fullName)
	}
	b.WriteString("\n")
	e.openNamespace(&b)
	e.messageSection(&b, m)
	e.closeNamespace(&b)
	b.WriteString("\n")
	e.runtimeInclude(&b, "port_undef.inc")
	return flush(w, &b)
}

// EmitExtensionSource writes the numbered artifact covering the file-scope
// extension at index in declaration order.
func (e *Emitter) EmitExtensionSource(w io.Writer, index int) error {
	if index < 0 || index >= len(e.extensions) {
		return fmt.Errorf("extension index %d out of range [0,%d)", index, len(e.extensions))
	}

	var b strings.Builder
	e.banner(&b)
	fmt.Fprintf(&b, "#include %q\n\n", plan.PrimaryHeaderName(e.base))
	e.runtimeInclude(&b, "port_def.inc")
	b.WriteString("\n")
	e.openNamespace(&b)
	e.extensionSection(&b, index)
	e.closeNamespace(&b)
	b.WriteString("\n")
	e.runtimeInclude(&b, "port_undef.inc")
	return flush(w, &b)
}

func (e *Emitter) banner(b *strings.Builder) {
	b.WriteString("// Generated by the cppgen compiler.  DO NOT EDIT!\n")
	fmt.Fprintf(b, "// source: %s\n\n", e.file.GetName())
}

// annotationPragma points tooling at the metadata artifact paired with this
// header. Emitted only when capture is on and both pragma and guard names
// were configured.
func (e *Emitter) annotationPragma(b *strings.Builder, metaName string) {
	if metaName == "" || e.cfg.AnnotationPragmaName == "" || e.cfg.AnnotationGuardName == "" {
		return
	}
	fmt.Fprintf(b, "#ifdef %s\n", e.cfg.AnnotationGuardName)
	fmt.Fprintf(b, "#pragma %s %q\n", e.cfg.AnnotationPragmaName, metaName)
	fmt.Fprintf(b, "#endif  // %s\n\n", e.cfg.AnnotationGuardName)
}

// headerBody writes the shared full-header content: includes, forward
// declarations annotated back to their schema elements, and enum forward
// declarations.
func (e *Emitter) headerBody(b *strings.Builder, ann *annotate.Collector) {
	b.WriteString("#include <cstdint>\n#include <string>\n\n")
	e.runtimeInclude(b, "port_def.inc")
	for _, dep := range e.file.GetDependency() {
		fmt.Fprintf(b, "#include %q\n", plan.PrimaryHeaderName(plan.BaseName(dep)))
	}
	b.WriteString("\n")
	e.openNamespace(b)

	export := ""
	if e.cfg.DLLExportDecl != "" {
		export = e.cfg.DLLExportDecl + " "
	}
	for _, m := range e.messages {
		fmt.Fprintf(b, "class %s", export)
		begin := b.Len()
		b.WriteString(m.cppName)
		ann.Annotate(m.path, e.file.GetName(), begin, b.Len())
		b.WriteString(";\n")
	}
	for _, en := range e.file.GetEnumType() {
		fmt.Fprintf(b, "enum %s : int;\n", en.GetName())
	}
	for _, ext := range e.extensions {
		fmt.Fprintf(b, "// extension %s (field %d)\n", ext.fullName, ext.number)
	}

	if e.cfg.InjectFieldListenerEvents {
		b.WriteString("\n// field listener events injected\n")
		if events := e.cfg.ForbiddenListenerEvents(); len(events) > 0 {
			fmt.Fprintf(b, "// suppressed listener events: %s\n", strings.Join(events, ", "))
		}
	}

	e.closeNamespace(b)
	b.WriteString("\n")
	e.runtimeInclude(b, "port_undef.inc")
}

func (e *Emitter) messageSection(b *strings.Builder, m message) {
	b.WriteString("\n")
	b.WriteString(e.vars["hrule_thick"])
	fmt.Fprintf(b, "// %s\n\n", m.fullName)
	fmt.Fprintf(b, "%s::Metadata %s::GetMetadata() const {\n", e.vars["pb"], m.cppName)
	fmt.Fprintf(b, "  return %s::AssignDescriptors(&%s);\n", e.vars["pbi"], e.tableName)
	b.WriteString("}\n")
}

func (e *Emitter) extensionSection(b *strings.Builder, index int) {
	ext := e.extensions[index]
	b.WriteString("\n")
	b.WriteString(e.vars["hrule_thin"])
	fmt.Fprintf(b, "// extension %s\n\n", ext.fullName)
	fmt.Fprintf(b, "const int k%sFieldNumber = %d;\n", ext.cppName, ext.number)
}

func (e *Emitter) runtimeInclude(b *strings.Builder, name string) {
	fmt.Fprintf(b, "#include \"%sgoogle/protobuf/%s\"\n", e.cfg.RuntimeIncludeBase, name)
}

func (e *Emitter) openNamespace(b *strings.Builder) {
	parts := e.namespaceParts()
	for _, part := range parts {
		fmt.Fprintf(b, "namespace %s {\n", part)
	}
	if len(parts) > 0 {
		b.WriteString("\n")
	}
}

func (e *Emitter) closeNamespace(b *strings.Builder) {
	parts := e.namespaceParts()
	if len(parts) > 0 {
		b.WriteString("\n")
	}
	for i := len(parts) - 1; i >= 0; i-- {
		fmt.Fprintf(b, "}  // namespace %s\n", parts[i])
	}
}

func (e *Emitter) scopedName(name string) string {
	if pkg := e.file.GetPackage(); pkg != "" {
		return pkg + "." + name
	}
	return name
}

func flush(w io.Writer, b *strings.Builder) error {
	_, err := io.WriteString(w, b.String())
	return err
}
