package cppemit

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"cppgen/internal/annotate"
	"cppgen/internal/options"
)

func testFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("news/article.proto"),
		Package:    proto.String("news"),
		Dependency: []string{"base/common.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Article"),
				NestedType: []*descriptorpb.DescriptorProto{
					{Name: proto.String("Header")},
				},
			},
			{Name: proto.String("Byline")},
		},
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{Name: proto.String("Kind")},
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{Name: proto.String("Feed")},
		},
		Extension: []*descriptorpb.FieldDescriptorProto{
			{Name: proto.String("is_breaking"), Number: proto.Int32(100)},
		},
	}
}

func emitString(t *testing.T, emit func(io.Writer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, emit(&buf))
	return buf.String()
}

func TestElementCounts(t *testing.T) {
	e := New(testFile(), options.Config{})
	assert.Equal(t, 3, e.MessageCount())
	assert.Equal(t, 1, e.ExtensionCount())
}

func TestDeclaredOptimize(t *testing.T) {
	assert.Equal(t, options.OptimizeSpeed, DeclaredOptimize(&descriptorpb.FileDescriptorProto{}))

	lite := descriptorpb.FileOptions_LITE_RUNTIME
	assert.Equal(t, options.OptimizeLite, DeclaredOptimize(&descriptorpb.FileDescriptorProto{
		Options: &descriptorpb.FileOptions{OptimizeFor: &lite},
	}))

	codeSize := descriptorpb.FileOptions_CODE_SIZE
	assert.Equal(t, options.OptimizeCodeSize, DeclaredOptimize(&descriptorpb.FileDescriptorProto{
		Options: &descriptorpb.FileOptions{OptimizeFor: &codeSize},
	}))
}

func TestPrimaryHeaderFullBody(t *testing.T) {
	e := New(testFile(), options.Config{OpensourceRuntime: true, DLLExportDecl: "NEWS_EXPORT"})
	out := emitString(t, func(w io.Writer) error { return e.EmitPrimaryHeader(w, nil, "") })

	assert.Contains(t, out, "// source: news/article.proto")
	assert.Contains(t, out, "#ifndef NEWS_ARTICLE_PB_H")
	assert.Contains(t, out, "#define NEWS_ARTICLE_PB_H")
	assert.Contains(t, out, "#endif  // NEWS_ARTICLE_PB_H")
	assert.Contains(t, out, `#include "google/protobuf/port_def.inc"`)
	assert.Contains(t, out, `#include "google/protobuf/port_undef.inc"`)
	assert.Contains(t, out, `#include "base/common.pb.h"`)
	assert.Contains(t, out, "namespace news {")
	assert.Contains(t, out, "}  // namespace news")
	assert.Contains(t, out, "class NEWS_EXPORT Article;")
	assert.Contains(t, out, "class NEWS_EXPORT Article_Header;")
	assert.Contains(t, out, "class NEWS_EXPORT Byline;")
	assert.Contains(t, out, "enum Kind : int;")
	assert.Contains(t, out, "// extension news.is_breaking (field 100)")
}

func TestPrimaryHeaderThinWhenSecondaryEnabled(t *testing.T) {
	e := New(testFile(), options.Config{ProtoH: true})
	out := emitString(t, func(w io.Writer) error { return e.EmitPrimaryHeader(w, nil, "") })

	assert.Contains(t, out, `#include "news/article.proto.h"`)
	assert.NotContains(t, out, "class ")
}

func TestSecondaryHeader(t *testing.T) {
	e := New(testFile(), options.Config{ProtoH: true})
	out := emitString(t, func(w io.Writer) error { return e.EmitSecondaryHeader(w, nil, "") })

	assert.Contains(t, out, "#ifndef NEWS_ARTICLE_PROTO_H")
	assert.Contains(t, out, "class Article;")
	assert.Contains(t, out, "class Article_Header;")
}

func TestHeaderAnnotations(t *testing.T) {
	e := New(testFile(), options.Config{AnnotateHeaders: true})
	ann := annotate.NewCollector()
	out := emitString(t, func(w io.Writer) error {
		return e.EmitPrimaryHeader(w, ann, "news/article.pb.h.meta")
	})
	require.Equal(t, 3, ann.Len())

	data, err := ann.Bytes()
	require.NoError(t, err)
	var info descriptorpb.GeneratedCodeInfo
	require.NoError(t, proto.Unmarshal(data, &info))

	wantPaths := [][]int32{{4, 0}, {4, 0, 3, 0}, {4, 1}}
	wantNames := []string{"Article", "Article_Header", "Byline"}
	for i, a := range info.GetAnnotation() {
		assert.Equal(t, wantPaths[i], a.GetPath())
		assert.Equal(t, "news/article.proto", a.GetSourceFile())
		assert.Equal(t, wantNames[i], out[a.GetBegin():a.GetEnd()])
	}
}

func TestAnnotationPragma(t *testing.T) {
	cfg := options.Config{
		AnnotateHeaders:      true,
		AnnotationPragmaName: "note_pragma",
		AnnotationGuardName:  "NOTE_GUARD",
	}
	e := New(testFile(), cfg)
	out := emitString(t, func(w io.Writer) error {
		return e.EmitPrimaryHeader(w, annotate.NewCollector(), "news/article.pb.h.meta")
	})
	assert.Contains(t, out, "#ifdef NOTE_GUARD")
	assert.Contains(t, out, `#pragma note_pragma "news/article.pb.h.meta"`)
	assert.Contains(t, out, "#endif  // NOTE_GUARD")

	// Without a metadata artifact there is nothing to reference.
	out = emitString(t, func(w io.Writer) error { return e.EmitPrimaryHeader(w, nil, "") })
	assert.NotContains(t, out, "#pragma")

	// Both names are required for the pragma block.
	e = New(testFile(), options.Config{AnnotateHeaders: true, AnnotationPragmaName: "note_pragma"})
	out = emitString(t, func(w io.Writer) error {
		return e.EmitPrimaryHeader(w, annotate.NewCollector(), "news/article.pb.h.meta")
	})
	assert.NotContains(t, out, "#pragma")
}

func TestListenerComments(t *testing.T) {
	cfg := options.Config{
		InjectFieldListenerEvents: true,
		ForbiddenFieldListenerEvents: map[string]struct{}{
			"set":   {},
			"clear": {},
		},
	}
	e := New(testFile(), cfg)
	out := emitString(t, func(w io.Writer) error { return e.EmitPrimaryHeader(w, nil, "") })
	assert.Contains(t, out, "// field listener events injected")
	assert.Contains(t, out, "// suppressed listener events: clear, set")
}

func TestGlobalSourceMonolithic(t *testing.T) {
	e := New(testFile(), options.Config{OpensourceRuntime: true})
	out := emitString(t, e.EmitGlobalSource)

	assert.Contains(t, out, `#include "news/article.pb.h"`)
	assert.Contains(t, out, "descriptor_table_news_2farticle_2eproto")
	assert.Contains(t, out, "::google::protobuf::internal::DescriptorTable")
	assert.Contains(t, out, "// enum news.Kind")
	assert.Contains(t, out, "bool Kind_IsValid(int value)")
	assert.Contains(t, out, "// service news.Feed")

	// Monolithic mode carries the per-element sections too.
	assert.Contains(t, out, "// news.Article\n")
	assert.Contains(t, out, "Article_Header::GetMetadata")
	assert.Contains(t, out, "const int kIsBreakingFieldNumber = 100;")
}

func TestGlobalSourceSplitOmitsElementSections(t *testing.T) {
	cfg := options.Config{LiteImplicitWeakFields: true, Optimize: options.OptimizeLite}
	e := New(testFile(), cfg)
	out := emitString(t, e.EmitGlobalSource)

	assert.Contains(t, out, "descriptor_table_news_2farticle_2eproto")
	assert.NotContains(t, out, "GetMetadata")
	assert.NotContains(t, out, "kIsBreakingFieldNumber")
}

func TestMessageSource(t *testing.T) {
	cfg := options.Config{LiteImplicitWeakFields: true, Optimize: options.OptimizeLite}
	e := New(testFile(), cfg)

	out := emitString(t, func(w io.Writer) error { return e.EmitMessageSource(w, 1) })
	assert.Contains(t, out, "// implicit weak section for news.Article.Header")
	assert.Contains(t, out, "Article_Header::GetMetadata")
	assert.NotContains(t, out, "Byline::")

	err := e.EmitMessageSource(io.Discard, 3)
	require.Error(t, err)
	err = e.EmitMessageSource(io.Discard, -1)
	require.Error(t, err)
}

func TestExtensionSource(t *testing.T) {
	e := New(testFile(), options.Config{})

	out := emitString(t, func(w io.Writer) error { return e.EmitExtensionSource(w, 0) })
	assert.Contains(t, out, "// extension news.is_breaking")
	assert.Contains(t, out, "const int kIsBreakingFieldNumber = 100;")

	err := e.EmitExtensionSource(io.Discard, 1)
	require.Error(t, err)
}

func TestRuntimeIncludeBase(t *testing.T) {
	e := New(testFile(), options.Config{RuntimeIncludeBase: "third_party/"})
	out := emitString(t, func(w io.Writer) error { return e.EmitPrimaryHeader(w, nil, "") })
	assert.Contains(t, out, `#include "third_party/google/protobuf/port_def.inc"`)
}

func TestInternalRuntimeNamespace(t *testing.T) {
	e := New(testFile(), options.Config{})
	out := emitString(t, e.EmitGlobalSource)
	assert.Contains(t, out, "::proto2::internal::DescriptorTable")
}

func TestPackagelessFile(t *testing.T) {
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("plain.proto"),
		MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("Thing")}},
	}
	e := New(file, options.Config{})
	out := emitString(t, func(w io.Writer) error { return e.EmitPrimaryHeader(w, nil, "") })
	assert.NotContains(t, out, "namespace")
	assert.Contains(t, out, "class Thing;")
}

func TestNameHelpers(t *testing.T) {
	assert.Equal(t, "NEWS_ARTICLE_PB_H", headerGuard("news/article.pb.h"))
	assert.Equal(t, "news_2farticle_2eproto", mangleFileName("news/article.proto"))
	assert.Equal(t, "a_2db_2eproto", mangleFileName("a-b.proto"))
	assert.Equal(t, "IsBreaking", pascalCase("is_breaking"))
	assert.Equal(t, "X", pascalCase("x"))
	assert.Equal(t, "AlreadyPascal", pascalCase("AlreadyPascal"))
}
