// Package plugin implements the code-generator plugin wire protocol: it
// turns a CodeGeneratorRequest into a CodeGeneratorResponse by running the
// front end over every requested schema unit.
package plugin

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"cppgen/internal/cppemit"
	"cppgen/internal/generate"
	"cppgen/internal/logging"
	"cppgen/internal/options"
	"cppgen/internal/sink"
)

var log = logging.NewLogger("plugin")

// Run executes req and returns the response. Failures are reported through
// the response error field, as the protocol expects, never as a process
// crash. Artifacts completed before a failure stay in the response; the
// driver decides what to do with them.
func Run(req *pluginpb.CodeGeneratorRequest) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}

	byName := make(map[string]*descriptorpb.FileDescriptorProto, len(req.GetProtoFile()))
	for _, fd := range req.GetProtoFile() {
		byName[fd.GetName()] = fd
	}

	out := sink.NewResponse()
	gen := &generate.Generator{
		OpensourceRuntime: true,
		NewEmitter: func(unit generate.Unit, cfg options.Config) (generate.Emitter, error) {
			fd, ok := byName[unit.Name]
			if !ok {
				return nil, fmt.Errorf("no descriptor for %s", unit.Name)
			}
			return cppemit.New(fd, cfg), nil
		},
	}

	for _, name := range req.GetFileToGenerate() {
		fd, ok := byName[name]
		if !ok {
			resp.Error = proto.String(fmt.Sprintf("file to generate %q missing from request", name))
			resp.File = out.Files()
			return resp
		}
		unit := generate.Unit{Name: name, DeclaredOptimize: cppemit.DeclaredOptimize(fd)}
		if err := gen.Generate(unit, req.GetParameter(), out); err != nil {
			resp.Error = proto.String(err.Error())
			resp.File = out.Files()
			return resp
		}
		log.WithField("unit", name).Debug("unit generated")
	}

	resp.File = out.Files()
	return resp
}
