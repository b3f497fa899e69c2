// protoc-gen-cppgen is the plugin binary protoc runs for --cppgen_out. It
// reads a serialized CodeGeneratorRequest on stdin and writes the response
// to stdout. Set CPPGEN_DEBUG=1 for debug logging on stderr.
package main

import (
	"io"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"cppgen/internal/logging"
	"cppgen/internal/plugin"
)

func main() {
	if os.Getenv("CPPGEN_DEBUG") != "" {
		logging.SetDebug(true)
	}
	log := logging.NewLogger("protoc-gen-cppgen")

	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.WithError(err).Fatal("read request")
	}
	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(in, req); err != nil {
		log.WithError(err).Fatal("unmarshal request")
	}

	out, err := proto.Marshal(plugin.Run(req))
	if err != nil {
		log.WithError(err).Fatal("marshal response")
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.WithError(err).Fatal("write response")
	}
}
