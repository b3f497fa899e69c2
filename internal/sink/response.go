package sink

import (
	"bytes"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// Response accumulates artifacts as code-generator response files. A file is
// registered when its stream is closed, so the response never carries a
// half-written artifact and file order matches completion order.
type Response struct {
	files []*pluginpb.CodeGeneratorResponse_File
	seen  map[string]bool
}

// NewResponse returns an empty response sink.
func NewResponse() *Response {
	return &Response{seen: make(map[string]bool)}
}

// Open starts a new response file. Reopening a name is an error.
func (r *Response) Open(name string) (io.WriteCloser, error) {
	if r.seen[name] {
		return nil, fmt.Errorf("artifact %q opened twice", name)
	}
	r.seen[name] = true
	return &responseFile{resp: r, name: name}, nil
}

// Files returns the accumulated response files in completion order.
func (r *Response) Files() []*pluginpb.CodeGeneratorResponse_File {
	return r.files
}

type responseFile struct {
	resp   *Response
	name   string
	buf    bytes.Buffer
	closed bool
}

func (f *responseFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fmt.Errorf("write to closed artifact %q", f.name)
	}
	return f.buf.Write(p)
}

func (f *responseFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.resp.files = append(f.resp.files, &pluginpb.CodeGeneratorResponse_File{
		Name:    proto.String(f.name),
		Content: proto.String(f.buf.String()),
	})
	return nil
}
