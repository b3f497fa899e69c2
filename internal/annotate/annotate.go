// Package annotate records which byte ranges of a generated artifact derive
// from which schema elements, and serializes the record for the metadata
// artifact paired with the generated one.
package annotate

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Collector accumulates annotations for exactly one artifact. A nil
// Collector is valid and drops everything, so emitters can annotate
// unconditionally.
type Collector struct {
	info descriptorpb.GeneratedCodeInfo
}

// NewCollector returns an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Annotate records that bytes [begin, end) of the artifact derive from the
// schema element at path within sourceFile. The path is copied; callers may
// reuse the slice.
func (c *Collector) Annotate(path []int32, sourceFile string, begin, end int) {
	if c == nil {
		return
	}
	c.info.Annotation = append(c.info.Annotation, &descriptorpb.GeneratedCodeInfo_Annotation{
		Path:       append([]int32(nil), path...),
		SourceFile: proto.String(sourceFile),
		Begin:      proto.Int32(int32(begin)),
		End:        proto.Int32(int32(end)),
	})
}

// Len returns the number of recorded annotations.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.info.Annotation)
}

// Bytes serializes the record in the wire format metadata consumers expect.
func (c *Collector) Bytes() ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	return proto.Marshal(&c.info)
}
