// Package plan computes the ordered artifact set of one generation request.
//
// Planning is pure: it looks only at the unit's base name, the resolved
// configuration, and the element counts the emitter reports. Executing the
// plan is the writer's job.
package plan

import (
	"fmt"
	"strings"

	"cppgen/internal/options"
)

// Role identifies what an artifact holds and which emitter operation fills
// it.
type Role int

const (
	// RolePrimaryHeader is the main generated header, <base>.pb.h.
	RolePrimaryHeader Role = iota
	// RoleSecondaryHeader is the forward-declaration header <base>.proto.h,
	// planned ahead of the primary header when the proto_h option is set.
	RoleSecondaryHeader
	// RoleMetadata is the serialized annotation record paired with the
	// immediately preceding header.
	RoleMetadata
	// RoleGlobalSource holds everything not attributable to a single
	// element: enums, services, tables, reflection.
	RoleGlobalSource
	// RoleNumberedSource holds the code of exactly one message or extension
	// in split mode.
	RoleNumberedSource
	// RolePlaceholder is an intentionally empty numbered artifact emitted to
	// honor an explicit source-file count.
	RolePlaceholder
)

func (r Role) String() string {
	switch r {
	case RolePrimaryHeader:
		return "primary-header"
	case RoleSecondaryHeader:
		return "secondary-header"
	case RoleMetadata:
		return "metadata"
	case RoleGlobalSource:
		return "global-source"
	case RoleNumberedSource:
		return "numbered-source"
	case RolePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// ElementKind says which kind of schema element a numbered-source artifact
// covers.
type ElementKind int

const (
	ElementNone ElementKind = iota
	ElementMessage
	ElementExtension
)

func (k ElementKind) String() string {
	switch k {
	case ElementNone:
		return "none"
	case ElementMessage:
		return "message"
	case ElementExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Spec describes one artifact to produce. Kind and Index address the element
// a numbered-source artifact covers; every other role carries ElementNone
// and index -1.
type Spec struct {
	// Name is the artifact name, slash-separated and relative to the sink
	// root.
	Name  string
	Role  Role
	Kind  ElementKind
	Index int
}

// Plan is the ordered artifact list of one request. Order is execution
// order: headers before sources, each metadata artifact directly after its
// header.
type Plan []Spec

// Names returns the artifact names in plan order.
func (p Plan) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}

// Counts carries the schema element totals the emitter reports for a unit.
type Counts struct {
	Messages   int
	Extensions int
}

// Natural is the element-derived number of numbered source artifacts before
// any explicit override.
func (c Counts) Natural() int { return c.Messages + c.Extensions }

// BaseName strips the schema file extension from a unit name. Directory
// components are kept: artifacts live next to their schema in the output
// tree.
func BaseName(unitName string) string {
	if strings.HasSuffix(unitName, ".protodevel") {
		return strings.TrimSuffix(unitName, ".protodevel")
	}
	return strings.TrimSuffix(unitName, ".proto")
}

// PrimaryHeaderName returns the name of the main generated header.
func PrimaryHeaderName(basename string) string { return basename + ".pb.h" }

// SecondaryHeaderName returns the name of the forward-declaration header.
func SecondaryHeaderName(basename string) string { return basename + ".proto.h" }

// GlobalSourceName returns the name of the monolithic (or split-global)
// source artifact.
func GlobalSourceName(basename string) string { return basename + ".pb.cc" }

// NumberedSourceName returns the name of the n-th numbered source artifact.
func NumberedSourceName(basename string, n int) string {
	return fmt.Sprintf("%s.out/%d.cc", basename, n)
}

// MetadataName returns the name of the annotation artifact paired with the
// named header.
func MetadataName(headerName string) string { return headerName + ".meta" }

// Build computes the plan for one unit. basename is the unit name with its
// schema extension stripped, counts the emitter-reported element totals, and
// split whether numbered source artifacts are in effect.
//
// Build panics when the configuration requests fewer numbered source files
// than the unit has elements. That is a defect in the invoking build setup,
// not recoverable input.
func Build(basename string, cfg options.Config, counts Counts, split bool) Plan {
	var p Plan

	header := func(role Role, name string) {
		p = append(p, Spec{Name: name, Role: role, Kind: ElementNone, Index: -1})
		if cfg.AnnotateHeaders {
			p = append(p, Spec{Name: MetadataName(name), Role: RoleMetadata, Kind: ElementNone, Index: -1})
		}
	}

	if cfg.ProtoH {
		header(RoleSecondaryHeader, SecondaryHeaderName(basename))
	}
	header(RolePrimaryHeader, PrimaryHeaderName(basename))

	p = append(p, Spec{Name: GlobalSourceName(basename), Role: RoleGlobalSource, Kind: ElementNone, Index: -1})
	if !split {
		return p
	}

	total := counts.Natural()
	if n := cfg.NumSourceFiles; n > 0 {
		if n < total {
			panic(fmt.Sprintf(
				"plan: %s has %d messages and %d extensions but only %d numbered source files were requested",
				basename, counts.Messages, counts.Extensions, n))
		}
		total = n
	}

	next := 0
	for i := 0; i < counts.Messages; i++ {
		p = append(p, Spec{Name: NumberedSourceName(basename, next), Role: RoleNumberedSource, Kind: ElementMessage, Index: i})
		next++
	}
	for i := 0; i < counts.Extensions; i++ {
		p = append(p, Spec{Name: NumberedSourceName(basename, next), Role: RoleNumberedSource, Kind: ElementExtension, Index: i})
		next++
	}
	for ; next < total; next++ {
		p = append(p, Spec{Name: NumberedSourceName(basename, next), Role: RolePlaceholder, Kind: ElementNone, Index: -1})
	}
	return p
}
