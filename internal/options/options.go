// Package options resolves generator parameters into the validated
// configuration a single generation request runs under.
//
// Resolution is all-or-nothing: one unknown key or malformed value rejects
// the whole request before any artifact is produced. The resolved Config is
// treated as read-only for the rest of the request.
package options

import "sort"

// OptimizeMode is a code-generation optimization profile. The zero value
// OptimizeNone means no profile is enforced through parameters and the
// schema unit's own declaration applies.
type OptimizeMode int

const (
	OptimizeNone OptimizeMode = iota
	OptimizeSpeed
	OptimizeCodeSize
	OptimizeLite
)

func (m OptimizeMode) String() string {
	switch m {
	case OptimizeNone:
		return "none"
	case OptimizeSpeed:
		return "speed"
	case OptimizeCodeSize:
		return "code_size"
	case OptimizeLite:
		return "lite"
	default:
		return "unknown"
	}
}

// TailCallMode selects how tail-call dispatch tables are emitted.
type TailCallMode int

const (
	TailCallDefault TailCallMode = iota
	TailCallNever
	TailCallAlways
)

func (m TailCallMode) String() string {
	switch m {
	case TailCallDefault:
		return "default"
	case TailCallNever:
		return "never"
	case TailCallAlways:
		return "always"
	default:
		return "unknown"
	}
}

// Config is the resolved configuration of one generation request.
//
// OpensourceRuntime and RuntimeIncludeBase are seeded from the generator
// deployment before parameter resolution; everything else starts at its zero
// value and is set by parameters.
type Config struct {
	// OpensourceRuntime selects the opensource runtime as the target the
	// generated code links against.
	OpensourceRuntime bool
	// RuntimeIncludeBase is prefixed to runtime include paths in emitted
	// text. When non-empty it carries its own trailing slash.
	RuntimeIncludeBase string

	// DLLExportDecl is the macro written in front of every exported symbol,
	// e.g. FOO_EXPORT when building a Windows DLL.
	DLLExportDecl string
	// SafeBoundaryCheck enables bounds-checked accessor behavior. Only the
	// internal runtime supports it.
	SafeBoundaryCheck bool
	// AnnotateHeaders pairs each generated header with a metadata artifact
	// mapping emitted byte ranges back to schema elements.
	AnnotateHeaders      bool
	AnnotationPragmaName string
	AnnotationGuardName  string

	// Optimize is the profile enforced by parameters, OptimizeNone when the
	// unit's declared profile should stand.
	Optimize OptimizeMode
	// LiteImplicitWeakFields marks fields as implicit-weak so the linker can
	// drop unreferenced message code. Forces the lite profile.
	LiteImplicitWeakFields bool
	// NumSourceFiles is the requested number of numbered source artifacts in
	// split mode. Zero means derive the count from the schema.
	NumSourceFiles int

	// ProtoH adds a forward-declaration header ahead of the primary header.
	ProtoH bool
	// AnnotateAccessors marks generated accessors for tooling.
	AnnotateAccessors bool

	// InjectFieldListenerEvents inserts listener hooks into field accessors,
	// except for events named in ForbiddenFieldListenerEvents.
	InjectFieldListenerEvents    bool
	ForbiddenFieldListenerEvents map[string]struct{}

	UnverifiedLazyMessageSets bool
	ForceEagerlyVerifiedLazy  bool

	// TailCall selects tail-call dispatch table emission.
	TailCall TailCallMode
}

// EffectiveOptimize returns the optimization profile in force for a unit
// whose schema declares declared. A profile enforced through parameters wins
// over the declaration; absent both, speed applies.
func (c Config) EffectiveOptimize(declared OptimizeMode) OptimizeMode {
	if c.Optimize != OptimizeNone {
		return c.Optimize
	}
	if declared == OptimizeNone {
		return OptimizeSpeed
	}
	return declared
}

// ForbiddenListenerEvents returns the excluded listener event names in
// sorted order.
func (c Config) ForbiddenListenerEvents() []string {
	if len(c.ForbiddenFieldListenerEvents) == 0 {
		return nil
	}
	events := make([]string, 0, len(c.ForbiddenFieldListenerEvents))
	for ev := range c.ForbiddenFieldListenerEvents {
		events = append(events, ev)
	}
	sort.Strings(events)
	return events
}
