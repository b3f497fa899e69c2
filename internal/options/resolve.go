package options

import (
	"errors"
	"fmt"
	"strings"

	"cppgen/internal/param"
)

// resolution carries the state one Resolve call mutates: the config under
// construction and the schema unit name, which unit-scoped options compare
// against.
type resolution struct {
	cfg  *Config
	unit string
}

// optionSpec describes one recognized option key. The table below is the
// single source of truth: lookup, application, and the listing shown by the
// CLI all derive from it.
type optionSpec struct {
	Key     string
	Summary string
	apply   func(*resolution, string) error
}

var optionTable = []optionSpec{
	{
		Key:     "dllexport_decl",
		Summary: "macro written in front of every exported symbol",
		apply: func(r *resolution, v string) error {
			r.cfg.DLLExportDecl = v
			return nil
		},
	},
	{
		Key:     "safe_boundary_check",
		Summary: "bounds-checked accessors (internal runtime only)",
		apply: func(r *resolution, v string) error {
			r.cfg.SafeBoundaryCheck = true
			return nil
		},
	},
	{
		Key:     "annotate_headers",
		Summary: "pair each header with a .meta annotation artifact",
		apply: func(r *resolution, v string) error {
			r.cfg.AnnotateHeaders = true
			return nil
		},
	},
	{
		Key:     "annotation_pragma_name",
		Summary: "pragma name referencing the metadata artifact from headers",
		apply: func(r *resolution, v string) error {
			r.cfg.AnnotationPragmaName = v
			return nil
		},
	},
	{
		Key:     "annotation_guard_name",
		Summary: "preprocessor guard around the annotation pragma",
		apply: func(r *resolution, v string) error {
			r.cfg.AnnotationGuardName = v
			return nil
		},
	},
	{
		Key:     "speed",
		Summary: "enforce the speed optimization profile",
		apply: func(r *resolution, v string) error {
			r.cfg.Optimize = OptimizeSpeed
			return nil
		},
	},
	{
		Key:     "code_size",
		Summary: "enforce the code-size optimization profile",
		apply: func(r *resolution, v string) error {
			r.cfg.Optimize = OptimizeCodeSize
			return nil
		},
	},
	{
		Key:     "lite",
		Summary: "enforce the lite runtime profile",
		apply: func(r *resolution, v string) error {
			r.cfg.Optimize = OptimizeLite
			return nil
		},
	},
	{
		Key:     "lite_implicit_weak_fields",
		Summary: "lite profile with implicit-weak fields; optional =N source file count",
		apply: func(r *resolution, v string) error {
			r.cfg.Optimize = OptimizeLite
			r.cfg.LiteImplicitWeakFields = true
			if v != "" {
				r.cfg.NumSourceFiles = leadingInt(v)
			}
			return nil
		},
	},
	{
		Key:     "proto_h",
		Summary: "emit a forward-declaration header ahead of the primary header",
		apply: func(r *resolution, v string) error {
			r.cfg.ProtoH = true
			return nil
		},
	},
	{
		// Accepted and ignored so invocations written against other
		// generator builds keep working.
		Key:     "proto_static_reflection_h",
		Summary: "accepted for compatibility; no effect",
		apply:   func(r *resolution, v string) error { return nil },
	},
	{
		Key:     "annotate_accessor",
		Summary: "mark generated accessors for tooling",
		apply: func(r *resolution, v string) error {
			r.cfg.AnnotateAccessors = true
			return nil
		},
	},
	{
		Key:     "protos_for_field_listener_events",
		Summary: "colon-separated unit names that get listener hooks",
		apply: func(r *resolution, v string) error {
			for _, name := range strings.Split(v, ":") {
				if name == r.unit {
					r.cfg.InjectFieldListenerEvents = true
					break
				}
			}
			return nil
		},
	},
	{
		Key:     "inject_field_listener_events",
		Summary: "insert listener hooks into field accessors",
		apply: func(r *resolution, v string) error {
			r.cfg.InjectFieldListenerEvents = true
			return nil
		},
	},
	{
		Key:     "forbidden_field_listener_events",
		Summary: "+-separated listener event names to exclude",
		apply: func(r *resolution, v string) error {
			for _, ev := range strings.Split(v, "+") {
				if ev == "" {
					continue
				}
				if r.cfg.ForbiddenFieldListenerEvents == nil {
					r.cfg.ForbiddenFieldListenerEvents = make(map[string]struct{})
				}
				r.cfg.ForbiddenFieldListenerEvents[ev] = struct{}{}
			}
			return nil
		},
	},
	{
		Key:     "unverified_lazy_message_sets",
		Summary: "skip verification on lazily parsed message sets",
		apply: func(r *resolution, v string) error {
			r.cfg.UnverifiedLazyMessageSets = true
			return nil
		},
	},
	{
		Key:     "force_eagerly_verified_lazy",
		Summary: "verify lazy fields eagerly",
		apply: func(r *resolution, v string) error {
			r.cfg.ForceEagerlyVerifiedLazy = true
			return nil
		},
	},
	{
		Key:     "experimental_tail_call_table_mode",
		Summary: "tail-call dispatch tables: never or always",
		apply: func(r *resolution, v string) error {
			switch v {
			case "never":
				r.cfg.TailCall = TailCallNever
			case "always":
				r.cfg.TailCall = TailCallAlways
			default:
				return fmt.Errorf("Unknown value for experimental_tail_call_table_mode: %s", v)
			}
			return nil
		},
	},
}

var optionIndex = func() map[string]*optionSpec {
	index := make(map[string]*optionSpec, len(optionTable))
	for i := range optionTable {
		index[optionTable[i].Key] = &optionTable[i]
	}
	return index
}()

// Known lists every recognized option key with its summary, in table order.
func Known() []struct{ Key, Summary string } {
	known := make([]struct{ Key, Summary string }, len(optionTable))
	for i, spec := range optionTable {
		known[i] = struct{ Key, Summary string }{spec.Key, spec.Summary}
	}
	return known
}

// Resolve applies params in order on top of seed and returns the resulting
// configuration. The seed supplies the deployment-derived fields; unitName
// is the schema unit the request covers.
//
// Later parameters overwrite earlier ones except for set-valued options,
// which accumulate. Any unknown key, malformed value, or violated cross-rule
// fails the whole resolution; error text is stable interface, relied on by
// build tooling that drives the generator.
func Resolve(params []param.Param, seed Config, unitName string) (Config, error) {
	cfg := seed
	r := &resolution{cfg: &cfg, unit: unitName}
	for _, p := range params {
		spec, ok := optionIndex[p.Key]
		if !ok {
			return Config{}, fmt.Errorf("Unknown generator option: %s", p.Key)
		}
		if err := spec.apply(r, p.Value); err != nil {
			return Config{}, err
		}
	}

	if cfg.SafeBoundaryCheck && cfg.OpensourceRuntime {
		return Config{}, errors.New("The safe_boundary_check option is not supported outside of Google.")
	}
	return cfg, nil
}

// leadingInt parses the leading base-10 integer of s and returns 0 when no
// digits lead it, mirroring strtol: "12abc" is 12, "abc" is 0.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	digits := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		digits = true
		i++
	}
	if !digits {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
