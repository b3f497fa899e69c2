package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cppgen/internal/param"
)

const testUnit = "news/article.proto"

// resolve runs parameter against an opensource-runtime seed and fails the
// test on error.
func resolve(t *testing.T, parameter string) Config {
	t.Helper()
	cfg, err := Resolve(param.Parse(parameter), Config{OpensourceRuntime: true}, testUnit)
	require.NoError(t, err)
	return cfg
}

func TestResolveEmptyParameter(t *testing.T) {
	cfg := resolve(t, "")
	assert.True(t, cfg.OpensourceRuntime)
	assert.Equal(t, OptimizeNone, cfg.Optimize)
	assert.False(t, cfg.ProtoH)
	assert.False(t, cfg.AnnotateHeaders)
	assert.Zero(t, cfg.NumSourceFiles)
}

func TestResolveStringOptions(t *testing.T) {
	cfg := resolve(t, "dllexport_decl=FOO_EXPORT,annotation_pragma_name=pragma_name,annotation_guard_name=GUARD")
	assert.Equal(t, "FOO_EXPORT", cfg.DLLExportDecl)
	assert.Equal(t, "pragma_name", cfg.AnnotationPragmaName)
	assert.Equal(t, "GUARD", cfg.AnnotationGuardName)
}

func TestResolveFlagOptions(t *testing.T) {
	cfg := resolve(t, "annotate_headers,proto_h,annotate_accessor,unverified_lazy_message_sets,force_eagerly_verified_lazy,inject_field_listener_events")
	assert.True(t, cfg.AnnotateHeaders)
	assert.True(t, cfg.ProtoH)
	assert.True(t, cfg.AnnotateAccessors)
	assert.True(t, cfg.UnverifiedLazyMessageSets)
	assert.True(t, cfg.ForceEagerlyVerifiedLazy)
	assert.True(t, cfg.InjectFieldListenerEvents)
}

func TestResolveOptimizeLastWins(t *testing.T) {
	tests := []struct {
		parameter string
		want      OptimizeMode
	}{
		{"speed", OptimizeSpeed},
		{"code_size", OptimizeCodeSize},
		{"lite", OptimizeLite},
		{"speed,code_size", OptimizeCodeSize},
		{"lite,speed", OptimizeSpeed},
		{"code_size,code_size", OptimizeCodeSize},
	}
	for _, tt := range tests {
		t.Run(tt.parameter, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, tt.parameter).Optimize)
		})
	}
}

func TestResolveLiteImplicitWeakFields(t *testing.T) {
	cfg := resolve(t, "lite_implicit_weak_fields")
	assert.True(t, cfg.LiteImplicitWeakFields)
	assert.Equal(t, OptimizeLite, cfg.Optimize)
	assert.Zero(t, cfg.NumSourceFiles)

	cfg = resolve(t, "lite_implicit_weak_fields=5")
	assert.True(t, cfg.LiteImplicitWeakFields)
	assert.Equal(t, 5, cfg.NumSourceFiles)
}

func TestResolveNumSourceFilesLenientParse(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"12", 12},
		{"12abc", 12},
		{"abc", 0},
		{" 7", 7},
		{"+4", 4},
		{"-3", -3},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := resolve(t, "lite_implicit_weak_fields="+tt.value)
			assert.Equal(t, tt.want, cfg.NumSourceFiles)
		})
	}
}

func TestResolveWeakFieldsThenSpeed(t *testing.T) {
	// A later profile key overrides the lite profile forced by
	// lite_implicit_weak_fields, but the weak-fields flag itself stays set.
	cfg := resolve(t, "lite_implicit_weak_fields=3,speed")
	assert.Equal(t, OptimizeSpeed, cfg.Optimize)
	assert.True(t, cfg.LiteImplicitWeakFields)
	assert.Equal(t, 3, cfg.NumSourceFiles)
}

func TestResolveRepeatedFlagIdempotent(t *testing.T) {
	assert.Equal(t, resolve(t, "proto_h"), resolve(t, "proto_h,proto_h"))
	assert.Equal(t, resolve(t, "annotate_headers"), resolve(t, "annotate_headers,annotate_headers,annotate_headers"))
}

func TestResolveUnknownKey(t *testing.T) {
	_, err := Resolve(param.Parse("nonsense"), Config{}, testUnit)
	require.EqualError(t, err, "Unknown generator option: nonsense")

	// A trailing comma produces an empty key, which is unknown like any
	// other unrecognized token.
	_, err = Resolve(param.Parse("proto_h,"), Config{}, testUnit)
	require.EqualError(t, err, "Unknown generator option: ")
}

func TestResolveRejectsWholeParameterString(t *testing.T) {
	_, err := Resolve(param.Parse("proto_h,nonsense,annotate_headers"), Config{}, testUnit)
	require.Error(t, err)
	cfg, err2 := Resolve(param.Parse("proto_h,annotate_headers"), Config{}, testUnit)
	require.NoError(t, err2)
	assert.True(t, cfg.ProtoH)
	assert.True(t, cfg.AnnotateHeaders)
}

func TestResolveTailCallMode(t *testing.T) {
	assert.Equal(t, TailCallNever, resolve(t, "experimental_tail_call_table_mode=never").TailCall)
	assert.Equal(t, TailCallAlways, resolve(t, "experimental_tail_call_table_mode=always").TailCall)
	assert.Equal(t, TailCallAlways, resolve(t, "experimental_tail_call_table_mode=never,experimental_tail_call_table_mode=always").TailCall)

	_, err := Resolve(param.Parse("experimental_tail_call_table_mode=sometimes"), Config{}, testUnit)
	require.EqualError(t, err, "Unknown value for experimental_tail_call_table_mode: sometimes")

	_, err = Resolve(param.Parse("experimental_tail_call_table_mode"), Config{}, testUnit)
	require.EqualError(t, err, "Unknown value for experimental_tail_call_table_mode: ")
}

func TestResolveSafeBoundaryCheck(t *testing.T) {
	_, err := Resolve(param.Parse("safe_boundary_check"), Config{OpensourceRuntime: true}, testUnit)
	require.EqualError(t, err, "The safe_boundary_check option is not supported outside of Google.")

	cfg, err := Resolve(param.Parse("safe_boundary_check"), Config{}, testUnit)
	require.NoError(t, err)
	assert.True(t, cfg.SafeBoundaryCheck)
}

func TestResolveListenerEventUnitFilter(t *testing.T) {
	cfg := resolve(t, "protos_for_field_listener_events=a.proto:"+testUnit+":b.proto")
	assert.True(t, cfg.InjectFieldListenerEvents)

	cfg = resolve(t, "protos_for_field_listener_events=a.proto:b.proto")
	assert.False(t, cfg.InjectFieldListenerEvents)

	// Matching is exact, not substring.
	cfg = resolve(t, "protos_for_field_listener_events=x"+testUnit)
	assert.False(t, cfg.InjectFieldListenerEvents)
}

func TestResolveForbiddenEventsAccumulate(t *testing.T) {
	cfg := resolve(t, "forbidden_field_listener_events=set+clear,forbidden_field_listener_events=clear+add")
	assert.Equal(t, []string{"add", "clear", "set"}, cfg.ForbiddenListenerEvents())

	cfg = resolve(t, "forbidden_field_listener_events=set++clear+")
	assert.Equal(t, []string{"clear", "set"}, cfg.ForbiddenListenerEvents())

	cfg = resolve(t, "")
	assert.Nil(t, cfg.ForbiddenListenerEvents())
}

func TestResolveStaticReflectionHeaderIgnored(t *testing.T) {
	assert.Equal(t, resolve(t, ""), resolve(t, "proto_static_reflection_h"))
	assert.Equal(t, resolve(t, ""), resolve(t, "proto_static_reflection_h=whatever"))
}

func TestResolveKeepsSeedFields(t *testing.T) {
	seed := Config{OpensourceRuntime: false, RuntimeIncludeBase: "third_party/"}
	cfg, err := Resolve(param.Parse("proto_h"), seed, testUnit)
	require.NoError(t, err)
	assert.Equal(t, "third_party/", cfg.RuntimeIncludeBase)
	assert.False(t, cfg.OpensourceRuntime)
}

func TestKnownTableHasUniqueKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, opt := range Known() {
		require.NotEmpty(t, opt.Key)
		require.False(t, seen[opt.Key], "duplicate option key %q", opt.Key)
		seen[opt.Key] = true
	}
	assert.Len(t, seen, 18)
}

func TestEffectiveOptimize(t *testing.T) {
	tests := []struct {
		name     string
		enforced OptimizeMode
		declared OptimizeMode
		want     OptimizeMode
	}{
		{"enforced wins", OptimizeCodeSize, OptimizeLite, OptimizeCodeSize},
		{"declared stands", OptimizeNone, OptimizeLite, OptimizeLite},
		{"default is speed", OptimizeNone, OptimizeNone, OptimizeSpeed},
		{"enforced lite", OptimizeLite, OptimizeSpeed, OptimizeLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Optimize: tt.enforced}
			assert.Equal(t, tt.want, cfg.EffectiveOptimize(tt.declared))
		})
	}
}
