package options

// Separator comment lines used between sections of generated files.
const (
	ThickSeparator = "// ===================================================================\n"
	ThinSeparator  = "// -------------------------------------------------------------------\n"
)

// ProtobufNamespace returns the C++ namespace of the runtime the generated
// code links against.
func ProtobufNamespace(c Config) string {
	if c.OpensourceRuntime {
		return "google::protobuf"
	}
	return "proto2"
}

// MacroPrefix returns the prefix of the preprocessor macros the generated
// code references.
func MacroPrefix(c Config) string {
	if c.OpensourceRuntime {
		return "GOOGLE_PROTOBUF"
	}
	return "GOOGLE3_PROTOBUF"
}

// CommonVars builds the substitution variables shared by every artifact of a
// request. It is a pure function of the configuration and returns a fresh
// map on every call, so callers may extend the result without affecting
// later requests.
func CommonVars(c Config) map[string]string {
	ns := ProtobufNamespace(c)
	return map[string]string{
		"proto_ns": ns,
		"pb":       "::" + ns,
		"pbi":      "::" + ns + "::internal",

		"string": "std::string",
		"int8":   "::int8_t",
		"int32":  "::int32_t",
		"int64":  "::int64_t",
		"uint8":  "::uint8_t",
		"uint32": "::uint32_t",
		"uint64": "::uint64_t",

		"hrule_thick": ThickSeparator,
		"hrule_thin":  ThinSeparator,

		"GOOGLE_PROTOBUF": MacroPrefix(c),
		"CHK":             "ABSL_CHECK",
		"DCHK":            "ABSL_DCHECK",
	}
}
