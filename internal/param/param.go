// Package param tokenizes the free-form parameter string a code-generation
// request carries: comma-delimited segments, each a bare key or a key=value
// pair.
package param

import "strings"

// Param is a single parsed segment. Bare keys have an empty Value.
type Param struct {
	Key   string
	Value string
}

// Parse splits s into its ordered segments. Within a segment only the first
// '=' separates key from value, so values may themselves contain '='.
// Parsing is purely lexical: duplicate keys are kept in order and empty
// segments (from a trailing or doubled comma) surface as empty keys, leaving
// all validation to the resolver. An empty input yields nil.
func Parse(s string) []Param {
	if s == "" {
		return nil
	}
	segments := strings.Split(s, ",")
	params := make([]Param, 0, len(segments))
	for _, seg := range segments {
		key, value, _ := strings.Cut(seg, "=")
		params = append(params, Param{Key: key, Value: value})
	}
	return params
}

// Join is the inverse of Parse for well-formed segments: it reassembles
// params into a single parameter string.
func Join(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		if p.Value != "" {
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
	}
	return b.String()
}
