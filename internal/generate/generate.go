// Package generate runs code-generation requests: it resolves the parameter
// string into a configuration, plans the output artifact set, and executes
// the plan against a sink by driving an emitter.
package generate

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"cppgen/internal/annotate"
	"cppgen/internal/logging"
	"cppgen/internal/options"
	"cppgen/internal/param"
	"cppgen/internal/plan"
)

var log = logging.NewLogger("generate")

// Sink is the artifact namespace a request writes into. Names are
// slash-separated and relative to the sink root. Requests write each
// artifact exactly once and never read one back.
type Sink interface {
	// Open starts the artifact with the given name. The returned stream is
	// closed before the next artifact is opened.
	Open(name string) (io.WriteCloser, error)
}

// Emitter produces the generated text of one schema unit. The front end
// addresses elements by declaration index and never inspects the schema
// itself.
//
// Header operations receive the collector to fill with position annotations
// and the name of the paired metadata artifact; both are zero when
// annotation capture is off.
type Emitter interface {
	MessageCount() int
	ExtensionCount() int

	EmitPrimaryHeader(w io.Writer, ann *annotate.Collector, metaName string) error
	EmitSecondaryHeader(w io.Writer, ann *annotate.Collector, metaName string) error
	EmitGlobalSource(w io.Writer) error
	EmitMessageSource(w io.Writer, index int) error
	EmitExtensionSource(w io.Writer, index int) error
}

// Unit identifies the schema unit a request covers.
type Unit struct {
	// Name is the schema file name, e.g. "news/article.proto". Artifact
	// names derive from it.
	Name string
	// DeclaredOptimize is the optimization profile the unit declares in its
	// own schema options, before any parameter enforcement.
	DeclaredOptimize options.OptimizeMode
}

// Generator runs generation requests against a deployment. NewEmitter must
// be set; the zero value of the other fields targets the internal runtime.
type Generator struct {
	// OpensourceRuntime and RuntimeIncludeBase seed every resolved
	// configuration.
	OpensourceRuntime  bool
	RuntimeIncludeBase string
	// NewEmitter builds the emitter for a unit once its configuration is
	// resolved.
	NewEmitter func(unit Unit, cfg options.Config) (Emitter, error)
}

// Generate runs one request. No artifact is opened unless the parameter
// string resolves cleanly; artifacts written before a later failure are left
// in place for the caller to discard.
func (g *Generator) Generate(unit Unit, parameter string, sink Sink) error {
	seed := options.Config{
		OpensourceRuntime:  g.OpensourceRuntime,
		RuntimeIncludeBase: g.RuntimeIncludeBase,
	}
	cfg, err := options.Resolve(param.Parse(parameter), seed, unit.Name)
	if err != nil {
		return err
	}

	emitter, err := g.NewEmitter(unit, cfg)
	if err != nil {
		return fmt.Errorf("build emitter for %s: %w", unit.Name, err)
	}

	split := cfg.LiteImplicitWeakFields &&
		cfg.EffectiveOptimize(unit.DeclaredOptimize) == options.OptimizeLite
	counts := plan.Counts{
		Messages:   emitter.MessageCount(),
		Extensions: emitter.ExtensionCount(),
	}
	p := plan.Build(plan.BaseName(unit.Name), cfg, counts, split)

	log.WithFields(logrus.Fields{
		"unit":      unit.Name,
		"artifacts": len(p),
		"split":     split,
	}).Debug("executing output plan")

	return execute(p, cfg, emitter, sink)
}
