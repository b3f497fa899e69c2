package generate

import (
	"fmt"
	"io"

	"cppgen/internal/annotate"
	"cppgen/internal/options"
	"cppgen/internal/plan"
)

// execute writes every planned artifact in order.
func execute(p plan.Plan, cfg options.Config, emitter Emitter, sink Sink) error {
	// Collector waiting to be serialized into the next metadata artifact.
	// Plans place each metadata artifact directly after its header, so at
	// most one collector is ever pending.
	var pending *annotate.Collector

	for _, spec := range p {
		var err error
		switch spec.Role {
		case plan.RolePrimaryHeader, plan.RoleSecondaryHeader:
			pending, err = emitHeader(spec, cfg, emitter, sink)
		case plan.RoleMetadata:
			if pending == nil {
				panic(fmt.Sprintf("generate: no collector pending for %s", spec.Name))
			}
			err = writeMetadata(sink, spec.Name, pending)
			pending = nil
		case plan.RoleGlobalSource:
			err = emitInto(sink, spec.Name, emitter.EmitGlobalSource)
		case plan.RoleNumberedSource:
			err = emitNumbered(spec, emitter, sink)
		case plan.RolePlaceholder:
			err = writePlaceholder(sink, spec.Name)
		default:
			panic(fmt.Sprintf("generate: unhandled role %v for %s", spec.Role, spec.Name))
		}
		if err != nil {
			return err
		}
		log.WithField("artifact", spec.Name).Debug("artifact written")
	}
	return nil
}

// emitHeader writes one header artifact and returns the collector destined
// for its metadata artifact, nil when annotation capture is off.
func emitHeader(spec plan.Spec, cfg options.Config, emitter Emitter, sink Sink) (*annotate.Collector, error) {
	var ann *annotate.Collector
	var metaName string
	if cfg.AnnotateHeaders {
		ann = annotate.NewCollector()
		metaName = plan.MetadataName(spec.Name)
	}

	emit := emitter.EmitPrimaryHeader
	if spec.Role == plan.RoleSecondaryHeader {
		emit = emitter.EmitSecondaryHeader
	}
	err := emitInto(sink, spec.Name, func(w io.Writer) error {
		return emit(w, ann, metaName)
	})
	if err != nil {
		return nil, err
	}
	return ann, nil
}

func emitNumbered(spec plan.Spec, emitter Emitter, sink Sink) error {
	switch spec.Kind {
	case plan.ElementMessage:
		return emitInto(sink, spec.Name, func(w io.Writer) error {
			return emitter.EmitMessageSource(w, spec.Index)
		})
	case plan.ElementExtension:
		return emitInto(sink, spec.Name, func(w io.Writer) error {
			return emitter.EmitExtensionSource(w, spec.Index)
		})
	default:
		panic(fmt.Sprintf("generate: numbered artifact %s has no element kind", spec.Name))
	}
}

func writeMetadata(sink Sink, name string, ann *annotate.Collector) error {
	data, err := ann.Bytes()
	if err != nil {
		return fmt.Errorf("serialize annotations for %s: %w", name, err)
	}
	return emitInto(sink, name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// writePlaceholder produces an intentionally empty artifact. The emitter is
// not involved.
func writePlaceholder(sink Sink, name string) error {
	w, err := sink.Open(name)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close artifact %s: %w", name, err)
	}
	return nil
}

// emitInto opens name on the sink, runs emit against the stream, and closes
// the stream on every path. A close failure surfaces only when emission
// itself succeeded.
func emitInto(sink Sink, name string, emit func(io.Writer) error) error {
	w, err := sink.Open(name)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", name, err)
	}
	emitErr := emit(w)
	closeErr := w.Close()
	if emitErr != nil {
		return fmt.Errorf("emit %s: %w", name, emitErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close artifact %s: %w", name, closeErr)
	}
	return nil
}
