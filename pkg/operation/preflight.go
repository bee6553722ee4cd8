package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// 🩺 Preflight is one processor's dependency probe.
type Preflight struct {
	// Name is the processor name.
	Name string `json:"name"`
	// Dependencies is every external tool the processor declares.
	Dependencies []string `json:"dependencies,omitempty"`
	// Missing is the subset of Dependencies not found on PATH.
	Missing []string `json:"missing,omitempty"`
}

// OK reports whether every declared dependency resolved.
func (p Preflight) OK() bool {
	return len(p.Missing) == 0
}

// Preflight implements Operator.Preflight
func (o *operator) Preflight(ctx context.Context, names []string) ([]Preflight, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Strs("processors", names).Msg("running preflight checks")

	procs, err := o.selectProcessors(names)
	if err != nil {
		return nil, err
	}

	out := make([]Preflight, 0, len(procs))
	for _, proc := range procs {
		desc := proc.Describe()
		out = append(out, Preflight{
			Name:         desc.Name,
			Dependencies: desc.Dependencies,
			Missing:      desc.MissingDependencies(),
		})
	}
	return out, nil
}

// selectProcessors resolves the named processors, or every known one
// when no names are given.
func (o *operator) selectProcessors(names []string) ([]processor.Processor, error) {
	if len(names) == 0 {
		return o.registry.Processors(), nil
	}
	procs := make([]processor.Processor, 0, len(names))
	for _, name := range names {
		proc, err := o.registry.ProcessorByName(name)
		if err != nil {
			return nil, errors.Errorf("resolving processor: %w", err)
		}
		procs = append(procs, proc)
	}
	return procs, nil
}
