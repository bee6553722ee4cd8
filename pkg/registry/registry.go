// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// 🏭 Factory creates a new processor instance.
type Factory func(ctx context.Context) (processor.Processor, error)

var (
	factoriesMu sync.Mutex
	// 🗺️ factories maps builtin processor names to factories
	factories = make(map[string]Factory)
)

// 📝 Register records a builtin processor factory. Builtin packages call
// it from init(); registering the same name twice panics because it is
// always a programming error.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[name]; dup {
		panic("registry: duplicate builtin registration for " + name)
	}
	factories[name] = factory
}

// ErrNotFound is returned when no processor carries the requested name.
var ErrNotFound = errors.New("processor not found")

// 📦 Registry resolves processors by name and category. It is safe for
// concurrent use.
type Registry struct {
	mu sync.RWMutex

	// builtin survives re-discovery; external is replaced wholesale by
	// each Discover call. External entries shadow builtins on collision.
	builtin  map[string]processor.Processor
	external map[string]processor.Processor
}

// 🆕 New instantiates every registered builtin factory. A factory that
// fails is skipped with a warning so one bad builtin cannot block the
// rest; this mirrors how Discover isolates broken plugins.
func New(ctx context.Context) *Registry {
	r := &Registry{
		builtin:  make(map[string]processor.Processor),
		external: make(map[string]processor.Processor),
	}

	factoriesMu.Lock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	snapshot := make(map[string]Factory, len(factories))
	for name, f := range factories {
		snapshot[name] = f
	}
	factoriesMu.Unlock()

	for _, name := range names {
		proc, err := snapshot[name](ctx)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("name", name).Msg("skipping builtin processor")
			continue
		}
		if err := r.Add(proc); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("name", name).Msg("skipping builtin processor")
		}
	}
	return r
}

// ➕ Add places a processor in the builtin set after validating its
// descriptor. It is the hook tests and embedders use to seed a registry
// without going through init-time registration.
func (r *Registry) Add(proc processor.Processor) error {
	desc := proc.Describe()
	if err := desc.Validate(); err != nil {
		return errors.Errorf("adding processor: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtin[desc.Name] = proc
	return nil
}

// 🎯 ProcessorByName resolves a processor. Discovered plugins shadow
// builtins of the same name.
func (r *Registry) ProcessorByName(name string) (processor.Processor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.external[name]; ok {
		return p, nil
	}
	if p, ok := r.builtin[name]; ok {
		return p, nil
	}
	return nil, errors.Errorf("%w: %q", ErrNotFound, name)
}

// 📋 Processors returns every resolvable processor sorted by name.
func (r *Registry) Processors() []processor.Processor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.merged()
}

// 🔍 ProcessorsByCategory returns the processors of one category, sorted
// by name. Asking for CategoryUnknown returns the listable-but-inert
// entries.
func (r *Registry) ProcessorsByCategory(cat processor.Category) []processor.Processor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []processor.Processor
	for _, p := range r.merged() {
		if p.Describe().Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// 🏷️ Names returns the sorted names of every resolvable processor.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	procs := r.merged()
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		names = append(names, p.Describe().Name)
	}
	return names
}

// merged flattens builtin and external sets, externals shadowing, sorted
// by name. Callers hold at least a read lock.
func (r *Registry) merged() []processor.Processor {
	seen := make(map[string]processor.Processor, len(r.builtin)+len(r.external))
	for name, p := range r.builtin {
		seen[name] = p
	}
	for name, p := range r.external {
		seen[name] = p
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]processor.Processor, 0, len(names))
	for _, name := range names {
		out = append(out, seen[name])
	}
	return out
}
