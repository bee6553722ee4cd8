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

package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/batch"
	"github.com/walteh/filemill/pkg/config"
	"github.com/walteh/filemill/pkg/registry"
)

// 🎯 Operator defines the main interface for filemill operations
type Operator interface {
	// ProcessBatch resolves a processor by name, expands the request's
	// inputs, and runs the batch to completion.
	ProcessBatch(ctx context.Context, req Request) (batch.DoneEvent, error)
	// Preflight probes the external dependencies of the named
	// processors, or of every known processor when names is empty.
	Preflight(ctx context.Context, names []string) ([]Preflight, error)
}

// 📦 Request describes one batch operation.
type Request struct {
	// Processor names the processor to run.
	Processor string
	// Inputs are explicit file paths, taken as given.
	Inputs []string
	// Glob is an optional doublestar pattern; matches are filtered
	// through the processor's accepted file types.
	Glob string
	// OutputTarget is the output directory (individual) or the combined
	// file path (adjoint). Empty falls back to config, then defaults.
	OutputTarget string
	// Format selects a save format by extension or label. Empty picks
	// the processor's default.
	Format string
	// MaxWorkers caps concurrent files. Zero defers to config, then to
	// the engine's automatic sizing.
	MaxWorkers int
	// Observers receive the run's events in order.
	Observers []batch.Observer
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Registry resolves processors by name.
	Registry *registry.Registry
	// Config is the loaded tool configuration.
	Config *config.Config
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Registry == nil {
		return nil, errors.Errorf("registry is required")
	}
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	return &operator{
		registry: opts.Registry,
		config:   opts.Config,
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	registry *registry.Registry
	config   *config.Config
}

// ProcessBatch is implemented in process.go, Preflight in preflight.go.

// TODO(dr.methodical): 🔧 Plumb per-run config option overrides (--set key=value) into processors
