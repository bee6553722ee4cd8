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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/batch"
	"github.com/walteh/filemill/pkg/processor"
)

// DefaultOutputDir is where individual artifacts land when neither the
// request nor the config names a target.
const DefaultOutputDir = "results"

// ProcessBatch implements Operator.ProcessBatch
func (o *operator) ProcessBatch(ctx context.Context, req Request) (batch.DoneEvent, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("processor", req.Processor).Msg("starting batch operation")

	// Resolve the processor
	proc, err := o.registry.ProcessorByName(req.Processor)
	if err != nil {
		return batch.DoneEvent{}, errors.Errorf("resolving processor: %w", err)
	}
	desc := proc.Describe()

	// A processor that shells out to a missing tool would fail every
	// file; refuse the run up front with a message naming the tools.
	if missing := desc.MissingDependencies(); len(missing) > 0 {
		return batch.DoneEvent{}, errors.Errorf("processor %q requires missing tools: %s",
			desc.Name, strings.Join(missing, ", "))
	}

	// Collect inputs
	files, err := CollectInputs(req.Inputs, req.Glob, desc)
	if err != nil {
		return batch.DoneEvent{}, err
	}
	if len(files) == 0 {
		return batch.DoneEvent{}, errors.Errorf("no input files selected")
	}

	// Resolve the output target
	target, err := o.resolveTarget(req.OutputTarget, desc)
	if err != nil {
		return batch.DoneEvent{}, err
	}

	workers := req.MaxWorkers
	if workers <= 0 {
		workers = o.config.MaxWorkers
	}

	// Build the executor and run to completion
	exec, err := batch.New(proc)
	if err != nil {
		return batch.DoneEvent{}, errors.Errorf("building executor: %w", err)
	}

	run, err := exec.Run(ctx, batch.Job{
		Files:        files,
		OutputTarget: target,
		MaxWorkers:   workers,
		Format:       desc.ResolveFormat(req.Format),
	}, req.Observers...)
	if err != nil {
		return batch.DoneEvent{}, errors.Errorf("starting run: %w", err)
	}

	done := run.Wait()
	logger.Debug().
		Str("run_id", done.RunID).
		Int("succeeded", done.Succeeded()).
		Int("failed", done.Failed()).
		Msg("batch operation finished")
	return done, nil
}

// resolveTarget picks the output target: request, then config, then the
// category default. Adjoint runs have no default: the combined artifact
// path must be explicit.
func (o *operator) resolveTarget(requested string, desc processor.Descriptor) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if o.config.Output != "" {
		return o.config.Output, nil
	}
	if desc.Category == processor.CategoryAdjoint {
		return "", errors.Errorf("adjoint processor %q needs an explicit output file path", desc.Name)
	}
	return DefaultOutputDir, nil
}
