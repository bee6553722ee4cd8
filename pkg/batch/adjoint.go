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

package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// 🧮 adjointExecutor fans an Adjoint processor out over the batch and
// combines the per-file values with one Gather call after the join. The
// job's output target is the path of the single combined artifact.
type adjointExecutor struct {
	proc processor.Adjoint
	desc processor.Descriptor
}

func (e *adjointExecutor) Run(ctx context.Context, job Job, observers ...Observer) (*Run, error) {
	if err := ensureFileTarget(job.OutputTarget); err != nil {
		return nil, err
	}
	format := resolveFormat(e.desc, job)

	g := newEngine(e.desc, job, observers)
	g.start(ctx, func(ctx context.Context, file string) Result {
		start := time.Now()
		value, err := e.proc.Process(ctx, file)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("file", file).Msg("file processing failed")
			return failed(file, err, time.Since(start))
		}
		return Result{
			File:     file,
			Success:  true,
			Value:    value,
			Duration: time.Since(start),
		}
	}, func(ctx context.Context, results []Result) (string, error) {
		// A canceled run skips the combine step: writing an aggregate of
		// a partial batch would look like a complete artifact.
		if err := ctx.Err(); err != nil {
			return "", &GatherError{Err: errors.Errorf("run canceled before gather: %w", err)}
		}

		values := make([]any, 0, len(results))
		for _, r := range results {
			if r.Success {
				values = append(values, r.Value)
			}
		}

		if err := e.gather(ctx, values, format, job.OutputTarget); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("output", job.OutputTarget).Msg("gather failed")
			return "", &GatherError{Err: err}
		}
		zerolog.Ctx(ctx).Debug().Str("output", job.OutputTarget).Int("values", len(values)).Msg("gathered results")
		return job.OutputTarget, nil
	})

	return g.run, nil
}

// gather shields the run from a panicking Gather implementation.
func (e *adjointExecutor) gather(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("gather panicked: %v", p)
		}
	}()
	return e.proc.Gather(ctx, values, format, outputPath)
}
