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

	"github.com/walteh/filemill/pkg/processor"
)

// 📄 individualExecutor fans an Individual processor out over the batch.
// Every file yields its own artifact under the job's output directory.
type individualExecutor struct {
	proc processor.Individual
	desc processor.Descriptor
}

func (e *individualExecutor) Run(ctx context.Context, job Job, observers ...Observer) (*Run, error) {
	if err := ensureDirTarget(job.OutputTarget); err != nil {
		return nil, err
	}
	format := resolveFormat(e.desc, job)

	g := newEngine(e.desc, job, observers)
	g.start(ctx, func(ctx context.Context, file string) Result {
		start := time.Now()
		artifact, err := e.proc.Process(ctx, file, job.OutputTarget, format)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("file", file).Msg("file processing failed")
			return failed(file, err, time.Since(start))
		}
		zerolog.Ctx(ctx).Debug().Str("file", file).Str("artifact", artifact).Msg("file processed")
		return Result{
			File:     file,
			Success:  true,
			Artifact: artifact,
			Duration: time.Since(start),
		}
	}, nil)

	return g.run, nil
}
