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
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/filemill/pkg/processor"
)

// 🎯 Executor runs batches for one processor. Implementations are safe
// to reuse for consecutive runs; overlapping runs on one executor are
// not supported.
type Executor interface {
	// Run admits a batch and returns its handle. It fails synchronously
	// when the job cannot start at all, most notably an output target of
	// the wrong shape; everything that goes wrong per file after
	// admission is reported as a Result, never as an error here.
	Run(ctx context.Context, job Job, observers ...Observer) (*Run, error)
}

// engine is the machinery shared by both executor variants: the worker
// pool, the event queue, and the dispatcher that feeds observers.
type engine struct {
	desc processor.Descriptor
	job  Job
	obs  Observer
	run  *Run

	// events is buffered to hold the entire stream, so producers never
	// block on a slow observer.
	events chan Event

	results []Result
}

func newEngine(desc processor.Descriptor, job Job, observers []Observer) *engine {
	var obs Observer = MultiObserver(observers)
	if len(observers) == 0 {
		obs = NopObserver{}
	}
	return &engine{
		desc:    desc,
		job:     job,
		obs:     obs,
		run:     newRun(),
		events:  make(chan Event, len(job.Files)+2),
		results: make([]Result, 0, len(job.Files)),
	}
}

// start launches the dispatcher and the worker pool and returns
// immediately. work produces one Result per file; finish runs after the
// full join and returns the combined artifact path and error of an
// adjoint gather step, or zeros for individual runs.
func (g *engine) start(
	ctx context.Context,
	work func(ctx context.Context, file string) Result,
	finish func(ctx context.Context, results []Result) (string, error),
) {
	log := zerolog.Ctx(ctx)
	startedAt := time.Now()
	workers := g.job.workers()

	g.events <- StartEvent{
		RunID:     g.run.ID(),
		Processor: g.desc.Name,
		Files:     g.job.Files,
		Workers:   workers,
		StartedAt: startedAt,
	}

	go g.dispatch()

	go func() {
		log.Info().
			Str("run_id", g.run.ID()).
			Str("processor", g.desc.Name).
			Int("files", len(g.job.Files)).
			Int("workers", workers).
			Msg("starting batch run")

		pool, poolCtx := errgroup.WithContext(ctx)
		pool.SetLimit(workers)

		var mu sync.Mutex
		for _, file := range g.job.Files {
			file := file
			pool.Go(func() error {
				res := g.oneFile(poolCtx, file, work)

				// Appending and emitting under one lock keeps the event
				// order identical to the results order.
				mu.Lock()
				g.results = append(g.results, res)
				seq := len(g.results)
				g.events <- FileEvent{
					RunID:  g.run.ID(),
					Result: res,
					Seq:    seq,
					Total:  len(g.job.Files),
				}
				mu.Unlock()

				return nil
			})
		}
		_ = pool.Wait()

		var artifact string
		var gatherErr error
		if finish != nil {
			artifact, gatherErr = finish(ctx, g.results)
		}

		done := DoneEvent{
			RunID:     g.run.ID(),
			Results:   g.results,
			Artifact:  artifact,
			GatherErr: gatherErr,
			Elapsed:   time.Since(startedAt),
		}
		log.Info().
			Str("run_id", g.run.ID()).
			Int("succeeded", done.Succeeded()).
			Int("failed", done.Failed()).
			Dur("elapsed", done.Elapsed).
			Msg("batch run finished")

		g.events <- done
		close(g.events)
	}()
}

// oneFile runs work for a single file, turning panics and pre-canceled
// contexts into failed results so the batch always accounts for every
// admitted file.
func (g *engine) oneFile(ctx context.Context, file string, work func(context.Context, string) Result) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = failed(file, errors.Errorf("processor panicked: %v", p), time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failed(file, errors.Errorf("run canceled: %w", err), time.Since(start))
	}
	return work(ctx, file)
}

// dispatch feeds observers from the event queue, one callback at a time,
// and completes the run handle after the closing event.
func (g *engine) dispatch() {
	var summary DoneEvent
	for e := range g.events {
		switch e := e.(type) {
		case StartEvent:
			g.obs.OnStart(e)
		case FileEvent:
			g.obs.OnFileComplete(e)
		case DoneEvent:
			g.obs.OnComplete(e)
			summary = e
		}
	}
	g.run.finish(summary)
}

// resolveFormat applies the descriptor's default when the job leaves the
// format unset.
func resolveFormat(desc processor.Descriptor, job Job) processor.SaveFormat {
	if job.Format.IsZero() {
		return desc.DefaultFormat()
	}
	return job.Format
}

// ensureDirTarget validates and prepares the output directory of an
// individual run.
func ensureDirTarget(target string) error {
	if target == "" {
		return errors.Errorf("%w: output directory required", ErrInvalidOutputTarget)
	}
	info, err := os.Stat(target)
	switch {
	case err == nil:
		if !info.IsDir() {
			return errors.Errorf("%w: %s exists and is not a directory", ErrInvalidOutputTarget, target)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(target, 0o755); err != nil {
			return errors.Errorf("creating output directory: %w", err)
		}
		return nil
	default:
		return errors.Errorf("checking output directory %s: %w", target, err)
	}
}

// ensureFileTarget validates and prepares the combined output path of an
// adjoint run, creating parent directories as needed.
func ensureFileTarget(target string) error {
	if target == "" {
		return errors.Errorf("%w: output path required", ErrInvalidOutputTarget)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return errors.Errorf("%w: %s is a directory, need a file path", ErrInvalidOutputTarget, target)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Errorf("creating output parent directory: %w", err)
		}
	}
	return nil
}
