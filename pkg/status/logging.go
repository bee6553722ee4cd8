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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/walteh/filemill/pkg/batch"
)

// 📝 Logger is the observer for non-interactive runs: pure structured
// zerolog output, no terminal rendering.
type Logger struct {
	log zerolog.Logger
}

// NewLogger creates a logging observer from the context's logger.
func NewLogger(ctx context.Context) *Logger {
	return &Logger{log: *zerolog.Ctx(ctx)}
}

func (l *Logger) OnStart(e batch.StartEvent) {
	l.log.Info().
		Str("run_id", e.RunID).
		Str("processor", e.Processor).
		Int("files", len(e.Files)).
		Int("workers", e.Workers).
		Msg("batch started")
}

func (l *Logger) OnFileComplete(e batch.FileEvent) {
	if e.Result.Success {
		l.log.Info().
			Str("run_id", e.RunID).
			Str("file", e.Result.File).
			Str("artifact", e.Result.Artifact).
			Dur("duration", e.Result.Duration).
			Int("seq", e.Seq).
			Int("total", e.Total).
			Msg("file processed")
		return
	}
	l.log.Warn().
		Str("run_id", e.RunID).
		Str("file", e.Result.File).
		Str("reason", e.Result.Message).
		Int("seq", e.Seq).
		Int("total", e.Total).
		Msg("file failed")
}

func (l *Logger) OnComplete(e batch.DoneEvent) {
	ev := l.log.Info()
	if e.GatherErr != nil {
		ev = l.log.Error().Err(e.GatherErr)
	}
	ev.Str("run_id", e.RunID).
		Int("succeeded", e.Succeeded()).
		Int("failed", e.Failed()).
		Dur("elapsed", e.Elapsed).
		Str("artifact", e.Artifact).
		Msg("batch finished")
}

// 📥 Collector stores a run's events for later inspection. It is handy
// for machine-readable output and for tests. Unlike the other observers
// it guards itself with a mutex, because Summary and Events may be read
// from a different goroutine than the dispatcher that feeds it.
type Collector struct {
	mu      sync.Mutex
	events  []batch.Event
	summary batch.DoneEvent
	done    bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) OnStart(e batch.StartEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *Collector) OnFileComplete(e batch.FileEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *Collector) OnComplete(e batch.DoneEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	c.summary = e
	c.done = true
}

// Events returns the events observed so far, in stream order.
func (c *Collector) Events() []batch.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]batch.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Summary returns the closing event and whether the run has completed.
func (c *Collector) Summary() (batch.DoneEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary, c.done
}
