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

import "time"

// 📨 Event is one entry in a run's lifecycle stream. The set of events
// is closed: StartEvent, FileEvent, DoneEvent. Code that switches over
// an Event handles those three and nothing else.
type Event interface {
	isEvent()
}

// 🚀 StartEvent opens the stream, before any worker begins.
type StartEvent struct {
	// RunID identifies the run across events and logs.
	RunID string
	// Processor is the name of the processor being run.
	Processor string
	// Files is the full input list, in job order.
	Files []string
	// Workers is the effective parallelism bound.
	Workers int
	// StartedAt is when the run began.
	StartedAt time.Time
}

// 📄 FileEvent reports one finished file. Events arrive in completion
// order, which is also the order of DoneEvent.Results.
type FileEvent struct {
	RunID  string
	Result Result
	// Seq counts completions, 1-based.
	Seq int
	// Total is the number of files in the run.
	Total int
}

// 🏁 DoneEvent closes the stream after every worker joined and, for
// adjoint runs, after the combine step ran.
type DoneEvent struct {
	RunID string
	// Results holds every file outcome in completion order.
	Results []Result
	// Artifact is the combined output path of a successful adjoint run.
	// Individual runs leave it empty; their artifacts live on Results.
	Artifact string
	// GatherErr is non-nil when the adjoint combine step failed or was
	// skipped due to cancellation. Always nil for individual runs.
	GatherErr error
	// Elapsed is the wall-clock duration of the whole run.
	Elapsed time.Duration
}

func (StartEvent) isEvent() {}
func (FileEvent) isEvent()  {}
func (DoneEvent) isEvent()  {}

// Succeeded counts the successful results.
func (e DoneEvent) Succeeded() int {
	n := 0
	for _, r := range e.Results {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed counts the failed results.
func (e DoneEvent) Failed() int {
	return len(e.Results) - e.Succeeded()
}

// 👀 Observer receives a run's events. Callbacks are serialized by a
// single dispatcher goroutine and always arrive in stream order, so
// implementations are free of locking concerns. A slow observer slows
// reporting, never the workers.
type Observer interface {
	OnStart(e StartEvent)
	OnFileComplete(e FileEvent)
	OnComplete(e DoneEvent)
}

// 🔇 NopObserver ignores every event. Embed it to implement only the
// callbacks you care about.
type NopObserver struct{}

func (NopObserver) OnStart(StartEvent)       {}
func (NopObserver) OnFileComplete(FileEvent) {}
func (NopObserver) OnComplete(DoneEvent)     {}

// 📢 MultiObserver fans one event stream out to several observers, in
// slice order.
type MultiObserver []Observer

func (m MultiObserver) OnStart(e StartEvent) {
	for _, o := range m {
		o.OnStart(e)
	}
}

func (m MultiObserver) OnFileComplete(e FileEvent) {
	for _, o := range m {
		o.OnFileComplete(e)
	}
}

func (m MultiObserver) OnComplete(e DoneEvent) {
	for _, o := range m {
		o.OnComplete(e)
	}
}
