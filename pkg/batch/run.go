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

import "github.com/google/uuid"

// 🏃 Run is the handle of one in-flight batch. It is returned as soon as
// the run is admitted; the work itself proceeds on background goroutines.
type Run struct {
	id      string
	done    chan struct{}
	summary DoneEvent
}

func newRun() *Run {
	return &Run{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// 🆔 ID identifies the run in events and logs.
func (r *Run) ID() string {
	return r.id
}

// ⏳ Done returns a channel closed once the run has fully finished:
// every worker joined, gather (if any) done, every observer notified.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// 🏁 Wait blocks until the run finishes and returns its closing event.
func (r *Run) Wait() DoneEvent {
	<-r.done
	return r.summary
}

// 📊 Results blocks until the run finishes and returns the per-file
// outcomes in completion order.
func (r *Run) Results() []Result {
	<-r.done
	return r.summary.Results
}

// finish publishes the summary and releases every waiter. Called exactly
// once, by the dispatcher, after the last observer callback returned.
func (r *Run) finish(summary DoneEvent) {
	r.summary = summary
	close(r.done)
}
