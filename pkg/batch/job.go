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
	"runtime"
	"time"

	"github.com/walteh/filemill/pkg/processor"
)

// 📋 Job describes one batch run.
type Job struct {
	// Files are the inputs, processed in no particular order. An empty
	// list is legal: the run starts and completes without file events.
	Files []string

	// OutputTarget is where artifacts land. Individual runs treat it as
	// a directory (created if missing); adjoint runs treat it as the
	// path of the single combined artifact.
	OutputTarget string

	// MaxWorkers bounds concurrent Process calls. Zero or negative picks
	// a default sized to the machine.
	MaxWorkers int

	// Format is the resolved save format. The zero value lets the
	// processor's default format apply.
	Format processor.SaveFormat
}

// workers returns the effective parallelism: never more than the file
// count, never less than one.
func (j Job) workers() int {
	n := j.MaxWorkers
	if n <= 0 {
		n = defaultWorkers()
	}
	if len(j.Files) > 0 && n > len(j.Files) {
		n = len(j.Files)
	}
	if n < 1 {
		n = 1
	}
	return n
}

func defaultWorkers() int {
	return runtime.NumCPU()
}

// 📊 Result is the outcome of one input file.
type Result struct {
	// File is the input path this result belongs to.
	File string `json:"file"`
	// Success is false when the file failed; the batch continued anyway.
	Success bool `json:"success"`
	// Message holds the failure description when Success is false.
	Message string `json:"message,omitempty"`
	// Artifact is the path written for this file (individual runs only).
	Artifact string `json:"artifact,omitempty"`
	// Value is the intermediate value produced for this file (adjoint
	// runs only). It is what Gather later receives.
	Value any `json:"value,omitempty"`
	// Duration is how long the file took to process.
	Duration time.Duration `json:"duration,omitempty"`
}

// failed builds the Result for a file whose processing returned err.
func failed(file string, err error, took time.Duration) Result {
	return Result{
		File:     file,
		Success:  false,
		Message:  err.Error(),
		Duration: took,
	}
}
