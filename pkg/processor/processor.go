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

package processor

import "context"

// 🎯 Processor is the surface every transformation shares: access to its
// static descriptor. The executable behavior lives on the variant
// interfaces below; drivers type-assert to the one the descriptor's
// Category promises.
type Processor interface {
	// Describe returns the processor's metadata. The returned value and
	// everything it references are read-only; callers that need to mutate
	// use Descriptor.Clone.
	Describe() Descriptor
}

// 📄 Individual processes each input file into its own persisted artifact.
//
// Process is called once per input file, possibly from several goroutines
// at once within a single run. Implementations must not share mutable
// per-call state.
type Individual interface {
	Processor

	// Process transforms file and persists the result under outputDir
	// using the given save format. It returns the path of the artifact it
	// wrote. The zero SaveFormat means the processor picks its default.
	Process(ctx context.Context, file string, outputDir string, format SaveFormat) (string, error)
}

// 🧮 Adjoint processes each input file into an intermediate value and
// combines all values into one artifact at the end of the run.
//
// Process carries no output location: an adjoint processor persists
// nothing per file. The combined artifact's destination arrives as an
// explicit parameter of Gather, so the same instance can serve
// back-to-back runs with different targets.
type Adjoint interface {
	Processor

	// Process transforms file into an intermediate value. Like the
	// individual variant it may be called concurrently within a run.
	Process(ctx context.Context, file string) (any, error)

	// Gather combines the intermediate values of every successful Process
	// call into a single artifact at outputPath. values arrive in file
	// completion order; implementations that need a stable order sort
	// internally. Gather is called exactly once per run, after every
	// Process call has returned, and never concurrently with Process.
	Gather(ctx context.Context, values []any, format SaveFormat, outputPath string) error
}
