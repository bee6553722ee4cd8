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

package plugin

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// ErrLoad marks any failure to turn a candidate executable into a
// processor. Callers match it with errors.Is and move on to the next
// candidate.
var ErrLoad = errors.New("plugin load failed")

// describeTimeout bounds the manifest probe. A plugin that cannot print
// its manifest in this window is treated as broken.
const describeTimeout = 10 * time.Second

// maxManifestBytes caps how much describe output is kept. A manifest is
// a few kilobytes; a candidate flooding stdout is broken by definition.
const maxManifestBytes = 1 << 20

// 🔌 Load probes the executable at path with the `describe` subcommand,
// validates the manifest it prints, and wraps the binary as a processor
// of the declared category.
//
// A manifest declaring CategoryUnknown loads into a descriptor-only
// processor: it lists and describes, but implements neither execution
// interface.
func Load(ctx context.Context, path string) (processor.Processor, error) {
	m, err := probe(ctx, path)
	if err != nil {
		return nil, err
	}

	desc := m.Descriptor()
	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("name", desc.Name).
		Str("category", desc.Category.String()).
		Msg("loaded plugin")

	base := command{path: path, desc: desc}
	switch desc.Category {
	case processor.CategoryIndividual:
		return &commandIndividual{command: base}, nil
	case processor.CategoryAdjoint:
		return &commandAdjoint{command: base}, nil
	default:
		return &base, nil
	}
}

// probe runs `<path> describe` and parses the manifest it prints.
func probe(ctx context.Context, path string) (Manifest, error) {
	ctx, cancel := context.WithTimeout(ctx, describeTimeout)
	defer cancel()

	var stdout cappedBuffer
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "describe")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Manifest{}, errors.Errorf("%w: describing %s: %w (stderr: %s)",
			ErrLoad, path, err, tail(stderr.Bytes()))
	}
	if stdout.overflow {
		return Manifest{}, errors.Errorf("%w: describing %s: manifest output exceeds %d bytes",
			ErrLoad, path, maxManifestBytes)
	}

	m, err := ParseManifest(stdout.buf.Bytes())
	if err != nil {
		return Manifest{}, errors.Errorf("describing %s: %w", path, err)
	}
	return m, nil
}

// cappedBuffer keeps the first maxManifestBytes bytes written and drops
// the rest, remembering that it did. Write never reports a short write,
// so the child process keeps draining without error.
type cappedBuffer struct {
	buf      bytes.Buffer
	overflow bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if room := maxManifestBytes - b.buf.Len(); len(p) > room {
		b.overflow = true
		p = p[:room]
	}
	b.buf.Write(p)
	return n, nil
}

// tail trims captured stderr to a single readable line for error text.
func tail(b []byte) string {
	const max = 256
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "<empty>"
	}
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = bytes.TrimSpace(b[i+1:])
	}
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
