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

package registry

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/plugin"
	"github.com/walteh/filemill/pkg/processor"
)

// 🔍 Discover scans dir for plugin executables and swaps them in as the
// registry's external set. Candidates that fail to load are logged and
// skipped; the scan always covers the whole directory.
//
// A missing directory discovers nothing and is not an error, so a fresh
// install without a plugin directory still runs its builtins. Entries
// whose name starts with "_" or "." and entries without an executable
// bit are ignored.
func (r *Registry) Discover(ctx context.Context, dir string) error {
	log := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("dir", dir).Msg("plugin directory does not exist")
			r.setExternal(ctx, nil)
			return nil
		}
		return errors.Errorf("reading plugin directory %s: %w", dir, err)
	}

	candidates := 0
	found := make(map[string]processor.Processor)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Str("entry", name).Msg("skipping unreadable plugin candidate")
			continue
		}
		if info.Mode()&0o111 == 0 {
			log.Debug().Str("entry", name).Msg("skipping non-executable file")
			continue
		}

		candidates++
		path := filepath.Join(dir, name)
		proc, err := plugin.Load(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping plugin")
			continue
		}

		desc := proc.Describe()
		if _, dup := found[desc.Name]; dup {
			// ReadDir is sorted, so "first file wins" is deterministic.
			log.Warn().Str("name", desc.Name).Str("path", path).Msg("duplicate plugin name, keeping first")
			continue
		}
		found[desc.Name] = proc
	}

	r.setExternal(ctx, found)
	log.Info().
		Str("dir", dir).
		Int("candidates", candidates).
		Int("loaded", len(found)).
		Msg("plugin discovery finished")
	return nil
}

// setExternal replaces the discovered set, warning about any builtin the
// new set shadows.
func (r *Registry) setExternal(ctx context.Context, found map[string]processor.Processor) {
	if found == nil {
		found = make(map[string]processor.Processor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range found {
		if _, ok := r.builtin[name]; ok {
			zerolog.Ctx(ctx).Warn().Str("name", name).Msg("discovered plugin shadows builtin processor")
		}
	}
	r.external = found
}
