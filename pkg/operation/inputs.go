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

package operation

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// 🔍 CollectInputs merges explicit paths with glob expansion. Explicit
// paths are taken as given; glob matches are filtered through the
// descriptor's accepted file types and directories are dropped. The
// result is de-duplicated with explicit paths first, glob matches in
// the order the glob produced them.
func CollectInputs(inputs []string, glob string, desc processor.Descriptor) ([]string, error) {
	files := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, f := range inputs {
		if seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}

	if glob == "" {
		return files, nil
	}

	matches, err := doublestar.FilepathGlob(glob)
	if err != nil {
		return nil, errors.Errorf("expanding glob %q: %w", glob, err)
	}
	for _, m := range matches {
		if seen[m] || !desc.Accepts(m) {
			continue
		}
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			continue
		}
		seen[m] = true
		files = append(files, m)
	}
	return files, nil
}
