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

import "os/exec"

// 🩺 MissingDependencies probes PATH for every external executable the
// descriptor declares and returns the ones that cannot be found, in
// declaration order. An empty result means the processor is runnable.
//
// Missing dependencies are advisory: listing and describing a processor
// still works, only execution is expected to fail.
func (d Descriptor) MissingDependencies() []string {
	var missing []string
	for _, dep := range d.Dependencies {
		if dep == "" {
			continue
		}
		if _, err := exec.LookPath(dep); err != nil {
			missing = append(missing, dep)
		}
	}
	return missing
}
