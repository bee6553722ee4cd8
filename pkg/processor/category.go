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

import "strings"

// 📦 Category identifies which processing variant a processor implements.
//
// The set of categories is closed: code that switches over a Category
// handles every constant below plus a default arm for values produced by
// future versions or corrupted manifests.
type Category int

const (
	// CategoryUnknown is the zero value. Descriptors carrying it are
	// listable but cannot be executed.
	CategoryUnknown Category = iota

	// CategoryIndividual marks processors that persist one artifact per
	// input file.
	CategoryIndividual

	// CategoryAdjoint marks processors that return an intermediate value
	// per input file and combine all values in a single Gather call.
	CategoryAdjoint
)

// 🏷️ String returns the wire name of the category.
func (c Category) String() string {
	switch c {
	case CategoryIndividual:
		return "individual"
	case CategoryAdjoint:
		return "adjoint"
	case CategoryUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// 🔍 ParseCategory maps a wire name to a Category. Unrecognized names map
// to CategoryUnknown rather than an error so a manifest written by a newer
// plugin still loads and lists.
func ParseCategory(s string) Category {
	switch s {
	case "individual":
		return CategoryIndividual
	case "adjoint":
		return CategoryAdjoint
	default:
		return CategoryUnknown
	}
}

// ✅ Valid reports whether c is one of the declared constants.
func (c Category) Valid() bool {
	switch c {
	case CategoryUnknown, CategoryIndividual, CategoryAdjoint:
		return true
	default:
		return false
	}
}

// MarshalJSON writes the category as its wire name.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON reads a wire name, tolerating unknown values.
func (c *Category) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*c = ParseCategory(s)
	return nil
}

// MarshalYAML writes the category as its wire name.
func (c Category) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML reads a wire name, tolerating unknown values.
func (c *Category) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}
