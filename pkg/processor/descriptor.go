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

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 💾 SaveFormat is one output format a processor can persist.
type SaveFormat struct {
	// Label is the human-readable name shown in listings (e.g. "Comma separated").
	Label string `json:"label" yaml:"label"`
	// Ext is the file extension without the leading dot (e.g. "csv").
	Ext string `json:"ext" yaml:"ext"`
}

// 🫥 IsZero reports whether the format carries no extension. A processor
// that declares no save formats hands its executor a zero format, which
// means "the processor picks".
func (f SaveFormat) IsZero() bool {
	return f.Ext == "" && f.Label == ""
}

// 📄 FileType describes one class of input file a processor accepts.
type FileType struct {
	// Label is the human-readable name (e.g. "CSV tables").
	Label string `json:"label" yaml:"label"`
	// Pattern is a doublestar glob matched against the input file name
	// (or the full path when the pattern contains a separator).
	Pattern string `json:"pattern" yaml:"pattern"`
}

// ⚙️ ConfigOption declares one tunable a processor understands.
type ConfigOption struct {
	// Type is one of "string", "int", "float", "bool".
	Type string `json:"type" yaml:"type"`
	// Default is the value used when the driver does not override.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`
	// Description explains the option in listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// 📋 Descriptor is the static metadata a processor publishes about itself.
//
// A descriptor is built once, when its processor is constructed, and is
// read-only afterwards. Callers that need to tweak a copy (tests mostly)
// go through Clone so the shared slices stay untouched.
type Descriptor struct {
	// Name uniquely identifies the processor within a registry.
	Name string `json:"name" yaml:"name"`
	// Description is a one-line summary for listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Version is a semantic version string, informational only.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Category selects the processing variant.
	Category Category `json:"category" yaml:"category"`
	// SaveFormats lists the persistable output formats, first entry is
	// the default. May be empty for processors with a fixed output shape.
	SaveFormats []SaveFormat `json:"save_formats,omitempty" yaml:"save_formats,omitempty"`
	// FileTypes lists accepted input classes. Empty means "accepts anything".
	FileTypes []FileType `json:"file_types,omitempty" yaml:"file_types,omitempty"`
	// ConfigOptions maps option name to its declaration.
	ConfigOptions map[string]ConfigOption `json:"config_options,omitempty" yaml:"config_options,omitempty"`
	// Dependencies names external executables the processor shells out to.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// Metadata carries free-form descriptive tags (author, homepage, ...).
	// The engine never interprets it.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

var validOptionTypes = map[string]bool{
	"string": true,
	"int":    true,
	"float":  true,
	"bool":   true,
}

// ✅ Validate checks the descriptor for internal consistency. It does not
// probe dependencies; MissingDependencies does that on demand.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("descriptor: name is required")
	}
	if !d.Category.Valid() {
		return errors.Errorf("descriptor %q: invalid category %d", d.Name, int(d.Category))
	}
	seen := make(map[string]bool, len(d.SaveFormats))
	for _, f := range d.SaveFormats {
		if f.Ext == "" {
			return errors.Errorf("descriptor %q: save format %q has no extension", d.Name, f.Label)
		}
		ext := strings.ToLower(f.Ext)
		if seen[ext] {
			return errors.Errorf("descriptor %q: duplicate save format extension %q", d.Name, f.Ext)
		}
		seen[ext] = true
	}
	for _, ft := range d.FileTypes {
		if ft.Pattern == "" {
			return errors.Errorf("descriptor %q: file type %q has no pattern", d.Name, ft.Label)
		}
		if !doublestar.ValidatePattern(ft.Pattern) {
			return errors.Errorf("descriptor %q: invalid file type pattern %q", d.Name, ft.Pattern)
		}
	}
	for name, opt := range d.ConfigOptions {
		if !validOptionTypes[opt.Type] {
			return errors.Errorf("descriptor %q: config option %q has unknown type %q", d.Name, name, opt.Type)
		}
	}
	return nil
}

// 🧬 Clone returns a deep copy safe to mutate.
func (d Descriptor) Clone() Descriptor {
	out := d
	if d.SaveFormats != nil {
		out.SaveFormats = make([]SaveFormat, len(d.SaveFormats))
		copy(out.SaveFormats, d.SaveFormats)
	}
	if d.FileTypes != nil {
		out.FileTypes = make([]FileType, len(d.FileTypes))
		copy(out.FileTypes, d.FileTypes)
	}
	if d.ConfigOptions != nil {
		out.ConfigOptions = make(map[string]ConfigOption, len(d.ConfigOptions))
		for k, v := range d.ConfigOptions {
			out.ConfigOptions[k] = v
		}
	}
	if d.Dependencies != nil {
		out.Dependencies = make([]string, len(d.Dependencies))
		copy(out.Dependencies, d.Dependencies)
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// 🥇 DefaultFormat returns the first declared save format, or the zero
// format when the processor declares none.
func (d Descriptor) DefaultFormat() SaveFormat {
	if len(d.SaveFormats) == 0 {
		return SaveFormat{}
	}
	return d.SaveFormats[0]
}

// 🎯 ResolveFormat maps a driver's selection to a declared format. The
// selection matches by extension first (with or without a leading dot),
// then by label, both case-insensitively. Selections the descriptor does
// not offer fall back to DefaultFormat so a run never dies on a typo'd
// format name.
func (d Descriptor) ResolveFormat(selection string) SaveFormat {
	sel := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(selection), "."))
	if sel == "" {
		return d.DefaultFormat()
	}
	for _, f := range d.SaveFormats {
		if strings.ToLower(f.Ext) == sel {
			return f
		}
	}
	for _, f := range d.SaveFormats {
		if strings.ToLower(f.Label) == sel {
			return f
		}
	}
	return d.DefaultFormat()
}

// 🔍 Accepts reports whether the descriptor's file types match the given
// input path. A descriptor with no file types accepts everything.
func (d Descriptor) Accepts(path string) bool {
	if len(d.FileTypes) == 0 {
		return true
	}
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, ft := range d.FileTypes {
		target := base
		if strings.Contains(ft.Pattern, "/") {
			target = slashed
		}
		if ok, err := doublestar.Match(ft.Pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}
