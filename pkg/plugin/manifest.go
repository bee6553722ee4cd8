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
	"encoding/json"
	"reflect"
	"regexp"
	"sync"

	"github.com/Masterminds/semver/v3"
	invopop "github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// ProtocolVersion is the manifest protocol this build of filemill speaks.
// A plugin declaring a different version is rejected at load time.
const ProtocolVersion = 1

// 📜 Manifest is what a plugin's `describe` subcommand prints: the
// processor descriptor plus the protocol version the binary speaks.
type Manifest struct {
	// Protocol must equal ProtocolVersion.
	Protocol int `json:"protocol"`
	// Name uniquely identifies the processor. Lowercase letters, digits,
	// dots, dashes and underscores, starting with a letter or digit.
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Version is a semantic version string.
	Version  string             `json:"version,omitempty"`
	Category processor.Category `json:"category"`

	SaveFormats   []processor.SaveFormat            `json:"save_formats,omitempty"`
	FileTypes     []processor.FileType              `json:"file_types,omitempty"`
	ConfigOptions map[string]processor.ConfigOption `json:"config_options,omitempty"`
	Dependencies  []string                          `json:"dependencies,omitempty"`
	Metadata      map[string]string                 `json:"metadata,omitempty"`
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ✅ Validate checks the fields a schema cannot express: protocol match,
// name shape, semver syntax, and descriptor-level consistency.
func (m Manifest) Validate() error {
	if m.Protocol != ProtocolVersion {
		return errors.Errorf("manifest %q: protocol %d not supported (want %d)", m.Name, m.Protocol, ProtocolVersion)
	}
	if !nameRe.MatchString(m.Name) {
		return errors.Errorf("manifest: invalid processor name %q", m.Name)
	}
	if m.Version != "" {
		if _, err := semver.NewVersion(m.Version); err != nil {
			return errors.Errorf("manifest %q: invalid version %q: %w", m.Name, m.Version, err)
		}
	}
	if err := m.Descriptor().Validate(); err != nil {
		return errors.Errorf("manifest %q: %w", m.Name, err)
	}
	return nil
}

// 📋 Descriptor converts the manifest to the in-process descriptor form.
func (m Manifest) Descriptor() processor.Descriptor {
	return processor.Descriptor{
		Name:          m.Name,
		Description:   m.Description,
		Version:       m.Version,
		Category:      m.Category,
		SaveFormats:   m.SaveFormats,
		FileTypes:     m.FileTypes,
		ConfigOptions: m.ConfigOptions,
		Dependencies:  m.Dependencies,
		Metadata:      m.Metadata,
	}
}

// SchemaJSON returns the generated JSON schema for Manifest documents.
func SchemaJSON() ([]byte, error) {
	r := &invopop.Reflector{
		Anonymous:                 true,
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
		Mapper: func(t reflect.Type) *invopop.Schema {
			// Category marshals as its wire name, not as an int.
			if t == reflect.TypeOf(processor.Category(0)) {
				return &invopop.Schema{
					Type: "string",
					Enum: []any{"unknown", "individual", "adjoint"},
				}
			}
			return nil
		},
	}
	data, err := r.Reflect(&Manifest{}).MarshalJSON()
	if err != nil {
		return nil, errors.Errorf("marshaling manifest schema: %w", err)
	}
	return data, nil
}

// compiledSchema caches the compiled manifest schema for the process
// lifetime. Generation and compilation both run exactly once.
var compiledSchema = sync.OnceValues(func() (*santhosh.Schema, error) {
	const schemaFile = "manifest.schema.json"

	data, err := SchemaJSON()
	if err != nil {
		return nil, err
	}
	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("unmarshaling manifest schema: %w", err)
	}
	c := santhosh.NewCompiler()
	if err := c.AddResource(schemaFile, doc); err != nil {
		return nil, errors.Errorf("adding manifest schema resource: %w", err)
	}
	sch, err := c.Compile(schemaFile)
	if err != nil {
		return nil, errors.Errorf("compiling manifest schema: %w", err)
	}
	return sch, nil
})

// 🔍 ParseManifest validates raw describe output against the manifest
// schema and decodes it. Schema violations and malformed JSON both come
// back wrapped in ErrLoad.
func ParseManifest(raw []byte) (Manifest, error) {
	inst := map[string]any{}
	if err := json.Unmarshal(raw, &inst); err != nil {
		return Manifest{}, errors.Errorf("%w: manifest is not a JSON object: %w", ErrLoad, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return Manifest{}, errors.Errorf("compiling manifest schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return Manifest{}, errors.Errorf("%w: manifest fails schema: %w", ErrLoad, err)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, errors.Errorf("%w: decoding manifest: %w", ErrLoad, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, errors.Errorf("%w: %w", ErrLoad, err)
	}
	return m, nil
}
