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
	"encoding/json"
	"os/exec"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
)

// reply is what a plugin prints on stdout for process and gather calls.
type reply struct {
	Artifact string          `json:"artifact,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// command is the descriptor-only adapter around a plugin binary. The
// executable variants embed it and add the category's call surface.
type command struct {
	path string
	desc processor.Descriptor
}

// Describe implements processor.Processor.
func (c *command) Describe() processor.Descriptor {
	return c.desc
}

// Path returns the plugin executable backing this processor.
func (c *command) Path() string {
	return c.path
}

// invoke runs one plugin subcommand, feeding stdin when non-nil, and
// decodes the JSON reply. A non-zero exit or a non-empty error field in
// the reply both surface as errors, preferring the plugin's own message.
func (c *command) invoke(ctx context.Context, stdin []byte, args ...string) (reply, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	runErr := cmd.Run()

	var r reply
	if out := bytes.TrimSpace(stdout.Bytes()); len(out) > 0 {
		// Best effort: a failing plugin often still prints a structured
		// error reply before exiting non-zero.
		if err := json.Unmarshal(out, &r); err != nil && runErr == nil {
			return reply{}, errors.Errorf("%s %s: undecodable reply: %w", c.desc.Name, args[0], err)
		}
	}

	if r.Error != "" {
		return reply{}, errors.Errorf("%s %s: %s", c.desc.Name, args[0], r.Error)
	}
	if runErr != nil {
		return reply{}, errors.Errorf("%s %s: %w (stderr: %s)", c.desc.Name, args[0], runErr, tail(stderr.Bytes()))
	}
	return r, nil
}

// 📄 commandIndividual adapts a plugin binary to processor.Individual.
type commandIndividual struct {
	command
}

var _ processor.Individual = (*commandIndividual)(nil)

func (c *commandIndividual) Process(ctx context.Context, file string, outputDir string, format processor.SaveFormat) (string, error) {
	args := []string{"process", "--input", file, "--output-dir", outputDir}
	if format.Ext != "" {
		args = append(args, "--format", format.Ext)
	}

	r, err := c.invoke(ctx, nil, args...)
	if err != nil {
		return "", err
	}
	if r.Artifact == "" {
		return "", errors.Errorf("%s process: plugin reported success without an artifact path", c.desc.Name)
	}
	return r.Artifact, nil
}

// 🧮 commandAdjoint adapts a plugin binary to processor.Adjoint.
type commandAdjoint struct {
	command
}

var _ processor.Adjoint = (*commandAdjoint)(nil)

func (c *commandAdjoint) Process(ctx context.Context, file string) (any, error) {
	r, err := c.invoke(ctx, nil, "process", "--input", file)
	if err != nil {
		return nil, err
	}
	if len(r.Value) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.Value, &v); err != nil {
		return nil, errors.Errorf("%s process: undecodable value: %w", c.desc.Name, err)
	}
	return v, nil
}

func (c *commandAdjoint) Gather(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return errors.Errorf("%s gather: encoding values: %w", c.desc.Name, err)
	}

	args := []string{"gather", "--output", outputPath}
	if format.Ext != "" {
		args = append(args, "--format", format.Ext)
	}

	if _, err := c.invoke(ctx, payload, args...); err != nil {
		return err
	}
	return nil
}
