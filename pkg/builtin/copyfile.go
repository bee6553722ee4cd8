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

package builtin

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
	"github.com/walteh/filemill/pkg/registry"
)

func init() {
	registry.Register("copyfile", func(ctx context.Context) (processor.Processor, error) {
		return &copyFile{}, nil
	})
}

// 📄 copyFile copies each input into the output directory. It exists to
// demonstrate the individual contract end to end; every file type is
// accepted and the original bytes are preserved.
type copyFile struct{}

var _ processor.Individual = (*copyFile)(nil)

func (p *copyFile) Describe() processor.Descriptor {
	return processor.Descriptor{
		Name:        "copyfile",
		Description: "Copies each input file into the output directory.",
		Version:     "1.0.0",
		Category:    processor.CategoryIndividual,
	}
}

// Process copies file into outputDir as copy_<base>. The save format is
// ignored: a copy keeps whatever extension the input had.
func (p *copyFile) Process(ctx context.Context, file string, outputDir string, format processor.SaveFormat) (string, error) {
	src, err := os.Open(file)
	if err != nil {
		return "", errors.Errorf("opening input: %w", err)
	}
	defer src.Close()

	target := filepath.Join(outputDir, "copy_"+filepath.Base(file))
	dst, err := os.Create(target)
	if err != nil {
		return "", errors.Errorf("creating copy: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", errors.Errorf("copying %s: %w", filepath.Base(file), err)
	}
	if err := dst.Close(); err != nil {
		return "", errors.Errorf("closing copy: %w", err)
	}
	return target, nil
}
