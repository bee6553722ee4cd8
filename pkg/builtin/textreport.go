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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
	"github.com/walteh/filemill/pkg/registry"
)

func init() {
	registry.Register("textreport", func(ctx context.Context) (processor.Processor, error) {
		return &textReport{}, nil
	})
}

// 📝 textReport counts lines, words, and characters per input file and
// combines everything into a single report at the end of the run.
type textReport struct{}

var _ processor.Adjoint = (*textReport)(nil)

// Report is one file's counts. Characters counts runes, not bytes, and
// Lines counts newline-separated segments, so a trailing newline adds
// one empty line.
type Report struct {
	File       string `json:"file"`
	Lines      int    `json:"lines"`
	Words      int    `json:"words"`
	Characters int    `json:"characters"`
}

func (p *textReport) Describe() processor.Descriptor {
	return processor.Descriptor{
		Name:        "textreport",
		Description: "Analyzes text files to count words, lines, and characters.",
		Version:     "1.0.0",
		Category:    processor.CategoryAdjoint,
		SaveFormats: []processor.SaveFormat{
			{Label: "Text", Ext: "txt"},
			{Label: "CSV", Ext: "csv"},
			{Label: "JSON", Ext: "json"},
		},
		FileTypes: []processor.FileType{
			{Label: "Text files", Pattern: "*.txt"},
			{Label: "All files", Pattern: "*"},
		},
		Metadata: map[string]string{"author": "walteh"},
	}
}

func (p *textReport) Process(ctx context.Context, file string) (any, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Errorf("reading input: %w", err)
	}

	content := string(raw)
	return Report{
		File:       stem(file),
		Lines:      strings.Count(content, "\n") + 1,
		Words:      len(strings.Fields(content)),
		Characters: utf8.RuneCountInString(content),
	}, nil
}

func (p *textReport) Gather(ctx context.Context, values []any, format processor.SaveFormat, outputPath string) error {
	reports := make([]Report, 0, len(values))
	for _, v := range values {
		r, ok := v.(Report)
		if !ok {
			return errors.Errorf("unexpected value type %T", v)
		}
		reports = append(reports, r)
	}

	switch strings.ToLower(format.Ext) {
	case "csv":
		return writeReportCSV(outputPath, reports)
	case "json":
		return writeReportJSON(outputPath, reports)
	default:
		return writeReportText(outputPath, reports)
	}
}

func writeReportText(path string, reports []Report) error {
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "file: %s lines: %d words: %d characters: %d\n", r.File, r.Lines, r.Words, r.Characters)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeReportCSV(path string, reports []Report) error {
	rows := [][]string{{"file", "lines", "words", "characters"}}
	for _, r := range reports {
		rows = append(rows, []string{r.File, strconv.Itoa(r.Lines), strconv.Itoa(r.Words), strconv.Itoa(r.Characters)})
	}
	return writeCSV(path, rows)
}

func writeReportJSON(path string, reports []Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return errors.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
