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
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
	"github.com/walteh/filemill/pkg/registry"
)

func init() {
	registry.Register("stats", func(ctx context.Context) (processor.Processor, error) {
		return &statsProcessor{}, nil
	})
}

// 📊 statsProcessor computes basic statistics for the numeric columns of
// a CSV table and writes one stats artifact per input file.
type statsProcessor struct{}

var _ processor.Individual = (*statsProcessor)(nil)

func (p *statsProcessor) Describe() processor.Descriptor {
	return processor.Descriptor{
		Name:        "stats",
		Description: "Calculates basic statistics (count, mean, median, stddev, min, max) for numeric columns.",
		Version:     "1.0.0",
		Category:    processor.CategoryIndividual,
		SaveFormats: []processor.SaveFormat{
			{Label: "CSV", Ext: "csv"},
			{Label: "JSON", Ext: "json"},
		},
		FileTypes: []processor.FileType{
			{Label: "CSV files", Pattern: "*.csv"},
		},
	}
}

// columnStats is the summary of one numeric column. Stddev is the
// sample standard deviation and stays unset for single-value columns.
type columnStats struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Stddev *float64 `json:"stddev"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
}

func (p *statsProcessor) Process(ctx context.Context, file string, outputDir string, format processor.SaveFormat) (string, error) {
	header, rows, err := readTable(file)
	if err != nil {
		return "", err
	}

	cols := numericColumns(header, rows)
	if len(cols) == 0 {
		return "", errors.Errorf("%s has no numeric columns", filepath.Base(file))
	}

	if format.IsZero() {
		format = p.Describe().DefaultFormat()
	}
	target := filepath.Join(outputDir, stem(file)+"_stats."+format.Ext)

	switch strings.ToLower(format.Ext) {
	case "json":
		err = writeStatsJSON(target, cols)
	default:
		err = writeStatsCSV(target, cols)
	}
	if err != nil {
		return "", err
	}
	return target, nil
}

// summarize computes the statistics of one column. values is never
// empty: numericColumns drops empty columns.
func summarize(values []float64) columnStats {
	n := len(values)
	s := columnStats{Count: n, Min: values[0], Max: values[0]}

	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(n)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		s.Median = sorted[n/2]
	} else {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	if n > 1 {
		var ss float64
		for _, v := range values {
			d := v - s.Mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(n-1))
		s.Stddev = &sd
	}
	return s
}

// writeStatsCSV writes statistics as rows, one statistic per row and
// one column per numeric input column.
func writeStatsCSV(path string, cols []column) error {
	header := make([]string, 0, len(cols)+1)
	header = append(header, "statistic")
	stats := make([]columnStats, len(cols))
	for i, c := range cols {
		header = append(header, c.name)
		stats[i] = summarize(c.values)
	}

	rows := [][]string{header}
	row := func(name string, cell func(columnStats) string) {
		r := make([]string, 0, len(cols)+1)
		r = append(r, name)
		for _, s := range stats {
			r = append(r, cell(s))
		}
		rows = append(rows, r)
	}
	row("count", func(s columnStats) string { return strconv.Itoa(s.Count) })
	row("mean", func(s columnStats) string { return formatFloat(s.Mean) })
	row("median", func(s columnStats) string { return formatFloat(s.Median) })
	row("stddev", func(s columnStats) string {
		if s.Stddev == nil {
			return ""
		}
		return formatFloat(*s.Stddev)
	})
	row("min", func(s columnStats) string { return formatFloat(s.Min) })
	row("max", func(s columnStats) string { return formatFloat(s.Max) })

	return writeCSV(path, rows)
}

// writeStatsJSON writes statistics keyed by column name.
func writeStatsJSON(path string, cols []column) error {
	result := make(map[string]columnStats, len(cols))
	for _, c := range cols {
		result[c.name] = summarize(c.values)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Errorf("encoding statistics: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
