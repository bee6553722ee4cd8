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
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/pkg/processor"
	"github.com/walteh/filemill/pkg/registry"
)

func init() {
	registry.Register("timeseries", func(ctx context.Context) (processor.Processor, error) {
		return &timeSeries{}, nil
	})
}

// 📈 timeSeries computes per-column RMSE against the column mean for
// time series tables. The first column is the time index and is left
// alone; the stats land in extra columns on the first data row, so the
// artifact keeps the original data intact.
type timeSeries struct{}

var _ processor.Individual = (*timeSeries)(nil)

func (p *timeSeries) Describe() processor.Descriptor {
	return processor.Descriptor{
		Name:        "timeseries",
		Description: "Calculates RMSE statistics for time series data.",
		Version:     "1.0.0",
		Category:    processor.CategoryIndividual,
		SaveFormats: []processor.SaveFormat{
			{Label: "CSV", Ext: "csv"},
		},
		FileTypes: []processor.FileType{
			{Label: "CSV files", Pattern: "*.csv"},
		},
	}
}

func (p *timeSeries) Process(ctx context.Context, file string, outputDir string, format processor.SaveFormat) (string, error) {
	header, rows, err := readTable(file)
	if err != nil {
		return "", err
	}
	if len(header) < 2 {
		return "", errors.Errorf("%s needs a time column and at least one data column", filepath.Base(file))
	}
	if len(rows) == 0 {
		return "", errors.Errorf("%s has no data rows", filepath.Base(file))
	}

	// One RMSE per data column, NaN when a column has no usable cells.
	dataCols := header[1:]
	rmse := make([]float64, len(dataCols))
	for i, name := range dataCols {
		values, err := columnValues(rows, i+1, name)
		if err != nil {
			return "", err
		}
		rmse[i] = rootMeanSquareError(values)
	}

	mseMean := meanOfFinite(rmse, func(v float64) float64 { return v })
	mseRMS := math.Sqrt(meanOfFinite(rmse, func(v float64) float64 { return v * v }))

	outHeader := append([]string{}, header...)
	for _, name := range dataCols {
		outHeader = append(outHeader, name+"_mse")
	}
	outHeader = append(outHeader, "mse_mean", "mse_rms")

	extra := len(dataCols) + 2
	out := [][]string{outHeader}
	for i, row := range rows {
		r := append([]string{}, row...)
		if i == 0 {
			for _, v := range rmse {
				r = append(r, formatFloat(v))
			}
			r = append(r, formatFloat(mseMean), formatFloat(mseRMS))
		} else {
			for j := 0; j < extra; j++ {
				r = append(r, "")
			}
		}
		out = append(out, r)
	}

	target := filepath.Join(outputDir, stem(file)+"_result.csv")
	if err := writeCSV(target, out); err != nil {
		return "", err
	}
	return target, nil
}

// columnValues parses data column i, failing on non-numeric text.
// Blank cells and NaN markers count as missing.
func columnValues(rows [][]string, i int, name string) ([]float64, error) {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.Errorf("column %q is not numeric: %w", name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// rootMeanSquareError is the population RMSE of values against their
// own mean. NaN for an empty column.
func rootMeanSquareError(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// meanOfFinite averages f(v) over the finite entries, NaN when none are.
func meanOfFinite(values []float64, f func(float64) float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += f(v)
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
