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
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// readTable loads a CSV file as a header row plus data rows.
func readTable(file string) ([]string, [][]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, errors.Errorf("opening input: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, errors.Errorf("reading %s: %w", filepath.Base(file), err)
	}
	if len(records) == 0 {
		return nil, nil, errors.Errorf("%s is empty", filepath.Base(file))
	}
	return records[0], records[1:], nil
}

// stem returns the file's base name without its extension.
func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// formatFloat renders v for a CSV cell, with NaN as the empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// column is one numeric table column with its missing cells dropped.
type column struct {
	name   string
	values []float64
}

// numericColumns extracts the columns whose every non-blank cell parses
// as a number. Blank cells and NaN markers count as missing, not as
// text; a single text cell disqualifies the whole column.
func numericColumns(header []string, rows [][]string) []column {
	var out []column
	for i, name := range header {
		values := make([]float64, 0, len(rows))
		numeric := true
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
				numeric = false
				break
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}
		if numeric && len(values) > 0 {
			out = append(out, column{name: name, values: values})
		}
	}
	return out
}

// writeCSV writes rows to path, creating or truncating it.
func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return errors.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
