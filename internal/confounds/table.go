package confounds

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Table is a confounds time series keyed by column name. Missing cells
// ("n/a" in BIDS derivatives) are carried as NaN.
type Table struct {
	Columns []string
	data    map[string][]float64
	rows    int
}

// Load reads a tab-separated confounds table. The first row is the
// header.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse tsv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty confounds table %s", path)
	}

	header := records[0]
	t := &Table{
		Columns: header,
		data:    make(map[string][]float64, len(header)),
		rows:    len(records) - 1,
	}
	for _, name := range header {
		t.data[name] = make([]float64, 0, t.rows)
	}
	for _, row := range records[1:] {
		for j, name := range header {
			val := math.NaN()
			if j < len(row) {
				if v, err := strconv.ParseFloat(row[j], 64); err == nil {
					val = v
				}
			}
			t.data[name] = append(t.data[name], val)
		}
	}
	return t, nil
}

// Column returns the named column's values, NaN included.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.data[name]
	return vals, ok
}

// Len is the number of data rows.
func (t *Table) Len() int { return t.rows }
