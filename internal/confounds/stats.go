package confounds

import (
	"fmt"
	"math"
	"sort"
)

// ColumnStats are descriptive statistics for one confound column,
// matching the figures displayed alongside the report's carpet plot.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Describe computes per-column descriptive statistics. A requested column
// that the table lacks is an error; NaN cells are skipped.
func (t *Table) Describe(columns []string) ([]ColumnStats, error) {
	out := make([]ColumnStats, 0, len(columns))
	for _, name := range columns {
		vals, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q not in confounds table", name)
		}
		out = append(out, describeColumn(name, vals))
	}
	return out, nil
}

func describeColumn(name string, values []float64) ColumnStats {
	clean := make([]float64, 0, len(values))
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		clean = append(clean, v)
		sum += v
	}
	stats := ColumnStats{Column: name, Count: len(clean)}
	if len(clean) == 0 {
		return stats
	}
	sort.Float64s(clean)

	mean := sum / float64(len(clean))
	stats.Mean = mean
	stats.Min = clean[0]
	stats.Max = clean[len(clean)-1]
	stats.P25 = percentile(clean, 25)
	stats.P50 = percentile(clean, 50)
	stats.P75 = percentile(clean, 75)

	// Sample standard deviation.
	if len(clean) > 1 {
		var ss float64
		for _, v := range clean {
			d := v - mean
			ss += d * d
		}
		stats.Std = math.Sqrt(ss / float64(len(clean)-1))
	}
	return stats
}

// percentile linearly interpolates between the two nearest ranks of an
// ascending-sorted sample.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}
