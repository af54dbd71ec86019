package flatten

import (
	"math"
	"sort"
)

// ColumnStats summarizes the numeric cells of one column. Std is the sample
// standard deviation and is 0 for a single value. Quartiles interpolate
// linearly between the closest ranks.
type ColumnStats struct {
	Column string  `json:"column" yaml:"column"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Median float64 `json:"median" yaml:"median"`
	Q75    float64 `json:"q75" yaml:"q75"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe computes ColumnStats for every column of t holding at least one
// number, in column order. Non-numeric cells are ignored.
func Describe(t Table) []ColumnStats {
	var out []ColumnStats
	for _, col := range t.Columns {
		var values []float64
		for _, r := range t.Rows {
			if f, ok := r.Get(col).AsNumber(); ok {
				values = append(values, f)
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, describe(col, values))
	}
	return out
}

func describe(column string, values []float64) ColumnStats {
	sort.Float64s(values)
	n := len(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		ss := 0.0
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return ColumnStats{
		Column: column,
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    values[0],
		Q25:    quantile(values, 0.25),
		Median: quantile(values, 0.5),
		Q75:    quantile(values, 0.75),
		Max:    values[n-1],
	}
}

// quantile expects sorted values.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
