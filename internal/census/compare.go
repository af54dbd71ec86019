package census

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"ifcaudit/internal/model"
)

// Comparison holds one type's counts in two models.
type Comparison struct {
	CountA     int `json:"countA" yaml:"countA"`
	CountB     int `json:"countB" yaml:"countB"`
	Difference int `json:"difference" yaml:"difference"`
}

// ComparisonRecord is keyed by the union of the type names of both counts.
type ComparisonRecord map[string]Comparison

// ComparisonRow is a ComparisonRecord entry with its key, for ordered output.
type ComparisonRow struct {
	TypeName   string `json:"typeName" yaml:"typeName"`
	CountA     int    `json:"countA" yaml:"countA"`
	CountB     int    `json:"countB" yaml:"countB"`
	Difference int    `json:"difference" yaml:"difference"`
}

// Compare diffs two counts. Missing types count as zero and rows with a zero
// difference are kept.
func Compare(a, b ComponentCount) ComparisonRecord {
	out := make(ComparisonRecord, len(a)+len(b))
	for k, n := range a {
		out[k] = Comparison{CountA: n, CountB: b[k], Difference: n - b[k]}
	}
	for k, n := range b {
		if _, ok := a[k]; ok {
			continue
		}
		out[k] = Comparison{CountB: n, Difference: -n}
	}
	return out
}

// SortedByName returns the rows ordered by type name.
func (r ComparisonRecord) SortedByName() []ComparisonRow {
	rows := r.rows()
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TypeName < rows[j].TypeName
	})
	return rows
}

// SortedByAbsDifference returns the rows by descending absolute difference,
// ties broken by type name.
func (r ComparisonRecord) SortedByAbsDifference() []ComparisonRow {
	rows := r.rows()
	sort.Slice(rows, func(i, j int) bool {
		di, dj := abs(rows[i].Difference), abs(rows[j].Difference)
		if di != dj {
			return di > dj
		}
		return rows[i].TypeName < rows[j].TypeName
	})
	return rows
}

func (r ComparisonRecord) rows() []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(r))
	for k, c := range r {
		rows = append(rows, ComparisonRow{TypeName: k, CountA: c.CountA, CountB: c.CountB, Difference: c.Difference})
	}
	return rows
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CompareFiles opens both models concurrently, counts the given category in
// each and compares the counts. The result does not depend on load order.
func CompareFiles(ctx context.Context, pathA, pathB, category string, logger *slog.Logger) (ComparisonRecord, error) {
	var countA, countB ComponentCount
	g, ctx := errgroup.WithContext(ctx)
	load := func(path string, dst *ComponentCount) func() error {
		return func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := model.Open(path, logger)
			if err != nil {
				return err
			}
			*dst = CountCategory(m, category, logger)
			return nil
		}
	}
	g.Go(load(pathA, &countA))
	g.Go(load(pathB, &countB))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Compare(countA, countB), nil
}
