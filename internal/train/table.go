// Package train builds labeled feature tables from paired true-positive and
// false-positive call sets and drives classifier training.
package train

import (
	"fmt"
	"strings"

	"github.com/varscope/evf/internal/features"
	"github.com/varscope/evf/internal/model"
	"github.com/varscope/evf/internal/vcf"
)

// Labels attached to training examples by source.
const (
	LabelTruePositive  = 1
	LabelFalsePositive = 0
)

// Pair is one true-positive/false-positive VCF path pair. Each pair is an
// independent unit of work.
type Pair struct {
	TruePos  string
	FalsePos string
}

// SplitPathList pairs up comma-separated true-positive and false-positive
// path lists. Unequal list lengths fail before any file is opened.
func SplitPathList(truePos, falsePos string) ([]Pair, error) {
	tps := strings.Split(truePos, ",")
	fps := strings.Split(falsePos, ",")
	if len(tps) != len(fps) {
		return nil, &model.ConfigError{
			Message: fmt.Sprintf("unequal number of true (%d) and false (%d) positive VCFs supplied", len(tps), len(fps)),
		}
	}

	pairs := make([]Pair, len(tps))
	for i := range tps {
		pairs[i] = Pair{TruePos: tps[i], FalsePos: fps[i]}
	}
	return pairs, nil
}

// Table is an in-memory labeled feature table. Row i of X carries label Y[i].
type Table struct {
	X []features.Vector
	Y []int
}

// Len returns the number of labeled rows.
func (t *Table) Len() int {
	return len(t.X)
}

// Append concatenates another table's rows onto this one in order.
func (t *Table) Append(other *Table) {
	t.X = append(t.X, other.X...)
	t.Y = append(t.Y, other.Y...)
}

// BuildTable reads every record from one call set, extracts features and
// attaches the fixed label. Variant type is ignored here: a training source
// is already all-SNP or all-indel by construction.
func BuildTable(path string, label int) (*Table, error) {
	f, err := vcf.ReadFile(path)
	if err != nil {
		return nil, err
	}

	table := &Table{
		X: make([]features.Vector, 0, len(f.Records)),
		Y: make([]int, 0, len(f.Records)),
	}
	for _, rec := range f.Records {
		vec, _, err := features.Extract(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		table.X = append(table.X, vec)
		table.Y = append(table.Y, label)
	}

	return table, nil
}

// buildPairTable builds the labeled sub-table for one path pair:
// true-positive rows followed by false-positive rows.
func buildPairTable(p Pair) (*Table, error) {
	tp, err := BuildTable(p.TruePos, LabelTruePositive)
	if err != nil {
		return nil, err
	}
	fp, err := BuildTable(p.FalsePos, LabelFalsePositive)
	if err != nil {
		return nil, err
	}

	tp.Append(fp)
	return tp, nil
}
