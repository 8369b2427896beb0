// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the datapacket pipeline:
// extracted table rows, the ACT score record, data source tracking records,
// and stage configuration.
package types

import "strings"

// Cell is a single extracted table value. A zero Cell is null (absent).
type Cell struct {
	// Value is the cell text. Meaningful only when Valid is true.
	Value string `json:"value" yaml:"value"`

	// Valid reports whether the cell holds a value.
	Valid bool `json:"valid" yaml:"valid"`
}

// Text returns a present cell holding s. Blank or whitespace-only text
// yields a null cell, matching how extractors report empty positions.
func Text(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cell{}
	}
	return Cell{Value: s, Valid: true}
}

// Null is the absent cell.
var Null = Cell{}

// String returns the cell value, or the empty string for a null cell.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// RawRow is one physical row produced by a table extractor. Cell 0 is the
// label; cells 1..N-1 are data.
type RawRow []Cell

// Label returns the label cell, or Null for an empty row.
func (r RawRow) Label() Cell {
	if len(r) == 0 {
		return Null
	}
	return r[0]
}

// Data returns the data cells (everything after the label).
func (r RawRow) Data() []Cell {
	if len(r) < 2 {
		return nil
	}
	return r[1:]
}

// Row builds a RawRow from strings; empty strings become null cells.
func Row(values ...string) RawRow {
	row := make(RawRow, len(values))
	for i, v := range values {
		row[i] = Text(v)
	}
	return row
}

// CanonicalRow is a repaired table record: a complete label with the data
// cells of exactly one source row.
type CanonicalRow struct {
	// Label is the full row label, possibly joined from several fragments.
	Label string `json:"label" yaml:"label"`

	// Data holds the N-1 data cells of the terminating source row.
	Data []Cell `json:"data" yaml:"data"`

	// Origin is the input index of the first row contributing to this record.
	Origin int `json:"origin" yaml:"origin"`

	// Fragments counts the label-only rows merged into this record.
	Fragments int `json:"fragments" yaml:"fragments"`
}

// ACTColumns names the seven fields of an ACT state score record, in
// extraction column order.
var ACTColumns = []string{
	"state",
	"est_percent_grads_tested",
	"avg_composite_score",
	"eng_benchmark_percent",
	"math_benchmark_percent",
	"reading_benchmark_percent",
	"sci_benchmark_percent",
}

// ACTScore is one state's row of the ACT average score and benchmark table.
// Numeric fields are nil when the source cell was blank.
type ACTScore struct {
	State                   string   `json:"state" yaml:"state"`
	EstPercentGradsTested   *float64 `json:"est_percent_grads_tested" yaml:"est_percent_grads_tested"`
	AvgCompositeScore       *float64 `json:"avg_composite_score" yaml:"avg_composite_score"`
	EngBenchmarkPercent     *float64 `json:"eng_benchmark_percent" yaml:"eng_benchmark_percent"`
	MathBenchmarkPercent    *float64 `json:"math_benchmark_percent" yaml:"math_benchmark_percent"`
	ReadingBenchmarkPercent *float64 `json:"reading_benchmark_percent" yaml:"reading_benchmark_percent"`
	SciBenchmarkPercent     *float64 `json:"sci_benchmark_percent" yaml:"sci_benchmark_percent"`
}

// Numbers returns the numeric fields in ACTColumns order (excluding state).
func (s ACTScore) Numbers() []*float64 {
	return []*float64{
		s.EstPercentGradsTested,
		s.AvgCompositeScore,
		s.EngBenchmarkPercent,
		s.MathBenchmarkPercent,
		s.ReadingBenchmarkPercent,
		s.SciBenchmarkPercent,
	}
}

// SetNumbers assigns the numeric fields in ACTColumns order. Missing
// trailing values are left nil.
func (s *ACTScore) SetNumbers(vals []*float64) {
	dst := []**float64{
		&s.EstPercentGradsTested,
		&s.AvgCompositeScore,
		&s.EngBenchmarkPercent,
		&s.MathBenchmarkPercent,
		&s.ReadingBenchmarkPercent,
		&s.SciBenchmarkPercent,
	}
	for i := range dst {
		if i < len(vals) {
			*dst[i] = vals[i]
		}
	}
}
