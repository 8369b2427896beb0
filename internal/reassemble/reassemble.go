// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reassemble repairs table rows whose boundaries were corrupted by
// coordinate-based PDF extraction.
//
// A multi-word label (a two-word state name, say) that wraps inside its cell
// comes out of the extractor as several label-only rows followed by one
// data-only row:
//
//	New        |    |    |
//	Hampshire  |    |    |
//	           | 88 | 19 | ...
//
// Rows reassembles such runs into one record per label, in a single forward
// pass over an immutable input.
package reassemble

import (
	"strings"

	"github.com/pdiddy/datapacket/pkg/types"
)

// Kind classifies a raw row by which of its label and first data cell are
// present.
type Kind int

const (
	// Complete rows carry both a label and data.
	Complete Kind = iota
	// LabelOnly rows are continuation rows holding a label fragment.
	LabelOnly
	// DataOnly rows terminate a continuation run with the data values.
	DataOnly
	// Empty rows carry neither.
	Empty
)

func (k Kind) String() string {
	switch k {
	case Complete:
		return "complete"
	case LabelOnly:
		return "label-only"
	case DataOnly:
		return "data-only"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// Classify reports the Kind of row. Only the label and the first data cell
// are inspected.
func Classify(row types.RawRow) Kind {
	hasLabel := row.Label().Valid
	hasData := len(row) > 1 && row[1].Valid
	switch {
	case hasLabel && hasData:
		return Complete
	case hasLabel:
		return LabelOnly
	case hasData:
		return DataOnly
	default:
		return Empty
	}
}

// Rows merges every run of LabelOnly rows with the DataOnly row that follows
// it and passes Complete rows through unchanged. Every row must have exactly
// width cells.
//
// The input is not modified. On error no rows are returned: a
// *SchemaMismatchError for a row of the wrong width, or a
// *MalformedSequenceError for an Empty row, a DataOnly row with no pending
// label, a Complete row while a label is pending, or a label run still
// pending at the end of input.
func Rows(rows []types.RawRow, width int) ([]types.CanonicalRow, error) {
	out := make([]types.CanonicalRow, 0, len(rows))

	var (
		pending []string
		start   int
	)

	for i, row := range rows {
		if len(row) != width {
			return nil, &SchemaMismatchError{Index: i, Got: len(row), Want: width}
		}

		kind := Classify(row)
		switch kind {
		case Complete:
			if len(pending) > 0 {
				return nil, malformed(i, kind, pending, "complete row while a split label is pending")
			}
			out = append(out, types.CanonicalRow{
				Label:  row.Label().Value,
				Data:   copyCells(row.Data()),
				Origin: i,
			})

		case LabelOnly:
			if len(pending) == 0 {
				start = i
			}
			pending = append(pending, row.Label().Value)

		case DataOnly:
			if len(pending) == 0 {
				return nil, malformed(i, kind, nil, "data row has no label")
			}
			out = append(out, types.CanonicalRow{
				Label:     strings.Join(pending, " "),
				Data:      copyCells(row.Data()),
				Origin:    start,
				Fragments: len(pending),
			})
			pending = nil

		case Empty:
			return nil, malformed(i, kind, pending, "row has neither label nor data")
		}
	}

	if len(pending) > 0 {
		return nil, malformed(start, LabelOnly, pending, "split label never terminated by a data row")
	}

	return out, nil
}

// copyCells detaches output data from the caller's input slice.
func copyCells(cells []types.Cell) []types.Cell {
	out := make([]types.Cell, len(cells))
	copy(out, cells)
	return out
}

// Consumed returns the number of input rows that produced rows: one per
// record plus its merged fragments.
func Consumed(rows []types.CanonicalRow) int {
	n := len(rows)
	for _, r := range rows {
		n += r.Fragments
	}
	return n
}

