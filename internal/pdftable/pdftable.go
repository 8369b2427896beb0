// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftable extracts positionally aligned table rows from a region of
// a PDF page. A region is a bounding box plus explicit column boundaries, the
// same parameters tabula takes; no column inference is attempted.
//
// Two backends implement Extractor: NativeExtractor reads glyph positions
// with github.com/ledongthuc/pdf, TabulaExtractor pipes the PDF through a
// tabula container.
package pdftable

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/datapacket/internal/container"
	"github.com/pdiddy/datapacket/pkg/types"
)

// Extractor reads the rows of one table region.
type Extractor interface {
	// Extract returns the physical rows of region, top to bottom. Cells are
	// null where the region has no text.
	Extract(ctx context.Context, pdfPath string, region types.TableRegion) ([]types.RawRow, error)
}

// NewExtractor returns the extractor for backend. The tabula backend needs
// a container runtime; it is detected on demand.
func NewExtractor(ctx context.Context, backend types.ExtractBackend) (Extractor, error) {
	switch backend {
	case types.BackendNative, "":
		return NativeExtractor{}, nil
	case types.BackendTabula:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewTabulaExtractor(ctx, rt)
	default:
		return nil, fmt.Errorf("unsupported extraction backend %q: use native or tabula", backend)
	}
}

// ValidateRegion checks that region has a page, a well-formed area, and
// ascending column boundaries inside the area.
func ValidateRegion(region types.TableRegion) error {
	if region.Page < 1 {
		return fmt.Errorf("page %d: page numbers start at 1", region.Page)
	}
	if len(region.Area) != 4 {
		return fmt.Errorf("page %d: area needs 4 values (top, left, bottom, right), got %d",
			region.Page, len(region.Area))
	}
	top, left, bottom, right := region.Area[0], region.Area[1], region.Area[2], region.Area[3]
	if top >= bottom || left >= right {
		return fmt.Errorf("page %d: area %v is empty", region.Page, region.Area)
	}
	if !sort.Float64sAreSorted(region.Columns) {
		return fmt.Errorf("page %d: column boundaries %v are not ascending", region.Page, region.Columns)
	}
	for _, c := range region.Columns {
		if c <= left || c >= right {
			return fmt.Errorf("page %d: column boundary %g outside area [%g, %g]", region.Page, c, left, right)
		}
	}
	return nil
}

// columnIndex returns the cell index for x given the area's left and right
// edges and the inner boundaries. Positions left of the first boundary fall
// in cell 0.
func columnIndex(x float64, boundaries []float64) int {
	return sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > x })
}

// toRows converts a string grid to raw rows, dropping columns that are
// blank in every row and rows that are blank in every column.
func toRows(grid [][]string) []types.RawRow {
	width := 0
	for _, line := range grid {
		if len(line) > width {
			width = len(line)
		}
	}

	keep := make([]bool, width)
	for _, line := range grid {
		for i, s := range line {
			if types.Text(s).Valid {
				keep[i] = true
			}
		}
	}

	var rows []types.RawRow
	for _, line := range grid {
		row := make(types.RawRow, 0, width)
		blank := true
		for i := 0; i < width; i++ {
			if !keep[i] {
				continue
			}
			cell := types.Null
			if i < len(line) {
				cell = types.Text(line[i])
			}
			if cell.Valid {
				blank = false
			}
			row = append(row, cell)
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}
