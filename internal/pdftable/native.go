// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/datapacket/pkg/types"
)

const (
	// lineTolerance is the maximum baseline difference, in points, between
	// glyphs on the same text line.
	lineTolerance = 2.0

	// letterPaperTop is the top edge used when a page has no readable
	// MediaBox.
	letterPaperTop = 792.0
)

// glyph is a positioned run of text in top-left page coordinates.
type glyph struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

// NativeExtractor reads glyph positions directly from the PDF content stream.
type NativeExtractor struct{}

// Extract implements Extractor.
func (NativeExtractor) Extract(ctx context.Context, pdfPath string, region types.TableRegion) (rows []types.RawRow, err error) {
	if err := ValidateRegion(region); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	if region.Page > r.NumPage() {
		return nil, fmt.Errorf("page %d: %s has %d pages", region.Page, pdfPath, r.NumPage())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The content stream decoder panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, fmt.Errorf("page %d: reading content of %s: %v", region.Page, pdfPath, rec)
		}
	}()

	p := r.Page(region.Page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing from %s", region.Page, pdfPath)
	}

	pageTop := mediaBoxTop(p)
	texts := p.Content().Text
	glyphs := make([]glyph, 0, len(texts))
	for _, t := range texts {
		glyphs = append(glyphs, glyph{
			X:        t.X,
			Y:        pageTop - t.Y,
			W:        t.W,
			FontSize: t.FontSize,
			S:        t.S,
		})
	}

	return toRows(layoutGrid(glyphs, region)), nil
}

// mediaBoxTop returns the upper y of the page MediaBox, following inherited
// page tree values. Distances below it are top-left coordinates even when
// the box does not start at zero.
func mediaBoxTop(p pdf.Page) float64 {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			return math.Max(box.Index(1).Float64(), box.Index(3).Float64())
		}
	}
	return letterPaperTop
}

// layoutGrid places the glyphs inside region's area onto a grid of text
// lines and columns. Each line has len(Columns)+1 cells.
func layoutGrid(glyphs []glyph, region types.TableRegion) [][]string {
	top, left, bottom, right := region.Area[0], region.Area[1], region.Area[2], region.Area[3]

	var inside []glyph
	for _, g := range glyphs {
		if g.Y >= top && g.Y <= bottom && g.X >= left && g.X <= right {
			inside = append(inside, g)
		}
	}

	var grid [][]string
	for _, line := range groupLines(inside) {
		cells := make([][]string, len(region.Columns)+1)
		for _, w := range joinWords(line) {
			i := columnIndex(w.X, region.Columns)
			cells[i] = append(cells[i], w.S)
		}
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = strings.Join(c, " ")
		}
		grid = append(grid, out)
	}
	return grid
}

// groupLines clusters glyphs into lines by Y, top to bottom, each sorted
// left to right.
func groupLines(glyphs []glyph) [][]glyph {
	sorted := append([]glyph(nil), glyphs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	var lines [][]glyph
	var lineY float64
	for _, g := range sorted {
		if len(lines) == 0 || math.Abs(g.Y-lineY) > lineTolerance {
			lines = append(lines, nil)
			lineY = g.Y
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], g)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

// joinWords merges the glyphs of one line into words. A whitespace glyph or
// a horizontal gap wider than a quarter of the font size starts a new word.
func joinWords(line []glyph) []glyph {
	var (
		words []glyph
		cur   *glyph
	)
	for _, g := range line {
		if strings.TrimSpace(g.S) == "" {
			cur = nil
			continue
		}
		if cur != nil && g.X-(cur.X+cur.W) <= gapThreshold(g) {
			cur.S += g.S
			cur.W = g.X + g.W - cur.X
			continue
		}
		words = append(words, g)
		cur = &words[len(words)-1]
	}
	return words
}

func gapThreshold(g glyph) float64 {
	if g.FontSize <= 0 {
		return 1
	}
	return g.FontSize / 4
}
