// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/datapacket/internal/reassemble"
	"github.com/pdiddy/datapacket/pkg/types"
)

// pdfText is one string drawn at x with its baseline ytop points below the
// top of the page.
type pdfText struct {
	x, ytop float64
	s       string
}

// writeTablePDF writes a one-page PDF drawing texts in 10pt Helvetica with
// fixed 500-unit glyph widths. The MediaBox is [0 mediaBottom 612 mediaTop]
// and lives on the page tree node, so the page inherits it.
func writeTablePDF(t *testing.T, mediaBottom, mediaTop float64, texts []pdfText) string {
	t.Helper()

	var content strings.Builder
	for _, tx := range texts {
		fmt.Fprintf(&content, "BT /F1 10 Tf %g %g Td (%s) Tj ET\n", tx.x, mediaTop-tx.ytop, tx.s)
	}
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 %g 612 %g] >>", mediaBottom, mediaTop),
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding " +
			"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "act.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// splitLabelTable is a seven-column state table in which "New Hampshire"
// wraps onto two label-only lines ahead of its data line.
func splitLabelTable() []pdfText {
	texts := []pdfText{{30, 60, "ACT Average Scores by State"}}
	dataX := []float64{160, 220, 280, 340, 400, 460}
	row := func(ytop float64, label string, data ...string) {
		if label != "" {
			texts = append(texts, pdfText{30, ytop, label})
		}
		for i, v := range data {
			texts = append(texts, pdfText{dataX[i], ytop, v})
		}
	}
	row(120, "Texas", "100", "19.0", "50", "30", "40", "35")
	row(140, "New")
	row(155, "Hampshire")
	row(170, "", "5", "25.3", "91", "71", "75", "67")
	row(190, "Utah", "100", "20.0", "57", "36", "45", "38")
	return texts
}

func splitLabelRegion() types.TableRegion {
	return types.TableRegion{
		Page:    1,
		Area:    []float64{100, 20, 250, 520},
		Columns: []float64{150, 200, 260, 320, 380, 440},
	}
}

func TestNativeExtractor_SplitLabelTable(t *testing.T) {
	for _, tt := range []struct {
		name        string
		bottom, top float64
	}{
		{"zero origin", 0, 792},
		{"offset media box", 100, 892},
	} {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTablePDF(t, tt.bottom, tt.top, splitLabelTable())

			rows, err := NativeExtractor{}.Extract(context.Background(), path, splitLabelRegion())
			require.NoError(t, err)

			blank := types.Null
			assert.Equal(t, []types.RawRow{
				types.Row("Texas", "100", "19.0", "50", "30", "40", "35"),
				{types.Text("New"), blank, blank, blank, blank, blank, blank},
				{types.Text("Hampshire"), blank, blank, blank, blank, blank, blank},
				{blank, types.Text("5"), types.Text("25.3"), types.Text("91"), types.Text("71"), types.Text("75"), types.Text("67")},
				types.Row("Utah", "100", "20.0", "57", "36", "45", "38"),
			}, rows)

			recs, err := reassemble.Rows(rows, 7)
			require.NoError(t, err)
			require.Len(t, recs, 3)
			assert.Equal(t, "New Hampshire", recs[1].Label)
			assert.Equal(t, "25.3", recs[1].Data[1].Value)
			assert.Equal(t, 1, recs[1].Origin)
			assert.Equal(t, 2, recs[1].Fragments)
		})
	}
}

func TestNativeExtractor_PageOutOfRange(t *testing.T) {
	path := writeTablePDF(t, 0, 792, splitLabelTable())
	region := splitLabelRegion()
	region.Page = 2

	_, err := NativeExtractor{}.Extract(context.Background(), path, region)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 1 pages")
}
