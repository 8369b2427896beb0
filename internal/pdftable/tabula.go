// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/datapacket/internal/container"
	"github.com/pdiddy/datapacket/pkg/types"
)

// imageTabula wraps tabula-java: it reads the PDF on stdin, passes its
// arguments to tabula, and writes tabula's output to stdout.
const imageTabula = "tabula:latest"

// TabulaExtractor extracts table regions by running tabula in a container.
type TabulaExtractor struct {
	runtime container.Runtime
}

// NewTabulaExtractor verifies that the tabula image exists in rt.
func NewTabulaExtractor(ctx context.Context, rt container.Runtime) (*TabulaExtractor, error) {
	if err := rt.ImageExists(ctx, imageTabula); err != nil {
		return nil, fmt.Errorf("tabula image not available in %s: %w", rt.Name(), err)
	}
	return &TabulaExtractor{runtime: rt}, nil
}

// Extract implements Extractor.
func (t *TabulaExtractor) Extract(ctx context.Context, pdfPath string, region types.TableRegion) ([]types.RawRow, error) {
	if err := ValidateRegion(region); err != nil {
		return nil, err
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := t.runtime.Run(ctx, imageTabula, tabulaArgs(region), f, &out); err != nil {
		return nil, fmt.Errorf("page %d: extracting %s with tabula: %w", region.Page, pdfPath, err)
	}

	grid, err := parseCSV(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("page %d: parsing tabula output: %w", region.Page, err)
	}
	return toRows(grid), nil
}

// tabulaArgs builds the tabula command line for region.
func tabulaArgs(region types.TableRegion) []string {
	args := []string{
		"--pages", strconv.Itoa(region.Page),
		"--area", joinFloats(region.Area),
		"--format", "CSV",
	}
	if len(region.Columns) > 0 {
		args = append(args, "--columns", joinFloats(region.Columns))
	}
	return args
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
