// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spreadsheet reads NAEP and data collection workbooks into raw
// table rows, and locates the packet's source files in the data directory.
package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/datapacket/pkg/types"
)

// Files holds the source files found in a data directory. Empty fields were
// not found.
type Files struct {
	NAEP           string `json:"naep,omitempty" yaml:"naep,omitempty"`
	DataCollection string `json:"data_collection,omitempty" yaml:"data_collection,omitempty"`
	ACT            string `json:"act,omitempty" yaml:"act,omitempty"`
}

// Discover scans dir for the packet's source files by case-insensitive name
// match: "naep" for the NAEP workbook, "data_collection" for the collection
// workbook, and "act" in a .pdf name for the ACT scores PDF. When several
// files match, the last in directory order wins.
func Discover(dir string) (Files, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Files{}, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var files Files
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		name := strings.ToLower(entry.Name())
		path := filepath.Join(dir, entry.Name())
		switch {
		case strings.Contains(name, "naep"):
			files.NAEP = path
		case strings.Contains(name, "data_collection"):
			files.DataCollection = path
		case strings.Contains(name, "act") && filepath.Ext(name) == ".pdf":
			files.ACT = path
		}
	}
	return files, nil
}

// Workbook is an open spreadsheet file.
type Workbook struct {
	path string
	f    *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheets returns the sheet names containing filter, in workbook order. An
// empty filter returns every sheet.
func (w *Workbook) Sheets(filter string) []string {
	var out []string
	for _, name := range w.f.GetSheetList() {
		if strings.Contains(name, filter) {
			out = append(out, name)
		}
	}
	return out
}

// FindSheet returns the first sheet whose name contains substr, compared
// case-insensitively.
func (w *Workbook) FindSheet(substr string) (string, bool) {
	substr = strings.ToLower(substr)
	for _, name := range w.f.GetSheetList() {
		if strings.Contains(strings.ToLower(name), substr) {
			return name, true
		}
	}
	return "", false
}

// Rows reads sheet as raw rows. With width > 0 every row is padded with
// null cells or truncated to width; with width 0 rows keep the length the
// sheet reports. Rows with no values are skipped.
func (w *Workbook) Rows(sheet string, width int) ([]types.RawRow, error) {
	if idx, err := w.f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, w.path)
	}

	grid, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, w.path, err)
	}

	var rows []types.RawRow
	for _, line := range grid {
		n := len(line)
		if width > 0 {
			n = width
		}
		row := make(types.RawRow, n)
		blank := true
		for i := 0; i < n && i < len(line); i++ {
			row[i] = types.Text(line[i])
			if row[i].Valid {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
