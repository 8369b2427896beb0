// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/datapacket/internal/spreadsheet"
	"github.com/pdiddy/datapacket/internal/tracker"
	"github.com/pdiddy/datapacket/pkg/types"
)

var naepCmd = &cobra.Command{
	Use:   "naep",
	Short: "List and export NAEP workbook sheets",
	Long: `Naep works with the NAEP state results workbook. The workbook is found
in the data directory by name unless --file is given. Sheets are selected
by a name filter, "- 2024" by default.`,
}

var naepSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the sheets matching the filter",
	RunE:  runNAEPSheets,
}

var naepExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export matching sheets to CSV files",
	Long: `Export writes each matching sheet to <out>/<sheet>.csv, one row per
non-blank spreadsheet row.`,
	RunE: runNAEPExport,
}

func openNAEP(cmd *cobra.Command) (*spreadsheet.Workbook, string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		files, err := spreadsheet.Discover(cfg.DataDir)
		if err != nil {
			return nil, "", err
		}
		if files.NAEP == "" {
			return nil, "", fmt.Errorf("no NAEP workbook found in %s", cfg.DataDir)
		}
		path = files.NAEP
	}
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return nil, "", err
	}
	return wb, path, nil
}

func naepFilter(cmd *cobra.Command) string {
	if cmd.Flags().Changed("filter") {
		f, _ := cmd.Flags().GetString("filter")
		return f
	}
	return cfg.NAEP.SheetFilter
}

// selectSheets returns the sheet named by --sheet, matched as a
// case-insensitive substring, or else every sheet passing the filter.
func selectSheets(wb *spreadsheet.Workbook, sheet, filter string) ([]string, error) {
	if sheet == "" {
		return wb.Sheets(filter), nil
	}
	name, ok := wb.FindSheet(sheet)
	if !ok {
		return nil, fmt.Errorf("no sheet matches %q", sheet)
	}
	return []string{name}, nil
}

func naepSheets(cmd *cobra.Command, wb *spreadsheet.Workbook) ([]string, error) {
	sheet, _ := cmd.Flags().GetString("sheet")
	return selectSheets(wb, sheet, naepFilter(cmd))
}

func runNAEPSheets(cmd *cobra.Command, args []string) error {
	wb, path, err := openNAEP(cmd)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := naepSheets(cmd, wb)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d sheet(s)\n", filepath.Base(path), len(sheets))
	for _, s := range sheets {
		fmt.Printf("  %s\n", s)
	}
	return nil
}

func runNAEPExport(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	trackName, _ := cmd.Flags().GetString("track")

	wb, path, err := openNAEP(cmd)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := naepSheets(cmd, wb)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets in %s match %q", path, naepFilter(cmd))
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	total := 0
	for _, sheet := range sheets {
		rows, err := wb.Rows(sheet, 0)
		if err != nil {
			return err
		}
		out := filepath.Join(outDir, sheetFileName(sheet)+".csv")
		if err := writeRowsCSV(out, rows); err != nil {
			return err
		}
		total += len(rows)
		logger.Debug("exported sheet", zap.String("sheet", sheet), zap.Int("rows", len(rows)))
		fmt.Printf("exported %s: %d rows -> %s\n", sheet, len(rows), out)
	}
	fmt.Printf("\n%d sheet(s), %d rows\n", len(sheets), total)

	if trackName == "" {
		return nil
	}
	store, err := tracker.NewStore(cfg.Tracker)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Add(cmd.Context(), types.DataSource{
		Name:        trackName,
		DatePulled:  time.Now(),
		SourceType:  types.SourceExcel,
		FilePath:    path,
		RecordCount: &total,
		Status:      types.StatusSuccess,
		Notes:       fmt.Sprintf("NAEP sheets: %s", strings.Join(sheets, "; ")),
	})
	return err
}

// sheetFileName turns a sheet name into a file name stem.
func sheetFileName(sheet string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(sheet) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func writeRowsCSV(path string, rows []types.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	for _, r := range rows {
		rec := make([]string, len(r))
		for i, c := range r {
			rec[i] = c.Value
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func init() {
	naepCmd.PersistentFlags().String("file", "", "NAEP workbook (default: discovered in data-dir)")
	naepCmd.PersistentFlags().String("filter", "", "sheet name filter (default from config naep.sheet_filter)")
	naepCmd.PersistentFlags().String("sheet", "", "select the first sheet whose name contains this text, ignoring case (overrides --filter)")

	naepExportCmd.Flags().String("out", "output/naep", "output directory for CSV files")
	naepExportCmd.Flags().String("track", "", "record the export in the tracker under this source name")

	naepCmd.AddCommand(naepSheetsCmd)
	naepCmd.AddCommand(naepExportCmd)

	rootCmd.AddCommand(naepCmd)
}
