// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/datapacket/internal/act"
	"github.com/pdiddy/datapacket/internal/pdftable"
	"github.com/pdiddy/datapacket/internal/tracker"
	"github.com/pdiddy/datapacket/pkg/types"
)

var actCmd = &cobra.Command{
	Use:   "act",
	Short: "Extract ACT average scores by state from the published PDF",
	Long: `Act reads the configured table regions of the ACT average scores by
state PDF and writes one record per state. Regions marked for reassembly
have their split state names repaired: label-only lines are joined with
the data line that follows them.

Output goes to stdout unless --out is given. With --track the run is
recorded in the data source tracker.`,
	RunE: runACT,
}

func runACT(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	actCfg := cfg.ACT

	if v, _ := cmd.Flags().GetString("pdf"); v != "" {
		actCfg.PDF = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		actCfg.Backend = types.ExtractBackend(v)
	}
	if cmd.Flags().Changed("across-pages") {
		actCfg.AcrossPages, _ = cmd.Flags().GetBool("across-pages")
	}
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	trackName, _ := cmd.Flags().GetString("track")

	switch format {
	case act.FormatCSV, act.FormatYAML, act.FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q: use csv, yaml, or json", format)
	}

	pdfPath := dataPath(cfg, actCfg.PDF)
	for _, region := range actCfg.Pages {
		if err := pdftable.ValidateRegion(region); err != nil {
			return fmt.Errorf("invalid act.pages entry: %w", err)
		}
	}

	ext, err := pdftable.NewExtractor(ctx, actCfg.Backend)
	if err != nil {
		return err
	}
	logger.Debug("extracting ACT scores",
		zap.String("pdf", pdfPath),
		zap.String("backend", string(actCfg.Backend)),
		zap.Bool("across_pages", actCfg.AcrossPages))

	res, err := act.NewPipeline(ext, logger).Run(ctx, pdfPath, actCfg, os.Stderr)
	if err != nil {
		return err
	}

	if outPath == "" || outPath == "-" {
		if err := act.Write(os.Stdout, format, res.Scores); err != nil {
			return err
		}
	} else {
		if err := writeScoresFile(outPath, format, res.Scores); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d states to %s\n", len(res.Scores), outPath)
	}

	if trackName == "" {
		return nil
	}
	return trackACT(cmd, trackName, pdfPath, actCfg, res)
}

// writeScoresFile writes scores to path. A failed close is reported since
// it can lose buffered output.
func writeScoresFile(path, format string, scores []types.ACTScore) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := act.Write(f, format, scores); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func trackACT(cmd *cobra.Command, name, pdfPath string, actCfg types.ACTConfig, res act.Result) error {
	store, err := tracker.NewStore(cfg.Tracker)
	if err != nil {
		return err
	}
	defer store.Close()

	n := len(res.Scores)
	pages := make([]string, len(res.Pages))
	fragments := 0
	for i, p := range res.Pages {
		pages[i] = strconv.Itoa(p.Page)
		fragments += p.Fragments
	}

	src, err := store.Add(cmd.Context(), types.DataSource{
		Name:        name,
		DatePulled:  time.Now(),
		SourceType:  types.SourcePDF,
		FilePath:    pdfPath,
		RecordCount: &n,
		Status:      types.StatusSuccess,
		Notes:       fmt.Sprintf("ACT scores by state, pages %s", strings.Join(pages, ",")),
		Metadata: map[string]string{
			"backend":          string(actCfg.Backend),
			"merged_fragments": strconv.Itoa(fragments),
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "tracked %s (id %d)\n", src.Name, src.ID)
	return nil
}

func init() {
	actCmd.Flags().String("pdf", "", "ACT scores PDF (default from config act.pdf, resolved against data-dir)")
	actCmd.Flags().String("backend", "", "extraction backend: native or tabula")
	actCmd.Flags().String("format", "csv", "output format: csv, yaml, or json")
	actCmd.Flags().String("out", "", "output file (default stdout)")
	actCmd.Flags().String("track", "", "record the run in the tracker under this source name")
	actCmd.Flags().Bool("across-pages", false, "reassemble rows across page boundaries")

	rootCmd.AddCommand(actCmd)
}
