// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/datapacket/internal/tracker"
	"github.com/pdiddy/datapacket/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the data source tracker (add, list, export)",
	Long: `Sources manages the SQLite tracker of data pulls. Each source has a
unique name; adding a source with an existing name replaces it.`,
}

// --- add subcommand ---

var sourcesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Record a data pull",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesAdd,
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	sourceType, _ := cmd.Flags().GetString("type")
	date, _ := cmd.Flags().GetString("date")
	path, _ := cmd.Flags().GetString("path")
	status, _ := cmd.Flags().GetString("status")
	notes, _ := cmd.Flags().GetString("notes")
	meta, _ := cmd.Flags().GetStringToString("meta")

	src := types.DataSource{
		Name:       args[0],
		DatePulled: time.Now(),
		SourceType: types.SourceType(sourceType),
		FilePath:   path,
		Status:     types.SourceStatus(status),
		Notes:      notes,
	}
	if date != "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return fmt.Errorf("date %q is not YYYY-MM-DD", date)
		}
		src.DatePulled = t
	}
	if cmd.Flags().Changed("records") {
		n, _ := cmd.Flags().GetInt("records")
		src.RecordCount = &n
	}
	if len(meta) > 0 {
		src.Metadata = meta
	}

	store, err := tracker.NewStore(cfg.Tracker)
	if err != nil {
		return err
	}
	defer store.Close()

	src, err = store.Add(cmd.Context(), src)
	if err != nil {
		return err
	}
	fmt.Printf("added %s (id %d)\n", src.Name, src.ID)
	return nil
}

// --- list subcommand ---

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked sources, newest first",
	RunE:  runSourcesList,
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	store, err := tracker.NewStore(cfg.Tracker)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Printf("No data sources tracked in %s.\n", store.Path())
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-16s  %-12s  %-8s  %-11s  %s\n",
		"Name", "Date pulled", "Type", "Records", "Status", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range list {
		name := s.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		records := "-"
		if s.RecordCount != nil {
			records = fmt.Sprintf("%d", *s.RecordCount)
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-16s  %-12s  %-8s  %-11s  %s\n",
			name, s.DatePulled.Local().Format("2006-01-02 15:04"), s.SourceType, records, s.Status, s.FilePath)
	}
	fmt.Fprintf(os.Stdout, "\n%d sources in %s\n", len(list), store.Path())
	return nil
}

// --- export subcommand ---

var sourcesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the tracker to YAML or JSON",
	RunE:  runSourcesExport,
}

func runSourcesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = "output/data_sources." + format
	}

	store, err := tracker.NewStore(cfg.Tracker)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml":
		err = store.ExportYAML(cmd.Context(), out)
	case "json":
		err = store.ExportJSON(cmd.Context(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}

func init() {
	sourcesCmd.PersistentFlags().String("db", "", "tracker database (default from config tracker.db_path)")
	viper.BindPFlag("tracker.db_path", sourcesCmd.PersistentFlags().Lookup("db"))

	sourcesAddCmd.Flags().String("type", string(types.SourceManual), "source type: "+joinTypes())
	sourcesAddCmd.Flags().String("date", "", "collection date YYYY-MM-DD (default now)")
	sourcesAddCmd.Flags().String("path", "", "file path or URL")
	sourcesAddCmd.Flags().Int("records", 0, "number of records pulled")
	sourcesAddCmd.Flags().String("status", string(types.StatusSuccess), "status: success, failed, partial, in_progress")
	sourcesAddCmd.Flags().String("notes", "", "free-text notes")
	sourcesAddCmd.Flags().StringToString("meta", nil, "metadata key=value pairs (e.g. contact_person=...,data_owner=...)")

	sourcesListCmd.Flags().Bool("json", false, "output as JSON")

	sourcesExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	sourcesExportCmd.Flags().String("out", "", "output file (default output/data_sources.<format>)")

	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesExportCmd)

	rootCmd.AddCommand(sourcesCmd)
}

func joinTypes() string {
	names := make([]string, len(types.SourceTypes))
	for i, t := range types.SourceTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
