package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/datapacket/internal/spreadsheet"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Show the source files found in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := spreadsheet.Discover(cfg.DataDir)
		if err != nil {
			return err
		}
		for _, f := range []struct{ label, path string }{
			{"NAEP workbook", files.NAEP},
			{"Data collection workbook", files.DataCollection},
			{"ACT scores PDF", files.ACT},
		} {
			path := f.path
			if path == "" {
				path = "(not found)"
			}
			fmt.Printf("%-26s %s\n", f.label+":", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
