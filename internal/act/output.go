// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package act

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/datapacket/pkg/types"
)

// Output formats accepted by Write.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Write encodes scores to w in format. CSV output has a header row of
// types.ACTColumns and leaves blank numeric cells empty.
func Write(w io.Writer, format string, scores []types.ACTScore) error {
	switch format {
	case FormatCSV, "":
		return writeCSV(w, scores)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(scores); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(scores); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use csv, yaml, or json", format)
	}
}

func writeCSV(w io.Writer, scores []types.ACTScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.ACTColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, s := range scores {
		rec := []string{s.State}
		for _, v := range s.Numbers() {
			if v == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(*v, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", s.State, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
