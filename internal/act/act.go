// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package act turns the ACT average scores by state PDF into sorted state
// score records. Each configured page region is extracted, split state
// names are reassembled, and the seven columns are mapped onto
// types.ACTScore.
package act

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/datapacket/internal/pdftable"
	"github.com/pdiddy/datapacket/internal/reassemble"
	"github.com/pdiddy/datapacket/pkg/types"
)

// Width is the number of columns in the ACT table.
var Width = len(types.ACTColumns)

// PageResult records what one region contributed.
type PageResult struct {
	Page      int
	RawRows   int
	Records   int
	Fragments int
}

// Result holds the scores and per-page counts of a run.
type Result struct {
	Scores []types.ACTScore
	Pages  []PageResult
}

// Pipeline extracts ACT scores with an injected table extractor.
type Pipeline struct {
	extractor pdftable.Extractor
	log       *zap.Logger
}

// NewPipeline returns a pipeline using ext. A nil logger disables logging.
func NewPipeline(ext pdftable.Extractor, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{extractor: ext, log: log}
}

// Run extracts every region of cfg from pdfPath and returns the scores
// sorted by state. Progress lines are written to w.
//
// Regions with Reassemble set are repaired individually, unless
// cfg.AcrossPages is set, in which case the rows of all regions are
// concatenated and repaired together. Errors name the page they came from.
func (p *Pipeline) Run(ctx context.Context, pdfPath string, cfg types.ACTConfig, w io.Writer) (Result, error) {
	if len(cfg.Pages) == 0 {
		return Result{}, fmt.Errorf("no page regions configured for %s", pdfPath)
	}

	var (
		result  Result
		rows    []types.CanonicalRow
		carried []types.RawRow
		starts  []int
	)

	for _, region := range cfg.Pages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		raw, err := p.extractor.Extract(ctx, pdfPath, region)
		if err != nil {
			return Result{}, fmt.Errorf("extracting page %d: %w", region.Page, err)
		}
		p.log.Debug("extracted region",
			zap.Int("page", region.Page),
			zap.Float64s("area", region.Area),
			zap.Int("rows", len(raw)))

		if cfg.AcrossPages {
			starts = append(starts, len(carried))
			carried = append(carried, raw...)
			result.Pages = append(result.Pages, PageResult{Page: region.Page, RawRows: len(raw)})
			fmt.Fprintf(w, "extracted page %d: %d rows\n", region.Page, len(raw))
			continue
		}

		recs, err := canonical(raw, region.Reassemble)
		if err != nil {
			return Result{}, fmt.Errorf("page %d: %w", region.Page, err)
		}
		pr := PageResult{Page: region.Page, RawRows: len(raw), Records: len(recs)}
		pr.Fragments = reassemble.Consumed(recs) - len(recs)
		result.Pages = append(result.Pages, pr)
		rows = append(rows, recs...)

		fmt.Fprintf(w, "extracted page %d: %d rows, %d records\n", region.Page, len(raw), len(recs))
	}

	if cfg.AcrossPages {
		recs, err := reassemble.Rows(carried, Width)
		if err != nil {
			return Result{}, fmt.Errorf("pages %s: %w", pageList(cfg.Pages), err)
		}
		creditPages(result.Pages, starts, recs)
		rows = recs
	}

	scores, err := ToScores(rows)
	if err != nil {
		return Result{}, err
	}
	SortByState(scores)
	result.Scores = scores

	fmt.Fprintf(w, "\n%d states from %d page(s)\n", len(scores), len(cfg.Pages))
	return result, nil
}

// creditPages counts each record, and the fragments merged into it, against
// the page its first row came from. starts[i] is the offset of pages[i]'s
// first row in the concatenated input.
func creditPages(pages []PageResult, starts []int, recs []types.CanonicalRow) {
	for _, rec := range recs {
		i := sort.SearchInts(starts, rec.Origin+1) - 1
		if i < 0 {
			continue
		}
		pages[i].Records++
		pages[i].Fragments += rec.Fragments
	}
}

// canonical repairs raw when fix is set. Otherwise every row must already
// be complete and rows pass through one-to-one.
func canonical(raw []types.RawRow, fix bool) ([]types.CanonicalRow, error) {
	if fix {
		return reassemble.Rows(raw, Width)
	}
	out := make([]types.CanonicalRow, 0, len(raw))
	for i, r := range raw {
		if len(r) != Width {
			return nil, &reassemble.SchemaMismatchError{Index: i, Got: len(r), Want: Width}
		}
		if kind := reassemble.Classify(r); kind != reassemble.Complete {
			return nil, &reassemble.MalformedSequenceError{
				Index:  i,
				Kind:   kind,
				Reason: "incomplete row on a page without reassembly",
			}
		}
		out = append(out, types.CanonicalRow{Label: r.Label().Value, Data: r.Data(), Origin: i})
	}
	return out, nil
}

func pageList(regions []types.TableRegion) string {
	parts := make([]string, len(regions))
	for i, r := range regions {
		parts[i] = strconv.Itoa(r.Page)
	}
	return strings.Join(parts, ",")
}

// ToScores maps canonical rows onto ACT score records. Numeric cells may
// carry a percent sign or thousands separators; blank cells become nil.
func ToScores(rows []types.CanonicalRow) ([]types.ACTScore, error) {
	scores := make([]types.ACTScore, 0, len(rows))
	for _, r := range rows {
		if len(r.Data) != Width-1 {
			return nil, fmt.Errorf("state %q: has %d data columns, want %d", r.Label, len(r.Data), Width-1)
		}
		vals := make([]*float64, len(r.Data))
		for i, c := range r.Data {
			v, err := parseNumber(c)
			if err != nil {
				return nil, fmt.Errorf("state %q, column %s: %w", r.Label, types.ACTColumns[i+1], err)
			}
			vals[i] = v
		}
		s := types.ACTScore{State: r.Label}
		s.SetNumbers(vals)
		scores = append(scores, s)
	}
	return scores, nil
}

func parseNumber(c types.Cell) (*float64, error) {
	if !c.Valid {
		return nil, nil
	}
	s := strings.NewReplacer("%", "", ",", "").Replace(strings.TrimSpace(c.Value))
	if s == "" || s == "-" || s == "\u2014" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", c.Value, err)
	}
	return &v, nil
}

// SortByState orders scores by state name, keeping extraction order for
// equal names.
func SortByState(scores []types.ACTScore) {
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].State < scores[j].State })
}
