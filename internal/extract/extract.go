// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads political party registrations out of the ECN
// registration PDF. Each page is searched for ruled tables whose rows map
// positionally onto party fields; pages are also scanned line by line for
// party names while no table rows have been found.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/ecn-parties/internal/pdftable"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

// ErrEmptyDocument is returned when the source has no pages.
var ErrEmptyDocument = errors.New("document has no pages")

const (
	// partyKeyword ("party") marks a line that may name a political party.
	partyKeyword = "पार्टी"
	// minCandidateLen is the length a line must exceed to be a candidate.
	minCandidateLen = 10
	// nameLogLimit caps the party name echoed for each extracted row.
	nameLogLimit = 40
	// lineLogLimit caps the candidate line echoed by the line scan.
	lineLogLimit = 60

	// timestampLayout is local time with microseconds and no zone.
	timestampLayout = "2006-01-02T15:04:05.000000"
)

// Source supplies PDF pages. pdfsource.Document implements it.
type Source interface {
	NumPages() int
	Page(n int) (pdftable.Page, error)
}

// Options configures an extraction run.
type Options struct {
	// Settings tunes table detection. Zero fields use pdftable defaults.
	Settings pdftable.Settings

	// DataSource is stamped on every record (default types.DefaultDataSource).
	DataSource string

	// Now supplies the _extractedAt timestamp (default time.Now).
	Now func() time.Time

	// Logger receives structured diagnostics (default no-op).
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.DataSource == "" {
		o.DataSource = types.DefaultDataSource
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Candidate is a text line that mentions a party but was not part of a table row.
type Candidate struct {
	Page int    `json:"page" yaml:"page"`
	Line string `json:"line" yaml:"line"`
}

// Result holds the outcome of an extraction run.
type Result struct {
	Parties    []types.Party
	Candidates []Candidate

	Pages      int
	Tables     int
	PageErrors int
	RowErrors  int
}

// HasFailures reports whether any page or row could not be processed.
func (r Result) HasFailures() bool {
	return r.PageErrors > 0 || r.RowErrors > 0
}

// Extract walks every page of src, printing progress to w, and returns the
// party records found. Unreadable pages and malformed rows are reported and
// skipped; only cancellation of ctx or an empty document stop the run.
func Extract(ctx context.Context, src Source, opts Options, w io.Writer) (Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	total := src.NumPages()
	if total == 0 {
		return Result{}, ErrEmptyDocument
	}

	var res Result
	for n := 1; n <= total; n++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		fmt.Fprintf(w, "Processing page %d/%d...\n", n, total)
		res.Pages++

		page, err := src.Page(n)
		if err != nil {
			fmt.Fprintf(w, "  ⚠ Skipping page %d: %v\n", n, err)
			log.Warn("page unreadable", zap.Int("page", n), zap.Error(err))
			res.PageErrors++
			continue
		}

		tables := pdftable.FindTables(page, opts.Settings)
		log.Debug("tables detected",
			zap.Int("page", n),
			zap.Int("tables", len(tables)),
			zap.Int("chars", len(page.Chars)),
			zap.Int("rects", len(page.Rects)))
		res.Tables += len(tables)

		for _, tbl := range tables {
			extractTable(tbl, n, opts, &res, w)
		}

		// The line scan always runs on the first page, and on later pages
		// until some table row has produced a record.
		if len(res.Parties) == 0 || n == 1 {
			for _, line := range pdftable.Lines(page, opts.Settings) {
				if !isCandidate(line) {
					continue
				}
				fmt.Fprintf(w, "  Found potential party: %s\n", truncate(line, lineLogLimit))
				res.Candidates = append(res.Candidates, Candidate{Page: n, Line: strings.TrimSpace(line)})
			}
		}
	}

	log.Info("extraction finished",
		zap.Int("pages", res.Pages),
		zap.Int("tables", res.Tables),
		zap.Int("parties", len(res.Parties)),
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("page_errors", res.PageErrors),
		zap.Int("row_errors", res.RowErrors))
	return res, nil
}

func extractTable(tbl pdftable.Table, page int, opts Options, res *Result, w io.Writer) {
	if len(tbl.Rows) < 2 {
		return
	}

	rows := tbl.Rows
	if isHeader(rows[0]) {
		rows = rows[1:]
	}

	for i, row := range rows {
		rowIdx := i + 1
		if skipRow(row) {
			continue
		}

		if bad := invalidCells(row); len(bad) > 0 {
			opts.Logger.Warn("invalid UTF-8 replaced",
				zap.Int("page", page),
				zap.Int("row", rowIdx),
				zap.Ints("cells", bad))
		}

		party, err := mapRow(row, rowMeta{
			page:        page,
			row:         rowIdx,
			dataSource:  opts.DataSource,
			extractedAt: opts.Now().Format(timestampLayout),
		})
		if err != nil {
			fmt.Fprintf(w, "  ⚠ Error processing row %d on page %d: %v\n", rowIdx, page, err)
			opts.Logger.Warn("row skipped",
				zap.Int("page", page),
				zap.Int("row", rowIdx),
				zap.Error(err))
			res.RowErrors++
			continue
		}

		if !hasIdentity(party) {
			continue
		}
		res.Parties = append(res.Parties, party)
		fmt.Fprintf(w, "  ✓ Extracted: %s\n", truncate(party.DisplayName(), nameLogLimit))
	}
}

// isCandidate reports whether a text line is long enough and mentions a party.
func isCandidate(line string) bool {
	trimmed := strings.TrimSpace(line)
	return utf8.RuneCountInString(trimmed) > minCandidateLen && strings.Contains(line, partyKeyword)
}
