// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/ecn-parties/pkg/types"
)

// QueryOptions holds parameters for party queries.
type QueryOptions struct {
	// Query is matched against the Nepali name, headquarters, leadership,
	// and symbol text. Every whitespace-separated term must match.
	Query string

	// Province filters by the province name, e.g. "Bagmati".
	Province string

	// District filters by the district name.
	District string

	// MajorOnly keeps only parties flagged as major.
	MajorOnly bool

	// Status filters by verification status.
	Status types.VerificationStatus

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Province == "" && q.District == "" && !q.MajorOnly && q.Status == ""
}

// ftsQuery quotes each term so punctuation in party names (commas,
// parentheses, the danda) is searched literally instead of parsed as FTS5
// syntax.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Retrieve returns the stored parties matching opts. Full-text queries are
// ranked by relevance; filter-only queries follow the PDF order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Party, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = strings.TrimSpace(opts.Query) != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.record FROM parties_fts
			JOIN parties p ON p.rowid = parties_fts.rowid
			WHERE parties_fts MATCH ?`)
		args = append(args, ftsQuery(opts.Query))
	} else {
		qb.WriteString(`SELECT p.record FROM parties p WHERE 1=1`)
	}

	if opts.Province != "" {
		qb.WriteString(` AND p.province = ?`)
		args = append(args, opts.Province)
	}
	if opts.District != "" {
		qb.WriteString(` AND p.district = ?`)
		args = append(args, opts.District)
	}
	if opts.MajorOnly {
		qb.WriteString(` AND p.is_major = 1`)
	}
	if opts.Status != "" {
		qb.WriteString(` AND p.verification_status = ?`)
		args = append(args, string(opts.Status))
	}

	if useFTS {
		qb.WriteString(` ORDER BY parties_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.page, p.row_index, p.key`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying parties: %w", err)
	}
	defer rows.Close()

	var parties []types.Party
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var p types.Party
		if err := json.Unmarshal([]byte(record), &p); err != nil {
			return nil, fmt.Errorf("decoding stored party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// Stats summarizes the stored parties.
type Stats struct {
	Parties    int
	Major      int
	ByProvince map[string]int
	ByStatus   map[types.VerificationStatus]int
}

// Stats counts stored parties overall, by province, and by verification
// status. Parties with no province are counted under "".
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		ByProvince: make(map[string]int),
		ByStatus:   make(map[types.VerificationStatus]int),
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(sum(is_major), 0) FROM parties`,
	).Scan(&st.Parties, &st.Major); err != nil {
		return st, fmt.Errorf("counting parties: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT coalesce(province, ''), verification_status, count(*) FROM parties
		 GROUP BY province, verification_status`)
	if err != nil {
		return st, fmt.Errorf("grouping parties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			province string
			status   string
			n        int
		)
		if err := rows.Scan(&province, &status, &n); err != nil {
			return st, fmt.Errorf("scanning row: %w", err)
		}
		st.ByProvince[province] += n
		st.ByStatus[types.VerificationStatus(status)] += n
	}
	return st, rows.Err()
}
