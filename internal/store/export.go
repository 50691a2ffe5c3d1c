// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ecn-parties/internal/extract"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

const exportLimit = 100000

// csvColumns is the header of the import CSV consumed by the database seed.
var csvColumns = []string{
	"name", "nameNepali", "shortName", "shortNameNepali", "registrationNumber",
	"applicationDateBs", "applicationDateAd", "registrationDateBs", "registrationDateAd",
	"renewalDateBs", "renewalDateAd", "headquarters", "province", "district",
	"contactPhone", "contactEmail", "chairpersonName", "chairpersonNameNepali",
	"generalSecretaryName", "generalSecretaryNameNepali", "symbolName", "symbolNameNepali",
	"symbolUrl", "symbolDescription", "foundedYear", "website", "ideology",
	"isActive", "isMajorParty", "dataSource", "verificationStatus", "verifiedAt", "verifiedBy",
}

// ExportPath returns the path of an export file with the given extension.
func (s *Store) ExportPath(ext string) string {
	return filepath.Join(s.dataDir, indexDir, "export."+ext)
}

// ExportYAML writes the matching parties to index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	parties, err := s.exportParties(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(parties)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(s.ExportPath("yaml"), data, 0o644)
}

// ExportJSON writes the matching parties to index/export.json in the same
// format as the extract stage's records file.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	parties, err := s.exportParties(ctx, opts)
	if err != nil {
		return err
	}
	return extract.SaveParties(s.ExportPath("json"), parties)
}

// ExportCSV writes the matching parties to index/export.csv: UTF-8 with a
// byte order mark, every field quoted, null fields empty.
func (s *Store) ExportCSV(ctx context.Context, opts QueryOptions) error {
	parties, err := s.exportParties(ctx, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	writeCSVRow(&buf, csvColumns)
	for _, p := range parties {
		writeCSVRow(&buf, csvRecord(p))
	}
	return os.WriteFile(s.ExportPath("csv"), buf.Bytes(), 0o644)
}

func (s *Store) exportParties(ctx context.Context, opts QueryOptions) ([]types.Party, error) {
	opts.MaxResults = exportLimit
	parties, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if parties == nil {
		parties = []types.Party{}
	}
	return parties, nil
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// csvRecord lays p out in csvColumns order.
func csvRecord(p types.Party) []string {
	d := types.Deref
	founded := ""
	if p.FoundedYear != nil {
		founded = strconv.Itoa(*p.FoundedYear)
	}
	return []string{
		d(p.Name), d(p.NameNepali), d(p.ShortName), d(p.ShortNameNepali), d(p.RegistrationNumber),
		d(p.ApplicationDateBs), d(p.ApplicationDateAd), d(p.RegistrationDateBs), d(p.RegistrationDateAd),
		d(p.RenewalDateBs), d(p.RenewalDateAd), d(p.Headquarters), d(p.Province), d(p.District),
		d(p.ContactPhone), d(p.ContactEmail), d(p.ChairpersonName), d(p.ChairpersonNameNepali),
		d(p.GeneralSecretaryName), d(p.GeneralSecretaryNameNepali), d(p.SymbolName), d(p.SymbolNameNepali),
		d(p.SymbolURL), d(p.SymbolDescription), founded, d(p.Website), d(p.Ideology),
		strconv.FormatBool(p.IsActive), strconv.FormatBool(p.IsMajorParty), p.DataSource,
		string(p.VerificationStatus), "", "",
	}
}
