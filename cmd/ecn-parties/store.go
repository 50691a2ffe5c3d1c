// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecn-parties/internal/store"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the party store (ingest, query, export, stats)",
	Long: `Store keeps extracted records in a local SQLite database with a
full-text index over the Nepali name, headquarters, leadership, and symbol
text. Use subcommands to ingest record files, query them, or export them.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <records.json>...",
	Short: "Ingest extracted record files into the store",
	Long: `Ingest loads each records file and replaces the parties previously
ingested from it. Files unchanged since their last ingest are skipped.
Parties are keyed by registration number, so a later file overrides an
earlier one for the same party.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var failed int
	for _, path := range args {
		_, err := s.Ingest(context.Background(), path, os.Stdout)
		switch {
		case errors.Is(err, store.ErrUnchanged):
		case err != nil:
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed ingest", failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search stored parties by text and filters",
	Long: `Query matches every term against the Nepali name, headquarters,
leadership, and symbol text, optionally narrowed by province, district,
major-party flag, or verification status.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --province, --district, --major, or --status")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	parties, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(os.Stdout, parties, jsonOutput)
}

// formatQueryOutput prints parties as JSON or as a table. The name goes in
// the last column: Devanagari combining marks make rune counts a poor
// measure of display width, so it is never padded.
func formatQueryOutput(w io.Writer, parties []types.Party, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if parties == nil {
			parties = []types.Party{}
		}
		return enc.Encode(parties)
	}

	if len(parties) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-12s  %-14s  %-4s  %s\n", "Reg", "Province", "Status", "Page", "Name")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, p := range parties {
		fmt.Fprintf(w, "%-6s  %-12s  %-14s  %-4d  %s\n",
			types.Deref(p.RegistrationNumber), types.Deref(p.Province),
			p.VerificationStatus, p.PageNumber, clip(p.DisplayName(), 40))
	}
	fmt.Fprintf(w, "\n%d results\n", len(parties))
	return nil
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored parties to CSV, JSON, or YAML",
	Long: `Export writes the stored parties (or a filtered subset) to
<data-dir>/index/export.{csv,json,yaml}. The CSV has the column layout of
the party database import, with a UTF-8 byte order mark.`,
	Args: cobra.NoArgs,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	opts := queryOptsFromFlags(cmd, nil)

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	switch format {
	case "csv":
		err = s.ExportCSV(ctx, opts)
	case "json":
		err = s.ExportJSON(ctx, opts)
	case "yaml":
		err = s.ExportYAML(ctx, opts)
	default:
		return fmt.Errorf("unsupported format %q: use csv, json, or yaml", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", s.ExportPath(format))
	return nil
}

// --- stats subcommand ---

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize stored parties by province and verification status",
	Args:  cobra.NoArgs,
	RunE:  runStoreStats,
}

func runStoreStats(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("parties: %d (major: %d)\n", st.Parties, st.Major)

	fmt.Println("\nby province:")
	provinces := make([]string, 0, len(st.ByProvince))
	for p := range st.ByProvince {
		provinces = append(provinces, p)
	}
	sort.Strings(provinces)
	for _, p := range provinces {
		name := p
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("  %-16s %d\n", name, st.ByProvince[p])
	}

	fmt.Println("\nby status:")
	for _, status := range []types.VerificationStatus{
		types.VerificationPending, types.VerificationNeedsReview, types.VerificationVerified,
	} {
		fmt.Printf("  %-16s %d\n", status, st.ByStatus[status])
	}
	return nil
}

// --- shared helpers ---

func storeConfig() types.StoreConfig {
	cfg := types.StoreConfig{
		DataDir:    viper.GetString("store.data_dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return cfg
}

func openStore() (*store.Store, error) {
	return store.NewStore(storeConfig(), logger.Named("store"))
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	province, _ := cmd.Flags().GetString("province")
	district, _ := cmd.Flags().GetString("district")
	major, _ := cmd.Flags().GetBool("major")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Province:   province,
		District:   district,
		MajorOnly:  major,
		Status:     types.VerificationStatus(strings.ToUpper(status)),
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search terms")
	cmd.Flags().String("province", "", "filter by province, e.g. Bagmati")
	cmd.Flags().String("district", "", "filter by district, e.g. Kathmandu")
	cmd.Flags().Bool("major", false, "only major parties")
	cmd.Flags().String("status", "", "filter by verification status: pending, needs_review, verified")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", "data", "base directory for data (contains index/)")
	storeCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	viper.BindPFlag("store.data_dir", storeCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("store.max_results", storeCmd.PersistentFlags().Lookup("max-results"))

	addFilterFlags(storeQueryCmd)
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(storeExportCmd)
	storeExportCmd.Flags().String("format", "csv", "export format: csv, json, or yaml")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeStatsCmd)

	rootCmd.AddCommand(storeCmd)
}
