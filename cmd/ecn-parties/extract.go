// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecn-parties/internal/extract"
	"github.com/pdiddy/ecn-parties/internal/fetch"
	"github.com/pdiddy/ecn-parties/internal/guide"
	"github.com/pdiddy/ecn-parties/internal/normalize"
	"github.com/pdiddy/ecn-parties/internal/pdfsource"
	"github.com/pdiddy/ecn-parties/internal/pdftable"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

const (
	defaultOutput = "data/parties-extracted.json"
	defaultGuide  = "data/parties-completion-guide.json"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Extract party records and a completion guide from the registration PDF",
	Long: `Extract reads every page of the registration PDF, maps the rows of its
ruled tables onto party records, and writes the records and a manual
completion guide as JSON. Lines that mention a party outside any table are
listed as candidates.

Without an argument the PDF downloaded by fetch is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("output", defaultOutput, "records JSON output path")
	extractCmd.Flags().String("guide", defaultGuide, "completion guide JSON output path")
	extractCmd.Flags().String("data-source", types.DefaultDataSource, "dataSource value stamped on each record")
	extractCmd.Flags().Float64("snap-tolerance", pdftable.DefaultSettings().SnapTolerance, "distance within which ruling lines are merged")
	extractCmd.Flags().Bool("normalize", false, "fill derivable fields before writing")
	extractCmd.Flags().String("candidates", "", "also write candidate lines to this JSON path")
	bindFlags(extractCmd, "extract", "output", "guide", "data-source", "snap-tolerance", "normalize")

	rootCmd.AddCommand(extractCmd)
}

func extractionConfig() types.ExtractionConfig {
	return types.ExtractionConfig{
		OutputPath:    viper.GetString("extract.output"),
		GuidePath:     viper.GetString("extract.guide"),
		DataSource:    viper.GetString("extract.data_source"),
		SnapTolerance: viper.GetFloat64("extract.snap_tolerance"),
		Normalize:     viper.GetBool("extract.normalize"),
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig()

	pdfPath := fetch.Dest(fetchConfig())
	if len(args) > 0 {
		pdfPath = args[0]
	}

	fmt.Println("🔍 Extracting party data from PDF...")
	fmt.Printf("📄 Source: %s\n\n", pdfPath)

	doc, err := pdfsource.Open(pdfPath)
	if err != nil {
		return err
	}
	defer doc.Close()

	settings := pdftable.DefaultSettings()
	if cfg.SnapTolerance > 0 {
		settings.SnapTolerance = cfg.SnapTolerance
	}

	res, err := extract.Extract(context.Background(), doc, extract.Options{
		Settings:   settings,
		DataSource: cfg.DataSource,
		Logger:     logger.Named("extract"),
	}, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.Normalize {
		normalize.Apply(res.Parties, os.Stdout, logger.Named("normalize"))
	}

	if err := extract.SaveParties(cfg.OutputPath, res.Parties); err != nil {
		return err
	}
	fmt.Printf("\n✅ Extracted %d parties\n", len(res.Parties))
	fmt.Printf("📁 Saved to: %s\n", cfg.OutputPath)

	if err := guide.Write(cfg.GuidePath, res.Parties); err != nil {
		return err
	}
	fmt.Printf("📖 Completion guide saved to: %s\n", cfg.GuidePath)

	if path, _ := cmd.Flags().GetString("candidates"); path != "" {
		if err := extract.SaveJSON(path, res.Candidates); err != nil {
			return err
		}
		fmt.Printf("📝 %d candidate lines saved to: %s\n", len(res.Candidates), path)
	}

	fmt.Println("\n🎯 Next Steps:")
	fmt.Printf("1. Open %s\n", cfg.OutputPath)
	fmt.Println("2. Complete the null fields (use completion guide)")
	fmt.Println("3. Run: ecn-parties store ingest " + cfg.OutputPath)

	if res.HasFailures() {
		return fmt.Errorf("%d page(s) and %d row(s) could not be processed", res.PageErrors, res.RowErrors)
	}
	return nil
}
