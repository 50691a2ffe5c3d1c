// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecn-parties/internal/extract"
	"github.com/pdiddy/ecn-parties/internal/guide"
)

var guideCmd = &cobra.Command{
	Use:   "guide <records.json>",
	Short: "Rebuild the manual completion guide for a records file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGuide,
}

func init() {
	guideCmd.Flags().String("output", "", "guide output path (default extract.guide)")
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = viper.GetString("extract.guide")
	}
	if out == "" {
		out = defaultGuide
	}

	parties, err := extract.LoadParties(args[0])
	if err != nil {
		return err
	}
	if err := guide.Write(out, parties); err != nil {
		return err
	}
	fmt.Printf("📖 Completion guide saved to: %s (%d parties)\n", out, len(parties))
	return nil
}
