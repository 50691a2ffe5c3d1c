// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ecn-parties/internal/extract"
	"github.com/pdiddy/ecn-parties/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <records.json>",
	Short: "Fill derivable fields in an extracted records file",
	Long: `Normalize rewrites Devanagari registration numbers as ASCII digits,
reformats BS dates as YYYY-MM-DD, fills province and district from the
headquarters address, splits leader names out of the leadership cell, and
flags the major parties. Fields that already hold a value are kept. Dates
stay in the Bikram Sambat calendar and nothing is translated.

The file is rewritten in place unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().String("output", "", "write to this path instead of overwriting the input")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in := args[0]
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = in
	}

	parties, err := extract.LoadParties(in)
	if err != nil {
		return err
	}

	normalize.Apply(parties, os.Stdout, logger.Named("normalize"))

	if err := extract.SaveParties(out, parties); err != nil {
		return err
	}
	fmt.Printf("📁 Saved to: %s\n", out)
	return nil
}
