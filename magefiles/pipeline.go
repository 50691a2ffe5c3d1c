//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const recordsFile = "data/parties-extracted.json"

func cli() string {
	return filepath.Join(binDir, binName)
}

// Fetch downloads the registration PDF. Set ECN_PARTIES_FETCH_URL or
// fetch.url in ecn-parties.yaml.
func Fetch() error {
	mg.Deps(Build, Init)
	return sh.RunV(cli(), "fetch")
}

// Extract reads the downloaded PDF into data/parties-extracted.json and the
// completion guide, normalizing derivable fields.
func Extract() error {
	mg.Deps(Build, Init)
	args := []string{"extract", "--normalize"}
	if pdf := os.Getenv("PDF"); pdf != "" {
		args = append(args, pdf)
	}
	return sh.RunV(cli(), args...)
}

// Ingest loads data/parties-extracted.json into the store and writes the CSV export.
func Ingest() error {
	mg.Deps(Build)
	if err := sh.RunV(cli(), "store", "ingest", recordsFile); err != nil {
		return err
	}
	return sh.RunV(cli(), "store", "export", "--format", "csv")
}
