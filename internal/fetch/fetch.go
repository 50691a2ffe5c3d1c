// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the registration PDF published by the Election
// Commission so the extract stage has a local file to read.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/ecn-parties/internal/httputil"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

// DefaultFileName is the local name of the downloaded registration PDF.
const DefaultFileName = "ecn-registered-parties-2080.pdf"

// ErrNotPDF is returned when the server answers with something other than a
// PDF, typically an HTML error page with status 200.
var ErrNotPDF = errors.New("response is not a PDF")

var pdfMagic = []byte("%PDF-")

// Result reports what Download did.
type Result struct {
	Path    string
	Bytes   int64
	Skipped bool
}

// Dest returns the default download path under cfg.DataDir.
func Dest(cfg types.FetchConfig) string {
	return filepath.Join(cfg.DataDir, "raw", DefaultFileName)
}

// NewClient returns an HTTP client with the configured timeout.
func NewClient(cfg types.FetchConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// Download fetches url into dest. An existing dest is kept and reported as
// skipped. The body goes to a temp file next to dest and is renamed into
// place only once it is complete and starts with the PDF header.
func Download(ctx context.Context, client *http.Client, url, dest string, cfg types.FetchConfig, w io.Writer, log *zap.Logger) (Result, error) {
	res := Result{Path: dest}
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := os.Stat(dest); err == nil {
		fmt.Fprintf(w, "skipped: %s (exists)\n", dest)
		res.Skipped = true
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return res, fmt.Errorf("creating directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return res, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	fmt.Fprintf(w, "downloading: %s\n", url)
	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries, log)
	if err != nil {
		return res, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	n, err := writeAtomic(dest, resp.Body)
	if err != nil {
		return res, err
	}
	res.Bytes = n
	log.Info("downloaded", zap.String("url", url), zap.String("path", dest), zap.Int64("bytes", n))
	fmt.Fprintf(w, "saved: %s (%d bytes)\n", dest, n)
	return res, nil
}

func writeAtomic(dest string, body io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := copyPDF(tmp, body)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}

// copyPDF copies body to dst after checking the leading bytes.
func copyPDF(dst io.Writer, body io.Reader) (int64, error) {
	head := make([]byte, len(pdfMagic))
	k, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading download: %w", err)
	}
	if !bytes.Equal(head[:k], pdfMagic) {
		return 0, ErrNotPDF
	}

	n, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head[:k]), body))
	if err != nil {
		return n, fmt.Errorf("writing download: %w", err)
	}
	return n, nil
}
