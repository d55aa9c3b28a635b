// Package fs provides file-based storage for crawl results.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/domcrawl"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// Format selects the layout of a results file.
type Format string

const (
	// FormatTSV writes a commented header followed by one
	// "domain<TAB>count" line per domain.
	FormatTSV Format = "tsv"
	// FormatPlain writes one domain per line.
	FormatPlain Format = "plain"
	// FormatCSV writes a "domain,count" header and one record per domain.
	FormatCSV Format = "csv"
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTSV, FormatPlain, FormatCSV:
		return f, nil
	case "":
		return FormatTSV, nil
	default:
		return "", domcrawl.Errorf(domcrawl.EINVALID, "unknown output format %q (want tsv, plain or csv)", s)
	}
}

// domainRow is one CSV record.
type domainRow struct {
	Domain string `csv:"domain"`
	Count  int    `csv:"count"`
}

// FormatResult renders result in the given format.
func FormatResult(result *domcrawl.Result, format Format) (string, error) {
	var b strings.Builder
	switch format {
	case FormatPlain:
		for _, name := range result.DomainNames() {
			b.WriteString(name)
			b.WriteByte('\n')
		}
		return b.String(), nil
	case FormatCSV:
		rows := make([]domainRow, 0, len(result.Domains))
		for _, dc := range result.Domains {
			rows = append(rows, domainRow{Domain: dc.Domain, Count: dc.Count})
		}
		return gocsv.MarshalString(&rows)
	}

	b.WriteString("# Domain\tCount\n")
	for _, dc := range result.Domains {
		b.WriteString(dc.Domain)
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(dc.Count))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Ensure ResultWriter implements domcrawl.ResultWriter at compile time.
var _ domcrawl.ResultWriter = (*ResultWriter)(nil)

// ResultWriter writes crawl results to a file.
// The file is written to a temporary sibling first and renamed into place,
// so readers never observe a partial file.
type ResultWriter struct {
	path   string
	format Format
}

// NewResultWriter creates a ResultWriter targeting path.
func NewResultWriter(path string, format Format) *ResultWriter {
	return &ResultWriter{path: path, format: format}
}

// Path returns the destination file path.
func (w *ResultWriter) Path() string {
	return w.path
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *domcrawl.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	content, err := FormatResult(result, w.format)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("format %s: %w", w.format, err)
	}

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// GenerateFilename derives an output filename from the crawled site:
// the authority with dots replaced by underscores, followed by a short
// random suffix. Example: https://example.com/ → example_com_1a2b3c4d.txt
func GenerateFilename(startURL string) string {
	domain := "domains"
	if u, err := url.Parse(startURL); err == nil && u.Host != "" {
		domain = strings.NewReplacer(".", "_", ":", "_").Replace(u.Host)
	}
	return domain + "_" + uuid.NewString()[:8] + ".txt"
}
