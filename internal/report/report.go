// Package report writes normalized rows as delimited text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Row is a record that can be written as one line of a report.
type Row interface {
	Values() []string
}

// Options controls the output dialect.
type Options struct {
	Delimiter rune // Field separator, default ','
}

// Write emits a header line for columns followed by one line per row, in the
// order given. Fields containing the delimiter, a quote or a newline are
// quoted.
func Write[R Row](w io.Writer, columns []string, rows []R, opts Options) error {
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the report to path. The file is always closed, and removed
// again if writing fails so no partial report is left behind.
func WriteFile[R Row](path string, columns []string, rows []R, opts Options) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := Write(f, columns, rows, opts); err != nil {
		return err
	}

	slog.Debug("wrote report", slog.String("path", path), slog.Int("rows", len(rows)))
	return nil
}
