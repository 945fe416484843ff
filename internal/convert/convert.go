// Package convert turns HAR sources into CSV reports, wiring the loader,
// entry filter, normalizer and report writer together.
package convert

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/usestring/harcsv/internal/harerr"
	"github.com/usestring/harcsv/internal/loader"
	"github.com/usestring/harcsv/internal/normalize"
	"github.com/usestring/harcsv/internal/query"
	"github.com/usestring/harcsv/internal/report"
	"github.com/usestring/harcsv/pkg/har"
)

// CSVExt is the extension of written reports.
const CSVExt = ".csv"

// Options configures a conversion run.
type Options struct {
	Output    string        // Explicit report path; overrides OutputDir and naming rules
	OutputDir string        // Directory for derived report names ("" = see ConvertSource/ConvertDirectory)
	TempDir   string        // Where archive members are extracted ("" = os.TempDir)
	Filter    *query.Filter // Optional entry filter (nil = all entries)
	Delimiter rune          // Field separator (0 = ',')
}

// Result describes a finished conversion.
type Result struct {
	Kind       loader.Kind
	Source     string
	Member     string // HAR member used from a ZIP source
	Output     string
	Files      int     // HAR files that contributed entries
	Rows       int     // Rows written
	Skipped    int     // Entries dropped by the filter
	TotalBytes float64 // Sum of derived response sizes (directory mode)
}

// Run dispatches path to directory mode or single-source mode by its
// declared kind.
func Run(path string, opts Options) (*Result, error) {
	if loader.KindOf(path) == loader.KindDirectory {
		return ConvertDirectory(path, opts)
	}
	return ConvertSource(path, opts)
}

// ConvertSource converts a single .har file, or the HAR member of a .zip
// archive. A .har source is reported next to itself with the extension
// replaced; a .zip source is reported as <member stem>.csv in the current
// directory. OutputDir relocates either, Output replaces the path entirely.
func ConvertSource(path string, opts Options) (*Result, error) {
	res := &Result{Kind: loader.KindOf(path), Source: path}

	var entries []har.Entry
	var label, derived string

	switch res.Kind {
	case loader.KindHAR:
		loaded, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		entries = loaded
		label = path
		derived = replaceExt(path)
		if opts.OutputDir != "" {
			derived = filepath.Join(opts.OutputDir, filepath.Base(derived))
		}

	case loader.KindZip:
		archive, err := loader.LoadArchive(path, opts.TempDir)
		if err != nil {
			return nil, err
		}
		entries = archive.Entries
		res.Member = archive.Member
		label = path + ":" + archive.Member
		derived = filepath.Join(opts.OutputDir, replaceExt(filepath.Base(archive.Member)))

	default:
		return nil, harerr.UnsupportedFormat()
	}
	res.Files = 1

	rows := make([]normalize.FileRow, 0, len(entries))
	for i, e := range entries {
		ok, err := opts.Filter.Match(fmt.Sprintf("%s entry %d", label, i), e)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Skipped++
			continue
		}

		row, err := normalize.NormalizeFile(i, e)
		if err != nil {
			return nil, harerr.WithPath(err, label)
		}
		rows = append(rows, row)
	}

	res.Output = outputPath(opts, derived)
	if err := report.WriteFile(res.Output, normalize.FileColumns, rows, report.Options{Delimiter: opts.Delimiter}); err != nil {
		return nil, err
	}
	res.Rows = len(rows)

	slog.Info("converted HAR",
		slog.String("source", path),
		slog.String("member", res.Member),
		slog.String("filter", opts.Filter.String()),
		slog.String("output", res.Output),
		slog.Int("rows", res.Rows),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

// ConvertDirectory merges every .har file directly inside dir into one
// report ordered by startedDateTime, written as <dir name>.csv in OutputDir
// (the current directory by default). A directory without captures produces
// a header-only report.
func ConvertDirectory(dir string, opts Options) (*Result, error) {
	tagged, err := loader.LoadDirectory(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Kind: loader.KindDirectory, Source: dir}

	files := make(map[string]struct{})
	rows := make([]normalize.DirRow, 0, len(tagged))
	for _, tg := range tagged {
		files[tg.Filename] = struct{}{}

		ok, err := opts.Filter.Match(fmt.Sprintf("%s entry %d", tg.Filename, tg.Index), tg.Entry)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Skipped++
			continue
		}

		row, err := normalize.NormalizeDir(tg.Filename, tg.Index, tg.Entry)
		if err != nil {
			return nil, harerr.WithPath(err, filepath.Join(dir, tg.Filename))
		}
		res.TotalBytes += row.ResponseSize
		rows = append(rows, row)
	}
	res.Files = len(files)

	normalize.SortByStarted(rows)

	res.Output = outputPath(opts, filepath.Join(opts.OutputDir, dirName(dir)+CSVExt))
	if err := report.WriteFile(res.Output, normalize.DirColumns, rows, report.Options{Delimiter: opts.Delimiter}); err != nil {
		return nil, err
	}
	res.Rows = len(rows)

	slog.Info("converted HAR directory",
		slog.String("dir", dir),
		slog.String("filter", opts.Filter.String()),
		slog.String("output", res.Output),
		slog.Int("files", res.Files),
		slog.Int("rows", res.Rows),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

func outputPath(opts Options, derived string) string {
	if opts.Output != "" {
		return opts.Output
	}
	return derived
}

// replaceExt swaps the final extension of path for .csv.
func replaceExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + CSVExt
}

// dirName returns the base name of dir, resolving "." and trailing separators.
func dirName(dir string) string {
	name := filepath.Base(filepath.Clean(dir))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		if abs, err := filepath.Abs(dir); err == nil {
			name = filepath.Base(abs)
		}
	}
	return name
}
