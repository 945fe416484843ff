package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/usestring/harcsv/internal/config"
	"github.com/usestring/harcsv/internal/convert"
	"github.com/usestring/harcsv/internal/harerr"
	"github.com/usestring/harcsv/internal/loader"
	"github.com/usestring/harcsv/internal/logging"
	"github.com/usestring/harcsv/internal/query"
)

type convertFunc func(path string, opts convert.Options) (*convert.Result, error)

// runFlags are shared by the root command and its subcommands.
type runFlags struct {
	configPath string
	output     string
	outputDir  string
	tempDir    string
	filter     string
	delimiter  string
	logLevel   string
	logFile    string
}

func (f *runFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (default ~/.config/harcsv/config.toml)")
	pf.StringVarP(&f.output, "output", "o", "", "Write the report to this path instead of the derived name")
	pf.StringVar(&f.outputDir, "output-dir", "", "Directory for the derived report name")
	pf.StringVar(&f.tempDir, "temp-dir", "", "Directory for HAR files extracted from archives")
	pf.StringVar(&f.filter, "filter", "", `jq expression selecting entries, e.g. 'select(.response.status >= 400)'`)
	pf.StringVar(&f.delimiter, "delimiter", "", `Field separator (single character, "\t" for tab)`)
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&f.logFile, "log-file", "", "Log to this file with rotation instead of stderr")
}

// load reads the configuration and applies flags the user set explicitly.
func (f *runFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if changed("temp-dir") {
		cfg.TempDir = f.tempDir
	}
	if changed("filter") {
		cfg.Filter = f.filter
	}
	if changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	return cfg, nil
}

func execute(cmd *cobra.Command, flags *runFlags, path string, run convertFunc) error {
	// Arguments are valid from here on; further failures are not usage errors.
	cmd.SilenceUsage = true

	cfg, err := flags.load(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cleanup, err := logging.Setup(cfg.Logging())
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer cleanup()

	filter, err := query.NewFilter(cfg.Filter)
	if err != nil {
		return err
	}
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return err
	}

	res, err := run(path, convert.Options{
		Output:    flags.output,
		OutputDir: cfg.OutputDir,
		TempDir:   cfg.TempDir,
		Filter:    filter,
		Delimiter: delimiter,
	})
	if err != nil {
		// Nothing to convert is reported on stdout and is not a failure.
		if harerr.Is(err, harerr.CodeUnsupportedFormat) || harerr.Is(err, harerr.CodeNoHarFound) {
			slog.Warn("nothing converted", slog.String("path", path), slog.String("error", err.Error()))
			fmt.Fprintln(cmd.OutOrStdout(), harerr.UserMessage(err))
			return nil
		}
		slog.Error("conversion failed", slog.String("path", path), slog.String("error", err.Error()))
		return err
	}

	printSummary(cmd.OutOrStdout(), res)
	return nil
}

// printSummary writes a human-readable summary when w is a terminal and only
// the report path otherwise, so the output can be piped.
func printSummary(w io.Writer, res *convert.Result) {
	writeSummary(w, res, isTerminal(w))
}

func writeSummary(w io.Writer, res *convert.Result, human bool) {
	if !human {
		fmt.Fprintln(w, res.Output)
		return
	}

	switch res.Kind {
	case loader.KindZip:
		fmt.Fprintf(w, "Exported %s rows from '%s' in '%s' to '%s'.\n",
			humanize.Comma(int64(res.Rows)), res.Member, res.Source, res.Output)
	case loader.KindDirectory:
		fmt.Fprintf(w, "Data from HAR files in '%s' has been successfully exported to '%s'.\n", res.Source, res.Output)
		fmt.Fprintf(w, "%s rows from %s files, %s of responses.\n",
			humanize.Comma(int64(res.Rows)),
			humanize.Comma(int64(res.Files)),
			humanize.Bytes(uint64(res.TotalBytes)),
		)
	default:
		fmt.Fprintf(w, "Exported %s rows to '%s'.\n", humanize.Comma(int64(res.Rows)), res.Output)
	}
	if res.Skipped > 0 {
		fmt.Fprintf(w, "%s entries did not match the filter.\n", humanize.Comma(int64(res.Skipped)))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
