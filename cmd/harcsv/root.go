package main

import (
	"github.com/spf13/cobra"

	"github.com/usestring/harcsv/internal/convert"
)

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "harcsv <path>",
		Short: "Convert HAR captures into CSV reports",
		Long: `Convert HTTP Archive (HAR) captures into flat CSV reports.

<path> may be a .har file, a .zip archive holding a .har file, or a directory
of .har files. A single capture is written as <name>.csv next to the source
(archives: in the current directory); a directory is merged into
<directory name>.csv in the current directory, ordered by startedDateTime.

Configuration is read from ~/.config/harcsv/config.toml and the environment:
  HARCSV_OUTPUT_DIR, HARCSV_TEMP_DIR, HARCSV_FILTER, HARCSV_DELIMITER,
  LOG_LEVEL, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS, LOG_MAX_AGE_DAYS,
  LOG_COMPRESS`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, flags, args[0], convert.Run)
		},
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(fileCmd(flags))
	rootCmd.AddCommand(dirCmd(flags))

	return rootCmd
}
