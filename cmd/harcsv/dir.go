package main

import (
	"github.com/spf13/cobra"

	"github.com/usestring/harcsv/internal/convert"
)

func dirCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dir <directory>",
		Short: "Merge every .har file in a directory into one report",
		Long: `Merge the entries of every .har file directly inside <directory> into
<directory name>.csv, ordered by startedDateTime. Each row records the file it
came from and adds the derived responseSize and responseRate columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, flags, args[0], convert.ConvertDirectory)
		},
	}
}
