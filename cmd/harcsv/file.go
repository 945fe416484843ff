package main

import (
	"github.com/spf13/cobra"

	"github.com/usestring/harcsv/internal/convert"
)

func fileCmd(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Convert a single .har file or a .zip archive containing one",
		Long: `Convert a single capture. A .har file is written as <name>.csv next to it;
for a .zip archive the first .har member (by name) is extracted to a temporary
file and written as <member name>.csv in the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, flags, args[0], convert.ConvertSource)
		},
	}
}
