package main

import (
	"fmt"
	"os"

	"github.com/usestring/harcsv/internal/harerr"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, harerr.UserMessage(err))
		os.Exit(1)
	}
}
