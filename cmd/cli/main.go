package main

import (
	"os"

	"github.com/rentalhub/rentalhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
