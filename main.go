package main

import (
	"os"

	"github.com/kkeeling/pr-generator-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
