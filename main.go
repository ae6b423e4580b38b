package main

import (
	"os"

	"github.com/a11ytools/a11y-assist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
