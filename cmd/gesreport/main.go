package main

import (
	"os"

	"github.com/ges-reports/gesreport/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
