package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
