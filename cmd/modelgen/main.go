package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/koustreak/modelgen/internal/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error: ")+err.Error())
		os.Exit(cli.ExitCode(err))
	}
}
