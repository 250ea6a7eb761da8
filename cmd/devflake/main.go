package main

import (
	"context"
	"os"

	"github.com/indaco/devflake/internal/cli"
	"github.com/indaco/devflake/internal/printer"
)

// runCLI builds the root command and runs it with the given arguments.
func runCLI(args []string) error {
	return cli.New().Run(context.Background(), args)
}

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}
