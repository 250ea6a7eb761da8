// Package cli assembles the devflake root command.
package cli

import (
	"context"
	"fmt"

	"github.com/indaco/devflake/internal/commands/detect"
	"github.com/indaco/devflake/internal/commands/generate"
	"github.com/indaco/devflake/internal/console"
	"github.com/indaco/devflake/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

var (
	noColorFlag bool
	verboseFlag bool
)

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the devflake cli.
func New() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "devflake",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Detect language runtimes and generate a Nix dev-shell flake",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the configuration file",
				DefaultText: ".devflake.yaml",
			},
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
			&urfavecli.BoolFlag{
				Name:        "verbose",
				Usage:       "Enable debug logging",
				Destination: &verboseFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			console.SetNoColor(noColorFlag)
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			detect.Run(),
			generate.Run(),
		},
	}
}
