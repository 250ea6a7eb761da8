// Package generate implements the "generate" command: run detection and
// write the flake descriptor set for the target repository.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/devflake/internal/config"
	"github.com/indaco/devflake/internal/core"
	flakegen "github.com/indaco/devflake/internal/generate"
	"github.com/indaco/devflake/internal/logging"
	"github.com/indaco/devflake/internal/printer"
	"github.com/indaco/devflake/internal/resolve"
	"github.com/indaco/devflake/internal/scanner"
	"github.com/indaco/devflake/internal/tui"
	"github.com/urfave/cli/v3"
)

// Run returns the "generate" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate flake.nix and the .devflake state directory",
		ArgsUsage: "[path]",
		UsageText: `devflake generate [options] [path]

Scans the target directory (default: current directory), resolves the
detected language requirements, and writes flake.nix plus the .devflake
support files. When nothing changed since the last run, no file is
touched.

A manually edited flake.nix triggers a confirmation prompt before it is
overwritten; pass --yes to skip the prompt.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Usage: "Scan scope: root, recursive",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Overwrite a manually edited flake.nix without asking",
			},
		},
		Action: runGenerateCmd,
	}
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(ctx context.Context, cmd *cli.Command) error {
	logger := logging.New(cmd.Bool("verbose"))

	root, err := targetRoot(cmd.Args().First())
	if err != nil {
		return err
	}

	fsys := core.NewOSFileSystem()
	cfg, err := config.Load(ctx, fsys, root, cmd.String("config"))
	if err != nil {
		return err
	}

	precedence, err := resolve.ParsePrecedence(cfg.Precedence)
	if err != nil {
		return err
	}
	svc := flakegen.NewService(fsys, nil, precedence, cfg.Channel)

	opts, err := generateOptions(cfg, cmd)
	if err != nil {
		return err
	}

	// Success is silent so generate composes in scripts; everything
	// below the error path goes to stderr.
	outcome, err := svc.Generate(ctx, root, opts)
	if errors.Is(err, flakegen.ErrAborted) {
		printer.PrintWarning("Aborted: flake.nix left unchanged.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if outcome.StateWarning != "" {
		printer.PrintWarning(outcome.StateWarning)
	}

	logger.Debug("generation complete",
		"root", root,
		"skipped", outcome.Skipped,
		"written", len(outcome.Written))
	return nil
}

// generateOptions builds the generation options: the scan settings from
// config plus the --scope override, and the overwrite confirmation hook.
func generateOptions(cfg *config.Config, cmd *cli.Command) (flakegen.Options, error) {
	raw := cfg.Scope
	if s := cmd.String("scope"); s != "" {
		raw = s
	}
	scope, err := scanner.ParseScope(raw)
	if err != nil {
		return flakegen.Options{}, err
	}

	opts := flakegen.Options{
		Scan: scanner.Options{
			Scope:    scope,
			Excludes: cfg.Excludes,
			MaxDepth: cfg.MaxDepth,
		},
	}

	// Only prompt when a human can answer. With --yes, or outside a
	// terminal, an edited descriptor is overwritten without asking.
	if !cmd.Bool("yes") && tui.IsInteractive() {
		opts.ConfirmOverwrite = func(ctx context.Context) (bool, error) {
			return tui.Confirm(
				"flake.nix was modified since the last run.",
				"Overwrite it with regenerated content?",
			)
		}
	}
	return opts, nil
}

// targetRoot resolves the positional path argument to an absolute
// directory, defaulting to the current working directory.
func targetRoot(arg string) (string, error) {
	if arg == "" {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		return dir, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", arg, err)
	}
	return abs, nil
}
