// Package detect implements the "detect" command: scan a repository and
// report the resolved language runtimes.
package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/devflake/internal/config"
	"github.com/indaco/devflake/internal/core"
	"github.com/indaco/devflake/internal/generate"
	"github.com/indaco/devflake/internal/logging"
	"github.com/indaco/devflake/internal/printer"
	"github.com/indaco/devflake/internal/report"
	"github.com/indaco/devflake/internal/resolve"
	"github.com/indaco/devflake/internal/scanner"
	"github.com/indaco/devflake/internal/tui"
	"github.com/urfave/cli/v3"
)

// Run returns the "detect" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Scan a repository and report detected language runtimes",
		ArgsUsage: "[path]",
		UsageText: `devflake detect [options] [path]

Scans the target directory (default: current directory) for language
markers such as go.mod, package.json, pyproject.toml, and Cargo.toml,
resolves the version requirements they declare, and prints the result.

Conflicting requirements are reported as warnings but do not fail the
command.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Usage: "Scan scope: root, recursive",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, table",
				Value:   "text",
			},
		},
		Action: runDetectCmd,
	}
}

// runDetectCmd executes the detect command.
func runDetectCmd(ctx context.Context, cmd *cli.Command) error {
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
	svc := generate.NewService(fsys, nil, precedence, cfg.Channel)

	opts, err := scanOptions(cfg, cmd.String("scope"))
	if err != nil {
		return err
	}

	format := ParseOutputFormat(cmd.String("format"))

	var (
		rep       *report.Report
		conflicts []*resolve.ConflictError
	)
	scan := func() error {
		var scanErr error
		rep, conflicts, scanErr = svc.Detect(ctx, root, opts)
		return scanErr
	}
	if format == FormatText && tui.IsInteractive() {
		err = tui.WithSpinner(ctx, "Scanning repository...", scan)
	} else {
		err = scan()
	}
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	logger.Debug("scan complete",
		"root", root,
		"languages", len(rep.Entries),
		"conflicts", len(conflicts))

	for _, c := range conflicts {
		printer.PrintWarning(c.Error())
	}

	NewFormatter(format).PrintReport(rep)
	return nil
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

// scanOptions builds the scan options from config plus the --scope
// override.
func scanOptions(cfg *config.Config, scopeFlag string) (scanner.Options, error) {
	raw := cfg.Scope
	if scopeFlag != "" {
		raw = scopeFlag
	}
	scope, err := scanner.ParseScope(raw)
	if err != nil {
		return scanner.Options{}, err
	}
	return scanner.Options{
		Scope:    scope,
		Excludes: cfg.Excludes,
		MaxDepth: cfg.MaxDepth,
	}, nil
}
