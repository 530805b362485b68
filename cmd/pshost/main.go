// Command pshost runs an interactive host session on the terminal.
//
// It wires the standard streams to the host UI and runs the input loop with
// a small built-in command set, which is enough to exercise exit codes,
// interactive sessions and the host UI streams without an engine.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/smnsjas/go-pshost"
	"github.com/smnsjas/go-pshost/internal/config"
	"github.com/smnsjas/go-pshost/repl"
	"github.com/smnsjas/go-pshost/session"
	"github.com/smnsjas/go-pshost/terminal"
)

func main() {
	// Trap Ctrl+C for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var exitCode int
	cmd := newRootCmd(&exitCode)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
	cancel()
	os.Exit(exitCode)
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "pshost",
		Short: "Interactive PowerShell host on the terminal",
		Long: `Run an interactive host session on the terminal.

Built-in commands:
  exit [code]              Request exit with an optional exit code
  Enter-PSSession <name>   Push a runspace named <name>
  Exit-PSSession           Pop back to the previous runspace
  Get-Host                 Show host identity and culture
  Get-History              List command history
  Read-Host [prompt]       Read a line and echo it back
  Write-Progress <text>    Write a completed progress record
  Write-Host <text>        Write text (also Write-Warning, Write-Verbose,
                           Write-Debug, Write-Error)

Append a tab to a line to list completion candidates.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			code, err := run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			*exitCode = code
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/pshost/config.toml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	level, err := cfg.Level()
	if err != nil {
		return 1, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	version, err := cfg.HostVersion()
	if err != nil {
		return 1, err
	}
	culture, err := cfg.HostCulture()
	if err != nil {
		return 1, err
	}
	uiCulture, err := cfg.HostUICulture()
	if err != nil {
		return 1, err
	}

	localName, err := os.Hostname()
	if err != nil {
		localName = "localhost"
	}

	exit := &pshost.ExitRequest{}
	ui := terminal.New(terminal.NewStdio(stdin, stdout))
	h, err := pshost.New(exit, ui, session.NewRunspace(localName),
		pshost.WithName(cfg.Name),
		pshost.WithVersion(version),
		pshost.WithCulture(culture),
		pshost.WithUICulture(uiCulture),
		pshost.WithLogger(logger),
	)
	if err != nil {
		return 1, err
	}
	h.AddIntellisenseCommands(builtinCommands...)
	h.AddIntellisenseCommands(cfg.Intellisense.Candidates...)

	logger.Info("host started",
		slog.String("name", h.GetName()),
		slog.String("version", h.GetVersion().String()),
		slog.String("culture", h.GetCurrentCulture()),
	)

	loop := repl.New(h, exit, newBuiltins(h), repl.WithPrompt(cfg.Prompt), repl.WithLogger(logger))
	code, err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		ui.WriteLine("")
		return code, nil
	}
	return code, err
}
