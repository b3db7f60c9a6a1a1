package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	ConfigPath string
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	var global globalFlags
	var flags countFlags
	cmd := &cobra.Command{
		Use:   "locstats LANGUAGE [SRC_DIRS...]",
		Short: "Count lines of code in a language across source directories",
		Long: "locstats counts the lines of code written in a given language across a set of source directories. " +
			"In strict mode blank lines and comment-only lines are not counted.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := currentDir()
			if err != nil {
				return err
			}
			return runCount(cmd.Context(), countOptions{
				ProjectDir: cwd,
				Language:   args[0],
				Dirs:       args[1:],
				Global:     global,
				Flags:      flags,
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&global.ConfigPath, "config", "", "Path to a .locstats.toml config file")
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Run in strict mode (ignore comments and empty lines)")
	cmd.Flags().BoolVarP(&flags.Minimal, "minimal", "m", false, "Give minimal output (just the LOC count)")
	cmd.Flags().BoolVar(&flags.Silent, "silent", false, "Silence all warnings (such as directories not being found)")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&flags.Files, "files", false, "Print the per-file breakdown")
	cmd.Flags().StringArrayVar(&flags.Exclude, "exclude", nil, "Glob of paths to skip, relative to each source directory (repeatable)")
	cmd.Flags().BoolVar(&flags.SkipVendor, "skip-vendor", false, "Skip vendored and third-party directories")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Number of files counted in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&flags.Record, "record", false, "Store the run in the local history database")

	cmd.AddCommand(newLanguagesCmd(&global))
	cmd.AddCommand(newHistoryCmd(&global))
	cmd.AddCommand(newWatchCmd(&global))
	cmd.AddCommand(newServeCmd(&global))

	return cmd
}

// exitError carries a process exit code. A nil err means the failure was
// already reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func (e *exitError) ExitCode() int { return e.code }

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

func reportError(w io.Writer, err error) int {
	code := 1
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		code = coded.ExitCode()
	}
	var reported *exitError
	if errors.As(err, &reported) && reported.err == nil {
		return code
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return code
}
