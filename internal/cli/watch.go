package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/core"
	"github.com/kokkonisd/locstats/internal/watch"
)

func newWatchCmd(global *globalFlags) *cobra.Command {
	var debounce time.Duration
	var flags countFlags
	cmd := &cobra.Command{
		Use:   "watch LANGUAGE [SRC_DIRS...]",
		Short: "Recount whenever source files change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := currentDir()
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), countOptions{
				ProjectDir: cwd,
				Language:   args[0],
				Dirs:       args[1:],
				Global:     *global,
				Flags:      flags,
			}, debounce, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", config.DefaultWatchDebounce, "Debounce window before recounting")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Run in strict mode (ignore comments and empty lines)")
	cmd.Flags().BoolVarP(&flags.Minimal, "minimal", "m", false, "Give minimal output (just the LOC count)")
	cmd.Flags().BoolVar(&flags.Silent, "silent", false, "Silence all warnings")
	cmd.Flags().StringArrayVar(&flags.Exclude, "exclude", nil, "Glob of paths to skip (repeatable)")
	cmd.Flags().BoolVar(&flags.SkipVendor, "skip-vendor", false, "Skip vendored and third-party directories")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Number of files counted in parallel")
	cmd.Flags().BoolVar(&flags.Record, "record", false, "Store every recount in the local history database")
	return cmd
}

func runWatch(ctx context.Context, opts countOptions, debounce time.Duration, stdout, stderr io.Writer) error {
	if len(opts.Dirs) == 0 {
		opts.Dirs = []string{"."}
	}

	cfg, err := config.Load(opts.Global.ConfigPath)
	if err != nil {
		return err
	}
	log, err := newLogger(stderr, cfg.LogLevel, opts.Global.Verbose, opts.Flags.Silent)
	if err != nil {
		return err
	}
	svc, err := openService(cfg, log, serviceOptions{
		Exclude:    opts.Flags.Exclude,
		SkipVendor: opts.Flags.SkipVendor,
		Workers:    opts.Flags.Workers,
		Silent:     opts.Flags.Silent,
	})
	if err != nil {
		return err
	}
	if opts.Flags.Record {
		history, err := openHistory(opts.ProjectDir, true)
		if err != nil {
			return err
		}
		defer history.Close()
		svc.History = history
	}

	req := core.Request{Language: opts.Language, Dirs: opts.Dirs, Strict: opts.Flags.Strict}
	previous := -1
	recount := func() error {
		result, err := svc.Count(ctx, req)
		if err != nil {
			return err
		}
		if result.Total == previous {
			return nil
		}
		if opts.Flags.Record {
			if _, err := svc.Record(result); err != nil {
				return err
			}
		}
		if opts.Flags.Minimal {
			fmt.Fprintln(stdout, result.Total)
		} else {
			if previous >= 0 {
				fmt.Fprintf(stdout, "[watch] %s %+d: ", time.Now().Format("15:04:05"), result.Total-previous)
			}
			writeSummary(stdout, result)
		}
		previous = result.Total
		return nil
	}

	if err := recount(); err != nil {
		if core.ErrUnknownLanguage.Is(err) {
			writeUnknownLanguage(stdout, opts.Language, svc.Registry.Names())
			return &exitError{code: 1}
		}
		return err
	}

	log.WithField("debounce", debounce).Debug("watching for changes")
	err = watch.Watch(ctx, opts.Dirs, debounce, recount)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func currentDir() (string, error) {
	return os.Getwd()
}
