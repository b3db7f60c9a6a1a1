package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/core"
)

type countFlags struct {
	Strict     bool
	Minimal    bool
	Silent     bool
	JSON       bool
	Files      bool
	Exclude    []string
	SkipVendor bool
	Workers    int
	Record     bool
}

type countOptions struct {
	ProjectDir string
	Language   string
	Dirs       []string
	Global     globalFlags
	Flags      countFlags
}

func runCount(ctx context.Context, opts countOptions, stdout, stderr io.Writer) error {
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

	result, err := svc.Count(ctx, core.Request{
		Language: opts.Language,
		Dirs:     opts.Dirs,
		Strict:   opts.Flags.Strict,
	})
	if core.ErrUnknownLanguage.Is(err) {
		writeUnknownLanguage(stdout, opts.Language, svc.Registry.Names())
		return &exitError{code: 1}
	}
	if err != nil {
		return err
	}

	runID := ""
	if opts.Flags.Record {
		history, err := openHistory(opts.ProjectDir, true)
		if err != nil {
			return err
		}
		defer history.Close()
		svc.History = history

		run, err := svc.Record(result)
		if err != nil {
			return err
		}
		runID = run.ID
	}

	switch {
	case opts.Flags.JSON:
		return writeJSONOutput(stdout, newCountReport(result, runID))
	case opts.Flags.Minimal:
		fmt.Fprintln(stdout, result.Total)
	default:
		if opts.Flags.Files {
			writeFileBreakdown(stdout, result)
		}
		writeSummary(stdout, result)
		if runID != "" {
			fmt.Fprintf(stderr, "Recorded run %s\n", shortID(runID))
		}
	}
	return nil
}
