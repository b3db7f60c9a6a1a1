package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/core"
	"github.com/kokkonisd/locstats/internal/db"
	"github.com/kokkonisd/locstats/internal/diff"
)

func newHistoryCmd(global *globalFlags) *cobra.Command {
	var language string
	var limit int
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := currentDir()
			if err != nil {
				return err
			}
			return runHistory(cwd, language, limit, outputJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "Only show runs for this language")
	cmd.Flags().IntVar(&limit, "limit", config.DefaultHistoryLimit, "Maximum number of runs to print")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the runs as JSON")

	cmd.AddCommand(newHistoryDiffCmd(global))
	return cmd
}

func runHistory(projectDir, language string, limit int, outputJSON bool, out io.Writer) error {
	history, err := openHistory(projectDir, false)
	if err != nil {
		return err
	}
	defer history.Close()

	runs, err := history.ListRuns(strings.TrimSpace(language), limit)
	if err != nil {
		return err
	}
	if outputJSON {
		if runs == nil {
			runs = []db.Run{}
		}
		return writeJSONOutput(out, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs yet. Run 'locstats LANGUAGE DIRS --record' to create one.")
		return nil
	}

	for _, run := range runs {
		mode := "plain"
		if run.Strict {
			mode = "strict"
		}
		failed := ""
		if run.FailedFiles > 0 {
			failed = fmt.Sprintf(" (%d unreadable)", run.FailedFiles)
		}
		fmt.Fprintf(out, "[%s] %s  %s %s: %s LOC across %d files%s\n",
			shortID(run.ID),
			relativeTime(run.CreatedAt),
			run.LanguageName,
			mode,
			humanize.Comma(int64(run.TotalLOC)),
			run.TotalFiles,
			failed,
		)
		if len(run.Dirs) > 0 {
			fmt.Fprintf(out, "  dirs: %s\n", strings.Join(run.Dirs, ", "))
		}
	}
	return nil
}

func relativeTime(ts string) string {
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(parsed)
}

func newHistoryDiffCmd(global *globalFlags) *cobra.Command {
	var noColor bool
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "diff <runA> <runB>",
		Short: "Show per-file LOC changes between two recorded runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := currentDir()
			if err != nil {
				return err
			}
			return runHistoryDiff(cwd, args[0], args[1], outputJSON, newPalette(noColor, cmd.OutOrStdout()), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors in diff output")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the diff as JSON")
	return cmd
}

type diffReport struct {
	From string `json:"from"`
	To   string `json:"to"`
	diff.Result
}

func runHistoryDiff(projectDir, runA, runB string, outputJSON bool, p palette, out io.Writer) error {
	history, err := openHistory(projectDir, false)
	if err != nil {
		return err
	}
	defer history.Close()

	svc := &core.Service{History: history}
	from, to, result, err := svc.CompareRuns(runA, runB)
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSONOutput(out, diffReport{From: from.ID, To: to.ID, Result: result})
	}

	fmt.Fprintf(out, "%s %s %s %s\n", p.bold("Diff"), p.bold(shortID(from.ID)), p.dim("->"), p.bold(shortID(to.ID)))
	fmt.Fprintf(out, "%s %s %s %s %s LOC %s (%d -> %d)\n\n",
		p.dim("Summary:"),
		p.green(fmt.Sprintf("+%d added", len(result.Added))),
		p.yellow(fmt.Sprintf("~%d modified", len(result.Modified))),
		p.red(fmt.Sprintf("-%d removed", len(result.Removed))),
		p.dim("|"),
		p.delta(result.Delta),
		from.TotalLOC,
		to.TotalLOC,
	)

	if result.Empty() {
		fmt.Fprintln(out, p.green("No differences."))
		return nil
	}
	writeDiffSection(out, p.green("Added"), p.green("+"), result.Added, p)
	writeDiffSection(out, p.red("Removed"), p.red("-"), result.Removed, p)
	writeDiffSection(out, p.yellow("Modified"), p.yellow("~"), result.Modified, p)
	return nil
}

func writeDiffSection(out io.Writer, title, marker string, entries []diff.Entry, p palette) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(out, "%s (%d):\n", title, len(entries))
	for _, e := range entries {
		fmt.Fprintf(out, "  %s %s %s\n", marker, e.Path, p.delta(e.Delta))
	}
	fmt.Fprintln(out)
}
