package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/core"
)

func writeJSONOutput(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}

type countReport struct {
	Language string       `json:"language"`
	Name     string       `json:"name"`
	Strict   bool         `json:"strict"`
	Total    int          `json:"total"`
	Files    []fileReport `json:"files"`
	Missing  []string     `json:"missing,omitempty"`
	RunID    string       `json:"run_id,omitempty"`
}

type fileReport struct {
	Path  string `json:"path"`
	LOC   int    `json:"loc"`
	Size  int64  `json:"size"`
	Error string `json:"error,omitempty"`
}

func newCountReport(result *core.Result, runID string) countReport {
	report := countReport{
		Language: result.Language.Key,
		Name:     result.Language.Name,
		Strict:   result.Strict,
		Total:    result.Total,
		Files:    make([]fileReport, 0, len(result.Files)),
		Missing:  result.Missing,
		RunID:    runID,
	}
	for _, f := range result.Files {
		fr := fileReport{Path: filepath.ToSlash(f.Path), LOC: f.LOC, Size: f.Size}
		if f.Err != nil {
			fr.Error = f.Err.Error()
		}
		report.Files = append(report.Files, fr)
	}
	return report
}

func writeSummary(w io.Writer, result *core.Result) {
	fmt.Fprintf(w, "You have written approximately %d LOC in %s.\n", result.Total, result.Language.Name)
}

func writeFileBreakdown(w io.Writer, result *core.Result) {
	for _, f := range result.Files {
		if f.Err != nil {
			fmt.Fprintf(w, "%8s  %9s  %s (unreadable)\n", "-", "-", f.Path)
			continue
		}
		fmt.Fprintf(w, "%8d  %9s  %s\n", f.LOC, humanize.Bytes(uint64(f.Size)), f.Path)
	}
	if len(result.Files) > 0 {
		fmt.Fprintln(w)
	}
}

func writeUnknownLanguage(w io.Writer, language string, supported []string) {
	fmt.Fprintf(w, "The language `%s` doesn't exist or hasn't yet been registered into our database.\n", language)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Here's a list of all the languages we currently support:")
	fmt.Fprintf(w, "%s\n\n", strings.Join(supported, ", "))
	fmt.Fprintf(w, "If you'd like to contribute, you can check out locstats' GitHub page: %s\n", config.ProjectURL)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type palette struct {
	enabled bool
}

func newPalette(noColor bool, w io.Writer) palette {
	if noColor {
		return palette{enabled: false}
	}
	if os.Getenv("NO_COLOR") != "" {
		return palette{enabled: false}
	}
	if term := os.Getenv("TERM"); term == "" || term == "dumb" {
		return palette{enabled: false}
	}
	f, ok := w.(*os.File)
	if !ok {
		return palette{enabled: false}
	}
	info, err := f.Stat()
	if err != nil {
		return palette{enabled: false}
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return palette{enabled: false}
	}
	return palette{enabled: true}
}

func (p palette) wrap(code string, text string) string {
	if !p.enabled {
		return text
	}
	return "\x1b[" + code + "m" + text + "\x1b[0m"
}

func (p palette) dim(text string) string {
	return p.wrap("2", text)
}

func (p palette) bold(text string) string {
	return p.wrap("1", text)
}

func (p palette) red(text string) string {
	return p.wrap("31", text)
}

func (p palette) green(text string) string {
	return p.wrap("32", text)
}

func (p palette) yellow(text string) string {
	return p.wrap("33", text)
}

func (p palette) cyan(text string) string {
	return p.wrap("36", text)
}

// delta colors growth red and shrinkage green.
func (p palette) delta(n int) string {
	text := fmt.Sprintf("%+d", n)
	switch {
	case n > 0:
		return p.red(text)
	case n < 0:
		return p.green(text)
	default:
		return p.yellow(text)
	}
}
