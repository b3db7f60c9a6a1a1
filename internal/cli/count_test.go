package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kokkonisd/locstats/internal/config"
)

func writeSource(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func pythonProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSource(t, dir, "src/app.py", "# entry point\nimport os\n\n\"\"\"\ndoc\n\"\"\"\nprint(os.name)\n")
	writeSource(t, dir, "src/notes.txt", "not python\n")
	return dir
}

func runCountForTest(t *testing.T, opts countOptions) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runCount(context.Background(), opts, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunCountOutputShapes(t *testing.T) {
	dir := pythonProject(t)
	src := filepath.Join(dir, "src")

	tests := []struct {
		name  string
		flags countFlags
		want  string
	}{
		{name: "descriptive plain", flags: countFlags{}, want: "You have written approximately 7 LOC in Python.\n"},
		{name: "descriptive strict", flags: countFlags{Strict: true}, want: "You have written approximately 2 LOC in Python.\n"},
		{name: "minimal", flags: countFlags{Minimal: true}, want: "7\n"},
		{name: "minimal strict", flags: countFlags{Minimal: true, Strict: true}, want: "2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCountForTest(t, countOptions{
				ProjectDir: dir,
				Language:   "python",
				Dirs:       []string{src},
				Flags:      tt.flags,
			})
			if err != nil {
				t.Fatalf("run count: %v", err)
			}
			if stdout != tt.want {
				t.Fatalf("stdout=%q want %q", stdout, tt.want)
			}
		})
	}
}

func TestRunCountWithoutDirectoriesPrintsZero(t *testing.T) {
	stdout, _, err := runCountForTest(t, countOptions{ProjectDir: t.TempDir(), Language: "rust", Flags: countFlags{Minimal: true}})
	if err != nil {
		t.Fatalf("run count: %v", err)
	}
	if stdout != "0\n" {
		t.Fatalf("stdout=%q want 0", stdout)
	}
}

func TestRunCountUnknownLanguage(t *testing.T) {
	stdout, _, err := runCountForTest(t, countOptions{
		ProjectDir: t.TempDir(),
		Language:   "klingon",
		Dirs:       []string{t.TempDir()},
		Flags:      countFlags{Minimal: true},
	})

	var exitErr *exitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if strings.Contains(stdout, "You have written") || strings.TrimSpace(stdout) == "0" {
		t.Fatalf("no total should be printed, got %q", stdout)
	}
	if !strings.Contains(stdout, "`klingon`") {
		t.Fatalf("expected the language to be named, got %q", stdout)
	}
	if !strings.Contains(stdout, "c, cpp, csharp") {
		t.Fatalf("expected the sorted language list, got %q", stdout)
	}
	if !strings.Contains(stdout, config.ProjectURL) {
		t.Fatalf("expected the project url, got %q", stdout)
	}

	var stderr bytes.Buffer
	if code := reportError(&stderr, err); code != 1 {
		t.Fatalf("reportError code=%d want 1", code)
	}
	if stderr.Len() != 0 {
		t.Fatalf("already reported error should not be printed again, got %q", stderr.String())
	}
}

func TestRunCountMissingDirectoryWarnings(t *testing.T) {
	dir := pythonProject(t)
	missing := filepath.Join(dir, "nope")

	stdout, stderr, err := runCountForTest(t, countOptions{
		ProjectDir: dir,
		Language:   "python",
		Dirs:       []string{missing, filepath.Join(dir, "src")},
		Flags:      countFlags{Minimal: true},
	})
	if err != nil {
		t.Fatalf("run count: %v", err)
	}
	if stdout != "7\n" {
		t.Fatalf("stdout=%q want 7", stdout)
	}
	if !strings.Contains(stderr, missing) {
		t.Fatalf("expected a warning naming %s, got %q", missing, stderr)
	}

	stdout, stderr, err = runCountForTest(t, countOptions{
		ProjectDir: dir,
		Language:   "python",
		Dirs:       []string{missing},
		Flags:      countFlags{Minimal: true, Silent: true},
	})
	if err != nil {
		t.Fatalf("run silent count: %v", err)
	}
	if stdout != "0\n" {
		t.Fatalf("total must still be printed, got %q", stdout)
	}
	if stderr != "" {
		t.Fatalf("silent run wrote warnings: %q", stderr)
	}
}

func TestRunCountFilesAndJSON(t *testing.T) {
	dir := pythonProject(t)
	writeSource(t, dir, "src/vendor/lib.py", "x = 1\n")
	src := filepath.Join(dir, "src")

	stdout, _, err := runCountForTest(t, countOptions{
		ProjectDir: dir,
		Language:   "python",
		Dirs:       []string{src},
		Flags:      countFlags{Files: true, Strict: true},
	})
	if err != nil {
		t.Fatalf("run count: %v", err)
	}
	if !strings.Contains(stdout, filepath.Join(src, "app.py")) || !strings.Contains(stdout, filepath.Join(src, "vendor", "lib.py")) {
		t.Fatalf("expected per-file lines, got %q", stdout)
	}
	if !strings.HasSuffix(stdout, "You have written approximately 3 LOC in Python.\n") {
		t.Fatalf("expected summary last, got %q", stdout)
	}

	stdout, _, err = runCountForTest(t, countOptions{
		ProjectDir: dir,
		Language:   "python",
		Dirs:       []string{src},
		Flags:      countFlags{JSON: true, Strict: true, SkipVendor: true},
	})
	if err != nil {
		t.Fatalf("run json count: %v", err)
	}
	var report countReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode json output: %v\nraw=%s", err, stdout)
	}
	if report.Total != 2 || report.Name != "Python" || !report.Strict {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Files) != 1 || report.Files[0].LOC != 2 || report.Files[0].Size == 0 {
		t.Fatalf("unexpected files %+v", report.Files)
	}
}

func TestRunCountExclude(t *testing.T) {
	dir := pythonProject(t)
	writeSource(t, dir, "src/gen/out.py", "a = 1\nb = 2\n")

	stdout, _, err := runCountForTest(t, countOptions{
		ProjectDir: dir,
		Language:   "python",
		Dirs:       []string{filepath.Join(dir, "src")},
		Flags:      countFlags{Minimal: true, Strict: true, Exclude: []string{"gen"}},
	})
	if err != nil {
		t.Fatalf("run count: %v", err)
	}
	if stdout != "2\n" {
		t.Fatalf("stdout=%q want 2", stdout)
	}
}

func TestRootCommandWiring(t *testing.T) {
	dir := pythonProject(t)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"python", filepath.Join(dir, "src"), "--strict", "-m"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("output=%q want 2", out.String())
	}

	cmd = NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error without a language argument")
	}
}

func TestReportErrorPrintsMessage(t *testing.T) {
	var buf bytes.Buffer
	if code := reportError(&buf, errors.New("boom")); code != 1 {
		t.Fatalf("code=%d want 1", code)
	}
	if buf.String() != "error: boom\n" {
		t.Fatalf("unexpected message %q", buf.String())
	}

	buf.Reset()
	if code := reportError(&buf, &exitError{code: 3, err: errors.New("bad")}); code != 3 {
		t.Fatalf("code=%d want 3", code)
	}
}
