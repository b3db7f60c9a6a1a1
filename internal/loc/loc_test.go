package loc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kokkonisd/locstats/internal/lang"
)

var (
	cSyntax = lang.CommentSyntax{
		Line:   "//",
		Blocks: []lang.BlockComment{{Open: "/*", Close: "*/"}},
	}
	pySyntax = lang.CommentSyntax{
		Line:   "#",
		Blocks: []lang.BlockComment{{Open: `"""`, Close: `"""`}, {Open: "'''", Close: "'''"}},
	}
)

func TestCountLinesStrict(t *testing.T) {
	tests := []struct {
		name    string
		syntax  lang.CommentSyntax
		content string
		want    int
	}{
		{name: "empty", syntax: cSyntax, content: "", want: 0},
		{name: "only blanks", syntax: cSyntax, content: "\n   \n\t\n\n", want: 0},
		{name: "only line comments", syntax: cSyntax, content: "// a\n  // b\n//c", want: 0},
		{name: "code and comments", syntax: cSyntax, content: "int x;\n\n// c\nint y;\n", want: 2},
		{name: "block between code", syntax: cSyntax, content: "a();\n/*\n one\n two\n three\n*/\nb();\n", want: 2},
		{name: "single line block", syntax: cSyntax, content: "/* c */\nx = 1;\n", want: 1},
		{name: "trailing code after block", syntax: cSyntax, content: "/* c */ x=1", want: 1},
		{name: "trailing code after multi-line block", syntax: cSyntax, content: "/*\n c\n*/ x = 1;\n", want: 1},
		{name: "whitespace after close", syntax: cSyntax, content: "/*\n c\n*/   \n", want: 0},
		{name: "unterminated block", syntax: cSyntax, content: "a();\n/* open\nb();\nc();\n", want: 1},
		{name: "marker mid-line ignored", syntax: cSyntax, content: "x = 1; // c\ns = \"/* not a comment\";\ny = 2;\n", want: 3},
		{name: "open marker mid-line does not open", syntax: cSyntax, content: "x = 1; /* c\ny = 2;\n*/\n", want: 3},
		{name: "blank inside block", syntax: cSyntax, content: "/*\n\n   \n*/\n", want: 0},
		{name: "indented comment", syntax: cSyntax, content: "\t\t// c\n    /* d */\n", want: 0},
		{name: "crlf line endings", syntax: cSyntax, content: "a();\r\n// c\r\n\r\nb();\r\n", want: 2},
		{name: "python docstring", syntax: pySyntax, content: "def f():\n    \"\"\"Doc.\"\"\"\n    return 1\n", want: 2},
		{name: "python multi-line docstring", syntax: pySyntax, content: "'''\nmodule doc\n'''\nimport os\n# c\n", want: 1},
		{name: "second block style", syntax: pySyntax, content: "'''a\nb''' + x\n", want: 1},
		{name: "no line marker", syntax: lang.CommentSyntax{Blocks: []lang.BlockComment{{Open: "(*", Close: "*)"}}}, content: "// x\n(* c *)\nlet y = 1\n", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLines(tt.content, tt.syntax, true); got != tt.want {
				t.Fatalf("CountLines(strict)=%d want %d", got, tt.want)
			}
		})
	}
}

func TestCountLinesPlainCountsPhysicalLines(t *testing.T) {
	contents := []string{
		"",
		"\n",
		"a",
		"a\n",
		"a\nb",
		"// c\n\n/* x\n y */\ncode\n",
		"/* never closed\n\n\n",
		"\n\n\n\n",
	}
	for _, content := range contents {
		want := strings.Count(content, "\n")
		if content != "" && !strings.HasSuffix(content, "\n") {
			want++
		}
		for _, syntax := range []lang.CommentSyntax{cSyntax, pySyntax, {}} {
			if got := CountLines(content, syntax, false); got != want {
				t.Fatalf("CountLines(%q, plain)=%d want %d", content, got, want)
			}
		}
	}
}

func TestCountLinesIsIdempotent(t *testing.T) {
	content := "a();\n/* open\nb();\n"
	first := CountLines(content, cSyntax, true)
	second := CountLines(content, cSyntax, true)
	if first != second {
		t.Fatalf("counts differ: %d vs %d", first, second)
	}
	if first != 1 {
		t.Fatalf("expected 1, got %d", first)
	}
}

func TestClassifierStates(t *testing.T) {
	c := NewClassifier(cSyntax)
	steps := []struct {
		line    string
		want    Class
		inBlock bool
	}{
		{"int a;", Code, false},
		{"", Blank, false},
		{"// note", Comment, false},
		{"/* start", Comment, true},
		{"  still", Comment, true},
		{"", Blank, true},
		{"end */ int b;", Code, false},
		{"/* one */", Comment, false},
		{"/* two */ int c;", Code, false},
	}
	for i, step := range steps {
		if got := c.Next(step.line); got != step.want {
			t.Fatalf("step %d: Next(%q)=%s want %s", i, step.line, got, step.want)
		}
		if c.InBlock() != step.inBlock {
			t.Fatalf("step %d: InBlock()=%v want %v", i, c.InBlock(), step.inBlock)
		}
	}
}

func TestClassifierFirstMatchingStyleWins(t *testing.T) {
	syntax := lang.CommentSyntax{Blocks: []lang.BlockComment{
		{Open: "=begin", Close: "=end"},
		{Open: "=be", Close: "!!"},
	}}
	c := NewClassifier(syntax)
	c.Next("=begin")
	if got := c.Next("!! not closed"); got != Comment {
		t.Fatalf("expected the first style to stay open, got %s", got)
	}
	if got := c.Next("=end"); got != Comment || c.InBlock() {
		t.Fatalf("expected first style to close, got %s inBlock=%v", got, c.InBlock())
	}
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c")
	if err := os.WriteFile(path, []byte("int main() {\n  // c\n  return 0;\n}\n"), 0o644); err != nil {
		t.Fatalf("write main.c: %v", err)
	}

	got, err := CountFile(path, cSyntax, true)
	if err != nil {
		t.Fatalf("count file: %v", err)
	}
	if got != 3 {
		t.Fatalf("CountFile(strict)=%d want 3", got)
	}

	got, err = CountFile(path, cSyntax, false)
	if err != nil {
		t.Fatalf("count file: %v", err)
	}
	if got != 4 {
		t.Fatalf("CountFile(plain)=%d want 4", got)
	}
}

func TestCountFileAccessError(t *testing.T) {
	dir := t.TempDir()
	for _, path := range []string{filepath.Join(dir, "missing.c"), dir} {
		n, err := CountFile(path, cSyntax, true)
		if err == nil {
			t.Fatalf("expected error for %s", path)
		}
		if !ErrFileAccess.Is(err) {
			t.Fatalf("expected ErrFileAccess, got %v", err)
		}
		if n != 0 {
			t.Fatalf("expected zero count on error, got %d", n)
		}
	}

	if _, err := ReadSource(filepath.Join(dir, "missing.c")); !ErrFileAccess.Is(err) {
		t.Fatalf("expected ErrFileAccess from ReadSource, got %v", err)
	}
}
