package lang

var (
	cStyle = CommentSyntax{
		Line:   "//",
		Blocks: []BlockComment{{Open: "/*", Close: "*/"}},
	}
	hashStyle = CommentSyntax{Line: "#"}
)

var builtin = []Spec{
	{Key: "ada", Name: "Ada", Extensions: []string{".adb", ".ads"}, Comments: CommentSyntax{Line: "--"}},
	{Key: "assembly", Name: "Assembly", Extensions: []string{".asm", ".s", ".S"}, Comments: CommentSyntax{Line: ";"}},
	{Key: "c", Name: "C", Extensions: []string{".c", ".h"}, Comments: cStyle},
	{Key: "cpp", Name: "C++", Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx", ".h"}, Comments: cStyle},
	{Key: "csharp", Name: "C#", Extensions: []string{".cs"}, Comments: cStyle},
	{Key: "css", Name: "CSS", Extensions: []string{".css"}, Comments: CommentSyntax{
		Blocks: []BlockComment{{Open: "/*", Close: "*/"}},
	}},
	{Key: "dart", Name: "Dart", Extensions: []string{".dart"}, Comments: cStyle},
	{Key: "elixir", Name: "Elixir", Extensions: []string{".ex", ".exs"}, Comments: hashStyle},
	{Key: "erlang", Name: "Erlang", Extensions: []string{".erl", ".hrl"}, Comments: CommentSyntax{Line: "%"}},
	{Key: "fortran", Name: "Fortran", Extensions: []string{".f90", ".f95", ".f03"}, Comments: CommentSyntax{Line: "!"}},
	{Key: "go", Name: "Go", Extensions: []string{".go"}, Comments: cStyle},
	{Key: "haskell", Name: "Haskell", Extensions: []string{".hs", ".lhs"}, Comments: CommentSyntax{
		Line:   "--",
		Blocks: []BlockComment{{Open: "{-", Close: "-}"}},
	}},
	{Key: "html", Name: "HTML", Extensions: []string{".html", ".htm"}, Comments: CommentSyntax{
		Blocks: []BlockComment{{Open: "<!--", Close: "-->"}},
	}},
	{Key: "java", Name: "Java", Extensions: []string{".java"}, Comments: cStyle},
	{Key: "javascript", Name: "JavaScript", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, Comments: cStyle},
	{Key: "julia", Name: "Julia", Extensions: []string{".jl"}, Comments: CommentSyntax{
		Line:   "#",
		Blocks: []BlockComment{{Open: "#=", Close: "=#"}},
	}},
	{Key: "kotlin", Name: "Kotlin", Extensions: []string{".kt", ".kts"}, Comments: cStyle},
	{Key: "lua", Name: "Lua", Extensions: []string{".lua"}, Comments: CommentSyntax{
		Line:   "--",
		Blocks: []BlockComment{{Open: "--[[", Close: "]]"}},
	}},
	{Key: "matlab", Name: "MATLAB", Extensions: []string{".m"}, Comments: CommentSyntax{
		Line:   "%",
		Blocks: []BlockComment{{Open: "%{", Close: "%}"}},
	}},
	{Key: "objective-c", Name: "Objective-C", Extensions: []string{".m", ".mm", ".h"}, Comments: cStyle},
	{Key: "ocaml", Name: "OCaml", Extensions: []string{".ml", ".mli"}, Comments: CommentSyntax{
		Blocks: []BlockComment{{Open: "(*", Close: "*)"}},
	}},
	{Key: "perl", Name: "Perl", Extensions: []string{".pl", ".pm"}, Comments: CommentSyntax{
		Line:   "#",
		Blocks: []BlockComment{{Open: "=pod", Close: "=cut"}, {Open: "=begin", Close: "=cut"}},
	}},
	{Key: "php", Name: "PHP", Extensions: []string{".php"}, Comments: CommentSyntax{
		Line:   "//",
		Blocks: []BlockComment{{Open: "/*", Close: "*/"}},
	}},
	{Key: "python", Name: "Python", Extensions: []string{".py", ".pyw"}, Comments: CommentSyntax{
		Line:   "#",
		Blocks: []BlockComment{{Open: `"""`, Close: `"""`}, {Open: "'''", Close: "'''"}},
	}},
	{Key: "r", Name: "R", Extensions: []string{".r", ".R"}, Comments: hashStyle},
	{Key: "ruby", Name: "Ruby", Extensions: []string{".rb"}, Comments: CommentSyntax{
		Line:   "#",
		Blocks: []BlockComment{{Open: "=begin", Close: "=end"}},
	}},
	{Key: "rust", Name: "Rust", Extensions: []string{".rs"}, Comments: cStyle},
	{Key: "scala", Name: "Scala", Extensions: []string{".scala", ".sc"}, Comments: cStyle},
	{Key: "shell", Name: "Shell", Extensions: []string{".sh", ".bash", ".zsh"}, Comments: hashStyle},
	{Key: "sql", Name: "SQL", Extensions: []string{".sql"}, Comments: CommentSyntax{
		Line:   "--",
		Blocks: []BlockComment{{Open: "/*", Close: "*/"}},
	}},
	{Key: "swift", Name: "Swift", Extensions: []string{".swift"}, Comments: cStyle},
	{Key: "typescript", Name: "TypeScript", Extensions: []string{".ts", ".tsx"}, Comments: cStyle},
	{Key: "verilog", Name: "Verilog", Extensions: []string{".v", ".vh", ".sv"}, Comments: cStyle},
	{Key: "vhdl", Name: "VHDL", Extensions: []string{".vhd", ".vhdl"}, Comments: CommentSyntax{Line: "--"}},
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := NewRegistry(builtin...)
	if err != nil {
		panic(err)
	}
	return r
}
