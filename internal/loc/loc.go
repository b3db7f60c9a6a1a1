// Package loc counts lines of code, optionally skipping blank lines and
// comment-only lines.
package loc

import (
	"bufio"
	"io"
	"os"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/kokkonisd/locstats/internal/lang"
)

// ErrFileAccess is returned when a source file cannot be opened or read.
var ErrFileAccess = errors.NewKind("cannot read source file %s")

// Class is the strict-mode verdict for a single line.
type Class int

const (
	Code Class = iota
	Blank
	Comment
)

func (c Class) String() string {
	switch c {
	case Code:
		return "code"
	case Blank:
		return "blank"
	case Comment:
		return "comment"
	default:
		return "unknown"
	}
}

// Classifier classifies the lines of one file in order. Comment markers are
// only recognized at the start of a trimmed line.
type Classifier struct {
	syntax lang.CommentSyntax
	// block is the style of the comment currently open, nil outside of one.
	block *lang.BlockComment
}

func NewClassifier(syntax lang.CommentSyntax) *Classifier {
	return &Classifier{syntax: syntax}
}

// InBlock reports whether a block comment is open after the last line.
func (c *Classifier) InBlock() bool {
	return c.block != nil
}

// Next classifies line and advances the block comment state.
func (c *Classifier) Next(line string) Class {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Blank
	}

	if c.block != nil {
		end := strings.Index(trimmed, c.block.Close)
		if end < 0 {
			return Comment
		}
		rest := trimmed[end+len(c.block.Close):]
		c.block = nil
		return remainder(rest)
	}

	if c.syntax.Line != "" && strings.HasPrefix(trimmed, c.syntax.Line) {
		return Comment
	}
	for i := range c.syntax.Blocks {
		block := &c.syntax.Blocks[i]
		if !strings.HasPrefix(trimmed, block.Open) {
			continue
		}
		body := trimmed[len(block.Open):]
		end := strings.Index(body, block.Close)
		if end < 0 {
			c.block = block
			return Comment
		}
		return remainder(body[end+len(block.Close):])
	}
	return Code
}

// remainder classifies what follows a closing marker on the same line.
func remainder(rest string) Class {
	if strings.TrimSpace(rest) == "" {
		return Comment
	}
	return Code
}

// Count returns the number of lines in r that count as LOC. Without strict
// every physical line counts.
func Count(r io.Reader, syntax lang.CommentSyntax, strict bool) (int, error) {
	var classifier *Classifier
	if strict {
		classifier = NewClassifier(syntax)
	}

	br := bufio.NewReader(r)
	count := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" && (classifier == nil || classifier.Next(line) == Code) {
			count++
		}
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// CountLines is Count over in-memory content.
func CountLines(content string, syntax lang.CommentSyntax, strict bool) int {
	n, _ := Count(strings.NewReader(content), syntax, strict)
	return n
}

// CountFile counts the lines of the file at path. Any failure to open or
// read it is reported as ErrFileAccess.
func CountFile(path string, syntax lang.CommentSyntax, strict bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ErrFileAccess.Wrap(err, path)
	}
	defer f.Close()

	n, err := Count(f, syntax, strict)
	if err != nil {
		return 0, ErrFileAccess.Wrap(err, path)
	}
	return n, nil
}

// ReadSource reads the whole file at path, reporting failures as
// ErrFileAccess.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrFileAccess.Wrap(err, path)
	}
	return data, nil
}
