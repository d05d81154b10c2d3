package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/leafdb/internal/statement"
	"github.com/tuannm99/leafdb/internal/table"
)

// lineReader yields one input line per call and io.EOF at the end.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// scanReader reads lines from a non-terminal input and echoes the prompt,
// so piped sessions print the same transcript as interactive ones.
type scanReader struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

func newScanReader(in io.Reader, out io.Writer, prompt string) *scanReader {
	return &scanReader{sc: bufio.NewScanner(in), out: out, prompt: prompt}
}

func (s *scanReader) Readline() (string, error) {
	_, _ = fmt.Fprint(s.out, s.prompt)
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

func (s *scanReader) Close() error { return nil }

// runREPL reads commands until .exit or end of input and returns the
// process exit code. The table is closed before returning.
func runREPL(rl lineReader, tbl *table.Table, out io.Writer) int {
	defer func() { _ = rl.Close() }()

	code := 0
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				_, _ = fmt.Fprintf(out, "Error reading input: %v\n", err)
				code = 1
			}
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if statement.IsMeta(line) {
			exit, err := statement.DoMeta(line, tbl, out)
			if err != nil {
				_, _ = fmt.Fprintln(out, statement.ErrorMessage(err, line))
			}
			if exit {
				break
			}
			continue
		}

		stmt, err := statement.Prepare(line)
		if err != nil {
			_, _ = fmt.Fprintln(out, statement.ErrorMessage(err, line))
			continue
		}
		if err := statement.Execute(stmt, tbl, out); err != nil {
			_, _ = fmt.Fprintln(out, statement.ErrorMessage(err, line))
			continue
		}
		_, _ = fmt.Fprintln(out, "Executed.")
	}

	if err := tbl.Close(); err != nil {
		_, _ = fmt.Fprintf(out, "Error closing db file: %v\n", err)
		return 1
	}
	return code
}
