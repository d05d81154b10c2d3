package statement

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tuannm99/leafdb/internal/btree"
	"github.com/tuannm99/leafdb/internal/table"
)

var ErrUnrecognizedMeta = errors.New("statement: unrecognized meta command")

// IsMeta reports whether line is a meta command (starts with '.').
func IsMeta(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ".")
}

// DoMeta runs a meta command. It returns exit=true for .exit/.quit; the
// caller owns closing the table.
func DoMeta(line string, t *table.Table, w io.Writer) (exit bool, err error) {
	switch strings.TrimSpace(line) {
	case ".exit", ".quit":
		return true, nil
	case ".btree":
		if _, err := fmt.Fprintln(w, "Tree:"); err != nil {
			return false, err
		}
		return false, t.Dump(w)
	case ".constants":
		if _, err := fmt.Fprintln(w, "Constants:"); err != nil {
			return false, err
		}
		return false, btree.PrintConstants(w)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnrecognizedMeta, line)
	}
}
