package statement

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tuannm99/leafdb/internal/record"
	"github.com/tuannm99/leafdb/internal/table"
)

type Type uint8

const (
	Insert Type = iota + 1
	Select
	SelectID
)

var (
	ErrSyntax       = errors.New("statement: syntax error")
	ErrNegativeID   = errors.New("statement: id must be positive")
	ErrUnrecognized = errors.New("statement: unrecognized keyword")
)

// Statement is a validated request ready to run against a table.
type Statement struct {
	Type Type
	Row  record.Row // Insert only
	ID   uint32     // SelectID only
}

// Prepare parses one input line:
//
//	insert <id> <username> <email>
//	select
//	select <id>
func Prepare(line string) (Statement, error) {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "insert") {
		return prepareInsert(line)
	}
	if strings.HasPrefix(line, "select") {
		return prepareSelect(line)
	}
	return Statement{}, fmt.Errorf("%w: %q", ErrUnrecognized, line)
}

func prepareInsert(line string) (Statement, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[0] != "insert" {
		return Statement{}, ErrSyntax
	}

	id, err := parseID(fields[1])
	if err != nil {
		return Statement{}, err
	}

	row, err := record.NewRow(id, fields[2], fields[3])
	if err != nil {
		return Statement{}, err
	}
	return Statement{Type: Insert, Row: row}, nil
}

func prepareSelect(line string) (Statement, error) {
	fields := strings.Fields(line)
	if fields[0] != "select" {
		return Statement{}, fmt.Errorf("%w: %q", ErrUnrecognized, line)
	}

	switch len(fields) {
	case 1:
		return Statement{Type: Select}, nil
	case 2:
		id, err := parseID(fields[1])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Type: SelectID, ID: id}, nil
	default:
		return Statement{}, ErrSyntax
	}
}

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", ErrSyntax, s)
	}
	if id < 0 {
		return 0, ErrNegativeID
	}
	if id > math.MaxUint32 {
		return 0, fmt.Errorf("%w: id %d out of range", ErrSyntax, id)
	}
	return uint32(id), nil
}

// Execute runs stmt against t. Select prints one row per line to w;
// SelectID prints the matching row, or nothing when the id is absent.
func Execute(stmt Statement, t *table.Table, w io.Writer) error {
	switch stmt.Type {
	case Insert:
		return t.Insert(stmt.Row)
	case Select:
		return t.Scan(func(row record.Row) error {
			_, err := fmt.Fprintln(w, row.String())
			return err
		})
	case SelectID:
		row, ok, err := t.Get(stmt.ID)
		if err != nil || !ok {
			return err
		}
		_, err = fmt.Fprintln(w, row.String())
		return err
	default:
		return fmt.Errorf("%w: statement type %d", ErrUnrecognized, stmt.Type)
	}
}

// ErrorMessage renders err as the line the REPL prints for input line.
func ErrorMessage(err error, line string) string {
	switch {
	case errors.Is(err, ErrSyntax):
		return "Syntax error. Could not parse statement."
	case errors.Is(err, ErrNegativeID):
		return "ID must be positive."
	case errors.Is(err, record.ErrStringTooLong):
		return "String is too long."
	case errors.Is(err, ErrUnrecognized):
		return fmt.Sprintf("Unrecognized keyword at start of '%s'.", line)
	case errors.Is(err, ErrUnrecognizedMeta):
		return fmt.Sprintf("Unrecognized command '%s'", line)
	case errors.Is(err, table.ErrDuplicateKey):
		return "Error: Duplicate key."
	case errors.Is(err, table.ErrTableFull):
		return "Error: Table full."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
