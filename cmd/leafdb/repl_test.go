package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/leafdb/internal/table"
)

// runScript feeds commands to a REPL over the db file at path and returns
// the exit code and transcript.
func runScript(t *testing.T, path string, commands ...string) (int, []string) {
	t.Helper()

	tbl, err := table.Open(path, table.DefaultOptions())
	require.NoError(t, err)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	code := runREPL(newScanReader(in, &out, "db > "), tbl, &out)
	return code, strings.Split(out.String(), "\n")
}

func TestREPL_InsertAndSelect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.db")

	code, lines := runScript(t, path,
		"insert 1 user1 person1@example.com",
		"select",
		".exit",
	)
	require.Equal(t, 0, code)
	assert.Equal(t, []string{
		"db > Executed.",
		"db > (1, user1, person1@example.com)",
		"Executed.",
		"db > ",
	}, lines)
}

func TestREPL_PersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.db")

	code, _ := runScript(t, path, "insert 1 user1 person1@example.com", ".exit")
	require.Equal(t, 0, code)

	code, lines := runScript(t, path, "select", ".exit")
	require.Equal(t, 0, code)
	assert.Equal(t, "db > (1, user1, person1@example.com)", lines[0])
}

func TestREPL_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.db")

	code, lines := runScript(t, path,
		"insert 1 a a@x",
		"insert 1 a a@x",
		"insert -1 a a@x",
		"insert 2 "+strings.Repeat("u", 33)+" a@x",
		"insert 3",
		"delete 1",
		".foo",
	)
	require.Equal(t, 0, code)
	assert.Equal(t, []string{
		"db > Executed.",
		"db > Error: Duplicate key.",
		"db > ID must be positive.",
		"db > String is too long.",
		"db > Syntax error. Could not parse statement.",
		"db > Unrecognized keyword at start of 'delete 1'.",
		"db > Unrecognized command '.foo'",
		"db > ",
	}, lines)
}

func TestREPL_TableFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.db")

	var cmds []string
	for i := 1; i <= 14; i++ {
		cmds = append(cmds, fmt.Sprintf("insert %d user%d person%d@example.com", i, i, i))
	}
	cmds = append(cmds, ".exit")

	code, lines := runScript(t, path, cmds...)
	require.Equal(t, 0, code)
	assert.Equal(t, "db > Error: Table full.", lines[13])
}

func TestREPL_SelectByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.db")

	code, lines := runScript(t, path,
		"insert 1 user1 person1@example.com",
		"insert 2 user2 person2@example.com",
		"select 2",
		"select 9",
		".exit",
	)
	require.Equal(t, 0, code)
	assert.Equal(t, []string{
		"db > Executed.",
		"db > Executed.",
		"db > (2, user2, person2@example.com)",
		"Executed.",
		"db > Executed.",
		"db > ",
	}, lines)
}
