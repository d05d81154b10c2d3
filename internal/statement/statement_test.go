package statement

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/leafdb/internal/record"
	"github.com/tuannm99/leafdb/internal/table"
)

func newTestTable(t *testing.T) *table.Table {
	t.Helper()

	tbl, err := table.Open(filepath.Join(t.TempDir(), "stmt.db"), table.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return tbl
}

func TestPrepare_Insert(t *testing.T) {
	stmt, err := Prepare("insert 1 user1 person1@example.com")
	require.NoError(t, err)

	assert.Equal(t, Insert, stmt.Type)
	assert.Equal(t, uint32(1), stmt.Row.ID)
	assert.Equal(t, "user1", stmt.Row.UsernameString())
	assert.Equal(t, "person1@example.com", stmt.Row.EmailString())
}

func TestPrepare_Select(t *testing.T) {
	stmt, err := Prepare("  select ")
	require.NoError(t, err)
	assert.Equal(t, Select, stmt.Type)
}

func TestPrepare_Errors(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{"insert 1 user1", ErrSyntax},
		{"insert abc user1 a@b", ErrSyntax},
		{"insert 4294967296 u e", ErrSyntax},
		{"inserted 1 u e", ErrSyntax},
		{"insert -1 user1 a@b", ErrNegativeID},
		{"insert 1 " + strings.Repeat("a", 33) + " a@b", record.ErrStringTooLong},
		{"insert 1 u " + strings.Repeat("a", 256), record.ErrStringTooLong},
		{"update 1", ErrUnrecognized},
		{"selected", ErrUnrecognized},
		{"select *", ErrSyntax},
		{"select 1 2", ErrSyntax},
		{"select -3", ErrNegativeID},
	}
	for _, tc := range cases {
		_, err := Prepare(tc.line)
		require.ErrorIs(t, err, tc.want, tc.line)
	}
}

func TestPrepare_MaxLengthStrings(t *testing.T) {
	username := strings.Repeat("a", record.ColumnUsernameSize)
	email := strings.Repeat("b", record.ColumnEmailSize)

	stmt, err := Prepare("insert 4294967295 " + username + " " + email)
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), stmt.Row.ID)
	assert.Equal(t, username, stmt.Row.UsernameString())
	assert.Equal(t, email, stmt.Row.EmailString())
}

func TestExecute_InsertThenSelect(t *testing.T) {
	tbl := newTestTable(t)
	var out bytes.Buffer

	for _, line := range []string{
		"insert 2 bob bob@example.com",
		"insert 1 alice alice@example.com",
	} {
		stmt, err := Prepare(line)
		require.NoError(t, err)
		require.NoError(t, Execute(stmt, tbl, &out))
	}

	stmt, err := Prepare("select")
	require.NoError(t, err)
	require.NoError(t, Execute(stmt, tbl, &out))

	assert.Equal(t, "(1, alice, alice@example.com)\n(2, bob, bob@example.com)\n", out.String())
}

func TestPrepare_SelectID(t *testing.T) {
	stmt, err := Prepare("select 42")
	require.NoError(t, err)
	assert.Equal(t, SelectID, stmt.Type)
	assert.Equal(t, uint32(42), stmt.ID)
}

func TestExecute_SelectID(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(mustRow(t, 3)))
	require.NoError(t, tbl.Insert(mustRow(t, 7)))

	var out bytes.Buffer
	stmt, err := Prepare("select 7")
	require.NoError(t, err)
	require.NoError(t, Execute(stmt, tbl, &out))
	assert.Equal(t, "(7, u, e@x)\n", out.String())

	out.Reset()
	stmt, err = Prepare("select 5")
	require.NoError(t, err)
	require.NoError(t, Execute(stmt, tbl, &out))
	assert.Empty(t, out.String())
}

func TestExecute_Duplicate(t *testing.T) {
	tbl := newTestTable(t)

	stmt, err := Prepare("insert 1 a a@x")
	require.NoError(t, err)
	require.NoError(t, Execute(stmt, tbl, &bytes.Buffer{}))

	err = Execute(stmt, tbl, &bytes.Buffer{})
	require.ErrorIs(t, err, table.ErrDuplicateKey)
	assert.Equal(t, "Error: Duplicate key.", ErrorMessage(err, "insert 1 a a@x"))
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  error
		line string
		want string
	}{
		{ErrSyntax, "", "Syntax error. Could not parse statement."},
		{ErrNegativeID, "", "ID must be positive."},
		{record.ErrStringTooLong, "", "String is too long."},
		{ErrUnrecognized, "foo", "Unrecognized keyword at start of 'foo'."},
		{ErrUnrecognizedMeta, ".foo", "Unrecognized command '.foo'"},
		{table.ErrTableFull, "", "Error: Table full."},
		{errors.New("disk on fire"), "", "Error: disk on fire"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorMessage(tc.err, tc.line))
	}
}

func TestDoMeta(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.Insert(mustRow(t, 3)))
	require.NoError(t, tbl.Insert(mustRow(t, 1)))

	var out bytes.Buffer
	exit, err := DoMeta(".btree", tbl, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "Tree:\nleaf (size 2)\n  - 0 : 1\n  - 1 : 3\n", out.String())

	out.Reset()
	exit, err = DoMeta(".constants", tbl, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.True(t, strings.HasPrefix(out.String(), "Constants:\nROW_SIZE: 293\n"))

	exit, err = DoMeta(".exit", tbl, &out)
	require.NoError(t, err)
	assert.True(t, exit)

	_, err = DoMeta(".nope", tbl, &out)
	require.ErrorIs(t, err, ErrUnrecognizedMeta)

	assert.True(t, IsMeta(" .exit"))
	assert.False(t, IsMeta("select"))
}

func mustRow(t *testing.T, id uint32) record.Row {
	t.Helper()

	r, err := record.NewRow(id, "u", "e@x")
	require.NoError(t, err)
	return r
}
