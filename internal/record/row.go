package record

import (
	"errors"
	"fmt"

	"github.com/tuannm99/leafdb/internal/alias/bx"
)

const (
	// ColumnUsernameSize and ColumnEmailSize are the longest accepted texts.
	ColumnUsernameSize = 32
	ColumnEmailSize    = 255

	// Stored widths keep one byte for the NUL terminator.
	IDSize       = 4
	UsernameSize = ColumnUsernameSize + 1
	EmailSize    = ColumnEmailSize + 1

	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize

	// RowSize is the fixed serialized width of a Row: 4 + 33 + 256 = 293.
	RowSize = IDSize + UsernameSize + EmailSize
)

var ErrStringTooLong = errors.New("record: string is too long")

// Row is the single fixed-width record type stored in a table.
type Row struct {
	ID       uint32
	Username [UsernameSize]byte
	Email    [EmailSize]byte
}

// NewRow builds a Row from text values, rejecting values wider than their column.
func NewRow(id uint32, username, email string) (Row, error) {
	if len(username) > ColumnUsernameSize || len(email) > ColumnEmailSize {
		return Row{}, ErrStringTooLong
	}
	r := Row{ID: id}
	copy(r.Username[:], username)
	copy(r.Email[:], email)
	return r, nil
}

func (r Row) UsernameString() string { return string(bx.CString(r.Username[:])) }
func (r Row) EmailString() string    { return string(bx.CString(r.Email[:])) }

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.UsernameString(), r.EmailString())
}

// Serialize writes r into dst[0:RowSize]. dst must hold at least RowSize bytes.
// Layout: [id u32][username 33B][email 256B], no length prefixes.
func Serialize(r Row, dst []byte) {
	_ = dst[RowSize-1]
	bx.PutU32At(dst, IDOffset, r.ID)
	bx.PutFixed(dst, UsernameOffset, UsernameSize, r.Username[:])
	bx.PutFixed(dst, EmailOffset, EmailSize, r.Email[:])
}

// Deserialize reads a Row back from src[0:RowSize].
func Deserialize(src []byte) Row {
	_ = src[RowSize-1]
	var r Row
	r.ID = bx.U32At(src, IDOffset)
	copy(r.Username[:], bx.Fixed(src, UsernameOffset, UsernameSize))
	copy(r.Email[:], bx.Fixed(src, EmailOffset, EmailSize))
	return r
}
