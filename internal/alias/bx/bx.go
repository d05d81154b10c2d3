// stand for bytes helper
package bx

import (
	"bytes"
	"encoding/binary"
)

// LE is the byte order of every on-disk integer.
var LE = binary.LittleEndian

// --- LE: read / write ---
func U32(b []byte) uint32       { return LE.Uint32(b) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }

// --- LE: At (offset) ---
func U8At(b []byte, off int) uint8         { return b[off] }
func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func PutU8At(b []byte, off int, v uint8)   { b[off] = v }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }

// PutFixed copies src into the width bytes at off and zero-fills the rest.
// src longer than width is cut at width; callers validate lengths beforehand.
func PutFixed(b []byte, off, width int, src []byte) {
	dst := b[off : off+width]
	n := copy(dst, src)
	clear(dst[n:])
}

// Fixed returns the width bytes at off. The result aliases b.
func Fixed(b []byte, off, width int) []byte {
	return b[off : off+width : off+width]
}

// CString returns the bytes of a NUL-padded field up to the first NUL.
func CString(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
