package fast

// buffer.go provides a lightweight, non-thread-safe wrapper around byte slices
// used by the SCALE and SS58 packers.
//
// Purpose:
// - Writers simply append to a slice; the packers know their output sizes up front,
//   so callers usually pass `make([]byte, 0, size)`.
// - Readers advance an integer cursor and report ErrShortBuffer instead of panicking,
//   because they consume user-supplied input (addresses, config literals).

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned when a read asks for more bytes than remain.
var ErrShortBuffer = errors.New("fast: short buffer")

type Reader struct {
	// buf is the underlying data source.
	buf []byte
	// offset tracks the current reading position (cursor).
	offset int
}

type Writer struct {
	// buf is the accumulating byte slice.
	buf []byte
}

// NewReader creates a Reader to consume the provided byte slice.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer that appends to the provided initial slice.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer. It never fails.
func (b *Writer) WriteByte(v byte) error {
	b.buf = append(b.buf, v)
	return nil
}

// Write appends a slice of bytes (bulk write) to the buffer. It never fails.
func (b *Writer) Write(v []byte) (int, error) {
	b.buf = append(b.buf, v...)
	return len(v), nil
}

// U16 appends v in little-endian order.
func (b *Writer) U16(v uint16) {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
}

// U32 appends v in little-endian order.
func (b *Writer) U32(v uint32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
}

// U64 appends v in little-endian order.
func (b *Writer) U64(v uint64) {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, v)
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Len returns the number of accumulated bytes.
func (b *Writer) Len() int {
	return len(b.buf)
}

// Read consumes and returns the next 'n' bytes from the buffer.
//
// Note: It returns a slice that *shares memory* with the original buffer.
func (b *Reader) Read(n int) ([]byte, error) {
	if n < 0 || b.offset+n > len(b.buf) {
		return nil, ErrShortBuffer
	}
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res, nil
}

// ReadByte consumes and returns a single byte.
func (b *Reader) ReadByte() (byte, error) {
	if b.offset >= len(b.buf) {
		return 0, ErrShortBuffer
	}
	res := b.buf[b.offset]
	b.offset++
	return res, nil
}

// U64 consumes a little-endian uint64.
func (b *Reader) U64() (uint64, error) {
	raw, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

// Position returns the current cursor index of the Reader.
func (b *Reader) Position() int {
	return b.offset
}

// Remaining returns the number of unread bytes.
func (b *Reader) Remaining() int {
	return len(b.buf) - b.offset
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Empty checks if the Reader has reached the end of the buffer.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
