/*
Package scale implements the small subset of the SCALE codec that genesis
construction needs: compact unsigned integers, length-prefixed strings and
byte slices.

Compact integers use the two low bits of the first byte as a mode flag:

	0b00  single byte,  value < 2^6
	0b01  two bytes,    value < 2^14
	0b10  four bytes,   value < 2^30
	0b11  big integer,  upper six bits hold (byte length - 4)

Decoding is canonical: a value packed in a wider mode than necessary is
rejected, the same way the runtime rejects it.
*/
package scale

import (
	"errors"
	"math/bits"

	"github.com/octopus-appchains/debio-node/utils/fast"
)

// Standard errors for encoding validation.
var (
	ErrNonCanonicalEncoding = errors.New("scale: compact integer not packed minimally")
	ErrMalformedEncoding    = errors.New("scale: structure invalid or truncated")
	ErrTooLargeAlloc        = errors.New("scale: decoded size exceeds limits")
)

// MaxAlloc limits the size of byte slices decoded from untrusted input.
const MaxAlloc = 100 * 1024

const (
	singleByteMax = 1<<6 - 1
	twoByteMax    = 1<<14 - 1
	fourByteMax   = 1<<30 - 1
)

// WriteCompact appends v in compact form.
func WriteCompact(w *fast.Writer, v uint64) {
	switch {
	case v <= singleByteMax:
		_ = w.WriteByte(byte(v << 2))
	case v <= twoByteMax:
		w.U16(uint16(v<<2) | 0b01)
	case v <= fourByteMax:
		w.U32(uint32(v<<2) | 0b10)
	default:
		size := (bits.Len64(v) + 7) / 8
		_ = w.WriteByte(byte(size-4)<<2 | 0b11)
		for i := 0; i < size; i++ {
			_ = w.WriteByte(byte(v >> (8 * i)))
		}
	}
}

// ReadCompact consumes a compact integer.
func ReadCompact(r *fast.Reader) (uint64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, ErrMalformedEncoding
	}
	switch first & 0b11 {
	case 0b00:
		return uint64(first >> 2), nil
	case 0b01:
		second, err := r.ReadByte()
		if err != nil {
			return 0, ErrMalformedEncoding
		}
		v := (uint64(first) | uint64(second)<<8) >> 2
		if v <= singleByteMax {
			return 0, ErrNonCanonicalEncoding
		}
		return v, nil
	case 0b10:
		rest, err := r.Read(3)
		if err != nil {
			return 0, ErrMalformedEncoding
		}
		v := (uint64(first) | uint64(rest[0])<<8 | uint64(rest[1])<<16 | uint64(rest[2])<<24) >> 2
		if v <= twoByteMax {
			return 0, ErrNonCanonicalEncoding
		}
		return v, nil
	default:
		size := int(first>>2) + 4
		if size > 8 {
			return 0, ErrTooLargeAlloc
		}
		raw, err := r.Read(size)
		if err != nil {
			return 0, ErrMalformedEncoding
		}
		if raw[size-1] == 0 {
			return 0, ErrNonCanonicalEncoding
		}
		var v uint64
		for i := size - 1; i >= 0; i-- {
			v = v<<8 | uint64(raw[i])
		}
		if v <= fourByteMax {
			return 0, ErrNonCanonicalEncoding
		}
		return v, nil
	}
}

// WriteBytes appends a compact length prefix followed by b.
func WriteBytes(w *fast.Writer, b []byte) {
	WriteCompact(w, uint64(len(b)))
	_, _ = w.Write(b)
}

// WriteString appends s as a SCALE string.
func WriteString(w *fast.Writer, s string) {
	WriteBytes(w, []byte(s))
}

// ReadBytes consumes a length-prefixed byte slice.
func ReadBytes(r *fast.Reader) ([]byte, error) {
	n, err := ReadCompact(r)
	if err != nil {
		return nil, err
	}
	if n > MaxAlloc {
		return nil, ErrTooLargeAlloc
	}
	raw, err := r.Read(int(n))
	if err != nil {
		return nil, ErrMalformedEncoding
	}
	return append([]byte(nil), raw...), nil
}

// EncodeString is a convenience wrapper returning the encoding of s alone.
func EncodeString(s string) []byte {
	w := fast.NewWriter(make([]byte, 0, len(s)+5))
	WriteString(w, s)
	return w.Bytes()
}
