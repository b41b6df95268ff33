package account

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/octopus-appchains/debio-node/utils/fast"
)

// GenericPrefix is the SS58 address format of generic substrate chains; the
// DeBio runtime does not register its own.
const GenericPrefix uint16 = 42

const (
	checksumLen    = 2
	maxSimplePfx   = 63
	maxFullPfx     = 16383
	ss58PreContext = "SS58PRE"
)

var (
	ErrBadChecksum = errors.New("ss58: bad checksum")
	ErrBadFormat   = errors.New("ss58: invalid format")
)

func ss58Checksum(data []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write([]byte(ss58PreContext))
	h.Write(data)
	return h.Sum(nil)[:checksumLen]
}

// EncodeSS58 renders payload (a 32-byte account or a 33-byte ecdsa key)
// in SS58 form under the given address prefix.
func EncodeSS58(prefix uint16, payload []byte) (string, error) {
	w := fast.NewWriter(make([]byte, 0, 2+len(payload)+checksumLen))
	switch {
	case prefix <= maxSimplePfx:
		_ = w.WriteByte(byte(prefix))
	case prefix <= maxFullPfx:
		_ = w.WriteByte(byte((prefix&0b1111_1100)>>2) | 0b0100_0000)
		_ = w.WriteByte(byte(prefix>>8) | byte((prefix&0b11)<<6))
	default:
		return "", fmt.Errorf("%w: prefix %d out of range", ErrBadFormat, prefix)
	}
	_, _ = w.Write(payload)
	_, _ = w.Write(ss58Checksum(w.Bytes()))
	return base58.Encode(w.Bytes()), nil
}

// DecodeSS58 parses an SS58 string into its prefix and payload.
func DecodeSS58(s string) (uint16, []byte, error) {
	data := base58.Decode(s)
	if len(data) < 1+checksumLen {
		return 0, nil, ErrBadFormat
	}
	r := fast.NewReader(data)
	first, _ := r.ReadByte()

	var prefix uint16
	switch {
	case first <= maxSimplePfx:
		prefix = uint16(first)
	case first < 0b1000_0000:
		second, err := r.ReadByte()
		if err != nil {
			return 0, nil, ErrBadFormat
		}
		lower := (first << 2) | (second >> 6)
		upper := second & 0b0011_1111
		prefix = uint16(lower) | uint16(upper)<<8
	default:
		return 0, nil, ErrBadFormat
	}

	body := r.Position()
	if r.Remaining() <= checksumLen {
		return 0, nil, ErrBadFormat
	}
	payload, _ := r.Read(r.Remaining() - checksumLen)
	checksum, _ := r.Read(checksumLen)
	want := ss58Checksum(data[:body+len(payload)])
	if checksum[0] != want[0] || checksum[1] != want[1] {
		return 0, nil, ErrBadChecksum
	}
	return prefix, append([]byte(nil), payload...), nil
}
