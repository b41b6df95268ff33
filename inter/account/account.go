// Package account defines the on-chain account identity: a 32-byte value
// derived from a public key, rendered as SS58 in chain specifications.
package account

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/blake2b"

	"github.com/octopus-appchains/debio-node/inter/rolekey"
)

// Size is the byte length of an ID.
const Size = 32

// ID is an account identity. Equality is byte equality.
type ID [Size]byte

// ErrInvalidLiteral is returned for account literals that are neither hex nor SS58.
var ErrInvalidLiteral = errors.New("invalid account literal")

// FromPublic converts a public key into the account it controls. sr25519 and
// ed25519 keys are their own account; ecdsa keys are hashed with blake2b-256.
func FromPublic(pk rolekey.PubKey) (ID, error) {
	if err := pk.Validate(); err != nil {
		return ID{}, err
	}
	switch pk.Type {
	case rolekey.Types.Ecdsa:
		return ID(blake2b.Sum256(pk.Raw)), nil
	default:
		var id ID
		copy(id[:], pk.Raw)
		return id, nil
	}
}

// FromHex parses a hex literal with or without the 0x prefix.
func FromHex(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w %q: %v", ErrInvalidLiteral, s, err)
	}
	if len(raw) != Size {
		return ID{}, fmt.Errorf("%w %q: want %d bytes, got %d", ErrInvalidLiteral, s, Size, len(raw))
	}
	var id ID
	copy(id[:], raw)
	return id, nil
}

// MustFromHex is FromHex for compile-time literals; it panics on malformed input.
func MustFromHex(s string) ID {
	id, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromSS58 parses an SS58 address carrying a 32-byte payload.
func FromSS58(s string) (ID, error) {
	_, payload, err := DecodeSS58(strings.TrimSpace(s))
	if err != nil {
		return ID{}, fmt.Errorf("%w %q: %v", ErrInvalidLiteral, s, err)
	}
	if len(payload) != Size {
		return ID{}, fmt.Errorf("%w %q: payload is %d bytes", ErrInvalidLiteral, s, len(payload))
	}
	var id ID
	copy(id[:], payload)
	return id, nil
}

// Parse accepts either a hex literal or an SS58 address.
func Parse(s string) (ID, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") || len(t) == 2*Size {
		return FromHex(t)
	}
	return FromSS58(t)
}

// Hex returns the 0x-prefixed hex form.
func (id ID) Hex() string {
	return hexutil.Encode(id[:])
}

// String returns the SS58 address under the generic prefix.
func (id ID) String() string {
	s, _ := EncodeSS58(GenericPrefix, id[:])
	return s
}

// Bytes returns a copy of the identity bytes.
func (id ID) Bytes() []byte {
	return append([]byte(nil), id[:]...)
}

// Compare orders identities bytewise.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler (SS58).
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (SS58 or hex).
func (id *ID) UnmarshalText(input []byte) error {
	res, err := Parse(string(input))
	if err != nil {
		return err
	}
	*id = res
	return nil
}
